package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/bazarbekovic131/wahr-chatbot/internal/models"
)

// SurveyRepository defines the interface for survey response data access
type SurveyRepository interface {
	SaveAnswer(phone string, key models.AnswerKey, value string) error
	AttachResume(phone, resumeID string) error
	GetByPhone(phone string) (*models.SurveyResponse, error)
	List(limit, offset int) ([]*models.SurveyResponse, error)
	ListUnsent() ([]*models.SurveyResponse, error)
	MarkSent(phone string) error
}

// surveyRepository implements SurveyRepository interface
type surveyRepository struct {
	db *sql.DB
}

// NewSurveyRepository creates a new SurveyRepository
func NewSurveyRepository(db *sql.DB) SurveyRepository {
	return &surveyRepository{db: db}
}

// answerColumn maps an answer key to its column. The closed switch is the
// guard that keeps caller-controlled text out of SQL identifiers.
func answerColumn(key models.AnswerKey) (string, error) {
	switch key {
	case models.AnswerFullName:
		return "full_name", nil
	case models.AnswerAgeGroup:
		return "age_group", nil
	case models.AnswerEmail:
		return "email", nil
	case models.AnswerDesiredVacancy:
		return "desired_vacancy", nil
	}
	return "", fmt.Errorf("unknown answer key: %q", key)
}

// SaveAnswer upserts the contact's row and stores the answer under its column.
// Re-answering overwrites the single field, never the whole row.
func (r *surveyRepository) SaveAnswer(phone string, key models.AnswerKey, value string) error {
	if phone == "" {
		return fmt.Errorf("phone cannot be empty")
	}

	column, err := answerColumn(key)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO survey_responses (phone, %[1]s, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(phone) DO UPDATE SET %[1]s = excluded.%[1]s, updated_at = excluded.updated_at
	`, column)

	if _, err := r.db.Exec(query, phone, value, time.Now().Unix()); err != nil {
		return fmt.Errorf("failed to save survey answer: %w", err)
	}

	return nil
}

// AttachResume stores the résumé reference as the survey's terminal answer
func (r *surveyRepository) AttachResume(phone, resumeID string) error {
	if phone == "" {
		return fmt.Errorf("phone cannot be empty")
	}
	if resumeID == "" {
		return fmt.Errorf("resume ID cannot be empty")
	}

	query := `
		INSERT INTO survey_responses (phone, resume_id, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(phone) DO UPDATE SET resume_id = excluded.resume_id, updated_at = excluded.updated_at
	`

	if _, err := r.db.Exec(query, phone, resumeID, time.Now().Unix()); err != nil {
		return fmt.Errorf("failed to attach resume: %w", err)
	}

	return nil
}

// GetByPhone retrieves a contact's survey response, or nil when none exists
func (r *surveyRepository) GetByPhone(phone string) (*models.SurveyResponse, error) {
	if phone == "" {
		return nil, fmt.Errorf("phone cannot be empty")
	}

	query := `
		SELECT phone, full_name, age_group, email, desired_vacancy, resume_id, sent, updated_at
		FROM survey_responses
		WHERE phone = ?
	`

	resp, err := scanSurveyResponse(r.db.QueryRow(query, phone))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get survey response: %w", err)
	}

	return resp, nil
}

// List retrieves survey responses with pagination
func (r *surveyRepository) List(limit, offset int) ([]*models.SurveyResponse, error) {
	if limit < 0 {
		return nil, fmt.Errorf("limit cannot be negative")
	}
	if offset < 0 {
		return nil, fmt.Errorf("offset cannot be negative")
	}
	if limit == 0 {
		limit = 100
	}

	query := `
		SELECT phone, full_name, age_group, email, desired_vacancy, resume_id, sent, updated_at
		FROM survey_responses
		ORDER BY updated_at DESC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.Query(query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list survey responses: %w", err)
	}
	defer rows.Close()

	return collectSurveyResponses(rows)
}

// ListUnsent returns completed responses with a résumé that have not yet been
// forwarded to HR
func (r *surveyRepository) ListUnsent() ([]*models.SurveyResponse, error) {
	query := `
		SELECT s.phone, s.full_name, s.age_group, s.email, s.desired_vacancy, s.resume_id, s.sent, s.updated_at
		FROM survey_responses s
		INNER JOIN contacts c ON c.phone = s.phone
		WHERE s.sent = 0 AND s.resume_id IS NOT NULL AND c.completed_survey = 1
		ORDER BY s.updated_at
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list unsent survey responses: %w", err)
	}
	defer rows.Close()

	return collectSurveyResponses(rows)
}

// MarkSent flags the response as forwarded to HR
func (r *surveyRepository) MarkSent(phone string) error {
	if phone == "" {
		return fmt.Errorf("phone cannot be empty")
	}

	result, err := r.db.Exec(
		"UPDATE survey_responses SET sent = 1, updated_at = ? WHERE phone = ?",
		time.Now().Unix(), phone,
	)
	if err != nil {
		return fmt.Errorf("failed to mark survey response sent: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("survey response not found")
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSurveyResponse(row rowScanner) (*models.SurveyResponse, error) {
	resp := &models.SurveyResponse{}
	var fullName, ageGroup, email, desiredVacancy, resumeID sql.NullString
	err := row.Scan(
		&resp.Phone,
		&fullName,
		&ageGroup,
		&email,
		&desiredVacancy,
		&resumeID,
		&resp.Sent,
		&resp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	resp.FullName = fullName.String
	resp.AgeGroup = ageGroup.String
	resp.Email = email.String
	resp.DesiredVacancy = desiredVacancy.String
	resp.ResumeID = resumeID.String
	return resp, nil
}

func collectSurveyResponses(rows *sql.Rows) ([]*models.SurveyResponse, error) {
	var responses []*models.SurveyResponse
	for rows.Next() {
		resp, err := scanSurveyResponse(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan survey response: %w", err)
		}
		responses = append(responses, resp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating survey responses: %w", err)
	}

	return responses, nil
}
