package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/bazarbekovic131/wahr-chatbot/internal/models"
)

// ContactRepository defines the interface for contact data access
type ContactRepository interface {
	Create(contact *models.Contact) error
	GetByPhone(phone string) (*models.Contact, error)
	UpdateState(phone string, state models.SurveyState) error
	MarkCompleted(phone string) error
	SetNotifications(phone string, enabled bool) error
	List(limit, offset int) ([]*models.Contact, error)
}

// contactRepository implements ContactRepository interface
type contactRepository struct {
	db *sql.DB
}

// NewContactRepository creates a new ContactRepository
func NewContactRepository(db *sql.DB) ContactRepository {
	return &contactRepository{db: db}
}

// Create inserts a contact. An existing row for the same phone is left
// untouched, mirroring create-on-first-message semantics.
func (r *contactRepository) Create(contact *models.Contact) error {
	if contact == nil {
		return fmt.Errorf("contact cannot be nil")
	}
	if contact.Phone == "" {
		return fmt.Errorf("contact phone cannot be empty")
	}
	if err := contact.State.Validate(); err != nil {
		return fmt.Errorf("invalid survey state: %w", err)
	}

	now := time.Now().Unix()
	if contact.CreatedAt == 0 {
		contact.CreatedAt = now
	}
	contact.UpdatedAt = now

	query := `
		INSERT OR IGNORE INTO contacts
			(phone, name, survey_phase, survey_step, completed_survey, wants_notifications, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		contact.Phone,
		contact.Name,
		string(contact.State.Phase),
		contact.State.Step,
		contact.CompletedSurvey,
		contact.WantsNotifications,
		contact.CreatedAt,
		contact.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}

	return nil
}

// GetByPhone retrieves a contact, or nil when the phone is unknown
func (r *contactRepository) GetByPhone(phone string) (*models.Contact, error) {
	if phone == "" {
		return nil, fmt.Errorf("phone cannot be empty")
	}

	query := `
		SELECT phone, name, survey_phase, survey_step, completed_survey, wants_notifications, created_at, updated_at
		FROM contacts
		WHERE phone = ?
	`

	contact := &models.Contact{}
	var phase string
	err := r.db.QueryRow(query, phone).Scan(
		&contact.Phone,
		&contact.Name,
		&phase,
		&contact.State.Step,
		&contact.CompletedSurvey,
		&contact.WantsNotifications,
		&contact.CreatedAt,
		&contact.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact by phone: %w", err)
	}

	contact.State.Phase = models.SurveyPhase(phase)
	return contact, nil
}

// UpdateState stores a new survey state for the contact
func (r *contactRepository) UpdateState(phone string, state models.SurveyState) error {
	if phone == "" {
		return fmt.Errorf("phone cannot be empty")
	}
	if err := state.Validate(); err != nil {
		return fmt.Errorf("invalid survey state: %w", err)
	}

	query := `
		UPDATE contacts
		SET survey_phase = ?, survey_step = ?, updated_at = ?
		WHERE phone = ?
	`

	result, err := r.db.Exec(query, string(state.Phase), state.Step, time.Now().Unix(), phone)
	if err != nil {
		return fmt.Errorf("failed to update survey state: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("contact not found")
	}

	return nil
}

// MarkCompleted moves the contact into the completed state and sets the
// completed-survey flag in one statement
func (r *contactRepository) MarkCompleted(phone string) error {
	if phone == "" {
		return fmt.Errorf("phone cannot be empty")
	}

	query := `
		UPDATE contacts
		SET survey_phase = ?, survey_step = 0, completed_survey = 1, updated_at = ?
		WHERE phone = ?
	`

	result, err := r.db.Exec(query, string(models.PhaseCompleted), time.Now().Unix(), phone)
	if err != nil {
		return fmt.Errorf("failed to mark survey completed: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("contact not found")
	}

	return nil
}

// SetNotifications toggles campaign message delivery for the contact
func (r *contactRepository) SetNotifications(phone string, enabled bool) error {
	if phone == "" {
		return fmt.Errorf("phone cannot be empty")
	}

	result, err := r.db.Exec(
		"UPDATE contacts SET wants_notifications = ?, updated_at = ? WHERE phone = ?",
		enabled, time.Now().Unix(), phone,
	)
	if err != nil {
		return fmt.Errorf("failed to update notifications flag: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("contact not found")
	}

	return nil
}

// List retrieves contacts with pagination
func (r *contactRepository) List(limit, offset int) ([]*models.Contact, error) {
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
		SELECT phone, name, survey_phase, survey_step, completed_survey, wants_notifications, created_at, updated_at
		FROM contacts
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.Query(query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []*models.Contact
	for rows.Next() {
		contact := &models.Contact{}
		var phase string
		err := rows.Scan(
			&contact.Phone,
			&contact.Name,
			&phase,
			&contact.State.Step,
			&contact.CompletedSurvey,
			&contact.WantsNotifications,
			&contact.CreatedAt,
			&contact.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contact.State.Phase = models.SurveyPhase(phase)
		contacts = append(contacts, contact)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contacts: %w", err)
	}

	return contacts, nil
}
