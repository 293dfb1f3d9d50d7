package db

import (
	"database/sql"
	"fmt"

	"github.com/bazarbekovic131/wahr-chatbot/internal/models"
)

// ResumeRepository defines the interface for résumé file storage
type ResumeRepository interface {
	Create(resume *models.Resume) error
	GetByID(id string) (*models.Resume, error)
	GetLatestByPhone(phone string) (*models.Resume, error)
}

// resumeRepository implements ResumeRepository interface
type resumeRepository struct {
	db *sql.DB
}

// NewResumeRepository creates a new ResumeRepository
func NewResumeRepository(db *sql.DB) ResumeRepository {
	return &resumeRepository{db: db}
}

// Create stores a résumé file
func (r *resumeRepository) Create(resume *models.Resume) error {
	if resume == nil {
		return fmt.Errorf("resume cannot be nil")
	}
	if resume.ID == "" {
		return fmt.Errorf("resume ID cannot be empty")
	}
	if resume.Phone == "" {
		return fmt.Errorf("resume phone cannot be empty")
	}
	if len(resume.Data) == 0 {
		return fmt.Errorf("resume data cannot be empty")
	}

	_, err := r.db.Exec(
		"INSERT INTO resumes (id, phone, filename, mime_type, data, received_at) VALUES (?, ?, ?, ?, ?, ?)",
		resume.ID,
		resume.Phone,
		resume.Filename,
		resume.MimeType,
		resume.Data,
		resume.ReceivedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create resume: %w", err)
	}

	return nil
}

// GetByID retrieves a résumé by ID, or nil when unknown
func (r *resumeRepository) GetByID(id string) (*models.Resume, error) {
	if id == "" {
		return nil, fmt.Errorf("resume ID cannot be empty")
	}

	row := r.db.QueryRow(
		"SELECT id, phone, filename, mime_type, data, received_at FROM resumes WHERE id = ?",
		id,
	)

	return scanResume(row)
}

// GetLatestByPhone retrieves the contact's most recent résumé, or nil
func (r *resumeRepository) GetLatestByPhone(phone string) (*models.Resume, error) {
	if phone == "" {
		return nil, fmt.Errorf("phone cannot be empty")
	}

	row := r.db.QueryRow(
		"SELECT id, phone, filename, mime_type, data, received_at FROM resumes WHERE phone = ? ORDER BY received_at DESC LIMIT 1",
		phone,
	)

	return scanResume(row)
}

func scanResume(row rowScanner) (*models.Resume, error) {
	resume := &models.Resume{}
	var mimeType sql.NullString
	err := row.Scan(
		&resume.ID,
		&resume.Phone,
		&resume.Filename,
		&mimeType,
		&resume.Data,
		&resume.ReceivedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}

	resume.MimeType = mimeType.String
	return resume, nil
}
