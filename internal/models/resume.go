package models

import (
	"time"

	"github.com/google/uuid"
)

// Resume is an uploaded résumé file tied to a contact
type Resume struct {
	ID         string `json:"id"` // UUID
	Phone      string `json:"phone"`
	Filename   string `json:"filename"`
	MimeType   string `json:"mime_type"`
	Data       []byte `json:"-"` // EXCLUDED from JSON - raw file bytes
	ReceivedAt int64  `json:"received_at"`
}

// NewResume creates a résumé record with a generated UUID and timestamp
func NewResume(phone, filename, mimeType string, data []byte) *Resume {
	return &Resume{
		ID:         uuid.New().String(),
		Phone:      phone,
		Filename:   filename,
		MimeType:   mimeType,
		Data:       data,
		ReceivedAt: time.Now().Unix(),
	}
}
