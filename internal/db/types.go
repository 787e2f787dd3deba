package db

import (
	"time"

	"github.com/google/uuid"
)

// User represents a user account row
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"-"` // Never serialize to JSON
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ResumeRow is one row of the resumes table: a resume document plus its
// version-chain metadata. Content is the raw JSONB document.
type ResumeRow struct {
	ID             uuid.UUID  `json:"id"`
	UserID         uuid.UUID  `json:"user_id"`
	Title          string     `json:"title"`
	Content        []byte     `json:"content"`
	VersionNumber  int        `json:"version_number"`
	ParentResumeID *uuid.UUID `json:"parent_resume_id,omitempty"`
	Industry       *string    `json:"industry,omitempty"`
	TemplateName   *string    `json:"template_name,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
