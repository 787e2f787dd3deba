// Package types provides type definitions for structured data used throughout the resume-studio system.
package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ExperienceEntry represents one position in the experience section.
// EndDate is empty for a current position. When BulletPoints is non-empty
// it supersedes Description for rendering.
type ExperienceEntry struct {
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date,omitempty"`
	Description  string   `json:"description"`
	BulletPoints []string `json:"bullet_points,omitempty"`
}

// Current reports whether the entry describes a present-day position.
func (e *ExperienceEntry) Current() bool {
	return e.EndDate == "" || e.EndDate == "Present"
}

// EducationEntry represents one entry in the education section.
type EducationEntry struct {
	Degree         string `json:"degree"`
	School         string `json:"school"`
	GraduationYear string `json:"graduation_year"`
}

// ProjectEntry represents an optional project section entry.
type ProjectEntry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ResumeDocument is the central entity: the structured resume a user builds,
// submits for AI enrichment, and optionally persists as a SavedResumeRecord.
// Field names follow the external AI service contract.
type ResumeDocument struct {
	FullName       string            `json:"full_name" validate:"required"`
	Email          string            `json:"email" validate:"omitempty,email"`
	Phone          string            `json:"phone"`
	Location       string            `json:"location"`
	LinkedIn       string            `json:"linkedin,omitempty"`
	Website        string            `json:"website,omitempty"`
	TargetRole     string            `json:"target_role" validate:"required"`
	Summary        string            `json:"summary,omitempty"`
	Skills         []string          `json:"skills"`
	SoftSkills     []string          `json:"soft_skills,omitempty"`
	ProfilePicture string            `json:"profile_picture,omitempty"` // base64-encoded image
	Experience     []ExperienceEntry `json:"experience"`
	Education      []EducationEntry  `json:"education"`
	Projects       []ProjectEntry    `json:"projects,omitempty"`
	Certifications []string          `json:"certifications,omitempty"`
}

// Validate validates the ResumeDocument for submission using the validator.
func (d *ResumeDocument) Validate() error {
	validate := validator.New()
	return validate.Struct(d)
}

// Clone returns a deep copy of the document. Slices are copied so the
// result never aliases the receiver.
func (d *ResumeDocument) Clone() ResumeDocument {
	out := *d
	out.Skills = append([]string(nil), d.Skills...)
	out.SoftSkills = append([]string(nil), d.SoftSkills...)
	out.Certifications = append([]string(nil), d.Certifications...)
	out.Education = append([]EducationEntry(nil), d.Education...)
	out.Projects = append([]ProjectEntry(nil), d.Projects...)
	out.Experience = make([]ExperienceEntry, len(d.Experience))
	for i, e := range d.Experience {
		e.BulletPoints = append([]string(nil), e.BulletPoints...)
		out.Experience[i] = e
	}
	return out
}

// SavedResumeRecord wraps a ResumeDocument with ownership, a generated title
// and version-chain metadata. ParentResumeID is nil for a root record and,
// once set, never changes: chains only grow forward.
type SavedResumeRecord struct {
	ID             uuid.UUID      `json:"id"`
	UserID         uuid.UUID      `json:"user_id"`
	Title          string         `json:"title"`
	Content        ResumeDocument `json:"content"`
	VersionNumber  int            `json:"version_number"`
	ParentResumeID *uuid.UUID     `json:"parent_resume_id,omitempty"`
	Industry       string         `json:"industry,omitempty"`
	TemplateName   string         `json:"template_name,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// RecordTitle derives the stored title from the document contents.
// Falls back to placeholders when the name or role is missing.
func RecordTitle(doc *ResumeDocument) string {
	name := doc.FullName
	if name == "" {
		name = "Untitled"
	}
	role := doc.TargetRole
	if role == "" {
		role = "Resume"
	}
	return name + " - " + role
}
