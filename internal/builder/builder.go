// Package builder implements the multi-step resume wizard: a draft
// ResumeDocument carried across an ordered sequence of steps, with
// field-array operations for the repeatable sections.
package builder

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/resume-studio/internal/types"
)

// Step identifies one wizard step.
type Step int

// Wizard steps, in order. Preview has no advance target.
const (
	StepPersonal Step = iota
	StepExperience
	StepSkills
	StepPreview

	lastStep = StepPreview
)

// String returns the display name of the step.
func (s Step) String() string {
	switch s {
	case StepPersonal:
		return "Personal"
	case StepExperience:
		return "Experience"
	case StepSkills:
		return "Skills"
	case StepPreview:
		return "Preview"
	default:
		return fmt.Sprintf("Step(%d)", int(s))
	}
}

// MaxPhotoBytes is the upload limit for profile pictures.
const MaxPhotoBytes = 2 << 20 // 2 MiB

// ErrPhotoTooLarge indicates the uploaded photo exceeds MaxPhotoBytes.
type ErrPhotoTooLarge struct {
	Size int
}

func (e *ErrPhotoTooLarge) Error() string {
	return fmt.Sprintf("photo too large: %d bytes (limit %d)", e.Size, MaxPhotoBytes)
}

// ErrPhotoNotImage indicates the uploaded file is not an image.
type ErrPhotoNotImage struct {
	ContentType string
}

func (e *ErrPhotoNotImage) Error() string {
	return fmt.Sprintf("unsupported photo content type: %s (image/* required)", e.ContentType)
}

// Builder holds one draft document and the active wizard step.
// All operations are synchronous and total: invalid indices and duplicate
// skills are silently absorbed. Photo validation is the only operation
// with an explicit rejection path. Builder is not safe for concurrent use;
// callers serialize access (see Session).
type Builder struct {
	doc    types.ResumeDocument
	step   Step
	rowIDs []uuid.UUID // stable per-row identities for experience entries
}

// New returns a builder at the Personal step with an all-empty document.
func New() *Builder {
	return &Builder{step: StepPersonal}
}

// Step returns the active wizard step.
func (b *Builder) Step() Step {
	return b.step
}

// Advance moves to the next step, clamped at Preview.
func (b *Builder) Advance() {
	if b.step < lastStep {
		b.step++
	}
}

// Retreat moves to the previous step, clamped at Personal.
func (b *Builder) Retreat() {
	if b.step > StepPersonal {
		b.step--
	}
}

// GoTo jumps directly to a step, clamped to the valid range.
// Used after loading a saved record to land on Preview.
func (b *Builder) GoTo(step Step) {
	if step < StepPersonal {
		step = StepPersonal
	}
	if step > lastStep {
		step = lastStep
	}
	b.step = step
}

// SetPersonal updates the identity fields of the draft in one call.
func (b *Builder) SetPersonal(fullName, email, phone, location, linkedin, website, targetRole, summary string) {
	b.doc.FullName = fullName
	b.doc.Email = email
	b.doc.Phone = phone
	b.doc.Location = location
	b.doc.LinkedIn = linkedin
	b.doc.Website = website
	b.doc.TargetRole = targetRole
	b.doc.Summary = summary
}

// AppendExperience appends a zero-valued experience entry and returns the
// stable row identity the view layer keys the new row by.
func (b *Builder) AppendExperience() uuid.UUID {
	id := uuid.New()
	b.doc.Experience = append(b.doc.Experience, types.ExperienceEntry{})
	b.rowIDs = append(b.rowIDs, id)
	return id
}

// SetExperience replaces the entry at index. Out-of-range is a no-op.
func (b *Builder) SetExperience(index int, entry types.ExperienceEntry) {
	if index < 0 || index >= len(b.doc.Experience) {
		return
	}
	entry.BulletPoints = append([]string(nil), entry.BulletPoints...)
	b.doc.Experience[index] = entry
}

// RemoveExperience removes the entry at index. Out-of-range is a no-op.
func (b *Builder) RemoveExperience(index int) {
	if index < 0 || index >= len(b.doc.Experience) {
		return
	}
	b.doc.Experience = append(b.doc.Experience[:index], b.doc.Experience[index+1:]...)
	b.rowIDs = append(b.rowIDs[:index], b.rowIDs[index+1:]...)
}

// ExperienceRowID returns the stable identity of the row at index, or
// uuid.Nil when out of range.
func (b *Builder) ExperienceRowID(index int) uuid.UUID {
	if index < 0 || index >= len(b.rowIDs) {
		return uuid.Nil
	}
	return b.rowIDs[index]
}

// SetEducation replaces the education section. The slice is copied.
func (b *Builder) SetEducation(entries []types.EducationEntry) {
	b.doc.Education = append([]types.EducationEntry(nil), entries...)
}

// SetProjects replaces the projects section. The slice is copied.
func (b *Builder) SetProjects(entries []types.ProjectEntry) {
	b.doc.Projects = append([]types.ProjectEntry(nil), entries...)
}

// AddSkill trims the candidate and appends it unless empty or already
// present. Matching is exact and case-sensitive, so "Go" and "go" are
// distinct skills. Insertion order is preserved.
func (b *Builder) AddSkill(candidate string) {
	skill := strings.TrimSpace(candidate)
	if skill == "" {
		return
	}
	for _, existing := range b.doc.Skills {
		if existing == skill {
			return
		}
	}
	b.doc.Skills = append(b.doc.Skills, skill)
}

// RemoveSkill removes the first exact match. Absent values are a no-op.
func (b *Builder) RemoveSkill(value string) {
	for i, existing := range b.doc.Skills {
		if existing == value {
			b.doc.Skills = append(b.doc.Skills[:i], b.doc.Skills[i+1:]...)
			return
		}
	}
}

// Skills returns a copy of the current skill list.
func (b *Builder) Skills() []string {
	return append([]string(nil), b.doc.Skills...)
}

// SetPhoto validates and stores a profile picture. The raw size must not
// exceed MaxPhotoBytes and the content type must begin with "image/".
// On rejection the draft is left unchanged.
func (b *Builder) SetPhoto(base64Blob string, rawSize int, contentType string) error {
	if rawSize > MaxPhotoBytes {
		return &ErrPhotoTooLarge{Size: rawSize}
	}
	if !strings.HasPrefix(contentType, "image/") {
		return &ErrPhotoNotImage{ContentType: contentType}
	}
	b.doc.ProfilePicture = base64Blob
	return nil
}

// ClearPhoto removes the profile picture.
func (b *Builder) ClearPhoto() {
	b.doc.ProfilePicture = ""
}

// Snapshot returns the draft by value. The result shares no slices with
// the builder, so a failed remote call can never corrupt the draft.
func (b *Builder) Snapshot() types.ResumeDocument {
	return b.doc.Clone()
}

// Load replaces the entire draft with an externally supplied document
// (a saved version or an AI-parsed upload) and jumps to the given step.
func (b *Builder) Load(doc types.ResumeDocument, step Step) {
	b.doc = doc.Clone()
	b.rowIDs = make([]uuid.UUID, len(b.doc.Experience))
	for i := range b.rowIDs {
		b.rowIDs[i] = uuid.New()
	}
	b.GoTo(step)
}
