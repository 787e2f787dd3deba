// Package resumes implements saving, loading and version-chaining of
// resume records. Caller identity is an explicit parameter on every
// operation so the service is testable without a real auth subsystem.
package resumes

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/resume-studio/internal/db"
	"github.com/jonathan/resume-studio/internal/types"
)

// RecordStore is the owner-scoped record store the service runs against.
// *db.DB satisfies it; tests use an in-memory fake.
type RecordStore interface {
	InsertResume(ctx context.Context, r *db.ResumeRow) (*db.ResumeRow, error)
	UpdateResume(ctx context.Context, id, userID uuid.UUID, title string, content []byte, industry, templateName *string) (*db.ResumeRow, error)
	GetResume(ctx context.Context, id, userID uuid.UUID) (*db.ResumeRow, error)
	ListResumesByUser(ctx context.Context, userID uuid.UUID) ([]db.ResumeRow, error)
	ListVersions(ctx context.Context, rootID, userID uuid.UUID) ([]db.ResumeRow, error)
}

// Service maps a draft document plus version intent onto record-store operations.
type Service struct {
	store RecordStore
}

// NewService creates a Service backed by the given store.
func NewService(store RecordStore) *Service {
	return &Service{store: store}
}

// SaveOptions carries the caller-held state that selects the save branch.
type SaveOptions struct {
	// CurrentID is the client-remembered record a plain save updates in
	// place. uuid.Nil means no record is known yet.
	CurrentID uuid.UUID
	// AsNewVersion requests an appended version chained to CurrentID
	// instead of an in-place update.
	AsNewVersion bool
	Industry     string
	TemplateName string
}

// SaveResult is the outcome of a save: the record that is now current
// plus the owner's full record list, newest-first by updated_at.
type SaveResult struct {
	Record  types.SavedResumeRecord   `json:"record"`
	Records []types.SavedResumeRecord `json:"records"`
}

// Save persists the document according to the version intent:
//
//   - no current record known: insert version 1 with no parent
//   - current record known, plain save: update content and title in place
//   - current record known, new version: insert version parent+1 chained
//     to the current record
//
// The returned record's ID becomes the caller's current id going forward.
// A failed save leaves both the store and the caller's draft untouched.
func (s *Service) Save(ctx context.Context, owner uuid.UUID, doc types.ResumeDocument, opts SaveOptions) (*SaveResult, error) {
	if owner == uuid.Nil {
		return nil, &ErrNotSignedIn{}
	}

	content, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	title := types.RecordTitle(&doc)
	industry := optional(opts.Industry)
	templateName := optional(opts.TemplateName)

	var saved *db.ResumeRow
	switch {
	case opts.CurrentID == uuid.Nil:
		saved, err = s.store.InsertResume(ctx, &db.ResumeRow{
			UserID:        owner,
			Title:         title,
			Content:       content,
			VersionNumber: 1,
			Industry:      industry,
			TemplateName:  templateName,
		})
		if err != nil {
			return nil, &ErrStore{Op: "insert", Cause: err}
		}

	case !opts.AsNewVersion:
		saved, err = s.store.UpdateResume(ctx, opts.CurrentID, owner, title, content, industry, templateName)
		if err != nil {
			return nil, &ErrStore{Op: "update", Cause: err}
		}
		if saved == nil {
			return nil, &ErrRecordNotFound{RecordID: opts.CurrentID}
		}

	default:
		parent, err := s.store.GetResume(ctx, opts.CurrentID, owner)
		if err != nil {
			return nil, &ErrStore{Op: "read parent", Cause: err}
		}
		if parent == nil {
			return nil, &ErrRecordNotFound{RecordID: opts.CurrentID}
		}
		parentID := parent.ID
		saved, err = s.store.InsertResume(ctx, &db.ResumeRow{
			UserID:         owner,
			Title:          title,
			Content:        content,
			VersionNumber:  parent.VersionNumber + 1,
			ParentResumeID: &parentID,
			Industry:       industry,
			TemplateName:   templateName,
		})
		if err != nil {
			return nil, &ErrStore{Op: "insert version", Cause: err}
		}
	}

	record, err := toRecord(saved)
	if err != nil {
		return nil, err
	}

	rows, err := s.store.ListResumesByUser(ctx, owner)
	if err != nil {
		return nil, &ErrStore{Op: "list", Cause: err}
	}
	records, err := toRecords(rows)
	if err != nil {
		return nil, err
	}

	return &SaveResult{Record: *record, Records: records}, nil
}

// List returns the owner's records, newest-first by updated_at.
func (s *Service) List(ctx context.Context, owner uuid.UUID) ([]types.SavedResumeRecord, error) {
	if owner == uuid.Nil {
		return nil, &ErrNotSignedIn{}
	}
	rows, err := s.store.ListResumesByUser(ctx, owner)
	if err != nil {
		return nil, &ErrStore{Op: "list", Cause: err}
	}
	return toRecords(rows)
}

// ListVersions returns the record with rootID plus its immediate children,
// ordered by version_number descending. Lookup is deliberately one level
// deep: deeper lineages are never walked.
func (s *Service) ListVersions(ctx context.Context, owner, rootID uuid.UUID) ([]types.SavedResumeRecord, error) {
	if owner == uuid.Nil {
		return nil, &ErrNotSignedIn{}
	}
	rows, err := s.store.ListVersions(ctx, rootID, owner)
	if err != nil {
		return nil, &ErrStore{Op: "list versions", Cause: err}
	}
	return toRecords(rows)
}

// Load fetches one record by id. A record owned by another user reports
// not found, matching the store's row-level scoping.
func (s *Service) Load(ctx context.Context, owner, id uuid.UUID) (*types.SavedResumeRecord, error) {
	if owner == uuid.Nil {
		return nil, &ErrNotSignedIn{}
	}
	row, err := s.store.GetResume(ctx, id, owner)
	if err != nil {
		return nil, &ErrStore{Op: "load", Cause: err}
	}
	if row == nil {
		return nil, &ErrRecordNotFound{RecordID: id}
	}
	return toRecord(row)
}

func toRecord(r *db.ResumeRow) (*types.SavedResumeRecord, error) {
	var doc types.ResumeDocument
	if err := json.Unmarshal(r.Content, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode stored document %s: %w", r.ID, err)
	}
	rec := &types.SavedResumeRecord{
		ID:             r.ID,
		UserID:         r.UserID,
		Title:          r.Title,
		Content:        doc,
		VersionNumber:  r.VersionNumber,
		ParentResumeID: r.ParentResumeID,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
	if r.Industry != nil {
		rec.Industry = *r.Industry
	}
	if r.TemplateName != nil {
		rec.TemplateName = *r.TemplateName
	}
	return rec, nil
}

func toRecords(rows []db.ResumeRow) ([]types.SavedResumeRecord, error) {
	out := make([]types.SavedResumeRecord, 0, len(rows))
	for i := range rows {
		rec, err := toRecord(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
