package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const resumeColumns = `id, user_id, title, content, version_number, parent_resume_id, industry, template_name, created_at, updated_at`

func scanResume(row pgx.Row) (*ResumeRow, error) {
	var r ResumeRow
	err := row.Scan(&r.ID, &r.UserID, &r.Title, &r.Content, &r.VersionNumber,
		&r.ParentResumeID, &r.Industry, &r.TemplateName, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// InsertResume inserts a new resume record and returns the stored row.
// ParentResumeID and VersionNumber are taken from the input as-is: the
// versioning rules live in the resumes service, not here.
func (db *DB) InsertResume(ctx context.Context, r *ResumeRow) (*ResumeRow, error) {
	row := db.pool.QueryRow(ctx,
		`INSERT INTO resumes (user_id, title, content, version_number, parent_resume_id, industry, template_name)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+resumeColumns,
		r.UserID, r.Title, r.Content, r.VersionNumber, r.ParentResumeID, r.Industry, r.TemplateName,
	)
	inserted, err := scanResume(row)
	if err != nil {
		return nil, fmt.Errorf("failed to insert resume: %w", err)
	}
	return inserted, nil
}

// UpdateResume updates title, content and classification tags in place.
// version_number and parent_resume_id are never touched by an update.
func (db *DB) UpdateResume(ctx context.Context, id, userID uuid.UUID, title string, content []byte, industry, templateName *string) (*ResumeRow, error) {
	row := db.pool.QueryRow(ctx,
		`UPDATE resumes
		 SET title = $3, content = $4, industry = $5, template_name = $6, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+resumeColumns,
		id, userID, title, content, industry, templateName,
	)
	updated, err := scanResume(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update resume: %w", err)
	}
	return updated, nil
}

// GetResume retrieves one record by id, scoped to the owner.
// A record owned by someone else is indistinguishable from a missing one.
func (db *DB) GetResume(ctx context.Context, id, userID uuid.UUID) (*ResumeRow, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	r, err := scanResume(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	return r, nil
}

// ListResumesByUser retrieves all of the owner's records, newest-first by updated_at
func (db *DB) ListResumesByUser(ctx context.Context, userID uuid.UUID) ([]ResumeRow, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE user_id = $1 ORDER BY updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	var out []ResumeRow
	for rows.Next() {
		r, err := scanResume(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		out = append(out, *r)
	}
	return out, nil
}

// ListVersions retrieves the record with id rootID plus its immediate
// children, ordered by version_number descending. Lineage lookup is one
// level deep only; grandchildren are never returned.
func (db *DB) ListVersions(ctx context.Context, rootID, userID uuid.UUID) ([]ResumeRow, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+resumeColumns+` FROM resumes
		 WHERE user_id = $2 AND (id = $1 OR parent_resume_id = $1)
		 ORDER BY version_number DESC`,
		rootID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}
	defer rows.Close()

	var out []ResumeRow
	for rows.Next() {
		r, err := scanResume(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan version: %w", err)
		}
		out = append(out, *r)
	}
	return out, nil
}
