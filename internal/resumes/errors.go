package resumes

import (
	"fmt"

	"github.com/google/uuid"
)

// ErrNotSignedIn indicates no authenticated owner was supplied. The
// operation was a no-op; the caller should prompt for sign-in and retry.
type ErrNotSignedIn struct{}

func (e *ErrNotSignedIn) Error() string {
	return "must be signed in to save resumes"
}

// ErrRecordNotFound indicates the record does not exist or belongs to
// another owner.
type ErrRecordNotFound struct {
	RecordID uuid.UUID
}

func (e *ErrRecordNotFound) Error() string {
	return fmt.Sprintf("resume record not found: %s", e.RecordID)
}

// ErrStore indicates the underlying record store rejected the operation.
// State is unchanged; the caller may retry.
type ErrStore struct {
	Op    string
	Cause error
}

func (e *ErrStore) Error() string {
	return fmt.Sprintf("record store %s failed: %v", e.Op, e.Cause)
}

func (e *ErrStore) Unwrap() error {
	return e.Cause
}
