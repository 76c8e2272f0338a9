package domain

import "errors"

var (
	// ErrNotFound is returned when a referenced ticket, agent state, or user
	// does not exist. Surfaced to the caller; never retried.
	ErrNotFound = errors.New("resource not found")
	// ErrPreconditionFailed signals an operation against stale state, such
	// as assigning an already-assigned ticket or releasing a FREE agent.
	// Callers must re-fetch before retrying.
	ErrPreconditionFailed = errors.New("precondition failed")
	// ErrConflict signals a lost race: a concurrent transition invalidated a
	// precondition between read and commit. Recoverable by retrying with
	// fresh data, bounded to a small retry count.
	ErrConflict = errors.New("concurrent transition conflict")
	// ErrCategoryMismatch marks an assignment whose ticket category and
	// agent role category disagree. An integration error, never retried.
	ErrCategoryMismatch = errors.New("service category mismatch")
	// ErrStorageUnavailable wraps persistence-layer failures passed through
	// unmodified; the engine itself never retries them.
	ErrStorageUnavailable = errors.New("storage unavailable")

	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
