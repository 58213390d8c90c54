package board

import "errors"

var (
	// ErrNotConfigured means the backend credential or endpoint is missing.
	ErrNotConfigured = errors.New("document store not configured")
	// ErrDocumentNotFound is returned by a DocumentStore when the named
	// document has never been written.
	ErrDocumentNotFound = errors.New("document not found")

	ErrUnknownBoard         = errors.New("unknown board")
	ErrNotFound             = errors.New("record not found")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrInvalidRecord        = errors.New("invalid record")
)
