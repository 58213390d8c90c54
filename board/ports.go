package board

import "context"

// DocumentStore is a remote whole-document store. Each board owns one named
// document which is always read and replaced in full.
type DocumentStore interface {
	// Fetch returns the raw document, or ErrDocumentNotFound if it was never written.
	Fetch(ctx context.Context, name string) ([]byte, error)
	// Replace overwrites the document.
	Replace(ctx context.Context, name string, data []byte) error
}

// Cache is the local fallback store: one slot per key, last write wins.
type Cache interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, data []byte) error
}

// Observer receives board changes and non-fatal failures.
type Observer interface {
	// Changed is called after every optimistic state change with a copy of the
	// new collection.
	Changed(board string, items any)
	// Failed carries a user-facing notice for a load or save failure.
	Failed(board, message string)
}

type nopObserver struct{}

func (nopObserver) Changed(string, any) {}

func (nopObserver) Failed(string, string) {}

// Confirmer gates destructive operations.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Confirmed approves every prompt.
var Confirmed Confirmer = ConfirmFunc(func(string) bool { return true })

// Declined rejects every prompt.
var Declined Confirmer = ConfirmFunc(func(string) bool { return false })
