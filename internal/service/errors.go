package service

import "errors"

// Error categories surfaced to handlers. Wrap with fmt.Errorf("%w: ...") and
// classify with errors.Is.
var (
	// ErrValidation marks caller mistakes: missing required fields, unknown
	// enum literals, bad file type or size.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a missing record or an empty filtered export set.
	ErrNotFound = errors.New("not found")

	// ErrImport marks an unusable import spreadsheet. The whole batch is
	// aborted, nothing is committed.
	ErrImport = errors.New("import failed")

	// ErrStorage marks a failed attachment file write or delete.
	ErrStorage = errors.New("storage failed")
)
