package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports that a referenced car, entry or summary is absent.
	ErrNotFound = errors.New("not found")

	// ErrConflict reports that a by-date lookup matched more than one row.
	// The data model expects at most one; callers should disambiguate by id
	// and the duplicate rows deserve investigation.
	ErrConflict = errors.New("multiple rows match, disambiguate by id")

	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidMonth  = errors.New("month must be between 1 and 12")
)

// ValidationError carries field-level detail for malformed input. It is
// always recoverable and scoped to a single request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
