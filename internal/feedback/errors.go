package feedback

import (
	"errors"
	"fmt"
)

// ErrModelUnavailable means no generation capability is configured. The call
// fails immediately; nothing retries internally.
var ErrModelUnavailable = errors.New("model provider not configured")

// ErrNotFound means the referenced feedback item does not exist.
var ErrNotFound = errors.New("feedback item not found")

// maxExcerptLen bounds how much raw model text a FormatError carries.
const maxExcerptLen = 600

// FormatError means the model's answer never reduced to a valid Analysis
// after extraction and normalization. Excerpt holds up to 600 characters of
// the offending raw text for diagnosis.
type FormatError struct {
	Excerpt string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("model response did not normalize to an analysis: %q", e.Excerpt)
}

// StoreError wraps a failed store operation.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// ValidationError rejects caller input before it reaches the store or the
// model.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
