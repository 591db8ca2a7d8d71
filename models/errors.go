package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("not found")
	ErrReference     = errors.New("referenced record does not exist")
	ErrIngestion     = errors.New("image ingestion failed")
	ErrInvalidUpload = errors.New("invalid upload")
	ErrAuth          = errors.New("admin authorization required")
)

// ValidationError lists rejected fields by name. With Reference set it also
// matches ErrReference.
type ValidationError struct {
	Fields    map[string]string
	Reference bool
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k])
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation || (e.Reference && target == ErrReference)
}

// NewValidationError builds a single-field ValidationError.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// IngestionError wraps a decode, resize or write failure in the image pipeline.
type IngestionError struct {
	Op  string
	Err error
}

func (e *IngestionError) Error() string {
	return fmt.Sprintf("image ingestion failed during %s: %v", e.Op, e.Err)
}

func (e *IngestionError) Unwrap() error { return e.Err }

func (e *IngestionError) Is(target error) bool { return target == ErrIngestion }
