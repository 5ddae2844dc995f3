package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation  = "VALIDATION_ERROR"
	ErrCodeNotFound    = "NOT_FOUND"
	ErrCodeUnavailable = "UNAVAILABLE"
	ErrCodeTimeout     = "TIMEOUT"
	ErrCodeConflict    = "CONFLICT"
	ErrCodeInternal    = "INTERNAL_ERROR"
)

// Validation errors
var (
	ErrInvalidContentClass = NewDomainError(ErrCodeValidation, "invalid content class")
	ErrInvalidDifficulty   = NewDomainError(ErrCodeValidation, "invalid difficulty")
	ErrEmptyQuery          = NewDomainError(ErrCodeValidation, "query cannot be empty")
	ErrMissingEmbedding    = NewDomainError(ErrCodeValidation, "content item has no embedding")
)

// Not found errors
var (
	ErrContentNotFound     = NewDomainError(ErrCodeNotFound, "content item not found")
	ErrLessonNotFound      = NewDomainError(ErrCodeNotFound, "lesson not found")
	ErrSearchQueryNotFound = NewDomainError(ErrCodeNotFound, "search query record not found")
)

// Availability and deadline errors. Interactive callers must be able to tell
// "search temporarily unavailable" apart from an empty result list.
var (
	ErrEmbeddingUnavailable = NewDomainError(ErrCodeUnavailable, "embedding provider unavailable")
	ErrIndexUnavailable     = NewDomainError(ErrCodeUnavailable, "vector index unavailable")
	ErrQueryTimeout         = NewDomainError(ErrCodeTimeout, "query deadline exceeded")
)

// Conflict errors
var (
	ErrClickAlreadyRecorded = NewDomainError(ErrCodeConflict, "search result click already recorded")
)
