package errors

import (
	stderrors "errors"
	"fmt"
)

// FormError represents a failure while turning an uploaded form into a table
type FormError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
	Context string    `json:"context,omitempty"`
	Err     error     `json:"-"`
}

// ErrorType represents the categories of form processing errors
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeFormRead
	ErrorTypeMissingField
	ErrorTypeUnknownQuestionType
	ErrorTypeInvalidDocument
	ErrorTypeInvalidUpload
)

// Sentinels for errors.Is. A FormError matches the sentinel of its type.
var (
	ErrFormRead            = &FormError{Type: ErrorTypeFormRead}
	ErrMissingField        = &FormError{Type: ErrorTypeMissingField}
	ErrUnknownQuestionType = &FormError{Type: ErrorTypeUnknownQuestionType}
	ErrInvalidDocument     = &FormError{Type: ErrorTypeInvalidDocument}
	ErrInvalidUpload       = &FormError{Type: ErrorTypeInvalidUpload}
)

// Error implements the error interface
func (e *FormError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Type.String(), e.Message)
	if e.Field != "" {
		msg += fmt.Sprintf(" (field %q)", e.Field)
	}
	if e.Context != "" {
		msg += ": " + e.Context
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause, if any
func (e *FormError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for this error's type
func (e *FormError) Is(target error) bool {
	t, ok := target.(*FormError)
	if !ok {
		return false
	}
	return t.Message == "" && t.Field == "" && t.Err == nil && t.Type == e.Type
}

// String returns a string representation of the ErrorType
func (et ErrorType) String() string {
	switch et {
	case ErrorTypeFormRead:
		return "FORM_READ"
	case ErrorTypeMissingField:
		return "MISSING_FIELD"
	case ErrorTypeUnknownQuestionType:
		return "UNKNOWN_QUESTION_TYPE"
	case ErrorTypeInvalidDocument:
		return "INVALID_DOCUMENT"
	case ErrorTypeInvalidUpload:
		return "INVALID_UPLOAD"
	default:
		return "UNKNOWN"
	}
}

// New creates a new FormError
func New(errorType ErrorType, message string) *FormError {
	return &FormError{
		Type:    errorType,
		Message: message,
	}
}

// Newf creates a new FormError with a formatted message
func Newf(errorType ErrorType, format string, args ...any) *FormError {
	return New(errorType, fmt.Sprintf(format, args...))
}

// Wrap wraps err as a FormError of the given type
func Wrap(errorType ErrorType, err error, message string) *FormError {
	return &FormError{
		Type:    errorType,
		Message: message,
		Err:     err,
	}
}

// WithField records the form field the error refers to
func (e *FormError) WithField(name string) *FormError {
	e.Field = name
	return e
}

// WithContext adds context to an existing FormError
func (e *FormError) WithContext(context string) *FormError {
	e.Context = context
	return e
}

// TypeOf returns the ErrorType of the first FormError in err's chain
func TypeOf(err error) ErrorType {
	var fe *FormError
	if stderrors.As(err, &fe) {
		return fe.Type
	}
	return ErrorTypeUnknown
}
