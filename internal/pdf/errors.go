package pdf

import (
	"errors"
	"fmt"
)

// ErrorType categorises failures while filling a template.
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeTemplateUnreadable
	ErrorTypeFieldMissing
	ErrorTypeFieldType
	ErrorTypeImageInvalid
	ErrorTypePageOutOfRange
	ErrorTypeWriteFailed
)

// String returns a string representation of the ErrorType
func (et ErrorType) String() string {
	switch et {
	case ErrorTypeTemplateUnreadable:
		return "TEMPLATE_UNREADABLE"
	case ErrorTypeFieldMissing:
		return "FIELD_MISSING"
	case ErrorTypeFieldType:
		return "FIELD_TYPE"
	case ErrorTypeImageInvalid:
		return "IMAGE_INVALID"
	case ErrorTypePageOutOfRange:
		return "PAGE_OUT_OF_RANGE"
	case ErrorTypeWriteFailed:
		return "WRITE_FAILED"
	default:
		return "UNKNOWN"
	}
}

// Recoverable reports whether an export can continue after this error.
// Field and image problems only cost the affected value; an unreadable
// template or a failed write loses the whole document.
func (et ErrorType) Recoverable() bool {
	switch et {
	case ErrorTypeFieldMissing, ErrorTypeFieldType, ErrorTypeImageInvalid, ErrorTypePageOutOfRange:
		return true
	default:
		return false
	}
}

// Error is a failure while reading, filling or writing a template.
type Error struct {
	Type    ErrorType
	Message string
	Field   string
	Page    int
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Type, e.Message)
	if e.Field != "" {
		msg += fmt.Sprintf(" (field %q)", e.Field)
	}
	if e.Page > 0 {
		msg += fmt.Sprintf(" (page %d)", e.Page)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Recoverable reports whether the export can continue.
func (e *Error) Recoverable() bool {
	return e.Type.Recoverable()
}

// IsRecoverable reports whether every error in err is a recoverable *Error.
// A nil error is recoverable.
func IsRecoverable(err error) bool {
	if err == nil {
		return true
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			if !IsRecoverable(e) {
				return false
			}
		}
		return true
	}
	var pdfErr *Error
	return errors.As(err, &pdfErr) && pdfErr.Recoverable()
}

func newError(t ErrorType, message string, err error) *Error {
	return &Error{Type: t, Message: message, Err: err}
}

func fieldError(t ErrorType, field, message string) *Error {
	return &Error{Type: t, Message: message, Field: field}
}
