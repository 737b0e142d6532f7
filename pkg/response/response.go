package response

import (
	"errors"
)

type Error struct {
	Code int
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Is(target error) bool {
	var t *Error
	ok := errors.As(target, &t)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Err.Error() == t.Err.Error()
}

func NewError(code int, err string) error {
	return &Error{code, errors.New(err)}
}

// FieldError names a single request field that failed validation.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError carries every field failure found in one request.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msg := "validation failed: " + e.Fields[0].Field + " " + e.Fields[0].Reason
	for _, f := range e.Fields[1:] {
		msg += ", " + f.Field + " " + f.Reason
	}
	return msg
}

func NewValidationError(fields ...FieldError) error {
	return &ValidationError{Fields: fields}
}
