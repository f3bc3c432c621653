// Package form turns submitted HTML form values into typed, validated input
// for the auth and todo services.
package form

import (
	"errors"
	"fmt"
	"strings"
)

// FieldError is a validation failure attached to one form field.
type FieldError struct {
	Field   string
	Message string
}

func (fe FieldError) Error() string {
	return fmt.Sprintf("%s: %s", fe.Field, fe.Message)
}

// ValidationError collects every field error found in one submission.
type ValidationError struct {
	Errors []FieldError
}

// Error implements the error interface.
func (ve *ValidationError) Error() string {
	if len(ve.Errors) == 0 {
		return "validation error"
	}
	msgs := make([]string, 0, len(ve.Errors))
	for _, fe := range ve.Errors {
		msgs = append(msgs, fe.Error())
	}
	return "validation error: " + strings.Join(msgs, "; ")
}

// Add records a message for field.
func (ve *ValidationError) Add(field, message string) {
	ve.Errors = append(ve.Errors, FieldError{Field: field, Message: message})
}

// Field returns the first message recorded for name, or "".
// Templates call it to place the message next to the input.
func (ve *ValidationError) Field(name string) string {
	if ve == nil {
		return ""
	}
	for _, fe := range ve.Errors {
		if fe.Field == name {
			return fe.Message
		}
	}
	return ""
}

// HasErrors reports whether any field failed.
func (ve *ValidationError) HasErrors() bool {
	return ve != nil && len(ve.Errors) > 0
}

func (ve *ValidationError) err() error {
	if !ve.HasErrors() {
		return nil
	}
	return ve
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
