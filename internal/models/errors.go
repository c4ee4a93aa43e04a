package models

import "fmt"

// InvalidInputError reports malformed input at the engine boundary.
type InvalidInputError struct {
	Field   string
	Message string
	Cause   error
}

func (e *InvalidInputError) Error() string {
	msg := "invalid input"
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Field)
	}
	return fmt.Sprintf("%s: %s", msg, e.Message)
}

func (e *InvalidInputError) Unwrap() error {
	return e.Cause
}
