package extraction

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedResponse marks a reply in which no JSON object could be found.
var ErrMalformedResponse = errors.New("no JSON object in model response")

// FieldError describes one field that failed validation.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError is returned when a payload cannot be turned into the
// requested shape. Fields is empty for syntax errors, in which case Err
// carries the decoder error.
type ValidationError struct {
	Shape  Shape
	Fields []FieldError
	Err    error
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("invalid %s payload: %v", e.Shape, e.Err)
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Reason
	}
	return fmt.Sprintf("invalid %s payload: %s", e.Shape, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// HasField reports whether the named field is among the failures.
func (e *ValidationError) HasField(name string) bool {
	for _, f := range e.Fields {
		if f.Field == name {
			return true
		}
	}
	return false
}
