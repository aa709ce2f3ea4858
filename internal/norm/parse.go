package norm

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrParse is the sentinel wrapped by every ParseError.
var ErrParse = errors.New("not a number")

// ParseError reports text that could not be turned into a parameter value.
// Callers keep the previous valid value when they get one.
type ParseError struct {
	Field string
	Text  string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("parsing %q: %v", e.Text, ErrParse)
	}
	return fmt.Sprintf("parsing %s %q: %v", e.Field, e.Text, ErrParse)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrParse, e.Err}
}

// ParseFloat parses a user supplied number for field. NaN and infinities are
// rejected since no parameter accepts them.
func ParseFloat(field, text string) (float64, error) {
	t := strings.TrimSpace(text)
	v, err := strconv.ParseFloat(t, 64)
	if err == nil && !isFinite(v) {
		err = errors.New("value must be finite")
	}
	if err != nil {
		return 0, &ParseError{Field: field, Text: text, Err: err}
	}
	return v, nil
}
