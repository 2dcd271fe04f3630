// Package label validates subname labels and composes full names.
package label

import (
	"strings"
	"unicode/utf8"
)

const (
	MinLength = 3
	MaxLength = 63
)

// ValidationError is returned for labels that break the registrar grammar.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validate checks label against the grammar. The first failing rule wins.
func Validate(label string) error {
	n := utf8.RuneCountInString(label)
	switch {
	case n < MinLength:
		return &ValidationError{Message: "Must be at least 3 characters"}
	case n > MaxLength:
		return &ValidationError{Message: "Must be at most 63 characters"}
	case strings.IndexFunc(label, func(r rune) bool { return !isLabelRune(r) }) >= 0:
		return &ValidationError{Message: "Only lowercase letters, digits, and hyphens"}
	case !isAlnum(label[0]):
		return &ValidationError{Message: "Must start with a letter or digit"}
	case !isAlnum(label[len(label)-1]):
		return &ValidationError{Message: "Must end with a letter or digit"}
	}
	return nil
}

// Message returns the validation message of label, or "" when it is valid.
func Message(label string) string {
	if err := Validate(label); err != nil {
		return err.Error()
	}
	return ""
}

// Join appends the parent domain to label.
func Join(label, root string) string {
	return label + "." + root
}

// Strip removes the parent domain suffix from name.
func Strip(name, root string) (string, bool) {
	suffix := "." + root
	if !strings.HasSuffix(name, suffix) {
		return "", false
	}
	return strings.TrimSuffix(name, suffix), true
}

func isLabelRune(r rune) bool {
	return r == '-' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

func isAlnum(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}
