// Package validation checks a bundled AsyncAPI document before analysis.
// Errors block generation; warnings are reported and, depending on
// configuration, tolerated.
package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Severity distinguishes errors from warnings.
type Severity int

const (
	// SeverityError blocks generation.
	SeverityError Severity = iota
	// SeverityWarning is reported but does not block generation.
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// MarshalText renders the severity by name in reports.
func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText parses a severity name written by MarshalText.
func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	default:
		return fmt.Errorf("unknown severity %q", text)
	}
	return nil
}

// Message is one finding, attributed to a context string such as
// "Channel 'orders' Message 'created' Payload".
type Message struct {
	Severity Severity `json:"severity"`
	Context  string   `json:"context,omitempty"`
	Text     string   `json:"message"`
	Hint     string   `json:"hint,omitempty"`
}

// Error implements the error interface.
func (m *Message) Error() string {
	if m.Context == "" {
		return m.Text
	}
	return m.Context + ": " + m.Text
}

// FormatFull returns a multi-line rendering including the hint.
func (m *Message) FormatFull() string {
	var sb strings.Builder
	if m.Context != "" {
		fmt.Fprintf(&sb, "  At: %s\n", m.Context)
	}
	fmt.Fprintf(&sb, "  %s: %s\n", capitalize(m.Severity.String()), m.Text)
	if m.Hint != "" {
		fmt.Fprintf(&sb, "  Hint: %s\n", m.Hint)
	}
	return sb.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Result is the outcome of validating one document.
type Result struct {
	Errors   []*Message `json:"errors"`
	Warnings []*Message `json:"warnings"`
}

// Valid reports whether no errors were found.
func (r *Result) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings reports whether any warnings were found.
func (r *Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}

func (r *Result) errorf(context, hint, format string, args ...any) {
	r.Errors = append(r.Errors, &Message{Severity: SeverityError, Context: context, Text: fmt.Sprintf(format, args...), Hint: hint})
}

func (r *Result) warnf(context, hint, format string, args ...any) {
	r.Warnings = append(r.Warnings, &Message{Severity: SeverityWarning, Context: context, Text: fmt.Sprintf(format, args...), Hint: hint})
}

// structErrors converts validator field errors into messages.
func (r *Result) structErrors(context string, err error) {
	if err == nil {
		return
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		r.errorf(context, "", "%v", err)
		return
	}
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			r.errorf(context, "", "%s is required", field)
		case "oneof":
			r.errorf(context, fmt.Sprintf("use one of: %s", strings.ReplaceAll(fe.Param(), " ", ", ")),
				"%s must be one of [%s], got %q", field, fe.Param(), fmt.Sprint(fe.Value()))
		default:
			r.errorf(context, "", "%s failed %q validation", field, fe.Tag())
		}
	}
}
