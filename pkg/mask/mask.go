// Package mask formats CNIC and phone input as it is typed and produces the
// inline feedback shown when an email or CNIC field loses focus.
package mask

import (
	"errors"
	"fmt"
	"strings"

	"github.com/islamicvirtualuniversity-art/VIL/pkg/forms"
	"github.com/islamicvirtualuniversity-art/VIL/pkg/messages"
)

const maxLen = 15

var ErrUnsupportedField = errors.New("mask: unsupported field")

// CNIC keeps the digits of raw and inserts hyphens after the fifth digit
// and at offset 13: 1234512345671 -> 12345-1234567-1.
func CNIC(raw string) string {
	v := digits(raw)
	if len(v) >= 5 {
		v = v[:5] + "-" + v[5:]
	}
	if len(v) >= 13 {
		v = v[:13] + "-" + v[13:]
	}
	return truncate(v)
}

// Phone normalizes raw to +92-3XX-XXXXXXX. A leading 92 or 0 is taken as
// the country or trunk prefix. Input without digits yields "".
func Phone(raw string) string {
	v := digits(raw)
	if v == "" {
		return ""
	}

	switch {
	case strings.HasPrefix(v, "92"):
		v = "+" + v
	case strings.HasPrefix(v, "0"):
		v = "+92" + v[1:]
	default:
		v = "+92" + v
	}

	if len(v) > 3 {
		v = v[:3] + "-" + v[3:]
	}
	if len(v) > 7 {
		v = v[:7] + "-" + v[7:]
	}
	return truncate(v)
}

// Apply masks value for the named field.
func Apply(field, value string) (string, error) {
	switch field {
	case "cnic":
		return CNIC(value), nil
	case "phone":
		return Phone(value), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedField, field)
	}
}

func digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// All characters are ASCII at this point.
func truncate(s string) string {
	if len(s) > maxLen {
		return s[:maxLen]
	}
	return s
}

// Feedback is the valid/invalid indicator for a field on blur. Message is
// empty when Valid.
type Feedback struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// EmailFeedback treats an empty value as valid; required-ness is checked
// on submit.
func EmailFeedback(value string, m messages.Messages) Feedback {
	return feedback(value, forms.IsEmail, m.Get("feedback.email"))
}

func CNICFeedback(value string, m messages.Messages) Feedback {
	return feedback(value, forms.IsCNIC, m.Get("feedback.cnic"))
}

// FeedbackFor dispatches on field name.
func FeedbackFor(field, value string, m messages.Messages) (Feedback, error) {
	switch field {
	case "email":
		return EmailFeedback(value, m), nil
	case "cnic":
		return CNICFeedback(value, m), nil
	default:
		return Feedback{}, fmt.Errorf("%w: %q", ErrUnsupportedField, field)
	}
}

func feedback(value string, valid func(string) bool, hint string) Feedback {
	value = strings.TrimSpace(value)
	if value == "" || valid(value) {
		return Feedback{Valid: true}
	}
	return Feedback{Valid: false, Message: hint}
}
