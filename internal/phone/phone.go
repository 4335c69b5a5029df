// Package phone normalizes US phone numbers to the +1XXXXXXXXXX form used as
// the identity key and sent to the SMS provider.
package phone

import (
	"errors"
	"strings"
)

var ErrInvalid = errors.New("invalid US phone number")

// Normalize strips formatting and returns the number as +1 followed by ten
// digits. Ten digits get the country code prepended; eleven digits must
// already start with the country code.
func Normalize(raw string) (string, error) {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	cleaned := digits.String()

	switch {
	case len(cleaned) == 10:
		return "+1" + cleaned, nil
	case len(cleaned) == 11 && cleaned[0] == '1':
		return "+" + cleaned, nil
	default:
		return "", ErrInvalid
	}
}

// Mask hides all but the last four digits, for logs.
func Mask(normalized string) string {
	if len(normalized) <= 4 {
		return normalized
	}
	return strings.Repeat("*", len(normalized)-4) + normalized[len(normalized)-4:]
}
