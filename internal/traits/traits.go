// Package traits derives the non-secret characteristics of a password that
// history entries are allowed to keep.
package traits

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Traits summarizes the composition of a password without retaining it.
type Traits struct {
	Length       int
	HasUppercase bool
	HasLowercase bool
	HasNumbers   bool
	HasSymbols   bool
}

// Of inspects password and returns its traits. Classes follow the scoring
// service: A-Z, a-z, 0-9, and anything else counts as a symbol.
func Of(password string) Traits {
	t := Traits{Length: utf8.RuneCountInString(password)}
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			t.HasUppercase = true
		case r >= 'a' && r <= 'z':
			t.HasLowercase = true
		case r >= '0' && r <= '9':
			t.HasNumbers = true
		default:
			t.HasSymbols = true
		}
	}
	return t
}

const commonMarker = "commonly used password"

// IsCommonFromFeedback reports whether the service flagged the password as
// common. The service answers with a failing line ("✗ This is a commonly
// used password") or a passing one ("✓ Not a commonly used password").
func IsCommonFromFeedback(feedback []string) bool {
	for _, line := range feedback {
		lower := strings.ToLower(line)
		if !strings.Contains(lower, commonMarker) {
			continue
		}
		if strings.Contains(lower, "not a "+commonMarker) {
			return false
		}
		return true
	}
	return false
}

// Passing reports whether a feedback line is a passing check.
func Passing(line string) bool {
	line = strings.TrimLeftFunc(line, unicode.IsSpace)
	return strings.HasPrefix(line, "✓")
}
