package model

import (
	"strconv"

	"github.com/passguardian/passguardian-go/internal/validation"
)

const (
	MinGenerateLength     = 8
	MaxGenerateLength     = 32
	DefaultGenerateLength = 16
)

// GeneratorSettings controls the composition of a generated password.
// It is sent verbatim as the body of a generation request.
type GeneratorSettings struct {
	Length       int  `json:"length" validate:"gte=8,lte=32"`
	UseUppercase bool `json:"useUppercase"`
	UseNumbers   bool `json:"useNumbers"`
	UseSymbols   bool `json:"useSymbols"`
}

// DefaultGeneratorSettings returns 16 characters with every character class enabled.
func DefaultGeneratorSettings() GeneratorSettings {
	return GeneratorSettings{
		Length:       DefaultGenerateLength,
		UseUppercase: true,
		UseNumbers:   true,
		UseSymbols:   true,
	}
}

// WithLength returns a copy of s with the length clamped to the allowed range.
func (s GeneratorSettings) WithLength(n int) GeneratorSettings {
	s.Length = min(max(n, MinGenerateLength), MaxGenerateLength)
	return s
}

// Validate checks the settings before they are sent.
func (s GeneratorSettings) Validate() error {
	return validation.Struct(s)
}

// GenerateResponse represents a password generation response.
type GenerateResponse struct {
	Password string   `json:"password"`
	Rating   Rating   `json:"rating"`
	Feedback []string `json:"feedback"`
	Length   int      `json:"length"`
}

// Result returns the strength portion of the response.
func (r GenerateResponse) Result() StrengthResult {
	return StrengthResult{
		Rating:   r.Rating,
		Feedback: r.Feedback,
		Length:   r.Length,
	}
}

// LengthLabel renders the length the way the generator panel shows it.
func LengthLabel(n int) string {
	return strconv.Itoa(n) + " characters"
}
