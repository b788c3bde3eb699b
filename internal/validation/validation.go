package validation

import (
	"errors"
	"strings"
	"unicode"
)

// ErrLocalityEmpty is returned when the name is empty or whitespace-only after trim.
var ErrLocalityEmpty = errors.New("locality is required")

// ErrLocalityTooShort is returned when the name length is below the minimum.
var ErrLocalityTooShort = errors.New("locality too short")

// ErrLocalityTooLong is returned when the name length exceeds the maximum.
var ErrLocalityTooLong = errors.New("locality too long")

// ErrLocalityInvalidChars is returned when the name contains disallowed characters.
var ErrLocalityInvalidChars = errors.New("locality contains invalid characters")

// ValidateLocalityName trims the input, enforces length bounds (minLen, maxLen
// in runes), and restricts to characters that occur in Portuguese place names:
// letters (Unicode), digits, space, comma, hyphen, apostrophe. Returns the
// trimmed string or an error suitable for 400 INVALID_LOCALITY responses.
// Normalization (lowercasing) is left to the resolution algorithm.
func ValidateLocalityName(input string, minLen, maxLen int) (string, error) {
	s := strings.TrimSpace(input)
	r := []rune(s)
	n := len(r)
	if n == 0 {
		return "", ErrLocalityEmpty
	}
	if minLen > 0 && n < minLen {
		return "", ErrLocalityTooShort
	}
	if maxLen > 0 && n > maxLen {
		return "", ErrLocalityTooLong
	}
	for _, c := range r {
		if !isAllowedLocalityRune(c) {
			return "", ErrLocalityInvalidChars
		}
	}
	return s, nil
}

func isAllowedLocalityRune(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsNumber(r) {
		return true
	}
	switch r {
	case ' ', ',', '-', '\'':
		return true
	}
	return false
}
