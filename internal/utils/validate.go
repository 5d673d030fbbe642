package utils

import (
	"regexp"
	"unicode"
	"unicode/utf8"
)

// emailPattern is matched as a prefix only: anything after the first
// "x@y.z" run is accepted.
var emailPattern = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+`)

// ValidEmail reports whether s looks like local@domain.tld.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidPassword requires at least 6 characters with at least one ASCII
// letter and one digit.
func ValidPassword(s string) bool {
	if utf8.RuneCountInString(s) < 6 {
		return false
	}

	var letter, digit bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z':
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return letter && digit
}
