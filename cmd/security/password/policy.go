package password

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Validate checks the candidate password against the configured policy.
// Length is measured in runes so multibyte input is not penalized.
func (c Config) Validate(password string) error {
	n := utf8.RuneCountInString(password)

	if n < c.Policy.MinLength {
		return ErrPasswordTooShort
	}
	if n > c.Policy.MaxLength {
		return ErrPasswordTooLong
	}

	if c.Policy.RejectVeryWeak && isTrivial(password) {
		return ErrWeakPassword
	}

	return nil
}

// trivialPasswords are rejected outright when weak-pattern rejection is on.
// This is a tripwire for the worst offenders, not a strength estimator.
var trivialPasswords = map[string]struct{}{
	"password":    {},
	"password123": {},
	"123456":      {},
	"123456789":   {},
	"qwerty":      {},
	"qwerty123":   {},
	"11111111":    {},
	"letmein":     {},
	"notehub":     {},
}

func isTrivial(pw string) bool {
	s := strings.TrimSpace(pw)
	if s == "" {
		return true
	}

	if _, ok := trivialPasswords[strings.ToLower(s)]; ok {
		return true
	}

	// One repeated character, any length.
	if repeatsOneRune(s) {
		return true
	}

	// PIN-like: digits only below a sane length.
	if digitsOnly(s) && utf8.RuneCountInString(s) < 12 {
		return true
	}

	return false
}

func repeatsOneRune(s string) bool {
	var first rune
	for i, r := range s {
		if i == 0 {
			first = r
			continue
		}
		if r != first {
			return false
		}
	}
	return true
}

func digitsOnly(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
