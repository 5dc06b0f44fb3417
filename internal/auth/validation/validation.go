// Package validation checks auth form fields before they reach the backend.
//
// Every function is pure and synchronous so controllers can short-circuit on the
// first failure without side effects.
package validation

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf16"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 8

// space is the whitespace class browsers use for \s: ASCII space and
// controls, the Unicode space separators, line and paragraph separators, and
// the byte order mark.
const space = `\s\v\p{Zs}\x{2028}\x{2029}\x{FEFF}`

var (
	emailPattern  = regexp.MustCompile(`^[^` + space + `@]+@[^` + space + `@]+\.[^` + space + `@]+$`)
	phonePattern  = regexp.MustCompile(`^0[2-9]\d{7,8}$`)
	phoneStripper = regexp.MustCompile(`[-` + space + `]`)
	letterPattern = regexp.MustCompile(`[a-zA-Z]`)
	digitPattern  = regexp.MustCompile(`[0-9]`)
)

// Reason identifies why a password was rejected.
type Reason string

const (
	ReasonNone                  Reason = ""
	ReasonTooShort              Reason = "too_short"
	ReasonNeedsLettersAndDigits Reason = "needs_letters_and_digits"
)

// PasswordResult reports password strength.
type PasswordResult struct {
	Valid   bool
	Reason  Reason
	Message string
}

// Field is one labelled value in a required-field check.
type Field struct {
	Label string
	Value string
}

// RequiredResult reports the first missing field, if any.
type RequiredResult struct {
	Valid bool
	Field string
}

// IsValidEmail reports whether s has a user@domain.tld shape.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsValidPassword checks length first, then character classes. Length is
// counted in UTF-16 code units, so a character outside the BMP counts twice.
func IsValidPassword(s string) PasswordResult {
	if utf16Length(s) < MinPasswordLength {
		return PasswordResult{Reason: ReasonTooShort, Message: "password must be at least 8 characters"}
	}
	if !letterPattern.MatchString(s) || !digitPattern.MatchString(s) {
		return PasswordResult{Reason: ReasonNeedsLettersAndDigits, Message: "password must contain letters and numbers"}
	}
	return PasswordResult{Valid: true}
}

// IsValidPhone accepts an empty value or an Israeli local number such as
// 050-1234567. Hyphens and whitespace are ignored.
func IsValidPhone(s string) bool {
	if s == "" {
		return true
	}
	return phonePattern.MatchString(phoneStripper.ReplaceAllString(s, ""))
}

// ValidateRequiredFields returns the first field, in caller order, whose value
// is empty or whitespace only.
func ValidateRequiredFields(fields []Field) RequiredResult {
	for _, field := range fields {
		if TrimSpace(field.Value) == "" {
			return RequiredResult{Valid: false, Field: field.Label}
		}
	}
	return RequiredResult{Valid: true}
}

// TrimSpace removes leading and trailing whitespace of the same class the
// email and phone checks reject.
func TrimSpace(s string) string {
	return strings.TrimFunc(s, IsSpace)
}

// IsSpace reports whether r is whitespace for browser form checks.
func IsSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', 0x2028, 0x2029, 0xFEFF:
		return true
	}
	return unicode.Is(unicode.Zs, r)
}

func utf16Length(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}
