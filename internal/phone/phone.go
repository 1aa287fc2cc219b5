// Package phone normalizes Kenyan phone numbers. All comparisons and
// storage use the digits-only 254XXXXXXXXX form.
package phone

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrInvalid = errors.New("invalid Kenyan phone number")

	nonDigits  = regexp.MustCompile(`\D`)
	normalized = regexp.MustCompile(`^254[17]\d{8}$`)
)

// Normalize strips everything but digits and converts the accepted Kenyan
// formats (2547XXXXXXXX, 2541XXXXXXXX, 07XXXXXXXX, 01XXXXXXXX) to the
// 254-prefixed form. Anything else fails with ErrInvalid.
func Normalize(raw string) (string, error) {
	digits := nonDigits.ReplaceAllString(strings.TrimSpace(raw), "")
	switch {
	case digits == "":
		return "", ErrInvalid
	case strings.HasPrefix(digits, "0") && len(digits) == 10:
		digits = "254" + digits[1:]
	case (strings.HasPrefix(digits, "7") || strings.HasPrefix(digits, "1")) && len(digits) == 9:
		digits = "254" + digits
	}
	if !normalized.MatchString(digits) {
		return "", ErrInvalid
	}
	return digits, nil
}

// Valid reports whether raw is an acceptable Kenyan phone number.
func Valid(raw string) bool {
	_, err := Normalize(raw)
	return err == nil
}
