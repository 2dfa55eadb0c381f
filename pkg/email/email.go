// Package email holds small helpers for working with email addresses.
package email

import (
	"strings"
	"unicode"
)

// DeriveNameFromEmail guesses a first and last name from the local part of
// an address, splitting on common separators. "mei.lin@example.com" yields
// ("Mei", "Lin"). When nothing usable remains it falls back to "User".
func DeriveNameFromEmail(address string) (string, string) {
	local, _, _ := strings.Cut(address, "@")
	if local == "" {
		local = address
	}

	parts := strings.FieldsFunc(local, func(r rune) bool {
		switch r {
		case '.', '_', '-', '+':
			return true
		}
		return false
	})
	if len(parts) == 0 {
		return "User", "User"
	}

	first := title(parts[0])
	last := "User"
	if len(parts) > 1 {
		last = title(parts[len(parts)-1])
	}
	return first, last
}

func title(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
