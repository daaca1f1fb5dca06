package utils

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// CleanToValidUTF8 drops bytes that do not form valid UTF-8 sequences.
func CleanToValidUTF8(s string) string {
	var buf bytes.Buffer
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			i++
			continue
		}
		buf.WriteRune(r)
		i += size
	}
	return buf.String()
}

// NormalizeEmail lower-cases and trims an email so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
