// Package strings provides string utility functions for variable naming.
package strings

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ToLowerCamel lowercases the leading run of upper case letters of s.
func ToLowerCamel(s string) string {
	i := 0
	for i < len(s) && unicode.IsUpper(rune(s[i])) {
		i++
	}

	// Keep the last capital of an acronym followed by a word: HTTPServer -> httpServer.
	if i > 1 && i < len(s) && unicode.IsLower(rune(s[i])) {
		i--
	}

	return strings.ToLower(s[:i]) + s[i:]
}

// ToUpperCamel uppercases the first letter of s.
func ToUpperCamel(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}

	return string(unicode.ToUpper(r)) + s[size:]
}
