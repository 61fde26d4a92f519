package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/funvibe/livens/internal/config"
)

// SplitName splits a dotted namespace name into its segments.
func SplitName(name string) []string {
	return strings.Split(name, config.NameSeparator)
}

// ParentName returns the dotted name one level up, or "" for a root name.
// Example: "app.db.pool" -> "app.db".
func ParentName(name string) string {
	idx := strings.LastIndex(name, config.NameSeparator)
	if idx < 0 {
		return ""
	}
	return name[:idx]
}

// ShortName returns the last segment of a dotted name.
// Example: "app.db.pool" -> "pool".
func ShortName(name string) string {
	idx := strings.LastIndex(name, config.NameSeparator)
	if idx < 0 {
		return name
	}
	return name[idx+1:]
}

// IsIdentifier reports whether s is a valid binding or name segment:
// a letter or underscore followed by letters, digits, or underscores.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, width := 0, 0; i < len(s); i += width {
		var r rune
		r, width = utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && width <= 1 {
			return false
		}
		if i == 0 {
			if !unicode.IsLetter(r) && r != '_' {
				return false
			}
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}

// IsValidName reports whether name is a well-formed dotted namespace name:
// one or more identifier segments separated by dots.
func IsValidName(name string) bool {
	if name == "" {
		return false
	}
	for _, seg := range SplitName(name) {
		if !IsIdentifier(seg) {
			return false
		}
	}
	return true
}
