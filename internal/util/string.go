package util

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Truncate caps a string at maxRunes characters (rune-based). When the input is
// longer, it is cut at maxRunes-3 and "..." is appended so the result still fits
// within maxRunes.
func Truncate(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes-3]) + "..."
}

// Normalize performs basic string normalization (lowercase + trim)
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeSearch prepares text for accent- and case-insensitive matching:
// diacritics are decomposed and stripped, non-word characters removed, and
// whitespace collapsed.
func NormalizeSearch(s string) string {
	if s == "" {
		return ""
	}

	decomposed := norm.NFD.String(strings.ToLower(s))

	var builder strings.Builder
	builder.Grow(len(decomposed))
	lastSpace := false
	for _, r := range decomposed {
		switch {
		case unicode.Is(unicode.Mn, r):
			continue
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			builder.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r):
			if !lastSpace && builder.Len() > 0 {
				builder.WriteRune(' ')
				lastSpace = true
			}
		}
	}

	return strings.TrimSpace(builder.String())
}

// Slugify derives the URL/key-safe identifier for a perk name: lowercase, every
// non-alphanumeric run collapsed into a single underscore, no leading or
// trailing underscore. The slug is always recomputable from the name and is
// never treated as a stored source of truth.
func Slugify(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))

	var builder strings.Builder
	builder.Grow(len(lower))
	pendingSep := false
	for _, r := range lower {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep && builder.Len() > 0 {
				builder.WriteByte('_')
			}
			pendingSep = false
			builder.WriteRune(r)
		} else {
			pendingSep = true
		}
	}

	return builder.String()
}

// Contains checks if a string slice contains a specific item
func Contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
