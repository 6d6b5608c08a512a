package util

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	characterQuotePatterns = []*regexp.Regexp{
		regexp.MustCompile(`["“][^"”]*["”]\s*[—–-]\s*[^"“\n]+`),
		// trailing quote with a dangling attribution dash
		regexp.MustCompile(`\s*["“][^"”]*["”]\s*[—–-]\s*[^"“\n]*$`),
	}
	quoteAttributionPattern = regexp.MustCompile(`["“][^"”]*["”][^"“”]*?[—–-]\s*([A-Z][a-zA-Z .'-]+)`)
	whitespaceRunPattern    = regexp.MustCompile(`\s+`)
)

// StripCharacterQuotes removes flavour quotes and their character attribution
// ("Run!" — Dwight Fairfield) from wiki text. Applying it twice is a no-op.
func StripCharacterQuotes(s string) string {
	for _, pattern := range characterQuotePatterns {
		s = pattern.ReplaceAllString(s, "")
	}
	return strings.TrimSpace(s)
}

// QuoteAttribution extracts the character name attributed after a flavour
// quote. Returns "" when no plausible name is found.
func QuoteAttribution(s string) string {
	match := quoteAttributionPattern.FindStringSubmatch(s)
	if match == nil {
		return ""
	}

	name := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(match[1]), ".,:;!?"))
	length := utf8.RuneCountInString(name)
	if length < 3 || length > 24 {
		return ""
	}
	if strings.Contains(name, "Status Effect") {
		return ""
	}
	return name
}

// CollapseWhitespace folds any whitespace run into a single space and trims.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRunPattern.ReplaceAllString(s, " "))
}
