package scraper

import (
	"regexp"
	"strings"

	"github.com/kapu/dbd-kakao-bot-go/internal/constants"
	"github.com/kapu/dbd-kakao-bot-go/internal/util"
)

var (
	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

	entityReplacer = strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
	)

	// Lead-ins the wiki puts in front of descriptions after balance patches.
	patchLeadPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^this description is based on`),
		regexp.MustCompile(`(?i)^the changes? announced`),
		regexp.MustCompile(`(?i)^.{0,80}?patch \d+\.\d+\.\d+`),
	}

	// Words that reliably start the first real sentence of a perk description.
	sentenceTriggerPattern = regexp.MustCompile(`\b(?:You|Your|When|After|Press|Grants|Increases|Reduces|Unlocks|The|A)\b`)
)

// StripTags drops raw markup and decodes the handful of entities that survive
// text extraction.
func StripTags(s string) string {
	return entityReplacer.Replace(htmlTagPattern.ReplaceAllString(s, ""))
}

// stripPatchNotice cuts a patch-notice preamble, keeping everything from the
// first sentence-starting trigger word onward. Text without a recognized
// lead-in passes through untouched.
func stripPatchNotice(s string) string {
	for _, lead := range patchLeadPatterns {
		loc := lead.FindStringIndex(s)
		if loc == nil {
			continue
		}
		rest := s[loc[1]:]
		if trigger := sentenceTriggerPattern.FindStringIndex(rest); trigger != nil {
			return rest[trigger[0]:]
		}
	}
	return s
}

// CleanDescription normalizes raw wiki text into a display description: markup
// stripped, patch notices and flavour quotes removed, whitespace collapsed,
// length capped.
func CleanDescription(raw string) string {
	text := StripTags(raw)
	text = stripPatchNotice(text)
	text = util.StripCharacterQuotes(text)
	text = util.CollapseWhitespace(text)
	return util.Truncate(text, constants.PerkLimits.MaxDescriptionLength)
}
