package scraper

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/kapu/dbd-kakao-bot-go/internal/constants"
	"github.com/kapu/dbd-kakao-bot-go/internal/domain"
	"github.com/kapu/dbd-kakao-bot-go/internal/util"
	"go.uber.org/zap"
)

// RecordExtractor turns table rows into perk records. The structural strategy
// reads the wiki's regular column layout; rows that don't match fall through
// to a heuristic scan over the row text and its links.
type RecordExtractor struct {
	baseURL string
	logger  *zap.Logger
}

func NewRecordExtractor(baseURL string, logger *zap.Logger) *RecordExtractor {
	return &RecordExtractor{baseURL: baseURL, logger: logger}
}

// namePatterns are tried in order against the full row text. Each captures the
// perk name from a different sentence shape the wiki uses.
var namePatterns = []*regexp.Regexp{
	// "<Name> allows you to ..." and other verb-phrase leads
	regexp.MustCompile(`([A-Z][a-zA-Z\s:'-]+?)\s+(?i:allows you to|activates|triggers|grants|provides|causes|reveals|increases|reduces|unlocks|cannot be used|has a|deactivates)`),
	// flavour quote followed by an attributed name
	regexp.MustCompile(`["“][^"”]*["”].*?[—–-]\s*([A-Z][a-zA-Z\s:'-]+?)(?:\s|$)`),
	// "<Name> is/will/can ..." at the start of the row
	regexp.MustCompile(`^([A-Z][a-zA-Z\s:'-]{2,49}?)\s+(?i:is|will|can|may|does|has|gives|makes|lets)\b`),
	// "After/When ... <Name> activates"
	regexp.MustCompile(`(?:After|When|While|During)\b.*?\b([A-Z][a-zA-Z\s:'-]+?)\s+(?i:activates|triggers|causes)`),
	// "Press ... to trigger <Name>" or bare "trigger <Name>"
	regexp.MustCompile(`(?i:to trigger|trigger)\s+([A-Z][a-zA-Z\s:'-]+?)(?:\s|$|\.)`),
	regexp.MustCompile(`([A-Z][a-zA-Z\s:'-]+?)\s+(?i:ignores|resets|works|functions|operates)`),
}

var (
	leadingDigitPattern = regexp.MustCompile(`^\d`)
	// Standalone "a" is absent so names like "A Nurse's Calling" survive.
	sentenceLeadPattern  = regexp.MustCompile(`(?i)^(?:you|your|when|after|while|during|press|the|an)\b`)
	trailingPunctPattern = regexp.MustCompile(`[.,:;!?]+$`)

	nameQuoteReplacer = strings.NewReplacer("“", `"`, "”", `"`, "’", "'")

	// Substrings that mark a candidate as sentence fragment or game jargon
	// rather than a perk name.
	bannedNameSubstrings = []string{
		"This description",
		"You are",
		"Your ",
		"When ",
		"Once ",
		"The ",
		"you benefit",
		"following effect",
		"Status Effect",
		"Killer Instinct",
		"Aura",
		"Token",
		"Bloodpoint",
		"seconds",
		"metres",
	}
)

func cleanupName(name string) string {
	name = nameQuoteReplacer.Replace(strings.TrimSpace(name))
	name = trailingPunctPattern.ReplaceAllString(name, "")
	return strings.TrimSpace(name)
}

func validPerkName(name string) bool {
	length := utf8.RuneCountInString(name)
	if length < constants.PerkLimits.MinNameLength || length > 50 {
		return false
	}
	if leadingDigitPattern.MatchString(name) || sentenceLeadPattern.MatchString(name) {
		return false
	}
	for _, banned := range bannedNameSubstrings {
		if strings.Contains(name, banned) {
			return false
		}
	}
	return true
}

// ExtractFromRow parses a single table row into a perk, or nil when the row
// holds no usable record.
func (re *RecordExtractor) ExtractFromRow(row *goquery.Selection, category domain.Category) *domain.Perk {
	perk := re.extractStructured(row, category)
	if perk == nil {
		perk = re.extractHeuristic(row, category)
	}
	if perk == nil {
		return nil
	}
	perk.NormalizeCharacter()
	return perk
}

// extractStructured reads the regular wiki layout: icon and name in header
// cells, optional character in a third header cell, description in the first
// data cell.
func (re *RecordExtractor) extractStructured(row *goquery.Selection, category domain.Category) *domain.Perk {
	headers := row.ChildrenFiltered("th")
	cells := row.ChildrenFiltered("td")
	if headers.Length() < 2 || cells.Length() < 1 {
		return nil
	}

	iconURL := ""
	if href, ok := headers.Eq(0).Find("a").First().Attr("href"); ok {
		iconURL = re.resolveURL(href)
	}

	nameCell := headers.Eq(1)
	name := strings.TrimSpace(nameCell.Find("a").First().Text())
	if name == "" {
		name = strings.TrimSpace(nameCell.Text())
	}
	name = cleanupName(name)
	if utf8.RuneCountInString(name) < constants.PerkLimits.MinNameLength {
		return nil
	}

	character := ""
	if headers.Length() >= 3 {
		ownerCell := headers.Eq(2)
		character = strings.TrimSpace(ownerCell.Find("a").First().Text())
		if character == "" {
			character = strings.TrimSpace(ownerCell.Text())
		}
	}

	descCell := cells.Eq(0)
	descText := descCell.Text()
	if formatted := descCell.Find(".formattedPerkDesc").First(); formatted.Length() > 0 {
		descText = formatted.Text()
	}

	// The attribution lives in the flavour quote that cleaning strips, so
	// recover the owner from the raw text first.
	if character == "" {
		character = util.QuoteAttribution(descText)
	}

	return re.buildPerk(name, iconURL, CleanDescription(descText), character, category)
}

func (re *RecordExtractor) extractHeuristic(row *goquery.Selection, category domain.Category) *domain.Perk {
	rowText := util.CollapseWhitespace(row.Text())
	if rowText == "" {
		return nil
	}

	name := re.findName(row, rowText)
	if !validPerkName(name) {
		return nil
	}

	description := CleanDescription(rowText)
	if len(description) >= len(name) && strings.EqualFold(description[:len(name)], name) {
		description = strings.TrimSpace(description[len(name):])
	}

	character := util.QuoteAttribution(rowText)
	if character == "" {
		character = re.findOwnerLink(row, name)
	}

	return re.buildPerk(name, re.findIcon(row), description, character, category)
}

func (re *RecordExtractor) findName(row *goquery.Selection, rowText string) string {
	for _, pattern := range namePatterns {
		match := pattern.FindStringSubmatch(rowText)
		if match == nil {
			continue
		}
		if candidate := cleanupName(match[1]); validPerkName(candidate) {
			return candidate
		}
	}
	if name := re.findNameLink(row); name != "" {
		return name
	}
	return re.findNameBold(row)
}

func (re *RecordExtractor) findNameLink(row *goquery.Selection) string {
	name := ""
	row.Find("a").EachWithBreak(func(_ int, link *goquery.Selection) bool {
		href, _ := link.Attr("href")
		if !strings.Contains(href, "/wiki/") {
			return true
		}
		if strings.Contains(href, "Status_Effect") || strings.Contains(href, "Aura") {
			return true
		}
		text := cleanupName(link.Text())
		if !validPerkName(text) {
			return true
		}
		name = text
		return false
	})
	return name
}

func (re *RecordExtractor) findNameBold(row *goquery.Selection) string {
	text := cleanupName(row.Find("b, strong").First().Text())
	if validPerkName(text) {
		return text
	}
	return ""
}

func (re *RecordExtractor) findOwnerLink(row *goquery.Selection, perkName string) string {
	owner := ""
	row.Find("a").EachWithBreak(func(_ int, link *goquery.Selection) bool {
		href, _ := link.Attr("href")
		if !strings.Contains(href, "/wiki/") {
			return true
		}
		if strings.Contains(href, "Perk") || strings.Contains(href, "Status_Effect") || strings.Contains(href, "Aura") {
			return true
		}
		text := strings.TrimSpace(link.Text())
		if text == "" || text == perkName {
			return true
		}
		if length := utf8.RuneCountInString(text); length < 3 || length >= 25 {
			return true
		}
		owner = text
		return false
	})
	return owner
}

func (re *RecordExtractor) findIcon(row *goquery.Selection) string {
	icon := ""
	row.Find("img").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		src, ok := img.Attr("data-src")
		if !ok || src == "" {
			src, _ = img.Attr("src")
		}
		if !usableIconSource(src) {
			return true
		}

		alt, _ := img.Attr("alt")
		if strings.Contains(src, "IconPerks") || strings.Contains(strings.ToLower(alt), "perk") || strings.Contains(src, "/perks/") {
			icon = src
			return false
		}
		if icon == "" && !strings.Contains(src, "IconStatusEffects") && !strings.Contains(src, "IconHelp") &&
			!strings.Contains(src, "IconItems") && !strings.Contains(src, "IconAddons") {
			icon = src
		}
		return true
	})
	return re.resolveURL(icon)
}

func usableIconSource(src string) bool {
	if len(src) < 20 {
		return false
	}
	if strings.HasPrefix(src, "data:") || strings.Contains(src, "base64") {
		return false
	}
	if strings.Contains(src, "1x1") {
		return false
	}
	return true
}

func (re *RecordExtractor) resolveURL(href string) string {
	if href == "" || strings.HasPrefix(href, "http") {
		return href
	}
	return re.baseURL + href
}

func (re *RecordExtractor) buildPerk(name, iconURL, description, character string, category domain.Category) *domain.Perk {
	slug := util.Slugify(name)
	if slug == "" {
		return nil
	}
	return &domain.Perk{
		ID:            domain.NewPerkID(category, slug),
		Name:          name,
		Slug:          slug,
		IconURL:       iconURL,
		Description:   description,
		Category:      category,
		CharacterName: character,
	}
}
