package translate

import (
	"regexp"
	"strings"
	"sync"

	"github.com/kapu/dbd-kakao-bot-go/internal/util"
	"go.uber.org/zap"
)

// rewriteRule is one compiled substitution. Rules run in order through a
// single driver; literal rules skip $-expansion in the replacement.
type rewriteRule struct {
	matcher     *regexp.Regexp
	replacement string
	literal     bool
}

// Translator rewrites English perk descriptions into Vietnamese through an
// ordered rule chain compiled once from a ruleset snapshot. Translation is
// pure: the same input always yields the same output, and results are
// memoized. Swapping the dictionary means building a new Translator.
type Translator struct {
	rules  []rewriteRule
	memo   map[string]string
	memoMu sync.RWMutex
	logger *zap.Logger
}

func NewTranslator(ruleset *Ruleset, logger *zap.Logger) *Translator {
	rules := compileRules(ruleset)
	logger.Info("Translator compiled",
		zap.Int("rules", len(rules)),
		zap.Int("dictionary_entries", ruleset.RuleCount()))

	return &Translator{
		rules:  rules,
		memo:   make(map[string]string),
		logger: logger,
	}
}

func compileRules(rs *Ruleset) []rewriteRule {
	var rules []rewriteRule

	// Multi-word phrases first, so "allows you to" wins over "you".
	for _, pair := range rs.Phrases {
		rules = append(rules, rewriteRule{
			matcher:     regexp.MustCompile(`(?i)` + regexp.QuoteMeta(pair.From)),
			replacement: pair.To,
			literal:     true,
		})
	}

	for _, pair := range rs.GameTerms {
		rules = append(rules, boundedRule(pair))
	}

	// Prefix words match as substrings so de-/re-/pre- compounds are caught
	// before the bare verb in commonWords would split them.
	prefixed := make(map[string]bool, len(rs.PrefixWords))
	for _, pair := range rs.PrefixWords {
		prefixed[strings.ToLower(pair.From)] = true
		rules = append(rules, rewriteRule{
			matcher:     regexp.MustCompile(`(?i)` + regexp.QuoteMeta(pair.From)),
			replacement: pair.To,
			literal:     true,
		})
	}

	for _, pair := range rs.CommonWords {
		if prefixed[strings.ToLower(pair.From)] {
			continue
		}
		rules = append(rules, boundedRule(pair))
	}

	// Restore preserved game terms that earlier rules rendered in Vietnamese.
	for _, term := range rs.KeepEnglish {
		for _, wrong := range term.WrongRenderings {
			rules = append(rules, rewriteRule{
				matcher:     regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(wrong) + `\b`),
				replacement: term.Term,
				literal:     true,
			})
		}
	}

	rules = append(rules,
		rewriteRule{matcher: regexp.MustCompile(`\s+([,.!?:;])`), replacement: "$1"},
		rewriteRule{matcher: regexp.MustCompile(`([,.!?:;])\s+`), replacement: "$1 "},
		rewriteRule{matcher: regexp.MustCompile(`\s{2,}`), replacement: " "},
	)
	return rules
}

func boundedRule(pair RulePair) rewriteRule {
	return rewriteRule{
		matcher:     regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(pair.From) + `\b`),
		replacement: pair.To,
		literal:     true,
	}
}

// Translate runs the rule chain over text. Safe for concurrent use.
func (t *Translator) Translate(text string) string {
	if text == "" {
		return ""
	}

	t.memoMu.RLock()
	cached, ok := t.memo[text]
	t.memoMu.RUnlock()
	if ok {
		return cached
	}

	result := util.StripCharacterQuotes(text)
	for _, rule := range t.rules {
		if rule.literal {
			result = rule.matcher.ReplaceAllLiteralString(result, rule.replacement)
		} else {
			result = rule.matcher.ReplaceAllString(result, rule.replacement)
		}
	}
	result = strings.TrimSpace(result)

	t.memoMu.Lock()
	t.memo[text] = result
	t.memoMu.Unlock()

	return result
}

// MemoSize reports how many distinct inputs have been translated.
func (t *Translator) MemoSize() int {
	t.memoMu.RLock()
	defer t.memoMu.RUnlock()
	return len(t.memo)
}
