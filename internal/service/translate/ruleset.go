package translate

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
)

//go:embed data/dictionary.json
var defaultDictionary []byte

// RulePair is one source→target substitution.
type RulePair struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// PreservedTerm is a game term that must stay in English. WrongRenderings are
// translations of it that earlier rules or dictionary edits may produce; the
// final pipeline stage rewrites them back to the English term.
type PreservedTerm struct {
	Term            string   `json:"term"`
	WrongRenderings []string `json:"wrongRenderings"`
}

// Ruleset is the full translation dictionary. Rule order inside each group is
// significant; groups are applied phrases → game terms → prefix words →
// common words → preserved terms. A loaded ruleset is never mutated, only
// replaced wholesale.
type Ruleset struct {
	Phrases     []RulePair      `json:"phrases"`
	GameTerms   []RulePair      `json:"gameTerms"`
	PrefixWords []RulePair      `json:"prefixWords"`
	CommonWords []RulePair      `json:"commonWords"`
	KeepEnglish []PreservedTerm `json:"keepEnglish"`
}

// LoadDefaultRuleset parses the dictionary compiled into the binary.
func LoadDefaultRuleset() (*Ruleset, error) {
	return parseRuleset(defaultDictionary)
}

// LoadRulesetFromFile reads a dictionary override from disk.
func LoadRulesetFromFile(path string) (*Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dictionary %s: %w", path, err)
	}
	return parseRuleset(data)
}

func parseRuleset(data []byte) (*Ruleset, error) {
	var rs Ruleset
	if err := json.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("failed to parse dictionary: %w", err)
	}
	if len(rs.Phrases) == 0 && len(rs.GameTerms) == 0 && len(rs.CommonWords) == 0 {
		return nil, fmt.Errorf("dictionary contains no rules")
	}
	return &rs, nil
}

// RuleCount reports the total number of substitutions across all groups.
func (rs *Ruleset) RuleCount() int {
	count := len(rs.Phrases) + len(rs.GameTerms) + len(rs.PrefixWords) + len(rs.CommonWords)
	for _, term := range rs.KeepEnglish {
		count += len(term.WrongRenderings)
	}
	return count
}
