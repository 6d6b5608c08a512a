package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kapu/dbd-kakao-bot-go/pkg/errors"
	"go.uber.org/zap"
)

// Suggestion is one proposed dictionary addition.
type Suggestion struct {
	Word        string `json:"word"`
	Vietnamese  string `json:"vietnamese"`
	KeepEnglish bool   `json:"keepEnglish"`
}

// Suggester proposes dictionary entries for words the rule dictionary does not
// cover yet. It only runs inside the offline suggest_terms tool; the chat
// translation path never calls a model.
type Suggester struct {
	primary  JSONProvider
	fallback JSONProvider
	logger   *zap.Logger
}

func NewSuggester(primary, fallback JSONProvider, logger *zap.Logger) *Suggester {
	return &Suggester{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// SuggestTerms asks the model for Vietnamese renderings of uncovered words.
// Known game terms should come back with keepEnglish set.
func (s *Suggester) SuggestTerms(ctx context.Context, words []string) ([]Suggestion, error) {
	if len(words) == 0 {
		return nil, nil
	}

	prompt := buildSuggestionPrompt(words)

	text, err := s.primary.GenerateJSON(ctx, prompt)
	if err != nil && s.fallback != nil {
		s.logger.Warn("Primary provider failed, trying fallback",
			zap.String("primary", s.primary.Name()), zap.Error(err))
		text, err = s.fallback.GenerateJSON(ctx, prompt)
	}
	if err != nil {
		return nil, errors.NewServiceError("suggestion generation failed", "ai", "suggest_terms", err)
	}

	var suggestions []Suggestion
	if err := json.Unmarshal([]byte(stripCodeFences(text)), &suggestions); err != nil {
		return nil, errors.NewServiceError("failed to parse suggestions", "ai", "suggest_terms", err)
	}

	s.logger.Info("Dictionary suggestions generated",
		zap.Int("requested", len(words)),
		zap.Int("received", len(suggestions)))
	return suggestions, nil
}

func buildSuggestionPrompt(words []string) string {
	var sb strings.Builder
	sb.WriteString("You are helping maintain an English→Vietnamese dictionary for Dead by Daylight perk descriptions.\n")
	sb.WriteString("For each word below, propose a natural Vietnamese rendering as used by the Vietnamese DBD community.\n")
	sb.WriteString("If the word is a game term the community keeps in English (status effects, proper nouns), set keepEnglish to true and leave vietnamese empty.\n\n")
	sb.WriteString("Respond with a JSON array of objects: {\"word\": string, \"vietnamese\": string, \"keepEnglish\": boolean}.\n\n")
	sb.WriteString("Words:\n")
	for _, word := range words {
		sb.WriteString(fmt.Sprintf("- %s\n", word))
	}
	return sb.String()
}

func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
