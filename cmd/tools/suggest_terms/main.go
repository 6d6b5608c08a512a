package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/kapu/dbd-kakao-bot-go/internal/config"
	"github.com/kapu/dbd-kakao-bot-go/internal/domain"
	"github.com/kapu/dbd-kakao-bot-go/internal/service/ai"
	"github.com/kapu/dbd-kakao-bot-go/internal/service/scraper"
	"github.com/kapu/dbd-kakao-bot-go/internal/service/translate"
	"github.com/kapu/dbd-kakao-bot-go/internal/util"
	"go.uber.org/zap"
)

const (
	geminiModel  = "gemini-2.0-flash"
	maxWords     = 40
	minWordRunes = 4
)

var wordPattern = regexp.MustCompile(`[A-Za-z']+`)

// Scrapes the current perk descriptions, finds frequent English words the
// dictionary does not cover and asks a model for Vietnamese renderings. Output
// is a JSON array to review by hand before editing data/dictionary.json;
// nothing is written back automatically.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.AI.GeminiAPIKey == "" {
		fmt.Fprintln(os.Stderr, "GEMINI_API_KEY is required")
		os.Exit(1)
	}

	logger, err := util.NewLogger(cfg.Logging.Level, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ruleset, err := loadRuleset(cfg)
	if err != nil {
		logger.Fatal("Failed to load dictionary", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	scraperSvc := scraper.NewService(cfg.Wiki, logger)
	datasets, err := scraperSvc.ScrapeAllPerks(ctx)
	if err != nil {
		logger.Fatal("Scrape failed", zap.Error(err))
	}

	words := uncoveredWords(datasets, ruleset)
	if len(words) == 0 {
		logger.Info("Dictionary already covers all frequent words")
		return
	}

	primary, err := ai.NewGeminiProvider(ctx, cfg.AI.GeminiAPIKey, geminiModel, logger)
	if err != nil {
		logger.Fatal("Failed to create Gemini provider", zap.Error(err))
	}
	var fallback ai.JSONProvider
	if cfg.AI.EnableFallback {
		if p := ai.NewOpenAIProvider(cfg.AI.OpenAIAPIKey, logger); p != nil {
			fallback = p
		}
	}

	suggester := ai.NewSuggester(primary, fallback, logger)
	suggestions, err := suggester.SuggestTerms(ctx, words)
	if err != nil {
		logger.Fatal("Suggestion request failed", zap.Error(err))
	}

	out, err := json.MarshalIndent(suggestions, "", "  ")
	if err != nil {
		logger.Fatal("Failed to encode suggestions", zap.Error(err))
	}
	fmt.Println(string(out))
}

func loadRuleset(cfg *config.Config) (*translate.Ruleset, error) {
	if cfg.Bot.Dictionary != "" {
		return translate.LoadRulesetFromFile(cfg.Bot.Dictionary)
	}
	return translate.LoadDefaultRuleset()
}

// uncoveredWords tallies word frequency across all descriptions, drops words
// the ruleset already handles and returns the most frequent remainder.
func uncoveredWords(datasets map[domain.Category]*domain.PerkDataset, ruleset *translate.Ruleset) []string {
	covered := coveredWords(ruleset)

	frequency := make(map[string]int)
	for _, dataset := range datasets {
		for _, perk := range dataset.Perks {
			for _, word := range wordPattern.FindAllString(perk.Description, -1) {
				word = strings.ToLower(word)
				if len([]rune(word)) < minWordRunes || covered[word] {
					continue
				}
				frequency[word]++
			}
		}
	}

	words := make([]string, 0, len(frequency))
	for word := range frequency {
		words = append(words, word)
	}
	sort.Slice(words, func(i, j int) bool {
		if frequency[words[i]] != frequency[words[j]] {
			return frequency[words[i]] > frequency[words[j]]
		}
		return words[i] < words[j]
	})

	if len(words) > maxWords {
		words = words[:maxWords]
	}
	return words
}

func coveredWords(ruleset *translate.Ruleset) map[string]bool {
	covered := make(map[string]bool)
	add := func(text string) {
		for _, word := range wordPattern.FindAllString(text, -1) {
			covered[strings.ToLower(word)] = true
		}
	}
	for _, group := range [][]translate.RulePair{
		ruleset.Phrases, ruleset.GameTerms, ruleset.PrefixWords, ruleset.CommonWords,
	} {
		for _, rule := range group {
			add(rule.From)
		}
	}
	for _, term := range ruleset.KeepEnglish {
		add(term.Term)
		for _, rendering := range term.WrongRenderings {
			add(rendering)
		}
	}
	return covered
}
