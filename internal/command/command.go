package command

import (
	"context"

	"github.com/kapu/dbd-kakao-bot-go/internal/adapter"
	"github.com/kapu/dbd-kakao-bot-go/internal/domain"
	"go.uber.org/zap"
)

type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error
}

// PerkProvider is the dataset surface commands work against.
type PerkProvider interface {
	Search(ctx context.Context, query string, category domain.Category) []*domain.Perk
	ForceRefresh(ctx context.Context) (map[domain.Category]*domain.PerkDataset, error)
	Counts(ctx context.Context) map[domain.Category]int
}

// TranslationProvider serves per-perk translations and bulk runs.
type TranslationProvider interface {
	GetTranslation(ctx context.Context, slug, original string) (string, error)
	TranslateAll(ctx context.Context, perks []*domain.Perk) *domain.TranslationStats
	Metadata(ctx context.Context) (*domain.TranslationMetadata, error)
}

type Dependencies struct {
	Perks        PerkProvider
	Translations TranslationProvider
	Formatter    *adapter.ResponseFormatter
	SendMessage  func(room, message string) error
	Logger       *zap.Logger
}

func stringParam(params map[string]any, key string) string {
	value, _ := params[key].(string)
	return value
}

func boolParam(params map[string]any, key string) bool {
	value, _ := params[key].(bool)
	return value
}

func categoryParam(params map[string]any, key string) domain.Category {
	if value, ok := params[key].(domain.Category); ok {
		return value
	}
	return domain.CategoryAll
}
