package command

import (
	"context"

	"github.com/kapu/dbd-kakao-bot-go/internal/domain"
	"go.uber.org/zap"
)

// PerkCommand searches the perk dataset and replies with a detail view or a
// pick list.
type PerkCommand struct {
	deps *Dependencies
}

func NewPerkCommand(deps *Dependencies) *PerkCommand {
	return &PerkCommand{deps: deps}
}

func (c *PerkCommand) Name() string {
	return "perk"
}

func (c *PerkCommand) Description() string {
	return "Tìm perk theo tên hoặc nhân vật"
}

func (c *PerkCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error {
	query := stringParam(params, "query")
	if query == "" {
		return c.deps.SendMessage(cmdCtx.Room, c.deps.Formatter.FormatPerkUsage())
	}

	category := categoryParam(params, "category")
	results := c.deps.Perks.Search(ctx, query, category)

	if len(results) == 0 {
		return c.deps.SendMessage(cmdCtx.Room, c.deps.Formatter.FormatNoResults(query))
	}

	if len(results) > 1 {
		return c.deps.SendMessage(cmdCtx.Room, c.deps.Formatter.FormatPerkList(results, query))
	}

	perk := results[0]
	translated := ""
	if boolParam(params, "translate") {
		text, err := c.deps.Translations.GetTranslation(ctx, perk.Slug, perk.Description)
		if err != nil {
			c.deps.Logger.Warn("Translation not persisted",
				zap.String("slug", perk.Slug), zap.Error(err))
		}
		translated = text
	}

	return c.deps.SendMessage(cmdCtx.Room, c.deps.Formatter.FormatPerkDetail(perk, translated))
}
