package command

import (
	"context"

	"github.com/kapu/dbd-kakao-bot-go/internal/domain"
	"go.uber.org/zap"
)

// UpdateCommand forces a wiki refresh and re-runs translations over the new
// datasets. Unlike passive reads, a failed fetch here is reported to the user.
type UpdateCommand struct {
	deps *Dependencies
}

func NewUpdateCommand(deps *Dependencies) *UpdateCommand {
	return &UpdateCommand{deps: deps}
}

func (c *UpdateCommand) Name() string {
	return "update"
}

func (c *UpdateCommand) Description() string {
	return "Tải lại dữ liệu perk từ wiki"
}

func (c *UpdateCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error {
	datasets, err := c.deps.Perks.ForceRefresh(ctx)
	if err != nil {
		c.deps.Logger.Error("Forced refresh failed", zap.Error(err))
		return c.deps.SendMessage(cmdCtx.Room, c.deps.Formatter.FormatUpdateFailed())
	}

	var all []*domain.Perk
	for _, dataset := range datasets {
		all = append(all, dataset.Perks...)
	}
	stats := c.deps.Translations.TranslateAll(ctx, all)

	message := c.deps.Formatter.FormatUpdateResult(
		datasets[domain.CategorySurvivor].Len(),
		datasets[domain.CategoryKiller].Len(),
		stats)
	return c.deps.SendMessage(cmdCtx.Room, message)
}
