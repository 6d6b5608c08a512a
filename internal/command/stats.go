package command

import (
	"context"

	"github.com/kapu/dbd-kakao-bot-go/internal/domain"
	"go.uber.org/zap"
)

type StatsCommand struct {
	deps *Dependencies
}

func NewStatsCommand(deps *Dependencies) *StatsCommand {
	return &StatsCommand{deps: deps}
}

func (c *StatsCommand) Name() string {
	return "stats"
}

func (c *StatsCommand) Description() string {
	return "Thống kê dữ liệu perk và bản dịch"
}

func (c *StatsCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error {
	counts := c.deps.Perks.Counts(ctx)

	meta, err := c.deps.Translations.Metadata(ctx)
	if err != nil {
		c.deps.Logger.Warn("Failed to load translation metadata", zap.Error(err))
		meta = nil
	}

	return c.deps.SendMessage(cmdCtx.Room, c.deps.Formatter.FormatStats(counts, meta))
}
