package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/kapu/dbd-kakao-bot-go/internal/adapter"
	"github.com/kapu/dbd-kakao-bot-go/internal/command"
	"github.com/kapu/dbd-kakao-bot-go/internal/config"
	"github.com/kapu/dbd-kakao-bot-go/internal/domain"
	"github.com/kapu/dbd-kakao-bot-go/internal/iris"
	"go.uber.org/zap"
)

const commandTimeout = 60 * time.Second

// Dependencies carries everything a running bot needs, assembled by app.Build.
type Dependencies struct {
	Config         *config.Config
	Logger         *zap.Logger
	IrisClient     *iris.Client
	IrisWebSocket  *iris.WebSocket
	MessageAdapter *adapter.MessageAdapter
	Formatter      *adapter.ResponseFormatter
	Perks          command.PerkProvider
	Translations   command.TranslationProvider
}

// Bot routes incoming KakaoTalk messages to command handlers and sends the
// replies back through the Iris bridge.
type Bot struct {
	deps         *Dependencies
	registry     *command.Registry
	allowedRooms map[string]bool
	logger       *zap.Logger
}

func NewBot(deps *Dependencies) (*Bot, error) {
	if deps == nil || deps.Config == nil || deps.IrisClient == nil || deps.IrisWebSocket == nil {
		return nil, fmt.Errorf("bot dependencies incomplete")
	}

	allowedRooms := make(map[string]bool, len(deps.Config.Kakao.Rooms))
	for _, room := range deps.Config.Kakao.Rooms {
		allowedRooms[room] = true
	}

	b := &Bot{
		deps:         deps,
		registry:     command.NewRegistry(),
		allowedRooms: allowedRooms,
		logger:       deps.Logger,
	}

	cmdDeps := &command.Dependencies{
		Perks:        deps.Perks,
		Translations: deps.Translations,
		Formatter:    deps.Formatter,
		SendMessage:  b.sendMessage,
		Logger:       deps.Logger,
	}
	b.registry.Register(command.NewPerkCommand(cmdDeps))
	b.registry.Register(command.NewUpdateCommand(cmdDeps))
	b.registry.Register(command.NewStatsCommand(cmdDeps))
	b.registry.Register(command.NewHelpCommand(cmdDeps))

	return b, nil
}

// Start connects the push channel and blocks until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	b.deps.IrisWebSocket.OnMessage(func(message *iris.Message) {
		b.handleMessage(ctx, message)
	})

	if err := b.deps.IrisWebSocket.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to Iris: %w", err)
	}

	b.logger.Info("Bot started",
		zap.Int("commands", b.registry.Count()),
		zap.Int("rooms", len(b.allowedRooms)))

	<-ctx.Done()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.deps.IrisWebSocket.Stop()
	b.logger.Info("Bot stopped")
	return nil
}

func (b *Bot) handleMessage(ctx context.Context, message *iris.Message) {
	if message == nil || !b.allowedRooms[message.Room] {
		return
	}

	parsed := b.deps.MessageAdapter.ParseMessage(message)
	if parsed.Type == domain.CommandUnknown {
		return
	}

	sender := ""
	if message.Sender != nil {
		sender = *message.Sender
	}
	cmdCtx := domain.NewCommandContext(message.Room, message.Room, sender, message.Msg, true)

	b.logger.Info("Command received",
		zap.String("command", parsed.Type.String()),
		zap.String("room", message.Room))

	// Commands may hit the wiki; run them off the read loop.
	go func() {
		execCtx, cancel := context.WithTimeout(ctx, commandTimeout)
		defer cancel()

		if err := b.registry.Execute(execCtx, cmdCtx, parsed.Type.String(), parsed.Params); err != nil {
			b.logger.Error("Command failed",
				zap.String("command", parsed.Type.String()),
				zap.Error(err))
			_ = b.sendMessage(message.Room, b.deps.Formatter.FormatError("Đã xảy ra lỗi, vui lòng thử lại sau."))
		}
	}()
}

func (b *Bot) sendMessage(room, message string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return b.deps.IrisClient.SendMessage(ctx, room, message)
}
