package app

import (
	"context"
	"fmt"

	"github.com/kapu/dbd-kakao-bot-go/internal/adapter"
	"github.com/kapu/dbd-kakao-bot-go/internal/bot"
	"github.com/kapu/dbd-kakao-bot-go/internal/config"
	"github.com/kapu/dbd-kakao-bot-go/internal/constants"
	"github.com/kapu/dbd-kakao-bot-go/internal/iris"
	"github.com/kapu/dbd-kakao-bot-go/internal/service/cache"
	"github.com/kapu/dbd-kakao-bot-go/internal/service/database"
	"github.com/kapu/dbd-kakao-bot-go/internal/service/perks"
	"github.com/kapu/dbd-kakao-bot-go/internal/service/scraper"
	"github.com/kapu/dbd-kakao-bot-go/internal/service/translate"
	"go.uber.org/zap"
)

// Container bundles assembled services for constructing runtime components.
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	botDeps *bot.Dependencies
	closers []func()
}

// NewBot instantiates a bot using the pre-built dependency graph.
func (c *Container) NewBot() (*bot.Bot, error) {
	if c == nil || c.botDeps == nil {
		return nil, fmt.Errorf("bot dependencies not initialized")
	}
	return bot.NewBot(c.botDeps)
}

// Close releases infrastructure connections in reverse construction order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// Build assembles all infrastructure services. Heavy initialization (Redis,
// PostgreSQL, dictionary compilation) happens here so bot.NewBot stays focused
// on routing.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}

	var closers []func()
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
	}()

	// Messaging primitives
	irisClient := iris.NewClient(cfg.Iris.BaseURL, logger)
	irisWS := iris.NewWebSocket(cfg.Iris.WSURL,
		constants.WebSocketConfig.MaxReconnectAttempts,
		constants.WebSocketConfig.ReconnectDelay,
		logger)
	messageAdapter := adapter.NewMessageAdapter(cfg.Bot.Prefix)
	formatter := adapter.NewResponseFormatter(cfg.Bot.Prefix)

	// Cache and database
	cacheSvc, err := cache.NewCacheService(cache.CacheConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache service: %w", err)
	}
	closers = append(closers, func() {
		_ = cacheSvc.Close()
	})

	postgresSvc, err := database.NewPostgresService(database.PostgresConfig{
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		Database: cfg.Postgres.Database,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres service: %w", err)
	}
	closers = append(closers, func() {
		_ = postgresSvc.Close()
	})

	// Translation stack
	translationRepo := translate.NewRepository(postgresSvc.GetDB(), logger)
	if err := translationRepo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to migrate translation schema: %w", err)
	}

	ruleset, err := loadRuleset(cfg, logger)
	if err != nil {
		return nil, err
	}
	translator := translate.NewTranslator(ruleset, logger)
	translationSvc := translate.NewService(translator, translationRepo, logger)

	// Perk pipeline
	scraperSvc := scraper.NewService(cfg.Wiki, logger)
	perkSvc := perks.NewService(scraperSvc, cacheSvc, cfg.Wiki.CacheTTL, cfg.Bot.MaxResults, logger)

	deps := &bot.Dependencies{
		Config:         cfg,
		Logger:         logger,
		IrisClient:     irisClient,
		IrisWebSocket:  irisWS,
		MessageAdapter: messageAdapter,
		Formatter:      formatter,
		Perks:          perkSvc,
		Translations:   translationSvc,
	}

	return &Container{
		Config:  cfg,
		Logger:  logger,
		botDeps: deps,
		closers: closers,
	}, nil
}

func loadRuleset(cfg *config.Config, logger *zap.Logger) (*translate.Ruleset, error) {
	if cfg.Bot.Dictionary != "" {
		ruleset, err := translate.LoadRulesetFromFile(cfg.Bot.Dictionary)
		if err != nil {
			return nil, fmt.Errorf("failed to load dictionary override: %w", err)
		}
		logger.Info("Dictionary override loaded", zap.String("path", cfg.Bot.Dictionary))
		return ruleset, nil
	}
	return translate.LoadDefaultRuleset()
}
