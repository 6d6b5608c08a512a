package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/kapu/dbd-kakao-bot-go/internal/config"
	"github.com/kapu/dbd-kakao-bot-go/internal/domain"
	"github.com/kapu/dbd-kakao-bot-go/internal/service/cache"
	"github.com/kapu/dbd-kakao-bot-go/internal/service/database"
	"github.com/kapu/dbd-kakao-bot-go/internal/service/scraper"
	"github.com/kapu/dbd-kakao-bot-go/internal/service/translate"
	"github.com/kapu/dbd-kakao-bot-go/internal/util"
	"go.uber.org/zap"
)

// Forces a wiki scrape, rewrites the cached datasets and re-runs the bulk
// translation. Meant for cron or manual runs after a game patch.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := util.NewLogger(cfg.Logging.Level, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cacheSvc, err := cache.NewCacheService(cache.CacheConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer cacheSvc.Close()

	postgresSvc, err := database.NewPostgresService(database.PostgresConfig{
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		Database: cfg.Postgres.Database,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer postgresSvc.Close()

	repo := translate.NewRepository(postgresSvc.GetDB(), logger)
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Fatal("Failed to migrate translation schema", zap.Error(err))
	}

	ruleset, err := translate.LoadDefaultRuleset()
	if err != nil {
		logger.Fatal("Failed to load dictionary", zap.Error(err))
	}
	translationSvc := translate.NewService(translate.NewTranslator(ruleset, logger), repo, logger)

	scraperSvc := scraper.NewService(cfg.Wiki, logger)
	datasets, err := scraperSvc.ScrapeAllPerks(ctx)
	if err != nil {
		logger.Fatal("Scrape failed", zap.Error(err))
	}

	var all []*domain.Perk
	for category, dataset := range datasets {
		if err := cacheSvc.SetDataset(ctx, category, dataset); err != nil {
			logger.Error("Failed to cache dataset",
				zap.String("category", category.String()), zap.Error(err))
		}
		all = append(all, dataset.Perks...)
	}

	stats := translationSvc.TranslateAll(ctx, all)

	fmt.Printf("Refreshed %d survivor / %d killer perks\n",
		datasets[domain.CategorySurvivor].Len(),
		datasets[domain.CategoryKiller].Len())
	fmt.Printf("Translations: %d new, %d unchanged, %d failed\n",
		stats.Translated, stats.Skipped, stats.Failed)
}
