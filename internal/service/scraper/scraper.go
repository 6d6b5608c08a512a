package scraper

import (
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/kapu/dbd-kakao-bot-go/internal/config"
	"github.com/kapu/dbd-kakao-bot-go/internal/domain"
	"go.uber.org/zap"
)

// StructureChangedError signals that the perks page fetched fine but yielded
// no extractable rows, which usually means the wiki markup changed.
type StructureChangedError struct {
	URL         string
	ParseErrors int
}

func (e *StructureChangedError) Error() string {
	return fmt.Sprintf("no perks extracted from %s (parse errors: %d)", e.URL, e.ParseErrors)
}

// Service runs the full extraction pipeline: one fetch of the perks page, one
// locate/extract pass per category over the same document.
type Service struct {
	fetcher   *PageFetcher
	locator   *TableLocator
	extractor *RecordExtractor
	perksURL  string
	logger    *zap.Logger
}

func NewService(cfg config.WikiConfig, logger *zap.Logger) *Service {
	return &Service{
		fetcher:   NewPageFetcher(logger),
		locator:   NewTableLocator(logger),
		extractor: NewRecordExtractor(cfg.BaseURL, logger),
		perksURL:  cfg.PerksPage,
		logger:    logger,
	}
}

// ScrapeAllPerks fetches the perks page once and extracts both category
// datasets from the same document. Per-row parse failures are counted, not
// fatal; a page that yields nothing at all is a StructureChangedError.
func (s *Service) ScrapeAllPerks(ctx context.Context) (map[domain.Category]*domain.PerkDataset, error) {
	doc, err := s.fetcher.Fetch(ctx, s.perksURL)
	if err != nil {
		return nil, err
	}

	parseErrors := 0
	collected := map[domain.Category][]*domain.Perk{}

	for _, category := range []domain.Category{domain.CategorySurvivor, domain.CategoryKiller} {
		body, ok := s.locator.Locate(doc, category)
		if !ok {
			s.logger.Warn("Perk table not found", zap.String("category", category.String()))
			continue
		}
		perks, failed := s.extractTable(body, category)
		parseErrors += failed
		collected[category] = perks
	}

	if len(collected[domain.CategorySurvivor]) == 0 && len(collected[domain.CategoryKiller]) == 0 {
		for _, candidate := range s.locator.LocateAllTables(doc) {
			perks, failed := s.extractTable(candidate.Body, candidate.Category)
			parseErrors += failed
			collected[candidate.Category] = append(collected[candidate.Category], perks...)
		}
	}

	total := len(collected[domain.CategorySurvivor]) + len(collected[domain.CategoryKiller])
	if total == 0 {
		return nil, &StructureChangedError{URL: s.perksURL, ParseErrors: parseErrors}
	}

	datasets := map[domain.Category]*domain.PerkDataset{
		domain.CategorySurvivor: domain.NewPerkDataset(domain.CategorySurvivor, collected[domain.CategorySurvivor]),
		domain.CategoryKiller:   domain.NewPerkDataset(domain.CategoryKiller, collected[domain.CategoryKiller]),
	}

	s.logger.Info("Perk scrape completed",
		zap.Int("survivor", datasets[domain.CategorySurvivor].Len()),
		zap.Int("killer", datasets[domain.CategoryKiller].Len()),
		zap.Int("parse_errors", parseErrors))

	return datasets, nil
}

func (s *Service) extractTable(body *goquery.Selection, category domain.Category) ([]*domain.Perk, int) {
	var perks []*domain.Perk
	failed := 0

	body.Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return // header row
		}
		perk := s.extractor.ExtractFromRow(row, category)
		if perk == nil {
			failed++
			return
		}
		perks = append(perks, perk)
	})

	return perks, failed
}
