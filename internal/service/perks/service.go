package perks

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kapu/dbd-kakao-bot-go/internal/domain"
	"github.com/kapu/dbd-kakao-bot-go/internal/service/cache"
	"github.com/kapu/dbd-kakao-bot-go/internal/util"
	"go.uber.org/zap"
)

// WikiScraper produces fresh datasets for all categories from one fetch.
type WikiScraper interface {
	ScrapeAllPerks(ctx context.Context) (map[domain.Category]*domain.PerkDataset, error)
}

// DatasetStore reads and writes cached dataset envelopes.
type DatasetStore interface {
	GetDataset(ctx context.Context, category domain.Category) (*cache.DatasetEnvelope, bool)
	SetDataset(ctx context.Context, category domain.Category, dataset *domain.PerkDataset) error
}

// Service orchestrates dataset access: fresh cache hits are served directly,
// stale or missing entries trigger a refresh, and on fetch failure stale data
// is preferred over nothing. Reads never fail; the worst case is an empty
// dataset.
type Service struct {
	scraper    WikiScraper
	cache      DatasetStore
	ttl        time.Duration
	maxResults int
	logger     *zap.Logger

	mu       sync.Mutex
	inflight *refreshCall
}

// refreshCall is the shared result of one in-flight scrape. Both category
// keys are written by the same scrape, so concurrent requesters of either
// category join the same call instead of racing their own fetches.
type refreshCall struct {
	done     chan struct{}
	datasets map[domain.Category]*domain.PerkDataset
	err      error
}

func NewService(scraper WikiScraper, store DatasetStore, ttl time.Duration, maxResults int, logger *zap.Logger) *Service {
	return &Service{
		scraper:    scraper,
		cache:      store,
		ttl:        ttl,
		maxResults: maxResults,
		logger:     logger,
	}
}

// GetDataset returns the dataset for a category, refreshing when the cached
// copy is stale or missing. Fetch failures fall back to the stale copy, then
// to an empty dataset.
func (s *Service) GetDataset(ctx context.Context, category domain.Category) *domain.PerkDataset {
	envelope, found := s.cache.GetDataset(ctx, category)
	if found && envelope.IsFresh(time.Now(), s.ttl) {
		return envelope.Dataset
	}

	datasets, err := s.refresh(ctx)
	if err == nil {
		if dataset := datasets[category]; dataset != nil {
			return dataset
		}
	}

	if found {
		s.logger.Warn("Refresh failed, serving stale dataset",
			zap.String("category", category.String()),
			zap.Time("written_at", envelope.WrittenAt),
			zap.Error(err))
		return envelope.Dataset
	}

	s.logger.Warn("Refresh failed with no cached fallback",
		zap.String("category", category.String()), zap.Error(err))
	return domain.NewPerkDataset(category, nil)
}

// ForceRefresh scrapes unconditionally and reports failure to the caller.
// Used by the update command where the user expects an explicit outcome.
func (s *Service) ForceRefresh(ctx context.Context) (map[domain.Category]*domain.PerkDataset, error) {
	return s.refresh(ctx)
}

// refresh runs a single scrape for both categories, shared across concurrent
// callers. Cache writes happen before anyone is released.
func (s *Service) refresh(ctx context.Context) (map[domain.Category]*domain.PerkDataset, error) {
	s.mu.Lock()
	if call := s.inflight; call != nil {
		s.mu.Unlock()
		select {
		case <-call.done:
			return call.datasets, call.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	call := &refreshCall{done: make(chan struct{})}
	s.inflight = call
	s.mu.Unlock()

	call.datasets, call.err = s.scraper.ScrapeAllPerks(ctx)
	if call.err == nil {
		for category, dataset := range call.datasets {
			if err := s.cache.SetDataset(ctx, category, dataset); err != nil {
				s.logger.Error("Failed to cache dataset",
					zap.String("category", category.String()), zap.Error(err))
			}
		}
	}

	s.mu.Lock()
	s.inflight = nil
	s.mu.Unlock()
	close(call.done)

	return call.datasets, call.err
}

// Search finds perks whose name or character matches the query, accent- and
// case-insensitively. Exact name matches sort first, the rest alphabetically.
func (s *Service) Search(ctx context.Context, query string, category domain.Category) []*domain.Perk {
	normalized := util.NormalizeSearch(query)
	if normalized == "" {
		return nil
	}

	categories := []domain.Category{category}
	if category == domain.CategoryAll {
		categories = []domain.Category{domain.CategorySurvivor, domain.CategoryKiller}
	}

	var matches []*domain.Perk
	for _, cat := range categories {
		dataset := s.GetDataset(ctx, cat)
		for _, perk := range dataset.Perks {
			if strings.Contains(util.NormalizeSearch(perk.Name), normalized) ||
				strings.Contains(util.NormalizeSearch(perk.CharacterName), normalized) {
				matches = append(matches, perk)
			}
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		iExact := util.NormalizeSearch(matches[i].Name) == normalized
		jExact := util.NormalizeSearch(matches[j].Name) == normalized
		if iExact != jExact {
			return iExact
		}
		return matches[i].Name < matches[j].Name
	})

	if len(matches) > s.maxResults {
		matches = matches[:s.maxResults]
	}
	return matches
}

// FindBySlug looks a perk up by its exact slug across the given category.
func (s *Service) FindBySlug(ctx context.Context, slug string, category domain.Category) *domain.Perk {
	categories := []domain.Category{category}
	if category == domain.CategoryAll {
		categories = []domain.Category{domain.CategorySurvivor, domain.CategoryKiller}
	}

	for _, cat := range categories {
		if perk := s.GetDataset(ctx, cat).FindBySlug(slug); perk != nil {
			return perk
		}
	}
	return nil
}

// Counts reports the dataset sizes per category without forcing a refresh of
// missing ones.
func (s *Service) Counts(ctx context.Context) map[domain.Category]int {
	counts := make(map[domain.Category]int, 2)
	for _, cat := range []domain.Category{domain.CategorySurvivor, domain.CategoryKiller} {
		if envelope, found := s.cache.GetDataset(ctx, cat); found {
			counts[cat] = envelope.Dataset.Len()
		}
	}
	return counts
}
