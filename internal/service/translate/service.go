package translate

import (
	"context"
	"sync"
	"time"

	"github.com/kapu/dbd-kakao-bot-go/internal/constants"
	"github.com/kapu/dbd-kakao-bot-go/internal/domain"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// entryStore is the persistence surface the service needs. Satisfied by
// Repository and by test fakes.
type entryStore interface {
	Get(ctx context.Context, slug string) (*domain.TranslationEntry, error)
	Upsert(ctx context.Context, entry *domain.TranslationEntry) error
	Metadata(ctx context.Context) (*domain.TranslationMetadata, error)
}

// Service combines the pure translator with the persistent entry store.
type Service struct {
	translator *Translator
	store      entryStore
	logger     *zap.Logger
}

func NewService(translator *Translator, store entryStore, logger *zap.Logger) *Service {
	return &Service{
		translator: translator,
		store:      store,
		logger:     logger,
	}
}

// GetTranslation returns the stored translation when the stored original still
// matches, otherwise translates and overwrites the entry. The returned string
// is always usable; a non-nil error only reports a persistence failure.
func (s *Service) GetTranslation(ctx context.Context, slug, original string) (string, error) {
	entry, err := s.store.Get(ctx, slug)
	if err != nil {
		s.logger.Warn("Translation lookup failed, treating as absent",
			zap.String("slug", slug), zap.Error(err))
	}
	if entry != nil && entry.Original == original {
		return entry.Translated, nil
	}

	translated := s.translator.Translate(original)

	writeErr := s.store.Upsert(ctx, &domain.TranslationEntry{
		Slug:       slug,
		Original:   original,
		Translated: translated,
		UpdatedAt:  time.Now(),
	})
	if writeErr != nil {
		s.logger.Error("Failed to persist translation",
			zap.String("slug", slug), zap.Error(writeErr))
	}
	return translated, writeErr
}

// TranslateAll translates every perk description, skipping entries whose
// stored original is unchanged. Per-perk failures are tallied, not fatal.
func (s *Service) TranslateAll(ctx context.Context, perks []*domain.Perk) *domain.TranslationStats {
	stats := &domain.TranslationStats{}
	var mu sync.Mutex

	p := pool.New().WithMaxGoroutines(constants.TranslationConfig.Concurrency)
	for _, perk := range perks {
		p.Go(func() {
			entry, err := s.store.Get(ctx, perk.Slug)
			if err == nil && entry != nil && entry.Original == perk.Description {
				mu.Lock()
				stats.Skipped++
				mu.Unlock()
				return
			}

			translated := s.translator.Translate(perk.Description)
			upsertErr := s.store.Upsert(ctx, &domain.TranslationEntry{
				Slug:       perk.Slug,
				Original:   perk.Description,
				Translated: translated,
				UpdatedAt:  time.Now(),
			})

			mu.Lock()
			if upsertErr != nil {
				stats.Failed++
			} else {
				stats.Translated++
			}
			mu.Unlock()
		})
	}
	p.Wait()

	s.logger.Info("Bulk translation finished",
		zap.Int("translated", stats.Translated),
		zap.Int("skipped", stats.Skipped),
		zap.Int("failed", stats.Failed))
	return stats
}

func (s *Service) Metadata(ctx context.Context) (*domain.TranslationMetadata, error) {
	return s.store.Metadata(ctx)
}
