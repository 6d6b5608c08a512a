package perks

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/kapu/dbd-kakao-bot-go/internal/domain"
	"github.com/kapu/dbd-kakao-bot-go/internal/service/cache"
	"github.com/kapu/dbd-kakao-bot-go/internal/util"
	"go.uber.org/zap"
)

type fakeScraper struct {
	mu       sync.Mutex
	calls    int
	datasets map[domain.Category]*domain.PerkDataset
	err      error
	delay    time.Duration
}

func (f *fakeScraper) ScrapeAllPerks(_ context.Context) (map[domain.Category]*domain.PerkDataset, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.datasets, nil
}

func (f *fakeScraper) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeDatasetStore struct {
	mu        sync.Mutex
	envelopes map[domain.Category]*cache.DatasetEnvelope
}

func newFakeDatasetStore() *fakeDatasetStore {
	return &fakeDatasetStore{envelopes: make(map[domain.Category]*cache.DatasetEnvelope)}
}

func (f *fakeDatasetStore) GetDataset(_ context.Context, category domain.Category) (*cache.DatasetEnvelope, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	envelope, ok := f.envelopes[category]
	return envelope, ok
}

func (f *fakeDatasetStore) SetDataset(_ context.Context, category domain.Category, dataset *domain.PerkDataset) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.envelopes[category] = &cache.DatasetEnvelope{Dataset: dataset, WrittenAt: time.Now()}
	return nil
}

func (f *fakeDatasetStore) prime(category domain.Category, dataset *domain.PerkDataset, writtenAt time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.envelopes[category] = &cache.DatasetEnvelope{Dataset: dataset, WrittenAt: writtenAt}
}

func makePerk(name, character string, category domain.Category) *domain.Perk {
	slug := util.Slugify(name)
	return &domain.Perk{
		ID:            domain.NewPerkID(category, slug),
		Name:          name,
		Slug:          slug,
		Description:   name + " does something.",
		Category:      category,
		CharacterName: character,
	}
}

func survivorDatasets(perks ...*domain.Perk) map[domain.Category]*domain.PerkDataset {
	return map[domain.Category]*domain.PerkDataset{
		domain.CategorySurvivor: domain.NewPerkDataset(domain.CategorySurvivor, perks),
		domain.CategoryKiller:   domain.NewPerkDataset(domain.CategoryKiller, nil),
	}
}

func TestGetDatasetServesFreshCacheWithoutScrape(t *testing.T) {
	store := newFakeDatasetStore()
	store.prime(domain.CategorySurvivor,
		domain.NewPerkDataset(domain.CategorySurvivor, []*domain.Perk{makePerk("Bond", "Dwight Fairfield", domain.CategorySurvivor)}),
		time.Now())
	scraper := &fakeScraper{}
	svc := NewService(scraper, store, time.Hour, 5, zap.NewNop())

	dataset := svc.GetDataset(context.Background(), domain.CategorySurvivor)

	if dataset.Len() != 1 {
		t.Errorf("Len() = %d, want 1", dataset.Len())
	}
	if scraper.callCount() != 0 {
		t.Errorf("scraper called %d times for fresh cache, want 0", scraper.callCount())
	}
}

func TestGetDatasetRefreshesStaleCache(t *testing.T) {
	store := newFakeDatasetStore()
	store.prime(domain.CategorySurvivor,
		domain.NewPerkDataset(domain.CategorySurvivor, []*domain.Perk{makePerk("Old Perk", "", domain.CategorySurvivor)}),
		time.Now().Add(-2*time.Hour))
	scraper := &fakeScraper{datasets: survivorDatasets(makePerk("Sprint Burst", "Meg Thomas", domain.CategorySurvivor))}
	svc := NewService(scraper, store, time.Hour, 5, zap.NewNop())

	dataset := svc.GetDataset(context.Background(), domain.CategorySurvivor)

	if scraper.callCount() != 1 {
		t.Fatalf("scraper called %d times, want 1", scraper.callCount())
	}
	if dataset.FindBySlug("sprint_burst") == nil {
		t.Error("refreshed dataset missing new perk")
	}

	envelope, ok := store.GetDataset(context.Background(), domain.CategorySurvivor)
	if !ok || envelope.Dataset.FindBySlug("sprint_burst") == nil {
		t.Error("refreshed dataset not written back to cache")
	}
}

func TestGetDatasetFallsBackToStaleOnFetchFailure(t *testing.T) {
	store := newFakeDatasetStore()
	store.prime(domain.CategorySurvivor,
		domain.NewPerkDataset(domain.CategorySurvivor, []*domain.Perk{makePerk("Bond", "Dwight Fairfield", domain.CategorySurvivor)}),
		time.Now().Add(-2*time.Hour))
	scraper := &fakeScraper{err: fmt.Errorf("wiki unreachable")}
	svc := NewService(scraper, store, time.Hour, 5, zap.NewNop())

	dataset := svc.GetDataset(context.Background(), domain.CategorySurvivor)

	if dataset.FindBySlug("bond") == nil {
		t.Error("stale dataset not served on fetch failure")
	}
}

func TestGetDatasetReturnsEmptyWithoutAnyData(t *testing.T) {
	scraper := &fakeScraper{err: fmt.Errorf("wiki unreachable")}
	svc := NewService(scraper, newFakeDatasetStore(), time.Hour, 5, zap.NewNop())

	dataset := svc.GetDataset(context.Background(), domain.CategorySurvivor)

	if dataset == nil {
		t.Fatal("expected empty dataset, got nil")
	}
	if dataset.Len() != 0 {
		t.Errorf("Len() = %d, want 0", dataset.Len())
	}
}

func TestConcurrentRefreshSharesOneScrape(t *testing.T) {
	scraper := &fakeScraper{
		datasets: survivorDatasets(makePerk("Bond", "", domain.CategorySurvivor)),
		delay:    50 * time.Millisecond,
	}
	svc := NewService(scraper, newFakeDatasetStore(), time.Hour, 5, zap.NewNop())

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.GetDataset(context.Background(), domain.CategorySurvivor)
		}()
	}
	wg.Wait()

	if scraper.callCount() != 1 {
		t.Errorf("scraper called %d times, want 1 shared call", scraper.callCount())
	}
}

func TestSearchExactMatchFirst(t *testing.T) {
	store := newFakeDatasetStore()
	store.prime(domain.CategorySurvivor, domain.NewPerkDataset(domain.CategorySurvivor, []*domain.Perk{
		makePerk("Any Sprint Burst", "", domain.CategorySurvivor),
		makePerk("Sprint Burst", "Meg Thomas", domain.CategorySurvivor),
	}), time.Now())
	store.prime(domain.CategoryKiller, domain.NewPerkDataset(domain.CategoryKiller, nil), time.Now())
	svc := NewService(&fakeScraper{}, store, time.Hour, 5, zap.NewNop())

	results := svc.Search(context.Background(), "sprint burst", domain.CategoryAll)

	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].Name != "Sprint Burst" {
		t.Errorf("first result = %q, want exact match first", results[0].Name)
	}
}

func TestSearchIsAccentInsensitive(t *testing.T) {
	store := newFakeDatasetStore()
	store.prime(domain.CategorySurvivor, domain.NewPerkDataset(domain.CategorySurvivor, []*domain.Perk{
		makePerk("Déjà Vu", "", domain.CategorySurvivor),
	}), time.Now())
	svc := NewService(&fakeScraper{}, store, time.Hour, 5, zap.NewNop())

	results := svc.Search(context.Background(), "deja vu", domain.CategorySurvivor)

	if len(results) != 1 || results[0].Name != "Déjà Vu" {
		t.Errorf("accent-insensitive search failed, results = %v", results)
	}
}

func TestSearchMatchesCharacterName(t *testing.T) {
	store := newFakeDatasetStore()
	store.prime(domain.CategorySurvivor, domain.NewPerkDataset(domain.CategorySurvivor, []*domain.Perk{
		makePerk("Sprint Burst", "Meg Thomas", domain.CategorySurvivor),
		makePerk("Bond", "Dwight Fairfield", domain.CategorySurvivor),
	}), time.Now())
	svc := NewService(&fakeScraper{}, store, time.Hour, 5, zap.NewNop())

	results := svc.Search(context.Background(), "meg", domain.CategorySurvivor)

	if len(results) != 1 || results[0].Name != "Sprint Burst" {
		t.Errorf("character search failed, results = %v", results)
	}
}

func TestSearchCapsResults(t *testing.T) {
	var perks []*domain.Perk
	for i := range 8 {
		perks = append(perks, makePerk(fmt.Sprintf("Hex: Variant %c", 'A'+i), "", domain.CategoryKiller))
	}
	store := newFakeDatasetStore()
	store.prime(domain.CategoryKiller, domain.NewPerkDataset(domain.CategoryKiller, perks), time.Now())
	svc := NewService(&fakeScraper{}, store, time.Hour, 5, zap.NewNop())

	results := svc.Search(context.Background(), "hex", domain.CategoryKiller)

	if len(results) != 5 {
		t.Errorf("results = %d, want capped at 5", len(results))
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	svc := NewService(&fakeScraper{}, newFakeDatasetStore(), time.Hour, 5, zap.NewNop())

	if results := svc.Search(context.Background(), "   ", domain.CategoryAll); results != nil {
		t.Errorf("expected nil for empty query, got %d results", len(results))
	}
}
