package translate

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/kapu/dbd-kakao-bot-go/internal/domain"
	"go.uber.org/zap"
)

type fakeStore struct {
	mu          sync.Mutex
	entries     map[string]*domain.TranslationEntry
	failUpserts map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		entries:     make(map[string]*domain.TranslationEntry),
		failUpserts: make(map[string]bool),
	}
}

func (f *fakeStore) Get(_ context.Context, slug string) (*domain.TranslationEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entries[slug], nil
}

func (f *fakeStore) Upsert(_ context.Context, entry *domain.TranslationEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpserts[entry.Slug] {
		return fmt.Errorf("upsert failed for %s", entry.Slug)
	}
	f.entries[entry.Slug] = entry
	return nil
}

func (f *fakeStore) Metadata(_ context.Context) (*domain.TranslationMetadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &domain.TranslationMetadata{TotalEntries: len(f.entries)}, nil
}

func newTestService(t *testing.T, store entryStore) *Service {
	t.Helper()
	return NewService(newTestTranslator(t), store, zap.NewNop())
}

func TestGetTranslationReturnsStoredEntry(t *testing.T) {
	store := newFakeStore()
	store.entries["sprint_burst"] = &domain.TranslationEntry{
		Slug:       "sprint_burst",
		Original:   "You run fast.",
		Translated: "bạn chạy nhanh.",
		UpdatedAt:  time.Now(),
	}
	svc := newTestService(t, store)

	got, err := svc.GetTranslation(context.Background(), "sprint_burst", "You run fast.")
	if err != nil {
		t.Fatalf("GetTranslation() error = %v", err)
	}
	if got != "bạn chạy nhanh." {
		t.Errorf("GetTranslation() = %q, want stored translation", got)
	}
}

func TestGetTranslationOverwritesOnChangedOriginal(t *testing.T) {
	store := newFakeStore()
	store.entries["sprint_burst"] = &domain.TranslationEntry{
		Slug:       "sprint_burst",
		Original:   "Old description.",
		Translated: "bản dịch cũ",
		UpdatedAt:  time.Now(),
	}
	svc := newTestService(t, store)

	got, err := svc.GetTranslation(context.Background(), "sprint_burst", "You gain a token.")
	if err != nil {
		t.Fatalf("GetTranslation() error = %v", err)
	}
	if got == "bản dịch cũ" {
		t.Error("stale translation returned for changed original")
	}

	entry := store.entries["sprint_burst"]
	if entry.Original != "You gain a token." {
		t.Errorf("stored original = %q, want new original", entry.Original)
	}
	if entry.Translated != got {
		t.Errorf("stored translation %q differs from returned %q", entry.Translated, got)
	}
}

func TestGetTranslationSurfacesWriteFailure(t *testing.T) {
	store := newFakeStore()
	store.failUpserts["deja_vu"] = true
	svc := newTestService(t, store)

	got, err := svc.GetTranslation(context.Background(), "deja_vu", "You gain a token.")
	if err == nil {
		t.Error("expected persistence error")
	}
	if got == "" {
		t.Error("translation should still be returned on write failure")
	}
}

func TestTranslateAllTallies(t *testing.T) {
	store := newFakeStore()
	store.entries["unchanged"] = &domain.TranslationEntry{
		Slug:       "unchanged",
		Original:   "Same text.",
		Translated: "văn bản cũ",
		UpdatedAt:  time.Now(),
	}
	store.failUpserts["broken"] = true
	svc := newTestService(t, store)

	perks := []*domain.Perk{
		{Slug: "unchanged", Description: "Same text."},
		{Slug: "fresh", Description: "You gain a token."},
		{Slug: "broken", Description: "You lose a token."},
	}

	stats := svc.TranslateAll(context.Background(), perks)

	if stats.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", stats.Skipped)
	}
	if stats.Translated != 1 {
		t.Errorf("Translated = %d, want 1", stats.Translated)
	}
	if stats.Failed != 1 {
		t.Errorf("Failed = %d, want 1", stats.Failed)
	}
	if _, ok := store.entries["fresh"]; !ok {
		t.Error("fresh perk not persisted")
	}
}
