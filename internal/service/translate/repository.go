package translate

import (
	"context"
	"database/sql"

	"github.com/kapu/dbd-kakao-bot-go/internal/constants"
	"github.com/kapu/dbd-kakao-bot-go/internal/domain"
	"github.com/kapu/dbd-kakao-bot-go/pkg/errors"
	"go.uber.org/zap"
)

const createTranslationsTable = `
CREATE TABLE IF NOT EXISTS perk_translations (
	slug TEXT PRIMARY KEY,
	original TEXT NOT NULL,
	translated TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Repository persists slug→translation rows in PostgreSQL. The stored
// original text decides whether a cached translation is still valid.
type Repository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewRepository(db *sql.DB, logger *zap.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createTranslationsTable); err != nil {
		return errors.NewStorageError("failed to create translations table", "migrate", "perk_translations", err)
	}
	return nil
}

// Get loads one entry. A missing row is (nil, nil).
func (r *Repository) Get(ctx context.Context, slug string) (*domain.TranslationEntry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT slug, original, translated, updated_at FROM perk_translations WHERE slug = $1`, slug)

	var entry domain.TranslationEntry
	if err := row.Scan(&entry.Slug, &entry.Original, &entry.Translated, &entry.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.NewStorageError("failed to load translation", "get", slug, err)
	}
	return &entry, nil
}

// Upsert overwrites the entry for a slug wholesale.
func (r *Repository) Upsert(ctx context.Context, entry *domain.TranslationEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO perk_translations (slug, original, translated, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (slug) DO UPDATE
		SET original = EXCLUDED.original, translated = EXCLUDED.translated, updated_at = EXCLUDED.updated_at`,
		entry.Slug, entry.Original, entry.Translated, entry.UpdatedAt)
	if err != nil {
		return errors.NewStorageError("failed to upsert translation", "upsert", entry.Slug, err)
	}
	return nil
}

func (r *Repository) Metadata(ctx context.Context) (*domain.TranslationMetadata, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(MAX(updated_at), to_timestamp(0)) FROM perk_translations`)

	meta := &domain.TranslationMetadata{
		Version:  constants.TranslationConfig.Version,
		Language: constants.TranslationConfig.Language,
	}
	if err := row.Scan(&meta.TotalEntries, &meta.LastUpdated); err != nil {
		return nil, errors.NewStorageError("failed to load translation metadata", "metadata", "", err)
	}
	return meta, nil
}
