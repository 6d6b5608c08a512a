package domain

import "time"

// TranslationEntry is one persisted slug→translation mapping. The stored
// original text is authoritative for deciding whether a re-translation is
// needed: a lookup with the same slug but different original overwrites the
// entry rather than merging.
type TranslationEntry struct {
	Slug       string    `json:"slug"`
	Original   string    `json:"original"`
	Translated string    `json:"translated"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// TranslationMetadata describes the persisted translation mapping as a whole.
type TranslationMetadata struct {
	Version      string    `json:"version"`
	LastUpdated  time.Time `json:"lastUpdated"`
	TotalEntries int       `json:"totalEntries"`
	Language     string    `json:"language"`
}

// TranslationStats summarizes a bulk translation job.
type TranslationStats struct {
	Translated int
	Skipped    int
	Failed     int
}
