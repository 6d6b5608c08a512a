package domain

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/kapu/dbd-kakao-bot-go/internal/util"
)

// Category partitions perks into the two sides of a trial.
type Category string

const (
	CategorySurvivor Category = "survivor"
	CategoryKiller   Category = "killer"
	CategoryAll      Category = "all"
)

func (c Category) String() string {
	return string(c)
}

func (c Category) IsValid() bool {
	return c == CategorySurvivor || c == CategoryKiller
}

// ParseCategory maps user input to a category filter. Unknown values fall back
// to CategoryAll.
func ParseCategory(value string) Category {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "killer", "k":
		return CategoryKiller
	case "survivor", "surv", "s":
		return CategorySurvivor
	default:
		return CategoryAll
	}
}

// Perk is one ability entry extracted from the wiki.
type Perk struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Slug          string   `json:"slug"`
	IconURL       string   `json:"iconUrl,omitempty"`
	Description   string   `json:"description"`
	Category      Category `json:"category"`
	CharacterName string   `json:"characterName,omitempty"`
}

const idSuffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// NewPerkID builds an opaque identifier for a freshly extracted perk. IDs are
// unique per extraction pass and are not stable across refreshes.
func NewPerkID(category Category, slug string) string {
	suffix := make([]byte, 9)
	for i := range suffix {
		suffix[i] = idSuffixAlphabet[rand.Intn(len(idSuffixAlphabet))]
	}
	return fmt.Sprintf("%s_%s_%d_%s", category, slug, time.Now().UnixMilli(), suffix)
}

// NormalizeCharacter clears placeholder owners. "All" and "General" mark shared
// perks on the wiki, and a character equal to the perk name is a parse artifact.
func (p *Perk) NormalizeCharacter() {
	switch {
	case p.CharacterName == "":
	case p.CharacterName == "All", p.CharacterName == "General":
		p.CharacterName = ""
	case p.CharacterName == p.Name:
		p.CharacterName = ""
	case len(p.CharacterName) < 2:
		p.CharacterName = ""
	}
}

// RecomputeSlug rederives the slug from the current name. The slug is always a
// function of the name, never independently authored.
func (p *Perk) RecomputeSlug() {
	p.Slug = util.Slugify(p.Name)
}

// PerkDataset holds all perks of one category from a single extraction pass.
type PerkDataset struct {
	Category Category `json:"category"`
	Perks    []*Perk  `json:"perks"`
}

// NewPerkDataset assembles a dataset, dropping later duplicates of a slug so
// the first-encountered row wins and table order is preserved.
func NewPerkDataset(category Category, perks []*Perk) *PerkDataset {
	seen := make(map[string]bool, len(perks))
	unique := make([]*Perk, 0, len(perks))
	for _, perk := range perks {
		if perk == nil || perk.Slug == "" || seen[perk.Slug] {
			continue
		}
		seen[perk.Slug] = true
		unique = append(unique, perk)
	}
	return &PerkDataset{Category: category, Perks: unique}
}

// FindBySlug returns the perk with the given slug, or nil.
func (d *PerkDataset) FindBySlug(slug string) *Perk {
	if d == nil {
		return nil
	}
	for _, perk := range d.Perks {
		if perk.Slug == slug {
			return perk
		}
	}
	return nil
}

func (d *PerkDataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Perks)
}
