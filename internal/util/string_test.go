package util

import (
	"strings"
	"testing"
)

func TestSlugifyProducesStableKeys(t *testing.T) {
	cases := map[string]string{
		"Sprint Burst":          "sprint_burst",
		"Déjà Vu":               "d_j_vu",
		"We're Gonna Live...":   "we_re_gonna_live",
		"  Spies from Shadows ": "spies_from_shadows",
		"Hex: Ruin":             "hex_ruin",
		"!!!":                   "",
		"A":                     "a",
	}

	for name, want := range cases {
		if got := Slugify(name); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestSlugifyIsIdempotent(t *testing.T) {
	names := []string{"Sprint Burst", "Hex: Devour Hope", "Barbecue & Chilli"}
	for _, name := range names {
		once := Slugify(name)
		twice := Slugify(once)
		if once != twice {
			t.Errorf("Slugify not idempotent for %q: %q != %q", name, once, twice)
		}
	}
}

func TestSlugifyCharacterSet(t *testing.T) {
	slug := Slugify("Boon: Circle of Healing (v2)")
	if strings.HasPrefix(slug, "_") || strings.HasSuffix(slug, "_") {
		t.Fatalf("slug has leading/trailing underscore: %q", slug)
	}
	if strings.Contains(slug, "__") {
		t.Fatalf("slug contains repeated underscore: %q", slug)
	}
	for _, r := range slug {
		valid := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_'
		if !valid {
			t.Fatalf("slug contains invalid rune %q: %q", r, slug)
		}
	}
}

func TestNormalizeSearchStripsDiacritics(t *testing.T) {
	if got := NormalizeSearch("Déjà Vu"); got != "deja vu" {
		t.Errorf("NormalizeSearch(Déjà Vu) = %q, want %q", got, "deja vu")
	}
	if got := NormalizeSearch("  SPRINT   Burst! "); got != "sprint burst" {
		t.Errorf("NormalizeSearch = %q, want %q", got, "sprint burst")
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("Truncate should not modify short strings, got %q", got)
	}

	long := strings.Repeat("a", 1200)
	got := Truncate(long, 1000)
	if len([]rune(got)) != 1000 {
		t.Errorf("Truncate length = %d, want 1000", len([]rune(got)))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("Truncate should append ellipsis")
	}
}
