package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/kapu/dbd-kakao-bot-go/internal/config"
	"github.com/kapu/dbd-kakao-bot-go/internal/domain"
	"go.uber.org/zap"
)

const perksPageHTML = `<html><body>
<h3><span id="Survivor_Perks">Survivor Perks</span></h3>
<table><tbody>
<tr><th>Icon</th><th>Name</th><th>Character</th><td>Description</td></tr>
<tr>
	<th><a href="/images/IconPerks_sprintBurst.png"><img src="/images/IconPerks_sprintBurst.png"></a></th>
	<th><a href="/wiki/Sprint_Burst">Sprint Burst</a></th>
	<th><a href="/wiki/Meg_Thomas">Meg Thomas</a></th>
	<td>While running, you run at 150% of your normal running speed.</td>
</tr>
<tr><td>no capitalized subject in this fragment</td></tr>
</tbody></table>
<h3><span id="Killer_Perks">Killer Perks</span></h3>
<table><tbody>
<tr><th>Icon</th><th>Name</th><th>Character</th><td>Description</td></tr>
<tr>
	<th><a href="/images/IconPerks_hexRuin.png">icon</a></th>
	<th><a href="/wiki/Hex:_Ruin">Hex: Ruin</a></th>
	<th><a href="/wiki/The_Hag">The Hag</a></th>
	<td>A Hex rooting its power on hope, affecting generator repair.</td>
</tr>
</tbody></table>
</body></html>`

func TestExtractTableSkipsMalformedRows(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<table><tbody>
		<tr><th>Icon</th><th>Name</th><td>Description</td></tr>
		<tr><td>no capitalized subject in this fragment</td></tr>
		<tr><td>Deja Vu allows you to see the locations of three generators.</td></tr>
	</tbody></table>`))
	if err != nil {
		t.Fatalf("failed to parse test HTML: %v", err)
	}

	svc := NewService(config.WikiConfig{BaseURL: testBaseURL, PerksPage: testBaseURL + "/wiki/Perks"}, zap.NewNop())
	perks, failed := svc.extractTable(doc.Find("tbody").First(), domain.CategorySurvivor)

	if len(perks) != 1 {
		t.Fatalf("extracted %d perks, want 1", len(perks))
	}
	if perks[0].Name != "Deja Vu" {
		t.Errorf("Name = %q, want %q", perks[0].Name, "Deja Vu")
	}
	if failed != 1 {
		t.Errorf("parse failures = %d, want 1", failed)
	}
}

func TestScrapeAllPerksToleratesMalformedRows(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(perksPageHTML))
	}))
	defer server.Close()

	svc := NewService(config.WikiConfig{BaseURL: server.URL, PerksPage: server.URL + "/wiki/Perks"}, zap.NewNop())
	datasets, err := svc.ScrapeAllPerks(context.Background())
	if err != nil {
		t.Fatalf("ScrapeAllPerks returned error: %v", err)
	}

	survivor := datasets[domain.CategorySurvivor]
	if survivor.Len() != 1 {
		t.Fatalf("survivor dataset has %d perks, want 1", survivor.Len())
	}
	if survivor.Perks[0].Name != "Sprint Burst" {
		t.Errorf("survivor perk = %q, want %q", survivor.Perks[0].Name, "Sprint Burst")
	}
	if survivor.Perks[0].CharacterName != "Meg Thomas" {
		t.Errorf("CharacterName = %q, want %q", survivor.Perks[0].CharacterName, "Meg Thomas")
	}

	killer := datasets[domain.CategoryKiller]
	if killer.Len() != 1 {
		t.Fatalf("killer dataset has %d perks, want 1", killer.Len())
	}
	if killer.Perks[0].Slug != "hex_ruin" {
		t.Errorf("killer slug = %q, want %q", killer.Perks[0].Slug, "hex_ruin")
	}
}

func TestScrapeAllPerksEmptyPageIsStructureChange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>nothing here</p></body></html>`))
	}))
	defer server.Close()

	svc := NewService(config.WikiConfig{BaseURL: server.URL, PerksPage: server.URL + "/wiki/Perks"}, zap.NewNop())
	_, err := svc.ScrapeAllPerks(context.Background())

	structureErr, ok := err.(*StructureChangedError)
	if !ok {
		t.Fatalf("expected StructureChangedError, got %v", err)
	}
	if !strings.Contains(structureErr.Error(), "no perks extracted") {
		t.Errorf("unexpected error text: %q", structureErr.Error())
	}
}
