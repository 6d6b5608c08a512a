package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/kapu/dbd-kakao-bot-go/internal/constants"
	"github.com/kapu/dbd-kakao-bot-go/internal/domain"
	"go.uber.org/zap"
)

// TableLocator finds the per-category perk tables inside the wiki page.
type TableLocator struct {
	logger *zap.Logger
}

func NewTableLocator(logger *zap.Logger) *TableLocator {
	return &TableLocator{logger: logger}
}

func headingAnchor(category domain.Category) string {
	if category == domain.CategoryKiller {
		return "Killer_Perks"
	}
	return "Survivor_Perks"
}

func headingLabel(category domain.Category) string {
	if category == domain.CategoryKiller {
		return "killer perks"
	}
	return "survivor perks"
}

// Locate finds the perk table body for a category. Two strategies run in
// order: the span anchor id the wiki uses for section headings, then a
// plain-text heading match taking the nearest following table.
func (tl *TableLocator) Locate(doc *goquery.Document, category domain.Category) (*goquery.Selection, bool) {
	if body := tl.locateByAnchor(doc, category); body != nil {
		return body, true
	}
	if body := tl.locateByHeadingText(doc, category); body != nil {
		tl.logger.Debug("Perk table found via heading text", zap.String("category", category.String()))
		return body, true
	}
	return nil, false
}

func (tl *TableLocator) locateByAnchor(doc *goquery.Document, category domain.Category) *goquery.Selection {
	anchor := headingAnchor(category)
	var result *goquery.Selection

	doc.Find("h3").EachWithBreak(func(_ int, heading *goquery.Selection) bool {
		matched := false
		heading.Find("span[id]").Each(func(_ int, span *goquery.Selection) {
			if id, ok := span.Attr("id"); ok && strings.Contains(id, anchor) {
				matched = true
			}
		})
		if !matched {
			return true
		}

		next := heading.Next()
		if goquery.NodeName(next) != "table" {
			return true
		}
		result = tableBody(next)
		return false
	})

	return result
}

func (tl *TableLocator) locateByHeadingText(doc *goquery.Document, category domain.Category) *goquery.Selection {
	label := headingLabel(category)
	var result *goquery.Selection

	doc.Find("h2, h3").EachWithBreak(func(_ int, heading *goquery.Selection) bool {
		if !strings.Contains(strings.ToLower(heading.Text()), label) {
			return true
		}
		table := heading.NextAllFiltered("table").First()
		if table.Length() == 0 {
			return true
		}
		result = tableBody(table)
		return false
	})

	return result
}

func tableBody(table *goquery.Selection) *goquery.Selection {
	if tbody := table.Find("tbody").First(); tbody.Length() > 0 {
		return tbody
	}
	return table
}

// TableCandidate is a large table found by the whole-document sweep,
// classified by the nearest preceding heading.
type TableCandidate struct {
	Body     *goquery.Selection
	Category domain.Category
}

// LocateAllTables sweeps every table on the page and keeps the ones big enough
// to plausibly be a perk list. Only used when the anchored strategies find
// nothing for either category.
func (tl *TableLocator) LocateAllTables(doc *goquery.Document) []TableCandidate {
	var candidates []TableCandidate

	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		body := tableBody(table)
		if body.Find("tr").Length() < constants.ScraperConfig.MinLargeTableRows {
			return
		}

		category := domain.CategorySurvivor
		heading := table.PrevAllFiltered("h1, h2, h3, h4").First()
		if heading.Length() > 0 && strings.Contains(strings.ToLower(heading.Text()), "killer") {
			category = domain.CategoryKiller
		}

		candidates = append(candidates, TableCandidate{Body: body, Category: category})
	})

	if len(candidates) > 0 {
		tl.logger.Warn("Falling back to whole-page table sweep", zap.Int("tables", len(candidates)))
	}
	return candidates
}
