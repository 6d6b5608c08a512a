package scraper

import (
	"strings"
	"testing"
)

func TestCleanDescriptionStripsQuoteAttribution(t *testing.T) {
	input := `You instinctively know when danger is near. "Run!" — Dwight Fairfield`

	got := CleanDescription(input)
	want := "You instinctively know when danger is near."
	if got != want {
		t.Errorf("CleanDescription() = %q, want %q", got, want)
	}
}

func TestCleanDescriptionIsIdempotent(t *testing.T) {
	inputs := []string{
		`You instinctively know when danger is near. "Run!" — Dwight Fairfield`,
		"This description is based on the upcoming Patch 7.5.0. You gain a 5% Haste Status Effect.",
		"Plain text with   irregular \n whitespace.",
	}

	for _, input := range inputs {
		once := CleanDescription(input)
		twice := CleanDescription(once)
		if once != twice {
			t.Errorf("CleanDescription not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}

func TestCleanDescriptionStripsPatchNotice(t *testing.T) {
	input := "This description is based on the changes announced for Patch 7.5.0. You gain a 5% Haste Status Effect for 3 seconds."

	got := CleanDescription(input)
	if !strings.HasPrefix(got, "You gain a 5% Haste") {
		t.Errorf("patch notice not stripped, got %q", got)
	}
}

func TestCleanDescriptionKeepsTextWithoutNotice(t *testing.T) {
	input := "Unlocks the ability to heal yourself without a Med-Kit."

	got := CleanDescription(input)
	if got != input {
		t.Errorf("CleanDescription() = %q, want unchanged input", got)
	}
}

func TestCleanDescriptionDecodesEntities(t *testing.T) {
	input := "Gain 5&nbsp;% more Bloodpoints &amp; a token. <b>Max 3 tokens.</b>"

	got := CleanDescription(input)
	want := "Gain 5 % more Bloodpoints & a token. Max 3 tokens."
	if got != want {
		t.Errorf("CleanDescription() = %q, want %q", got, want)
	}
}

func TestCleanDescriptionCapsLength(t *testing.T) {
	input := strings.Repeat("All work and no play makes the Trapper a dull boy. ", 40)

	got := CleanDescription(input)
	if len([]rune(got)) != 1000 {
		t.Errorf("expected capped length 1000, got %d", len([]rune(got)))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipsis suffix, got %q", got[len(got)-10:])
	}
}
