package util

import "testing"

func TestStripCharacterQuotesRemovesAttributedQuote(t *testing.T) {
	input := `You instinctively know when danger is near. "Run!" — Dwight Fairfield`

	got := StripCharacterQuotes(input)
	want := "You instinctively know when danger is near."
	if got != want {
		t.Errorf("StripCharacterQuotes() = %q, want %q", got, want)
	}
}

func TestStripCharacterQuotesRemovesDanglingDash(t *testing.T) {
	input := `Your heartbeat slows. "Shhh..." —`

	got := StripCharacterQuotes(input)
	want := "Your heartbeat slows."
	if got != want {
		t.Errorf("StripCharacterQuotes() = %q, want %q", got, want)
	}
}

func TestStripCharacterQuotesKeepsUnattributedQuote(t *testing.T) {
	input := `Grants the ability to break "pallets"`

	if got := StripCharacterQuotes(input); got != input {
		t.Errorf("StripCharacterQuotes() = %q, want unchanged input", got)
	}
}

func TestQuoteAttribution(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{`"Run!" — Dwight Fairfield`, "Dwight Fairfield"},
		{`Perk text. "I turned around." — Ace Visconti.`, "Ace Visconti"},
		{`No quote at all`, ""},
		{`"Quote without attribution"`, ""},
	}
	for _, tc := range cases {
		if got := QuoteAttribution(tc.input); got != tc.want {
			t.Errorf("QuoteAttribution(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
