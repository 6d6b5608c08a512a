package translate

import (
	"strings"
	"testing"

	"go.uber.org/zap"
)

func newTestTranslator(t *testing.T) *Translator {
	t.Helper()

	ruleset, err := LoadDefaultRuleset()
	if err != nil {
		t.Fatalf("failed to load default ruleset: %v", err)
	}
	return NewTranslator(ruleset, zap.NewNop())
}

func TestTranslateIsDeterministic(t *testing.T) {
	tr := newTestTranslator(t)
	input := "You gain a 15% Haste effect for 3 seconds."

	first := tr.Translate(input)
	second := tr.Translate(input)

	if first != second {
		t.Errorf("translation not deterministic: %q vs %q", first, second)
	}
	if !strings.Contains(first, "Haste") {
		t.Errorf("preserved term lost: %q", first)
	}
	if !strings.Contains(first, "giây") {
		t.Errorf("common word not translated: %q", first)
	}
	if !strings.Contains(first, "15%") {
		t.Errorf("numbers mangled: %q", first)
	}
}

func TestTranslateRestoresPreservedTerms(t *testing.T) {
	tr := newTestTranslator(t)

	got := tr.Translate("Nhận hiệu ứng tăng tốc trong 3 giây.")
	if !strings.Contains(got, "Haste") {
		t.Errorf("wrong rendering not restored to Haste: %q", got)
	}
	if strings.Contains(got, "tăng tốc") {
		t.Errorf("wrong rendering survived: %q", got)
	}
}

func TestTranslateAppliesPhrasesBeforeWords(t *testing.T) {
	tr := newTestTranslator(t)

	got := tr.Translate("This perk allows you to escape.")
	if !strings.Contains(got, "cho phép bạn") {
		t.Errorf("phrase rule not applied: %q", got)
	}
	if strings.Contains(got, "allows") {
		t.Errorf("phrase left untranslated: %q", got)
	}
}

func TestTranslateHandlesPrefixCompounds(t *testing.T) {
	tr := newTestTranslator(t)

	got := tr.Translate("Sprint Burst deactivates.")
	if !strings.Contains(got, "ngừng kích hoạt") {
		t.Errorf("prefix compound not translated: %q", got)
	}
	if strings.Contains(got, "ngừng kích hoạt lại") {
		t.Errorf("deactivates split by the bare verb rule: %q", got)
	}
}

func TestTranslateStripsFlavourQuotes(t *testing.T) {
	tr := newTestTranslator(t)

	got := tr.Translate(`You run fast. "Catch me if you can." — Meg Thomas`)
	if strings.Contains(got, "Catch me") {
		t.Errorf("flavour quote survived: %q", got)
	}
}

func TestTranslateEmptyInput(t *testing.T) {
	tr := newTestTranslator(t)

	if got := tr.Translate(""); got != "" {
		t.Errorf("Translate(\"\") = %q, want empty", got)
	}
}

func TestTranslateNormalizesPunctuation(t *testing.T) {
	tr := newTestTranslator(t)

	got := tr.Translate("Gain a token .  Then gain another , slowly .")
	if strings.Contains(got, " .") || strings.Contains(got, " ,") {
		t.Errorf("space before punctuation survived: %q", got)
	}
	if strings.Contains(got, "  ") {
		t.Errorf("double space survived: %q", got)
	}
}

func TestTranslateMemoizes(t *testing.T) {
	tr := newTestTranslator(t)

	tr.Translate("You gain a token.")
	tr.Translate("You gain a token.")
	tr.Translate("You lose a token.")

	if got := tr.MemoSize(); got != 2 {
		t.Errorf("MemoSize() = %d, want 2", got)
	}
}
