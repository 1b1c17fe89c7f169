package themes

import (
	"slices"
	"testing"
)

func TestEveryThemeHasContent(t *testing.T) {
	if got := WithContent(Keys); len(got) != 5 {
		t.Errorf("themes with content = %v, want all 5", got)
	}
	if HasContent("general") {
		t.Error("general should not be a catalog theme")
	}
}

func TestTones(t *testing.T) {
	tests := []struct {
		key  string
		want []string
	}{
		{Release, []string{Warm, Direct}},
		{Boundaries, []string{Direct}},
		{Worthiness, []string{Warm}},
		{"general", []string{Neutral}},
	}
	for _, tt := range tests {
		if got := Tones(tt.key); !slices.Equal(got, tt.want) {
			t.Errorf("Tones(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestLookups(t *testing.T) {
	if got := Category(Worthiness); got != "self_worth" {
		t.Errorf("Category = %q", got)
	}
	if got := Category("nope"); got != "general" {
		t.Errorf("Category fallback = %q", got)
	}
	if got := Describe("nope"); got != CategoryDescriptions["general"] {
		t.Errorf("Describe fallback = %q", got)
	}
	if got := PreferredEmotion(Boundaries); got != "courage" {
		t.Errorf("PreferredEmotion = %q", got)
	}
	if got := RegionFlavor("europe"); got != "reflective" {
		t.Errorf("RegionFlavor = %q", got)
	}
	if got := RegionFlavor("unknown"); got != "neutral" {
		t.Errorf("RegionFlavor fallback = %q", got)
	}
	if got := EmotionalTone(Decision); got != "awakening" {
		t.Errorf("EmotionalTone = %q", got)
	}
	if got := EmotionalTone("general"); got != "" {
		t.Errorf("EmotionalTone(general) = %q, want empty", got)
	}
	if got := TrendThemes(Balancing); len(got) != len(Keys) {
		t.Errorf("balancing covers %d themes, want %d", len(got), len(Keys))
	}
}

func TestValidation(t *testing.T) {
	if !ValidRegion("oceania") || ValidRegion("antarctica") {
		t.Error("ValidRegion mismatch")
	}
	if !SupportedLanguage("pt") || SupportedLanguage("de") {
		t.Error("SupportedLanguage mismatch")
	}
}
