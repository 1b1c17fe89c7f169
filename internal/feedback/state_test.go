package feedback

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/lazypower/oracle/internal/themes"
)

func TestDefault(t *testing.T) {
	s := Default()
	if s.Language != "en" || s.Geo.Region != "unknown" || s.Model.LastLanguage != "en" {
		t.Errorf("unexpected defaults: %+v", s)
	}
	if len(s.Last10Themes) != 0 || s.Insights.PatternScore != 0 {
		t.Errorf("unexpected window/insights: %+v", s)
	}
}

func TestLoveOnRelease(t *testing.T) {
	s := Default()
	if err := s.Apply(Reaction{Theme: "release", Reaction: Love}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if s.Preferences["release"] != 1 {
		t.Errorf("preferences.release = %d, want 1", s.Preferences["release"])
	}
	if s.Avoid["release"] != 0 {
		t.Errorf("avoid.release = %d, want 0", s.Avoid["release"])
	}
	if s.Insights.DominantTheme != "release" || s.Insights.EmotionalTone != "release" {
		t.Errorf("insights = %+v", s.Insights)
	}
}

func TestModelClamp(t *testing.T) {
	s := Default()
	for i := 0; i < 3; i++ {
		s.Apply(Reaction{Theme: "boundaries", Reaction: Love})
	}
	if got := s.Model.ByTheme["boundaries"].Score; got != 6 {
		t.Errorf("byTheme.boundaries = %v, want 6", got)
	}
	for i := 0; i < 10; i++ {
		s.Apply(Reaction{Theme: "boundaries", Reaction: Love})
	}
	if got := s.Model.ByTheme["boundaries"].Score; got != 10 {
		t.Errorf("byTheme.boundaries = %v, want 10", got)
	}
	for i := 0; i < 10; i++ {
		s.Apply(Reaction{Theme: "boundaries", Reaction: Dislike, Tone: "direct"})
	}
	if got := s.Model.ByTheme["boundaries"].Score; got != -3 {
		t.Errorf("byTheme.boundaries = %v, want -3", got)
	}
	if got := s.Model.ByTone["direct"].Score; got != -3 {
		t.Errorf("byTone.direct = %v, want -3", got)
	}
}

func TestAvoidHasNoModelDelta(t *testing.T) {
	s := Default()
	s.Apply(Reaction{Theme: "decision", Reaction: Avoid})
	if s.Avoid["decision"] != 1 {
		t.Errorf("avoid.decision = %d, want 1", s.Avoid["decision"])
	}
	if _, ok := s.Model.ByTheme["decision"]; ok {
		t.Error("avoid should not touch the scored model")
	}
}

func TestApplyRejectsMissingTheme(t *testing.T) {
	s := Default()
	if err := s.Apply(Reaction{Reaction: Love}); !errors.Is(err, ErrInvalid) {
		t.Errorf("err = %v, want ErrInvalid", err)
	}
}

func TestApplyLanguageSet(t *testing.T) {
	s := Default()
	s.Apply(Reaction{Theme: "release", Reaction: Love, Language: "es"})
	s.Apply(Reaction{Theme: "release", Reaction: Love, Language: "es"})
	s.Apply(Reaction{Theme: "release", Reaction: Love, Language: "fr"})
	if len(s.Model.Languages) != 2 || s.Model.LastLanguage != "fr" {
		t.Errorf("model languages = %v last=%q", s.Model.Languages, s.Model.LastLanguage)
	}
}

func TestUpdateInsightsWindow(t *testing.T) {
	s := Default()
	s.UpdateInsights("release")
	s.UpdateInsights("release")
	if len(s.Last10Themes) != 1 {
		t.Errorf("repeat pushed: %v", s.Last10Themes)
	}
	for i := 0; i < 15; i++ {
		s.UpdateInsights(themes.Keys[i%len(themes.Keys)])
	}
	if len(s.Last10Themes) != 10 {
		t.Errorf("window = %d, want 10", len(s.Last10Themes))
	}
	if s.Last10Themes[9] != themes.Keys[14%len(themes.Keys)] {
		t.Errorf("newest entry = %q", s.Last10Themes[9])
	}
}

func TestUpdateInsightsBlankTheme(t *testing.T) {
	s := Default()
	s.UpdateInsights(" \t ")
	if len(s.Last10Themes) != 1 || s.Last10Themes[0] != "general" {
		t.Errorf("history = %q, want [general]", s.Last10Themes)
	}
	s.UpdateInsights("")
	if len(s.Last10Themes) != 1 {
		t.Errorf("empty theme pushed again: %q", s.Last10Themes)
	}
}

func TestTrend(t *testing.T) {
	tests := []struct {
		history []string
		want    string
	}{
		{[]string{"worthiness", "decision", "selfDiscovery"}, themes.Lifting},
		{[]string{"release", "boundaries", "direct"}, themes.Descending},
		{[]string{"release", "decision"}, themes.Balancing},
		{[]string{"worthiness", "decision"}, themes.Lifting},
		{[]string{"worthiness", "shadow"}, themes.Balancing},
		{nil, themes.Balancing},
	}
	for _, tt := range tests {
		if got := trend(tt.history); got != tt.want {
			t.Errorf("trend(%v) = %q, want %q", tt.history, got, tt.want)
		}
	}
}

func TestDominantTieBreak(t *testing.T) {
	// boundaries and release tie at 2; sorted preference keys win.
	got := dominantTheme(map[string]int{"release": 1, "boundaries": 1}, []string{"release", "boundaries"})
	if got != "boundaries" {
		t.Errorf("dominant = %q, want boundaries", got)
	}
	if got := dominantTheme(nil, nil); got != "" {
		t.Errorf("dominant of nothing = %q", got)
	}
}

func TestPatternScore(t *testing.T) {
	s := Default()
	s.UpdateInsights("release")
	s.UpdateInsights("decision")
	s.UpdateInsights("release")
	// release appears twice in the window and is dominant.
	if s.Insights.PatternScore != 1 {
		t.Errorf("patternScore = %d, want 1", s.Insights.PatternScore)
	}
	s.Avoid["decision"] = 1
	s.UpdateInsights("decision")
	if s.Insights.PatternScore != 0 {
		t.Errorf("patternScore = %d, want 0 after avoid penalty", s.Insights.PatternScore)
	}
}

func TestInvariantsUnderRandomFeedback(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	reactions := []string{Love, Dislike, Avoid, "meh"}
	s := Default()
	for i := 0; i < 500; i++ {
		s.Apply(Reaction{
			Theme:    themes.Keys[r.IntN(len(themes.Keys))],
			Reaction: reactions[r.IntN(len(reactions))],
			Tone:     "warm",
		})
		if len(s.Last10Themes) > 10 {
			t.Fatalf("window grew to %d", len(s.Last10Themes))
		}
		if p := s.Insights.PatternScore; p < 0 || p > 100 {
			t.Fatalf("patternScore = %d out of range", p)
		}
		for k, v := range s.Model.ByTheme {
			if v.Score < -3 || v.Score > 10 {
				t.Fatalf("byTheme[%s] = %v out of range", k, v.Score)
			}
		}
	}
}

func TestSetLanguageAndGeo(t *testing.T) {
	s := Default()
	if err := s.SetLanguage("de"); !errors.Is(err, ErrInvalid) {
		t.Errorf("SetLanguage(de) = %v", err)
	}
	if err := s.SetLanguage("pt"); err != nil || s.Language != "pt" {
		t.Errorf("SetLanguage(pt) = %v, lang %q", err, s.Language)
	}
	if err := s.SetGeo(Geo{Region: "mars"}); !errors.Is(err, ErrInvalid) {
		t.Errorf("SetGeo(mars) = %v", err)
	}
	if err := s.SetGeo(Geo{Region: "europe", TimeZone: "Europe/Paris"}); err != nil {
		t.Fatalf("SetGeo: %v", err)
	}
	if s.Geo.Source != "timezone" {
		t.Errorf("source = %q, want timezone", s.Geo.Source)
	}
}

func TestRegionFromTimeZone(t *testing.T) {
	tests := map[string]string{
		"America/Chicago":  "americas",
		"Europe/Lisbon":    "europe",
		"Asia/Tokyo":       "asia",
		"Africa/Lagos":     "africa",
		"Pacific/Auckland": "oceania",
		"Australia/Perth":  "oceania",
		"UTC":              "unknown",
		"":                 "unknown",
	}
	for tz, want := range tests {
		if got := RegionFromTimeZone(tz); got != want {
			t.Errorf("RegionFromTimeZone(%q) = %q, want %q", tz, got, want)
		}
	}
}
