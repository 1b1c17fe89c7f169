package engine

import (
	"math"
	"strings"
	"testing"
	"time"
)

func TestAnalyzeEmotion(t *testing.T) {
	em := AnalyzeEmotion("You no longer need to be brave.")
	if em.Release != 1 || em.Courage != 1 || em.Tenderness != 0 {
		t.Errorf("emotion = %+v", em)
	}
	if em.Clarity != 0.146 {
		t.Errorf("clarity = %v, want 0.146 (length bonus only)", em.Clarity)
	}
	if em.Primary != "release" {
		t.Errorf("primary = %q, want release (ties keep the earlier bucket)", em.Primary)
	}

	em = AnalyzeEmotion("Be gentle and kind, and you will understand.")
	if em.Primary != "tenderness" || em.Tenderness != 1 {
		t.Errorf("emotion = %+v, want tenderness primary", em)
	}
}

func TestAnalyzeEmotionBounds(t *testing.T) {
	texts := []string{"", "risk risk risk", strings.Repeat("see clarity realize understand ", 20)}
	for _, text := range texts {
		em := AnalyzeEmotion(text)
		for _, v := range []float64{em.Release, em.Courage, em.Tenderness, em.Clarity} {
			if v < 0 || v > 1 {
				t.Errorf("AnalyzeEmotion(%q) out of range: %+v", text, em)
			}
		}
	}
}

func TestProfileAbsorb(t *testing.T) {
	p := DefaultProfile()
	if p.DominantPersona != Wanderer {
		t.Errorf("default persona = %q", p.DominantPersona)
	}
	now := time.Unix(0, 0)

	p.Absorb(Emotion{Courage: 1}, now)
	if p.DominantPersona != Pathbreaker || p.TotalReads != 1 {
		t.Errorf("after courage: %+v", p)
	}
	if math.Abs(p.Courage-0.65) > 1e-9 || math.Abs(p.Clarity-0.35) > 1e-9 {
		t.Errorf("blend = %+v", p)
	}

	// Equal dimensions resolve to the Seer.
	p = DefaultProfile()
	p.Absorb(Emotion{}, now)
	if p.DominantPersona != Seer {
		t.Errorf("equal dims persona = %q, want Seer", p.DominantPersona)
	}

	var zero Profile
	zero.Absorb(Emotion{}, now)
	if zero.DominantPersona != Wanderer {
		t.Errorf("all-zero persona = %q, want Wanderer", zero.DominantPersona)
	}

	p = Profile{Release: 1}
	p.Absorb(Emotion{Release: 1}, now)
	if p.DominantPersona != Alchemist {
		t.Errorf("release-led persona = %q, want Alchemist", p.DominantPersona)
	}
}

func TestStreakBump(t *testing.T) {
	var s Streak
	day := time.Date(2026, 1, 31, 22, 0, 0, 0, time.UTC)
	s.Bump(day)
	s.Bump(day.Add(time.Hour))
	if s.Count != 1 {
		t.Errorf("same-day bump count = %d, want 1", s.Count)
	}
	s.Bump(day.AddDate(0, 0, 1))
	if s.Count != 2 || s.LastDate != "2026-02-01" {
		t.Errorf("next-day streak = %+v", s)
	}
	s.Bump(day.AddDate(0, 0, 3))
	if s.Count != 1 {
		t.Errorf("gap streak = %d, want 1", s.Count)
	}
}

func TestStreakUsesLocalDay(t *testing.T) {
	e, _, _ := testEngine(t, afternoon)
	chicago, err := time.LoadLocation("America/Chicago")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	sess := NewSession("s", chicago)
	// 03:00 UTC on the 11th is still the 10th in Chicago.
	first := time.Date(2026, 3, 11, 3, 0, 0, 0, time.UTC).In(chicago)
	second := time.Date(2026, 3, 11, 20, 0, 0, 0, time.UTC).In(chicago)
	e.bumpStreak(sess, first)
	s, _ := e.bumpStreak(sess, second)
	if s.Count != 2 {
		t.Errorf("streak = %+v, want 2 across the local day boundary", s)
	}
}

func TestDifficulty(t *testing.T) {
	tests := []struct {
		kind   string
		streak int
		want   string
	}{
		{"free_first", 1, Soft},
		{"free_repeat", 4, Soft},
		{"early_access", 1, Deep},
		{"deeper_access", 3, Intense},
		{"free_first", 5, Journey},
		{"early_access", 9, Journey},
	}
	for _, tt := range tests {
		if got := Difficulty(tt.kind, tt.streak); got != tt.want {
			t.Errorf("Difficulty(%s, %d) = %s, want %s", tt.kind, tt.streak, got, tt.want)
		}
	}
}

func TestPortal(t *testing.T) {
	at := func(h, m, s int) time.Time { return time.Date(2026, 3, 10, h, m, s, 0, time.UTC) }
	if !IsPortal(at(11, 11, 5)) || !IsPortal(at(23, 11, 59)) {
		t.Error("portal minute not detected")
	}
	if IsPortal(at(11, 12, 0)) || IsPortal(at(13, 11, 0)) {
		t.Error("portal detected outside 11:11/23:11")
	}

	tests := []struct {
		now  time.Time
		want time.Time
	}{
		{at(9, 0, 0), at(11, 11, 0)},
		{at(11, 11, 0), at(23, 11, 0)},
		{at(23, 30, 0), at(11, 11, 0).AddDate(0, 0, 1)},
	}
	for _, tt := range tests {
		if got := NextPortal(tt.now); !got.Equal(tt.want) {
			t.Errorf("NextPortal(%v) = %v, want %v", tt.now, got, tt.want)
		}
	}
}

func TestGlobalSoftener(t *testing.T) {
	g := GlobalState{Emotions: map[string]int{"fear": 50}, Themes: map[string]int{"release": 50}, TotalReadings: 50}
	trend := g.Trend()
	if trend.Weight != 0.05 {
		t.Errorf("weight = %v, want 0.05", trend.Weight)
	}
	if got := soften("Breathe.", trend); got != "Breathe." {
		t.Errorf("soften at low weight = %q", got)
	}

	g.TotalReadings = 200
	if got := soften("Breathe.", g.Trend()); !strings.HasSuffix(got, " Breathe.") || got == "Breathe." {
		t.Errorf("soften at 0.2 = %q, want softener prefix", got)
	}

	g.Emotions = map[string]int{"courage": 5}
	if got := soften("Breathe.", g.Trend()); got != "Breathe." {
		t.Errorf("unmapped emotion softened: %q", got)
	}
}

func TestGlobalTrendDefaults(t *testing.T) {
	trend := GlobalState{}.Trend()
	if trend.DominantTheme != "neutral" || trend.DominantEmotion != "neutral" || trend.Weight != 0 {
		t.Errorf("empty trend = %+v", trend)
	}
	g := GlobalState{Themes: map[string]int{"release": 2, "boundaries": 2}, TotalReadings: 5000}
	if got := g.Trend(); got.DominantTheme != "boundaries" || got.Weight != 1 {
		t.Errorf("trend = %+v, want boundaries tie-break and weight 1", got)
	}
}

func TestPolishPortalBanner(t *testing.T) {
	e, _, _ := testEngine(t, afternoon)
	got := e.polish("Breathe.", true, 11, GlobalTrend{})
	if !strings.HasPrefix(got, PortalBanner+"Breathe.") {
		t.Errorf("polish = %q", got)
	}
	if got := e.polish("Breathe.", false, 11, GlobalTrend{}); strings.HasPrefix(got, PortalBanner) {
		t.Errorf("banner outside portal: %q", got)
	}
}
