// Package feedback keeps the per-installation preference document: reaction
// tallies, the recent-theme window, derived insights, locale, geo and the
// scored preference model.
package feedback

import (
	"errors"
	"slices"
	"sort"
	"strings"

	"github.com/lazypower/oracle/internal/themes"
)

// ErrInvalid marks a rejected feedback mutation. Nothing is written.
var ErrInvalid = errors.New("invalid feedback")

const (
	historySize     = 10
	maxPatternScore = 100
	minModelScore   = -3
	maxModelScore   = 10
)

// Reactions accepted by Apply.
const (
	Love    = "love"
	Dislike = "dislike"
	Avoid   = "avoid"
)

// Insights are derived from the recent-theme window and tallies.
type Insights struct {
	DominantTheme string `json:"dominantTheme"`
	Trend         string `json:"trend"`
	EmotionalTone string `json:"emotionalTone"`
	PatternScore  int    `json:"patternScore"`
}

// Geo is the installation's coarse location.
type Geo struct {
	TimeZone string `json:"timeZone"`
	Region   string `json:"region"`
	Source   string `json:"source"`
}

// Score is a clamped preference model entry.
type Score struct {
	Score float64 `json:"score"`
}

// Model is the per-(theme, emotion, tone) scored preference model.
type Model struct {
	ByTheme      map[string]Score `json:"byTheme"`
	ByEmotion    map[string]Score `json:"byEmotion"`
	ByTone       map[string]Score `json:"byTone"`
	Languages    []string         `json:"languages"`
	LastLanguage string           `json:"lastLanguage"`
}

// State is the whole preference document for one installation.
type State struct {
	Preferences  map[string]int `json:"preferences"`
	Avoid        map[string]int `json:"avoid"`
	Last10Themes []string       `json:"last10Themes"`
	Insights     Insights       `json:"insights"`
	Language     string         `json:"language"`
	Geo          Geo            `json:"geo"`
	Model        Model          `json:"preferencesModel"`
}

// Default returns a fresh preference document.
func Default() *State {
	s := &State{}
	s.Normalize()
	return s
}

// Normalize fills missing fields with defaults and restores invariants on a
// document read from storage.
func (s *State) Normalize() {
	if s.Preferences == nil {
		s.Preferences = map[string]int{}
	}
	if s.Avoid == nil {
		s.Avoid = map[string]int{}
	}
	if s.Last10Themes == nil {
		s.Last10Themes = []string{}
	}
	if len(s.Last10Themes) > historySize {
		s.Last10Themes = s.Last10Themes[len(s.Last10Themes)-historySize:]
	}
	s.Insights.PatternScore = clampInt(s.Insights.PatternScore, 0, maxPatternScore)
	if s.Language == "" {
		s.Language = "en"
	}
	if !themes.ValidRegion(s.Geo.Region) {
		s.Geo.Region = "unknown"
	}
	if s.Geo.Source == "" {
		s.Geo.Source = "none"
	}
	if s.Model.ByTheme == nil {
		s.Model.ByTheme = map[string]Score{}
	}
	if s.Model.ByEmotion == nil {
		s.Model.ByEmotion = map[string]Score{}
	}
	if s.Model.ByTone == nil {
		s.Model.ByTone = map[string]Score{}
	}
	if s.Model.Languages == nil {
		s.Model.Languages = []string{}
	}
	if s.Model.LastLanguage == "" {
		s.Model.LastLanguage = "en"
	}
}

// Reaction is one feedback event.
type Reaction struct {
	Theme          string
	Reaction       string
	PrimaryEmotion string
	Tone           string
	Language       string
}

// Apply records a reaction: tallies, the scored model, the language set and
// finally the insights for the theme.
func (s *State) Apply(r Reaction) error {
	theme := strings.TrimSpace(r.Theme)
	if r.Theme == "" {
		return ErrInvalid
	}
	if theme == "" {
		theme = "general"
	}

	switch r.Reaction {
	case Love:
		s.Preferences[theme]++
	case Dislike, Avoid:
		s.Avoid[theme]++
	}

	var delta float64
	switch r.Reaction {
	case Love:
		delta = 2
	case Dislike:
		delta = -2
	}
	if delta != 0 {
		adjust(s.Model.ByTheme, theme, delta)
		adjust(s.Model.ByEmotion, r.PrimaryEmotion, delta)
		adjust(s.Model.ByTone, r.Tone, delta)
	}

	if r.Language != "" {
		if !slices.Contains(s.Model.Languages, r.Language) {
			s.Model.Languages = append(s.Model.Languages, r.Language)
		}
		s.Model.LastLanguage = r.Language
	}

	s.UpdateInsights(theme)
	return nil
}

func adjust(m map[string]Score, key string, delta float64) {
	if key == "" {
		return
	}
	e := m[key]
	e.Score = min(max(e.Score+delta, minModelScore), maxModelScore)
	m[key] = e
}

// UpdateInsights pushes theme into the recent window (unless it repeats the
// last entry) and recomputes the derived insights.
func (s *State) UpdateInsights(theme string) {
	theme = strings.TrimSpace(theme)
	if theme == "" {
		theme = "general"
	}
	if n := len(s.Last10Themes); n == 0 || s.Last10Themes[n-1] != theme {
		s.Last10Themes = append(s.Last10Themes, theme)
		if len(s.Last10Themes) > historySize {
			s.Last10Themes = s.Last10Themes[len(s.Last10Themes)-historySize:]
		}
	}

	dominant := dominantTheme(s.Preferences, s.Last10Themes)
	score := s.Insights.PatternScore
	if dominant != "" && count(s.Last10Themes, dominant) > 1 {
		score = min(maxPatternScore, score+1)
	}
	if s.Avoid[theme] > 0 {
		score = max(0, score-5)
	}

	s.Insights = Insights{
		DominantTheme: dominant,
		Trend:         trend(s.Last10Themes),
		EmotionalTone: themes.EmotionalTone(dominant),
		PatternScore:  score,
	}
}

// dominantTheme sums preference tallies and window occurrences and returns
// the highest scorer. Ties go to the key seen first: preference keys in
// sorted order, then window order.
func dominantTheme(prefs map[string]int, history []string) string {
	scores := map[string]int{}
	var order []string
	seen := func(k string) {
		if _, ok := scores[k]; !ok {
			order = append(order, k)
			scores[k] = 0
		}
	}

	keys := make([]string, 0, len(prefs))
	for k := range prefs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		seen(k)
		scores[k] += prefs[k]
	}
	for _, k := range history {
		seen(k)
		scores[k]++
	}

	best, bestScore := "", 0
	for i, k := range order {
		if i == 0 || scores[k] > bestScore {
			best, bestScore = k, scores[k]
		}
	}
	return best
}

var (
	lightThemes = []string{themes.Worthiness, themes.Decision, themes.Warm, themes.SelfDiscovery}
	deepThemes  = []string{themes.Release, themes.Boundaries, themes.Direct}
)

func trend(history []string) string {
	light, deep := 0, 0
	for _, t := range history {
		switch {
		case slices.Contains(lightThemes, t):
			light++
		case slices.Contains(deepThemes, t):
			deep++
		}
	}
	switch {
	case light > deep+1:
		return themes.Lifting
	case deep > light+1:
		return themes.Descending
	default:
		return themes.Balancing
	}
}

// SetLanguage switches the reading language.
func (s *State) SetLanguage(code string) error {
	if !themes.SupportedLanguage(code) {
		return ErrInvalid
	}
	s.Language = code
	return nil
}

// SetGeo replaces the geo block. An empty source defaults to "timezone".
func (s *State) SetGeo(g Geo) error {
	if !themes.ValidRegion(g.Region) {
		return ErrInvalid
	}
	if g.Source == "" {
		g.Source = "timezone"
	}
	s.Geo = g
	return nil
}

func count(xs []string, x string) int {
	n := 0
	for _, v := range xs {
		if v == x {
			n++
		}
	}
	return n
}

func clampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
