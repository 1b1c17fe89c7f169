package engine

import (
	"slices"

	"github.com/lazypower/oracle/internal/feedback"
	"github.com/lazypower/oracle/internal/themes"
)

// Candidate is one (theme, tone) entry in the selection pool. Weight is
// expressed by duplicating entries.
type Candidate struct {
	Primary        string `json:"primary"`
	Tone           string `json:"tone"`
	PrimaryEmotion string `json:"primaryEmotion"`
}

// Key identifies a candidate in the evolution ring.
func (c Candidate) Key() string {
	return c.Primary + "|" + c.Tone
}

func candidateFor(theme string) Candidate {
	return Candidate{
		Primary:        theme,
		Tone:           themes.PrimaryTone(theme),
		PrimaryEmotion: themes.PreferredEmotion(theme),
	}
}

const minFeedbackWeight = 0.3

// FeedbackWeight scores how strongly a theme should be represented given
// the installation's feedback. The result is never below 0.3. A nil state
// weighs every theme at 1.
func FeedbackWeight(theme string, st *feedback.State) float64 {
	if st == nil {
		return 1
	}
	w := 1.0
	w += float64(min(st.Preferences[theme], 3)) * 0.4
	w -= float64(min(st.Avoid[theme], 3)) * 0.6
	if slices.Contains(st.Last10Themes, theme) {
		w -= 0.2
	}

	if tone := st.Insights.EmotionalTone; tone != "" && slices.Contains(themes.ToneThemes[tone], theme) {
		w += 0.3
	}

	if trend := st.Insights.Trend; trend != "" {
		pool := themes.TrendThemes(trend)
		switch {
		case slices.Contains(pool, theme):
			w += 0.2
		case (trend == themes.Lifting || trend == themes.Descending) && len(pool) > 0:
			w -= 0.1
		}
	}

	if st.Insights.PatternScore > 50 && st.Insights.DominantTheme == theme {
		w -= 0.3
	}

	flavor := themes.RegionFlavor(st.Geo.Region)
	if slices.Contains(themes.FlavorThemes(flavor), theme) {
		w += 0.15
	}

	return max(minFeedbackWeight, w)
}

// BuildCandidates expands the catalog into a weighted pool. Each theme with
// content contributes, per tone membership, max(1, round(weight)) entries,
// plus one more when it is in preferred.
func BuildCandidates(preferred []string, st *feedback.State) []Candidate {
	var out []Candidate
	for _, theme := range themes.WithContent(themes.Keys) {
		weight := FeedbackWeight(theme, st)
		emotion := themes.PreferredEmotion(theme)
		for _, tone := range themes.Tones(theme) {
			n := max(1, int(roundHalfUp(weight)))
			if slices.Contains(preferred, theme) {
				n++
			}
			for range n {
				out = append(out, Candidate{Primary: theme, Tone: tone, PrimaryEmotion: emotion})
			}
		}
	}
	return out
}

// PreferenceScore rates a candidate against the scored preference model.
func PreferenceScore(c Candidate, m *feedback.Model) float64 {
	if m == nil {
		return 0
	}
	return m.ByTheme[c.Primary].Score +
		m.ByEmotion[c.PrimaryEmotion].Score*0.75 +
		m.ByTone[c.Tone].Score*0.5
}

// BestCandidates keeps every candidate sharing the maximal preference score.
func BestCandidates(cands []Candidate, m *feedback.Model) []Candidate {
	var (
		best      []Candidate
		bestScore float64
	)
	for i, c := range cands {
		s := PreferenceScore(c, m)
		switch {
		case i == 0 || s > bestScore:
			bestScore = s
			best = []Candidate{c}
		case s == bestScore:
			best = append(best, c)
		}
	}
	if len(best) == 0 {
		return cands
	}
	return best
}
