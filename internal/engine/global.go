package engine

import "sort"

const globalKey = "global"

// GlobalState tallies every reading served by the process.
type GlobalState struct {
	Themes        map[string]int `json:"themes"`
	Emotions      map[string]int `json:"emotions"`
	TotalReadings int            `json:"totalReadings"`
}

// GlobalTrend is the collective mood derived from GlobalState.
type GlobalTrend struct {
	DominantTheme   string  `json:"dominantTheme"`
	DominantEmotion string  `json:"dominantEmotion"`
	Weight          float64 `json:"weight"`
}

// Trend derives the dominant theme and emotion ("neutral" when nothing has
// been recorded) and a confidence weight that saturates at 1000 readings.
// Equal counts resolve to the alphabetically first key.
func (g GlobalState) Trend() GlobalTrend {
	return GlobalTrend{
		DominantTheme:   dominantKey(g.Themes),
		DominantEmotion: dominantKey(g.Emotions),
		Weight:          float64(min(g.TotalReadings, 1000)) / 1000,
	}
}

func dominantKey(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best, top := "neutral", 0
	for _, k := range keys {
		if counts[k] > top {
			best, top = k, counts[k]
		}
	}
	return best
}

// RecordGlobal adds one reading to the global tally.
func (e *Engine) RecordGlobal(theme, emotion string) error {
	var g GlobalState
	return e.DB.UpdateDocument(globalKey, &g, func(bool) error {
		if g.Themes == nil {
			g.Themes = map[string]int{}
		}
		if g.Emotions == nil {
			g.Emotions = map[string]int{}
		}
		g.Themes[theme]++
		g.Emotions[emotion]++
		g.TotalReadings++
		return nil
	})
}

// GlobalTrend returns the current collective trend.
func (e *Engine) GlobalTrend() (GlobalTrend, error) {
	var g GlobalState
	if _, err := e.DB.LoadDocument(globalKey, &g); err != nil {
		return GlobalState{}.Trend(), err
	}
	return g.Trend(), nil
}
