package engine

import (
	"slices"
	"time"

	"github.com/lazypower/oracle/internal/themes"
)

const (
	timeBiasChance = 0.22
	dayBiasChance  = 0.20
)

// TimeWindow buckets an hour into morning (5-11), afternoon (12-17) or
// night.
func TimeWindow(hour int) string {
	switch {
	case hour >= 5 && hour <= 11:
		return "morning"
	case hour >= 12 && hour <= 17:
		return "afternoon"
	default:
		return "night"
	}
}

var windowTones = map[string]string{
	"morning": themes.Warm,
	"night":   themes.Direct,
}

type dayVibe struct {
	tone string
	pool []string
}

var dayVibes = map[time.Weekday]dayVibe{
	time.Sunday:    {pool: []string{themes.Worthiness, themes.Decision}},
	time.Monday:    {pool: []string{themes.Worthiness, themes.Decision}},
	time.Tuesday:   {tone: themes.Direct},
	time.Wednesday: {tone: themes.Warm},
	time.Thursday:  {pool: []string{themes.SelfDiscovery}},
	time.Friday:    {pool: []string{themes.Release}},
	time.Saturday:  {pool: []string{themes.Boundaries, themes.Release}},
}

func (e *Engine) applyTimeBias(theme, window string) string {
	tone, ok := windowTones[window]
	if !ok {
		return theme
	}
	return e.nudge(theme, themes.WithContent(themes.ToneGroups[tone]), timeBiasChance)
}

func (e *Engine) applyDayBias(theme string, day time.Weekday) string {
	vibe := dayVibes[day]
	var pool []string
	switch {
	case vibe.tone != "":
		pool = themes.WithContent(themes.ToneGroups[vibe.tone])
	default:
		pool = themes.WithContent(vibe.pool)
	}
	return e.nudge(theme, pool, dayBiasChance)
}

// nudge swaps theme for a pool member with the given chance. An empty pool
// or one that already holds theme leaves it unchanged.
func (e *Engine) nudge(theme string, pool []string, chance float64) string {
	if len(pool) == 0 || slices.Contains(pool, theme) {
		return theme
	}
	if e.float64() < chance {
		return pool[e.intN(len(pool))]
	}
	return theme
}

func (e *Engine) pickTheme() string {
	keys := themes.WithContent(themes.Keys)
	return keys[e.intN(len(keys))]
}
