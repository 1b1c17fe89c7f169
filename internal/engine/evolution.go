package engine

import (
	"slices"
	"time"
)

const (
	evolutionReset = 36 * time.Hour
	evolutionRing  = 5
)

// EvolutionState remembers recently served (theme, tone) keys so the next
// pick drifts away from them.
type EvolutionState struct {
	LastPrimary  string   `json:"lastPrimary"`
	LastTone     string   `json:"lastTone"`
	RecentThemes []string `json:"recentThemes"`
	LastReset    int64    `json:"lastReset"` // unix millis
}

func evolutionKey(installation string) string {
	return "evolution:" + installationOrDefault(installation)
}

// PickEvolved chooses uniformly among candidates whose key is not in the
// recent ring, falling back to the whole list when every key is recent.
// The ring is cleared when it is older than 36 hours. It returns nil for an
// empty pool.
func (e *Engine) PickEvolved(sess *Session, cands []Candidate) (*Candidate, error) {
	if len(cands) == 0 {
		return nil, nil
	}
	now := e.now()

	var (
		st     EvolutionState
		chosen Candidate
	)
	err := e.DB.UpdateDocument(evolutionKey(sess.InstallationID), &st, func(found bool) error {
		if !found || st.LastReset == 0 {
			st.LastReset = now.UnixMilli()
		}
		if now.Sub(time.UnixMilli(st.LastReset)) > evolutionReset {
			st.RecentThemes = nil
			st.LastReset = now.UnixMilli()
		}

		var cooled []Candidate
		for _, c := range cands {
			if !slices.Contains(st.RecentThemes, c.Key()) {
				cooled = append(cooled, c)
			}
		}
		pool := cooled
		if len(pool) == 0 {
			pool = cands
		}
		chosen = pool[e.intN(len(pool))]

		st.LastPrimary = chosen.Primary
		st.LastTone = chosen.Tone
		st.RecentThemes = append(st.RecentThemes, chosen.Key())
		if len(st.RecentThemes) > evolutionRing {
			st.RecentThemes = st.RecentThemes[len(st.RecentThemes)-evolutionRing:]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &chosen, nil
}
