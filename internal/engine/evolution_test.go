package engine

import (
	"testing"
	"time"

	"github.com/lazypower/oracle/internal/themes"
)

func allCandidates() []Candidate {
	return BuildCandidates(nil, nil)
}

func TestPickEvolvedEmpty(t *testing.T) {
	e, _, _ := testEngine(t, afternoon)
	got, err := e.PickEvolved(NewSession("e", time.UTC), nil)
	if err != nil || got != nil {
		t.Errorf("PickEvolved(nil) = %v, %v", got, err)
	}
}

func TestPickEvolvedNoImmediateRepeat(t *testing.T) {
	e, _, _ := testEngine(t, afternoon)
	sess := NewSession("e", time.UTC)
	cands := allCandidates() // six distinct keys, ring holds five

	prev := ""
	for i := 0; i < 60; i++ {
		c, err := e.PickEvolved(sess, cands)
		if err != nil {
			t.Fatalf("PickEvolved: %v", err)
		}
		if c.Key() == prev {
			t.Fatalf("pick %d repeated %s", i, prev)
		}
		prev = c.Key()
	}

	var st EvolutionState
	e.DB.LoadDocument(evolutionKey("e"), &st)
	if len(st.RecentThemes) != evolutionRing {
		t.Errorf("ring = %d, want %d", len(st.RecentThemes), evolutionRing)
	}
	if st.LastPrimary+"|"+st.LastTone != prev {
		t.Errorf("last = %s|%s, want %s", st.LastPrimary, st.LastTone, prev)
	}
}

func TestPickEvolvedAllRecentFallsBack(t *testing.T) {
	e, _, _ := testEngine(t, afternoon)
	sess := NewSession("e", time.UTC)
	cands := []Candidate{candidateFor(themes.Boundaries), candidateFor(themes.Worthiness)}

	e.DB.SaveDocument(evolutionKey("e"), EvolutionState{
		RecentThemes: []string{cands[0].Key(), cands[1].Key()},
		LastReset:    afternoon.Add(-time.Hour).UnixMilli(),
	})

	c, err := e.PickEvolved(sess, cands)
	if err != nil || c == nil {
		t.Fatalf("PickEvolved = %v, %v", c, err)
	}
	if c.Primary != themes.Boundaries && c.Primary != themes.Worthiness {
		t.Errorf("picked %s outside the pool", c.Primary)
	}

	var st EvolutionState
	e.DB.LoadDocument(evolutionKey("e"), &st)
	if len(st.RecentThemes) != 3 {
		t.Errorf("ring = %v, want the old two plus the pick", st.RecentThemes)
	}
}

func TestPickEvolvedResetsStaleRing(t *testing.T) {
	e, _, _ := testEngine(t, afternoon)
	sess := NewSession("e", time.UTC)
	cands := []Candidate{candidateFor(themes.Boundaries)}

	e.DB.SaveDocument(evolutionKey("e"), EvolutionState{
		RecentThemes: []string{"a|warm", "b|warm", "c|warm"},
		LastReset:    afternoon.Add(-37 * time.Hour).UnixMilli(),
	})
	e.PickEvolved(sess, cands)

	var st EvolutionState
	e.DB.LoadDocument(evolutionKey("e"), &st)
	if len(st.RecentThemes) != 1 || st.LastReset != afternoon.UnixMilli() {
		t.Errorf("state after stale reset = %+v", st)
	}
}

func TestBiasNudge(t *testing.T) {
	e, _, _ := testEngine(t, afternoon)

	// A pool containing the theme never moves it.
	for i := 0; i < 50; i++ {
		if got := e.nudge(themes.Release, []string{themes.Release}, 1); got != themes.Release {
			t.Fatalf("nudge moved a theme already in the pool")
		}
	}
	if got := e.nudge(themes.Release, nil, 1); got != themes.Release {
		t.Errorf("nudge with empty pool = %s", got)
	}
	if got := e.nudge(themes.Decision, []string{themes.Boundaries}, 1); got != themes.Boundaries {
		t.Errorf("certain nudge = %s, want boundaries", got)
	}
	if got := e.nudge(themes.Decision, []string{themes.Boundaries}, 0); got != themes.Decision {
		t.Errorf("impossible nudge = %s, want decision", got)
	}
}

func TestTimeWindow(t *testing.T) {
	tests := map[int]string{0: "night", 4: "night", 5: "morning", 11: "morning", 12: "afternoon", 17: "afternoon", 18: "night", 23: "night"}
	for h, want := range tests {
		if got := TimeWindow(h); got != want {
			t.Errorf("TimeWindow(%d) = %q, want %q", h, got, want)
		}
	}
}

func TestDayBiasPools(t *testing.T) {
	e, _, _ := testEngine(t, afternoon)
	// Thursday pool is selfDiscovery only; with enough draws the nudge lands.
	moved := false
	for i := 0; i < 200; i++ {
		if e.applyDayBias(themes.Boundaries, time.Thursday) == themes.SelfDiscovery {
			moved = true
			break
		}
	}
	if !moved {
		t.Error("thursday bias never applied")
	}
	// Tuesday is the direct pool, which already holds boundaries.
	for i := 0; i < 50; i++ {
		if got := e.applyDayBias(themes.Boundaries, time.Tuesday); got != themes.Boundaries {
			t.Fatalf("tuesday moved boundaries to %s", got)
		}
	}
}
