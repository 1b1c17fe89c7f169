package engine

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/lazypower/oracle/internal/feedback"
	"github.com/lazypower/oracle/internal/llm"
	"github.com/lazypower/oracle/internal/store"
	"github.com/lazypower/oracle/internal/themes"
	"github.com/lazypower/oracle/internal/translate"
)

type stubGen struct {
	text string
	err  error
	reqs []llm.ProphecyRequest
	mems []llm.Memory
}

func (g *stubGen) Prophecy(_ context.Context, req llm.ProphecyRequest, mem llm.Memory) (string, error) {
	g.reqs = append(g.reqs, req)
	g.mems = append(g.mems, mem)
	return g.text, g.err
}

func testEngine(t *testing.T, now time.Time) (*Engine, *stubGen, *feedback.Service) {
	t.Helper()
	db, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	gen := &stubGen{text: "You already see the door you keep walking past."}
	prefs := feedback.NewService(db)
	e := New(db, prefs, gen, translate.HintTranslator{})
	e.Now = func() time.Time { return now }
	e.SetRand(rand.New(rand.NewPCG(1, 2)))
	return e, gen, prefs
}

var afternoon = time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)

func TestRequestProphecyRecordsEverything(t *testing.T) {
	e, gen, prefs := testEngine(t, afternoon)
	sess := NewSession("inst-1", time.UTC)

	res, err := e.RequestProphecy(context.Background(), sess, "free_first")
	if err != nil {
		t.Fatalf("RequestProphecy: %v", err)
	}
	if !strings.Contains(res.Prophecy, gen.text) {
		t.Errorf("Prophecy = %q, want it to contain generated text", res.Prophecy)
	}
	if res.Streak != 1 || res.Difficulty != Soft || res.Portal {
		t.Errorf("result = %+v", res)
	}
	if !themes.HasContent(res.ThemeKey) {
		t.Errorf("ThemeKey = %q is not a catalog theme", res.ThemeKey)
	}
	if res.Language != "en" || res.Kind != "free_first" {
		t.Errorf("language/kind = %q/%q", res.Language, res.Kind)
	}
	if res.Persona == "" || res.Persona == Wanderer {
		t.Errorf("Persona = %q, want a label after a read", res.Persona)
	}

	if len(gen.reqs) != 1 {
		t.Fatalf("generator calls = %d", len(gen.reqs))
	}
	req := gen.reqs[0]
	if req.TargetCategory != themes.Category(res.ThemeKey) || req.Tone != "afternoon" || req.DayTone != "Tuesday" {
		t.Errorf("request = %+v", req)
	}

	st, _ := prefs.Get("inst-1")
	if len(st.Last10Themes) != 1 || st.Last10Themes[0] != res.ThemeKey {
		t.Errorf("insight window = %v, want [%s]", st.Last10Themes, res.ThemeKey)
	}

	trend, _ := e.GlobalTrend()
	if trend.DominantTheme != res.ThemeKey || trend.Weight != 0.001 {
		t.Errorf("global trend = %+v", trend)
	}
}

func TestRequestProphecyGenerationError(t *testing.T) {
	e, gen, _ := testEngine(t, afternoon)
	gen.err = errors.New("upstream down")
	sess := NewSession("x", time.UTC)

	if _, err := e.RequestProphecy(context.Background(), sess, "free_first"); err == nil {
		t.Fatal("expected generation error")
	}
	var mem llm.Memory
	if found, _ := e.DB.LoadDocument(memoryKey("x"), &mem); found {
		t.Errorf("memory advanced on failure: %+v", mem)
	}
}

func TestPortalReading(t *testing.T) {
	e, _, _ := testEngine(t, time.Date(2026, 3, 10, 11, 11, 5, 0, time.UTC))
	res, err := e.RequestProphecy(context.Background(), NewSession("p", time.UTC), "early_access")
	if err != nil {
		t.Fatalf("RequestProphecy: %v", err)
	}
	if !res.Portal {
		t.Error("portal = false at 11:11:05")
	}
	if !strings.HasPrefix(res.Prophecy, PortalBanner) {
		t.Errorf("Prophecy = %q, want banner prefix", res.Prophecy)
	}
	if res.Difficulty != Deep {
		t.Errorf("Difficulty = %q, want deep", res.Difficulty)
	}
}

func TestReadingTranslated(t *testing.T) {
	e, _, prefs := testEngine(t, afternoon)
	prefs.SetLanguage("t", "es")

	res, err := e.RequestProphecy(context.Background(), NewSession("t", time.UTC), "free_repeat")
	if err != nil {
		t.Fatalf("RequestProphecy: %v", err)
	}
	if !strings.HasPrefix(res.Prophecy, "✦ ") || res.Language != "es" {
		t.Errorf("Prophecy = %q language = %q", res.Prophecy, res.Language)
	}
}

func TestGenerateCarriesMemory(t *testing.T) {
	e, gen, _ := testEngine(t, afternoon)
	sess := NewSession("m", time.UTC)
	ctx := context.Background()

	if _, _, err := e.Generate(ctx, sess, llm.ProphecyRequest{Kind: "free_first", TargetCategory: "release"}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	text, aura, err := e.Generate(ctx, sess, llm.ProphecyRequest{Kind: "free_first", TargetCategory: "clarity"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != gen.text || aura != llm.Aura(gen.text) {
		t.Errorf("text/aura = %q/%q", text, aura)
	}
	if gen.mems[0].LastProphecy != "" {
		t.Errorf("first call memory = %+v, want empty", gen.mems[0])
	}
	if gen.mems[1].LastProphecy != gen.text || gen.mems[1].LastCategory != "release" {
		t.Errorf("second call memory = %+v", gen.mems[1])
	}
}

func TestSessionCachesPreferences(t *testing.T) {
	e, _, prefs := testEngine(t, afternoon)
	sess := NewSession("c", time.UTC)

	first := e.preferences(sess)
	prefs.SetLanguage("c", "fr")
	if got := e.preferences(sess); got != first || got.Language != "en" {
		t.Errorf("cached prefs not reused")
	}
	sess.Invalidate()
	if got := e.preferences(sess); got.Language != "fr" {
		t.Errorf("Language after invalidate = %q, want fr", got.Language)
	}
}

func TestLocalInsight(t *testing.T) {
	e, _, _ := testEngine(t, afternoon)
	line := e.LocalInsight()
	found := false
	for _, lines := range themes.Lines {
		for _, l := range lines {
			if l == line {
				found = true
			}
		}
	}
	if !found {
		t.Errorf("LocalInsight = %q is not a catalog line", line)
	}
}
