// Package engine personalizes readings: it weighs themes against feedback,
// recency, time and geo, asks the generator for text and polishes the
// result.
package engine

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/lazypower/oracle/internal/feedback"
	"github.com/lazypower/oracle/internal/llm"
	"github.com/lazypower/oracle/internal/logging"
	"github.com/lazypower/oracle/internal/metrics"
	"github.com/lazypower/oracle/internal/store"
	"github.com/lazypower/oracle/internal/themes"
	"github.com/lazypower/oracle/internal/translate"
)

// Preferences reads and updates per-installation feedback.
type Preferences interface {
	Get(installation string) (*feedback.State, error)
	RecordTheme(installation, theme string) error
}

// Generator produces prophecy text.
type Generator interface {
	Prophecy(ctx context.Context, req llm.ProphecyRequest, mem llm.Memory) (string, error)
}

// Engine orchestrates personalized readings.
type Engine struct {
	DB         *store.DB
	Prefs      Preferences
	Generator  Generator
	Translator translate.Translator

	// Now is the clock; tests pin it.
	Now func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a new Engine.
func New(db *store.DB, prefs Preferences, gen Generator, tr translate.Translator) *Engine {
	seed := uint64(time.Now().UnixNano())
	return &Engine{
		DB:         db,
		Prefs:      prefs,
		Generator:  gen,
		Translator: tr,
		Now:        time.Now,
		rng:        rand.New(rand.NewPCG(seed, seed>>1|1)),
	}
}

// SetRand replaces the random source.
func (e *Engine) SetRand(r *rand.Rand) {
	e.mu.Lock()
	e.rng = r
	e.mu.Unlock()
}

func (e *Engine) float64() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.Float64()
}

func (e *Engine) intN(n int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.IntN(n)
}

func (e *Engine) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func installationOrDefault(id string) string {
	if id == "" {
		return feedback.DefaultInstallation
	}
	return id
}

// Session scopes one caller. It caches the preference document until
// Invalidate is called.
type Session struct {
	InstallationID string
	Location       *time.Location

	prefs *feedback.State
}

// NewSession returns a session for an installation in loc. A nil loc means
// the process zone.
func NewSession(installation string, loc *time.Location) *Session {
	if loc == nil {
		loc = time.Local
	}
	return &Session{InstallationID: installationOrDefault(installation), Location: loc}
}

// Invalidate drops the cached preference document.
func (s *Session) Invalidate() {
	s.prefs = nil
}

// preferences returns the cached document, fetching it on first use.
// Fetch errors degrade to defaults.
func (e *Engine) preferences(sess *Session) *feedback.State {
	if sess.prefs != nil {
		return sess.prefs
	}
	st, err := e.Prefs.Get(sess.InstallationID)
	if err != nil {
		logging.WithComponent("engine").Warn().Err(err).Str("installation", sess.InstallationID).
			Msg("preferences unavailable, using defaults")
		return feedback.Default()
	}
	sess.prefs = st
	return st
}

// Result is a finished personalized reading.
type Result struct {
	Prophecy   string  `json:"prophecy"`
	Aura       string  `json:"aura"`
	Emotion    Emotion `json:"emotion"`
	Difficulty string  `json:"difficulty"`
	Streak     int     `json:"streak"`
	Persona    string  `json:"persona"`
	Portal     bool    `json:"portal_1111"`
	Kind       string  `json:"kind"`
	ThemeKey   string  `json:"themeKey"`
	ThemeTone  string  `json:"themeTone"`
	Language   string  `json:"language"`
}

// RequestProphecy produces a personalized reading of kind for the session.
// Generation errors are returned; preference, insight, trend and
// translation failures are logged and skipped.
func (e *Engine) RequestProphecy(ctx context.Context, sess *Session, kind string) (*Result, error) {
	log := logging.Ctx(ctx).With().Str("component", "engine").Str("installation", sess.InstallationID).Logger()
	now := e.now().In(sess.Location)

	streak, err := e.bumpStreak(sess, now)
	if err != nil {
		log.Warn().Err(err).Msg("streak update failed")
	}
	difficulty := Difficulty(kind, streak.Count)
	portal := IsPortal(now)

	window := TimeWindow(now.Hour())
	base := e.pickTheme()
	timeBiased := e.applyTimeBias(base, window)
	dayBiased := e.applyDayBias(timeBiased, now.Weekday())

	prefs := e.preferences(sess)

	cands := BuildCandidates([]string{timeBiased, dayBiased}, prefs)
	pool := BestCandidates(cands, &prefs.Model)
	chosen, err := e.PickEvolved(sess, pool)
	if err != nil {
		log.Warn().Err(err).Msg("evolution state unavailable")
	}
	if chosen == nil {
		c := candidateFor(dayBiased)
		chosen = &c
	}

	global, err := e.GlobalTrend()
	if err != nil {
		log.Warn().Err(err).Msg("global trend unavailable")
	}
	profile, err := e.loadProfile(sess.InstallationID)
	if err != nil {
		log.Warn().Err(err).Msg("profile unavailable")
	}

	trend := prefs.Insights.Trend
	if trend == "" {
		trend = themes.Balancing
	}
	req := llm.ProphecyRequest{
		Kind:           kind,
		Difficulty:     difficulty,
		Streak:         streak.Count,
		Persona:        profile.DominantPersona,
		Portal:         portal,
		TargetCategory: themes.Category(chosen.Primary),
		Tone:           window,
		DayTone:        now.Weekday().String(),
		LanguageHint:   themes.Languages[prefs.Language],
		GeoHint:        prefs.Geo.Region,
		WorldTrend:     worldTrend(global),
		DominantTheme:  prefs.Insights.DominantTheme,
		Trend:          trend,
	}

	text, aura, err := e.Generate(ctx, sess, req)
	if err != nil {
		metrics.GenerationFailures.WithLabelValues("reading").Inc()
		return nil, fmt.Errorf("generate reading: %w", err)
	}

	emotion := AnalyzeEmotion(text)
	profile, err = e.absorbEmotion(sess.InstallationID, emotion)
	if err != nil {
		log.Warn().Err(err).Msg("persona update failed")
	}

	if err := e.Prefs.RecordTheme(sess.InstallationID, chosen.Primary); err != nil {
		log.Warn().Err(err).Msg("insight update failed")
	}
	sess.Invalidate()

	if err := e.RecordGlobal(chosen.Primary, emotion.Primary); err != nil {
		log.Warn().Err(err).Msg("global trend update failed")
	}

	final := e.polish(text, portal, now.Hour(), global)

	tone := prefs.Insights.EmotionalTone
	if tone == "" {
		tone = emotion.Primary
	}
	final = translate.Apply(ctx, e.Translator, final, prefs.Language, translate.Hint{
		Theme: chosen.Primary,
		Tone:  tone,
		Trend: trend,
	})

	metrics.ReadingsTotal.WithLabelValues(kind).Inc()
	log.Debug().Str("theme", chosen.Primary).Str("tone", chosen.Tone).Str("difficulty", difficulty).
		Bool("portal", portal).Msg("reading served")

	return &Result{
		Prophecy:   final,
		Aura:       aura,
		Emotion:    emotion,
		Difficulty: difficulty,
		Streak:     streak.Count,
		Persona:    profile.DominantPersona,
		Portal:     portal,
		Kind:       kind,
		ThemeKey:   chosen.Primary,
		ThemeTone:  chosen.Tone,
		Language:   prefs.Language,
	}, nil
}

func worldTrend(g GlobalTrend) string {
	if g.Weight == 0 {
		return ""
	}
	return g.DominantTheme + " / " + g.DominantEmotion
}

func memoryKey(installation string) string {
	return "memory:" + installationOrDefault(installation)
}

// Generate runs one generation with the session's anti-repeat memory and
// returns the text and its aura. Memory is only advanced on success.
func (e *Engine) Generate(ctx context.Context, sess *Session, req llm.ProphecyRequest) (string, string, error) {
	var mem llm.Memory
	if _, err := e.DB.LoadDocument(memoryKey(sess.InstallationID), &mem); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("anti-repeat memory unavailable")
	}

	text, err := e.Generator.Prophecy(ctx, req, mem)
	if err != nil {
		return "", "", err
	}

	aura := llm.Aura(text)
	next := llm.Memory{
		LastProphecy: text,
		LastCategory: llm.FocusCategory(req),
		LastAura:     aura,
	}
	if err := e.DB.SaveDocument(memoryKey(sess.InstallationID), next); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("anti-repeat memory not saved")
	}
	return text, aura, nil
}

// LocalInsight returns a random catalog line. The HTTP layer serves it
// when generation fails.
func (e *Engine) LocalInsight() string {
	theme := e.pickTheme()
	lines := themes.Lines[theme]
	return lines[e.intN(len(lines))]
}
