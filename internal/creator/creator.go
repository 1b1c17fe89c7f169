// Package creator produces branded social posts: the prophecy text,
// captions, hashtags and a rendered card, ready for the content queue.
package creator

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/lazypower/oracle/internal/llm"
	"github.com/lazypower/oracle/internal/logging"
	"github.com/lazypower/oracle/internal/metrics"
	"github.com/lazypower/oracle/internal/store"
)

// ErrUnknownKind is returned for a kind outside Kinds.
var ErrUnknownKind = errors.New("unknown card kind")

// TextSource writes the sentence for a card.
type TextSource interface {
	Creator(ctx context.Context, kind string) (string, error)
}

// Generator builds queue items. Cards are written under Dir and addressed
// as URLPrefix/<file>.
type Generator struct {
	Text      TextSource
	Renderer  Renderer
	Dir       string
	URLPrefix string
	Now       func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator returns a Generator that renders into dir.
func NewGenerator(text TextSource, renderer Renderer, dir string) *Generator {
	return &Generator{
		Text:      text,
		Renderer:  renderer,
		Dir:       dir,
		URLPrefix: "/cards",
		Now:       time.Now,
		rng:       rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// SetRand replaces the random source used for hashtags.
func (g *Generator) SetRand(r *rand.Rand) {
	g.mu.Lock()
	g.rng = r
	g.mu.Unlock()
}

// Generate produces a complete post of kind. A failed text call falls back
// to a placeholder line so a card is still produced; a failed render is an
// error.
func (g *Generator) Generate(ctx context.Context, kind string) (*store.QueueItem, error) {
	if !ValidKind(kind) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	log := logging.WithComponent("creator")

	text, err := g.Text.Creator(ctx, kind)
	if err != nil {
		log.Warn().Err(err).Str("kind", kind).Msg("creator generation failed")
		metrics.GenerationFailures.WithLabelValues("creator").Inc()
		text = llm.BlurredText
	}

	g.mu.Lock()
	tags := Hashtags(g.rng, HashtagOptions{
		Theme: auraThemes[llm.Aura(text)],
		Depth: depthFor(kind),
	})
	g.mu.Unlock()

	item := &store.QueueItem{
		Kind:         kind,
		ProphecyText: text,
		Captions:     BuildCaptions(kind, text),
		CTA:          CTA(kind),
		Hashtags:     tags,
		CreatedAt:    g.Now().UnixMilli(),
	}

	if g.Renderer != nil {
		name := fmt.Sprintf("%s-%d-%s.png", kind, item.CreatedAt, uuid.NewString()[:8])
		path, err := g.renderTo(name, text, kind)
		if err != nil {
			return nil, err
		}
		item.CardPath = path
		item.CardURL = g.URLPrefix + "/" + name
	}

	log.Info().Str("kind", kind).Str("card", item.CardPath).Msg("card generated")
	return item, nil
}

func (g *Generator) renderTo(name, text, kind string) (string, error) {
	if err := os.MkdirAll(g.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create cards dir: %w", err)
	}
	path := filepath.Join(g.Dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create card: %w", err)
	}
	if err := g.Renderer.Render(f, text, kind); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("render card: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("write card: %w", err)
	}
	return path, nil
}

// captionFile is the on-disk shape written by SaveCaption.
type captionFile struct {
	Type     string         `json:"type"`
	Prophecy string         `json:"prophecy"`
	Captions store.Captions `json:"captions"`
	CTA      string         `json:"cta"`
	Hashtags string         `json:"hashtags"`
	CardURL  string         `json:"cardUrl"`
}

// SaveCaption writes item as <kind>-<createdAt>.json under dir and returns
// the file path.
func SaveCaption(dir string, item *store.QueueItem) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create captions dir: %w", err)
	}
	data, err := json.MarshalIndent(captionFile{
		Type:     item.Kind,
		Prophecy: item.ProphecyText,
		Captions: item.Captions,
		CTA:      item.CTA,
		Hashtags: item.Hashtags,
		CardURL:  item.CardURL,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal caption: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-%d.json", item.Kind, item.CreatedAt))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write caption: %w", err)
	}
	return path, nil
}
