package poster

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/lazypower/oracle/internal/metrics"
	"github.com/lazypower/oracle/internal/store"
)

// Entry is the head of a posting source.
type Entry struct {
	ID        string
	Caption   string
	ImageURL  string // absolute, or relative to the public base URL
	ImagePath string // local file, if one exists
}

// Source yields posts in order. Peek never consumes; Done is called only
// after a confirmed primary publish.
type Source interface {
	Name() string
	Peek() (*Entry, error)
	Done(id string) error
}

// QueueSource drains the content queue.
type QueueSource struct {
	DB *store.DB
}

func (s QueueSource) Name() string { return "queue" }

func (s QueueSource) Peek() (*Entry, error) {
	item, err := s.DB.PeekQueue()
	if err != nil || item == nil {
		return nil, err
	}
	return &Entry{
		ID:        item.ID,
		Caption:   QueueCaption(item),
		ImageURL:  item.CardURL,
		ImagePath: item.CardPath,
	}, nil
}

func (s QueueSource) Done(id string) error {
	removed, err := s.DB.RemoveQueueItem(id)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("queue item %s already gone", id)
	}
	if n, err := s.DB.QueueLength(); err == nil {
		metrics.QueueDepth.Set(float64(n))
	}
	return nil
}

// QueueCaption is the published caption for a queue item: the medium
// caption, the call to action, then the hashtags.
func QueueCaption(item *store.QueueItem) string {
	parts := make([]string, 0, 3)
	for _, s := range []string{item.Captions.Medium, item.CTA, item.Hashtags} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return item.ProphecyText
	}
	return strings.Join(parts, "\n\n")
}

// ManifestSource walks the imported prophecy manifest. Filenames resolve
// against CardsDir.
type ManifestSource struct {
	DB       *store.DB
	CardsDir string
}

func (s ManifestSource) Name() string { return "manifest" }

func (s ManifestSource) Peek() (*Entry, error) {
	p, err := s.DB.NextUnposted()
	if err != nil || p == nil {
		return nil, err
	}
	e := &Entry{ID: p.ID, Caption: p.Caption, ImageURL: p.ImageURL}
	if p.Filename != "" {
		e.ImagePath = filepath.Join(s.CardsDir, p.Filename)
	}
	return e, nil
}

func (s ManifestSource) Done(id string) error {
	return s.DB.MarkProphecyPosted(id)
}
