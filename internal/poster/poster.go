// Package poster runs the publish pipeline: take the head of a source,
// resolve a public image URL, publish to Instagram, then mark the entry
// done and cross-post to Facebook.
package poster

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/lazypower/oracle/internal/assets"
	"github.com/lazypower/oracle/internal/logging"
	"github.com/lazypower/oracle/internal/metrics"
	"github.com/lazypower/oracle/internal/social"
	"github.com/lazypower/oracle/internal/store"
)

// ErrEmpty is returned by RunOnce when the source has nothing to post.
var ErrEmpty = errors.New("nothing to post")

// ErrNoImage is returned when no image URL could be resolved.
var ErrNoImage = errors.New("no image available for post")

// Publisher is the primary platform.
type Publisher interface {
	Publish(ctx context.Context, imageURL, caption string) (*social.PublishResult, error)
}

// PhotoPublisher is the secondary platform.
type PhotoPublisher interface {
	PublishPhoto(ctx context.Context, imageURL, caption string) (string, error)
}

// Poster publishes one entry per run. Facebook and Uploader are optional.
type Poster struct {
	DB           *store.DB
	Instagram    Publisher
	Facebook     PhotoPublisher
	Uploader     assets.Uploader
	PublicURL    string
	TestImageURL string
}

// Options adjust a single run.
type Options struct {
	// UseTestImage skips image resolution and posts TestImageURL.
	UseTestImage bool
}

// Result reports what a run published.
type Result struct {
	Source        string                `json:"source"`
	ID            string                `json:"id"`
	Caption       string                `json:"caption"`
	ImageURL      string                `json:"imageUrl"`
	Instagram     *social.PublishResult `json:"instagram"`
	FacebookID    string                `json:"facebookId,omitempty"`
	FacebookError string                `json:"facebookError,omitempty"`
}

// RunOnce publishes the head of src. On any failure before the primary
// publish is confirmed the entry is left in place for the next run.
func (p *Poster) RunOnce(ctx context.Context, src Source, opts Options) (*Result, error) {
	log := logging.WithComponent("poster").With().Str("source", src.Name()).Logger()

	entry, err := src.Peek()
	if err != nil {
		return nil, fmt.Errorf("peek %s: %w", src.Name(), err)
	}
	if entry == nil {
		log.Info().Msg("nothing to post")
		return nil, ErrEmpty
	}

	imageURL := p.TestImageURL
	if !opts.UseTestImage {
		imageURL, err = p.resolveImage(ctx, entry)
		if err != nil {
			log.Warn().Err(err).Str("item", entry.ID).Msg("image unavailable, item stays queued")
			return nil, err
		}
	}
	if imageURL == "" {
		return nil, ErrNoImage
	}

	res, err := p.Instagram.Publish(ctx, imageURL, entry.Caption)
	metrics.RecordPost("instagram", err)
	if err != nil {
		log.Warn().Err(err).Str("item", entry.ID).Msg("instagram publish failed, item stays queued")
		return nil, fmt.Errorf("instagram: %w", err)
	}
	log.Info().Str("item", entry.ID).Str("media", res.MediaID).Msg("published to instagram")

	result := &Result{
		Source:    src.Name(),
		ID:        entry.ID,
		Caption:   entry.Caption,
		ImageURL:  imageURL,
		Instagram: res,
	}

	if err := src.Done(entry.ID); err != nil {
		// The post is live; this entry will be published again next run.
		log.Error().Err(err).Str("item", entry.ID).Msg("published but could not mark done")
	}

	if p.Facebook != nil {
		id, err := p.Facebook.PublishPhoto(ctx, imageURL, entry.Caption)
		metrics.RecordPost("facebook", err)
		if err != nil {
			log.Warn().Err(err).Str("item", entry.ID).Msg("facebook cross-post failed")
			result.FacebookError = err.Error()
		} else {
			result.FacebookID = id
		}
	}
	return result, nil
}

// resolveImage picks the first usable image: a hosted absolute URL, a
// local file uploaded to the asset host, a relative URL fetched from the
// public base and re-uploaded, then the test image.
func (p *Poster) resolveImage(ctx context.Context, e *Entry) (string, error) {
	if isAbsoluteURL(e.ImageURL) {
		return e.ImageURL, nil
	}
	if e.ImagePath != "" && p.Uploader != nil {
		if _, err := os.Stat(e.ImagePath); err == nil {
			url, err := p.Uploader.UploadFile(ctx, e.ImagePath)
			if err != nil {
				return "", fmt.Errorf("upload %s: %w", e.ImagePath, err)
			}
			return url, nil
		}
	}
	if e.ImageURL != "" && p.PublicURL != "" && p.Uploader != nil {
		src := strings.TrimRight(p.PublicURL, "/") + "/" + strings.TrimLeft(e.ImageURL, "/")
		url, err := p.Uploader.UploadURL(ctx, src)
		if err != nil {
			return "", fmt.Errorf("re-upload %s: %w", src, err)
		}
		return url, nil
	}
	if p.TestImageURL != "" {
		return p.TestImageURL, nil
	}
	return "", ErrNoImage
}

func isAbsoluteURL(s string) bool {
	return strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "http://")
}

// Tick is the scheduled entry point. It does nothing while posting is
// disabled and treats an empty source as success.
func (p *Poster) Tick(ctx context.Context, src Source) error {
	enabled, err := p.DB.PostingEnabled()
	if err != nil {
		return fmt.Errorf("read posting flag: %w", err)
	}
	if !enabled {
		logging.WithComponent("poster").Info().Msg("auto-posting paused, skipping slot")
		return nil
	}
	_, err = p.RunOnce(ctx, src, Options{})
	if errors.Is(err, ErrEmpty) {
		return nil
	}
	return err
}
