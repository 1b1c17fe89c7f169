package social

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lazypower/oracle/internal/logging"
	"github.com/lazypower/oracle/internal/metrics"
)

var (
	// ErrNotReady means the container never reached FINISHED within the
	// attempt budget.
	ErrNotReady = errors.New("media not ready after polling")
	// ErrMediaFailed means Instagram reported the container as failed.
	ErrMediaFailed = errors.New("media processing failed")
)

// Container status codes reported by the Graph API.
const (
	StatusFinished   = "FINISHED"
	StatusInProgress = "IN_PROGRESS"
	StatusError      = "ERROR"
	StatusExpired    = "EXPIRED"
)

// MediaStatus is one status poll reply.
type MediaStatus struct {
	StatusCode string      `json:"status_code"`
	Status     string      `json:"status"`
	Error      *graphError `json:"error,omitempty"`
}

// Finished reports whether the container can be published.
func (s MediaStatus) Finished() bool {
	return s.StatusCode == StatusFinished || s.Status == StatusFinished
}

// Failed reports whether the container is terminally broken.
func (s MediaStatus) Failed() bool {
	return s.Error != nil ||
		s.StatusCode == StatusError || s.Status == StatusError ||
		s.StatusCode == StatusExpired
}

// StatusChecker reads the processing status of a media container.
type StatusChecker interface {
	Status(ctx context.Context, containerID string) (MediaStatus, error)
}

// Poller waits for a container to finish processing. It polls at most
// Attempts times, Interval apart.
type Poller struct {
	Attempts int
	Interval time.Duration
	// Sleep waits between polls. It returns early with ctx.Err() on
	// cancellation.
	Sleep func(ctx context.Context, d time.Duration) error
}

// NewPoller returns a Poller with the given budget and a real sleep.
func NewPoller(attempts int, interval time.Duration) *Poller {
	if attempts <= 0 {
		attempts = 20
	}
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Poller{Attempts: attempts, Interval: interval, Sleep: sleepContext}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Wait polls until the container is FINISHED (nil), failed
// (ErrMediaFailed), the budget runs out (ErrNotReady) or a poll errors.
func (p *Poller) Wait(ctx context.Context, checker StatusChecker, containerID string) error {
	log := logging.WithComponent("social")
	for attempt := 1; attempt <= p.Attempts; attempt++ {
		metrics.PollAttempts.Inc()
		st, err := checker.Status(ctx, containerID)
		if err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return fmt.Errorf("%w: %v", ErrMediaFailed, err)
			}
			return fmt.Errorf("poll media status: %w", err)
		}
		log.Debug().Str("container", containerID).Int("attempt", attempt).
			Str("status_code", st.StatusCode).Msg("media status")

		switch {
		case st.Finished():
			return nil
		case st.Failed():
			return fmt.Errorf("%w: status %s", ErrMediaFailed, st.StatusCode)
		}

		if attempt < p.Attempts {
			if err := p.Sleep(ctx, p.Interval); err != nil {
				return err
			}
		}
	}
	log.Warn().Str("container", containerID).Int("attempts", p.Attempts).Msg("media never finished")
	return ErrNotReady
}
