// Package scheduler drives timed generation and posting with cron
// expressions evaluated in a fixed time zone.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/lazypower/oracle/internal/config"
	"github.com/lazypower/oracle/internal/creator"
	"github.com/lazypower/oracle/internal/logging"
	"github.com/lazypower/oracle/internal/metrics"
	"github.com/lazypower/oracle/internal/poster"
	"github.com/lazypower/oracle/internal/store"
)

// Generator produces a post for the queue.
type Generator interface {
	Generate(ctx context.Context, kind string) (*store.QueueItem, error)
}

// Ticker publishes the head of a source when posting is enabled.
type Ticker interface {
	Tick(ctx context.Context, src poster.Source) error
}

// Scheduler owns the cron runner and the jobs registered on it.
type Scheduler struct {
	cron        *cron.Cron
	db          *store.DB
	gen         Generator
	poster      Ticker
	source      poster.Source
	captionsDir string

	mu       sync.Mutex
	ctx      context.Context
	rotation int
}

// New registers generate, post and (optionally) rotation jobs from cfg.
// An invalid cron expression is an error.
func New(cfg config.ScheduleConfig, loc *time.Location, db *store.DB, gen Generator, p Ticker, src poster.Source, captionsDir string) (*Scheduler, error) {
	l := cronLogger{}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(l),
			cron.WithChain(cron.Recover(l), cron.SkipIfStillRunning(l)),
		),
		db:          db,
		gen:         gen,
		poster:      p,
		source:      src,
		captionsDir: captionsDir,
		ctx:         context.Background(),
	}

	for _, job := range cfg.Generate {
		kind := job.Kind
		if !creator.ValidKind(kind) {
			return nil, fmt.Errorf("generate job %q: %w: %q", job.Spec, creator.ErrUnknownKind, kind)
		}
		if _, err := s.cron.AddFunc(job.Spec, s.job("generate-"+kind, func(ctx context.Context) error {
			return s.GenerateAndQueue(ctx, kind)
		})); err != nil {
			return nil, fmt.Errorf("generate job %q: %w", job.Spec, err)
		}
	}

	for _, spec := range cfg.Post {
		if _, err := s.cron.AddFunc(spec, s.job("post", s.Post)); err != nil {
			return nil, fmt.Errorf("post job %q: %w", spec, err)
		}
	}

	if cfg.RotateEvery > 0 {
		spec := "@every " + cfg.RotateEvery.String()
		if _, err := s.cron.AddFunc(spec, s.job("rotate", s.Rotate)); err != nil {
			return nil, fmt.Errorf("rotation job: %w", err)
		}
	}
	return s, nil
}

func (s *Scheduler) job(name string, fn func(context.Context) error) func() {
	return func() {
		s.mu.Lock()
		ctx := s.ctx
		s.mu.Unlock()

		err := fn(ctx)
		metrics.RecordSchedulerRun(name, err)
		if err != nil {
			logging.WithComponent("scheduler").Error().Err(err).Str("job", name).Msg("job failed")
		}
	}
}

// GenerateAndQueue generates one post of kind and appends it to the queue.
func (s *Scheduler) GenerateAndQueue(ctx context.Context, kind string) error {
	item, err := s.gen.Generate(ctx, kind)
	if err != nil {
		return fmt.Errorf("generate %s: %w", kind, err)
	}
	if err := s.db.AddQueueItem(item); err != nil {
		return fmt.Errorf("queue %s: %w", kind, err)
	}
	if n, err := s.db.QueueLength(); err == nil {
		metrics.QueueDepth.Set(float64(n))
	}
	logging.WithComponent("scheduler").Info().Str("kind", kind).Str("item", item.ID).Msg("queued")
	return nil
}

// Post runs one gated posting tick.
func (s *Scheduler) Post(ctx context.Context) error {
	return s.poster.Tick(ctx, s.source)
}

// Rotate generates the next kind in the early, deep, 1111 rotation and
// writes its caption file. Rotation output is not queued.
func (s *Scheduler) Rotate(ctx context.Context) error {
	s.mu.Lock()
	kind := creator.Kinds[s.rotation]
	s.rotation = (s.rotation + 1) % len(creator.Kinds)
	s.mu.Unlock()

	item, err := s.gen.Generate(ctx, kind)
	if err != nil {
		return fmt.Errorf("generate %s: %w", kind, err)
	}
	path, err := creator.SaveCaption(s.captionsDir, item)
	if err != nil {
		return err
	}
	logging.WithComponent("scheduler").Info().Str("kind", kind).Str("caption", path).Str("card", item.CardURL).Msg("rotation card written")
	return nil
}

// Entries lists the registered jobs.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

// Serve runs the cron runner until ctx is cancelled. Jobs receive ctx.
func (s *Scheduler) Serve(ctx context.Context) error {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	s.cron.Start()
	logging.WithComponent("scheduler").Info().Int("jobs", len(s.cron.Entries())).Msg("scheduler started")

	<-ctx.Done()
	<-s.cron.Stop().Done()
	return ctx.Err()
}

func (s *Scheduler) String() string { return "scheduler" }

// cronLogger routes cron's internal logging through zerolog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	logging.WithComponent("cron").Debug().Fields(keysAndValues).Msg(msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	logging.WithComponent("cron").Error().Err(err).Fields(keysAndValues).Msg(msg)
}
