package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/lazypower/oracle/internal/logging"
	"github.com/lazypower/oracle/internal/metrics"
	"github.com/lazypower/oracle/internal/scheduler"
	"github.com/lazypower/oracle/internal/server"
	"github.com/lazypower/oracle/internal/supervisor"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server and the posting scheduler",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	cfg := a.cfg

	if n, err := a.db.QueueLength(); err == nil {
		metrics.QueueDepth.Set(float64(n))
	}

	srv := server.New(a.db, server.Options{
		Version:     VersionString(),
		CreatorKey:  cfg.Server.CreatorKey,
		CORSOrigins: cfg.Server.CORSOrigins,
		RateLimit:   cfg.Server.RateLimit,
		CardsDir:    cfg.Cards.Dir,
	}, server.Services{
		Engine:   a.engine,
		Prefs:    a.prefs,
		Creator:  a.creator,
		Poster:   a.poster,
		Manifest: a.manifest,
	})
	addr := cfg.ListenAddr()

	tree := supervisor.New(logging.NewSlogLogger(), supervisor.TreeConfig{})
	tree.Add(supervisor.NewHTTPService(&http.Server{Addr: addr, Handler: srv}, 0))

	if cfg.Schedule.Enabled {
		sched, err := scheduler.New(cfg.Schedule, cfg.Location(), a.db, a.creator, a.poster,
			a.postingSource(), cfg.Cards.CaptionsDir)
		if err != nil {
			return fmt.Errorf("scheduler: %w", err)
		}
		tree.Add(sched)
		fmt.Fprintf(os.Stderr, "  schedule: %d jobs (%s, source %s)\n", len(sched.Entries()), cfg.Schedule.Timezone, cfg.Schedule.Source)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "oracle serving on %s\n", addr)
	fmt.Fprintf(os.Stderr, "  db: %s\n", a.db.Path)

	err = tree.Serve(ctx)
	fmt.Fprintln(os.Stderr, "\nshutting down...")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
