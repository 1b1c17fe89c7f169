// Package server exposes the reading UI API, the content queue, posting
// controls and creator generation over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lazypower/oracle/internal/engine"
	"github.com/lazypower/oracle/internal/feedback"
	"github.com/lazypower/oracle/internal/logging"
	"github.com/lazypower/oracle/internal/metrics"
	"github.com/lazypower/oracle/internal/poster"
	"github.com/lazypower/oracle/internal/store"
)

// CardGenerator builds creator posts.
type CardGenerator interface {
	Generate(ctx context.Context, kind string) (*store.QueueItem, error)
}

// Options configure the HTTP surface.
type Options struct {
	Version     string
	CreatorKey  string
	CORSOrigins []string
	RateLimit   int // requests per minute per client on /api; 0 disables
	CardsDir    string
}

// Services are the collaborators behind the routes.
type Services struct {
	Engine   *engine.Engine
	Prefs    *feedback.Service
	Creator  CardGenerator
	Poster   *poster.Poster
	Manifest poster.Source // source for test posts
}

// Server is the oracle HTTP API server.
type Server struct {
	db      *store.DB
	svc     Services
	opts    Options
	router  chi.Router
	started time.Time
}

// New creates a new Server.
func New(db *store.DB, opts Options, svc Services) *Server {
	s := &Server{
		db:      db,
		svc:     svc,
		opts:    opts,
		started: time.Now(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	if len(s.opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.opts.CORSOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", installationHeader, timezoneHeader, creatorKeyHeader},
			MaxAge:         300,
		}))
	}

	r.Handle("/metrics", promhttp.Handler())
	if s.opts.CardsDir != "" {
		r.Handle("/cards/*", http.StripPrefix("/cards/", http.FileServer(http.Dir(s.opts.CardsDir))))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/portal", s.handlePortal)

		r.Group(func(r chi.Router) {
			if s.opts.RateLimit > 0 {
				r.Use(httprate.LimitByIP(s.opts.RateLimit, time.Minute))
			}
			r.Post("/reading", s.handleReading)
			r.Post("/prophecy", s.handleProphecy)
			r.Get("/user-feedback", s.handleGetFeedback)
			r.Post("/user-feedback", s.handlePostFeedback)
			r.Post("/user-insights", s.handleInsights)
			r.Post("/user-language", s.handleLanguage)
			r.Post("/user-geo", s.handleGeo)
		})
	})

	r.Route("/queue", func(r chi.Router) {
		r.Get("/all", s.handleQueueAll)
		r.Get("/peek", s.handleQueuePeek)
		r.Get("/next", s.handleQueueNext)
		r.Post("/remove", s.handleQueueRemove)
		r.Post("/add", s.handleQueueAdd)
		r.Post("/clear", s.handleQueueClear)
	})

	r.Route("/instagram", func(r chi.Router) {
		r.Get("/cron-status", s.handleCronStatus)
		r.Post("/cron-start", s.handleCronToggle(true))
		r.Post("/cron-stop", s.handleCronToggle(false))
		r.Get("/test-post", s.handleTestPost)
		r.Post("/publish", s.handleInstagramPublish)
	})
	r.Route("/facebook", func(r chi.Router) {
		r.Get("/test-post", s.handleFacebookTestPost)
	})

	r.Route("/creator", func(r chi.Router) {
		r.Use(s.requireCreatorKey)
		r.Get("/{kind}", s.handleCreator)
	})

	s.router = r
}

// requestLogger attaches the chi request ID to the logging context and
// records latency by route pattern.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := logging.ContextWithRequestID(r.Context(), middleware.GetReqID(r.Context()))
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r.WithContext(ctx))

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.RecordHTTPRequest(r.Method, route, status, time.Since(start))
		logging.Ctx(ctx).Debug().Str("method", r.Method).Str("route", route).
			Int("status", status).Dur("took", time.Since(start)).Msg("request")
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbOK := true
	if err := s.db.Ping(); err != nil {
		dbOK = false
	}
	version, _ := s.db.SchemaVersion()

	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"version":        s.opts.Version,
		"uptime":         time.Since(s.started).Seconds(),
		"db":             dbOK,
		"db_path":        s.db.Path,
		"schema_version": version,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes the {ok:false,error} body used by every failing route.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"ok": false, "error": msg})
}

func writeOK(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
