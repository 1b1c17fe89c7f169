package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/lazypower/oracle/internal/engine"
	"github.com/lazypower/oracle/internal/feedback"
	"github.com/lazypower/oracle/internal/llm"
	"github.com/lazypower/oracle/internal/logging"
	"github.com/lazypower/oracle/internal/metrics"
)

const (
	installationHeader = "X-Installation-ID"
	timezoneHeader     = "X-Timezone"
	creatorKeyHeader   = "X-Creator-Key"
)

// session scopes a request to its installation and, when the client sent
// a loadable zone, its local time.
func (s *Server) session(r *http.Request) *engine.Session {
	id := strings.TrimSpace(r.Header.Get(installationHeader))
	var loc *time.Location
	if tz := r.Header.Get(timezoneHeader); tz != "" {
		if l, err := time.LoadLocation(tz); err == nil {
			loc = l
		}
	}
	return engine.NewSession(id, loc)
}

// resolveGeo fills in the region from the X-Timezone header while the
// stored region is still unknown.
func (s *Server) resolveGeo(r *http.Request, sess *engine.Session) {
	tz := r.Header.Get(timezoneHeader)
	region := feedback.RegionFromTimeZone(tz)
	if region == "unknown" {
		return
	}
	st, err := s.svc.Prefs.Get(sess.InstallationID)
	if err != nil || st.Geo.Region != "unknown" {
		return
	}
	err = s.svc.Prefs.SetGeo(sess.InstallationID, feedback.Geo{TimeZone: tz, Region: region, Source: "timezone"})
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("geo resolution not saved")
		return
	}
	sess.Invalidate()
}

type readingRequest struct {
	Kind string `json:"kind" validate:"omitempty,oneof=free_first free_repeat early_access deeper_access"`
}

type readingResponse struct {
	*engine.Result
	Fallback bool `json:"fallback,omitempty"`
}

func (s *Server) handleReading(w http.ResponseWriter, r *http.Request) {
	var req readingRequest
	if !decodeValid(w, r, &req) {
		return
	}
	if req.Kind == "" {
		req.Kind = "free_first"
	}

	sess := s.session(r)
	s.resolveGeo(r, sess)

	res, err := s.svc.Engine.RequestProphecy(r.Context(), sess, req.Kind)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("reading fell back to local insight")
		text := s.svc.Engine.LocalInsight()
		writeJSON(w, http.StatusOK, readingResponse{
			Result: &engine.Result{
				Prophecy: text,
				Aura:     llm.Aura(text),
				Kind:     req.Kind,
				Language: "en",
			},
			Fallback: true,
		})
		return
	}
	writeJSON(w, http.StatusOK, readingResponse{Result: res})
}

func (s *Server) handleProphecy(w http.ResponseWriter, r *http.Request) {
	var req llm.ProphecyRequest
	if !decodeValid(w, r, &req) {
		return
	}
	if req.Kind == "" {
		req.Kind = "free_first"
	}

	text, aura, err := s.svc.Engine.Generate(r.Context(), s.session(r), req)
	if err != nil {
		metrics.GenerationFailures.WithLabelValues("raw").Inc()
		logging.Ctx(r.Context()).Warn().Err(err).Msg("raw prophecy failed")
		writeJSON(w, http.StatusOK, map[string]string{"prophecy": llm.FallbackText, "aura": "purple"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"prophecy": text, "aura": aura})
}

func (s *Server) handleGetFeedback(w http.ResponseWriter, r *http.Request) {
	st, err := s.svc.Prefs.Get(s.session(r).InstallationID)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("load preferences")
		writeJSON(w, http.StatusInternalServerError, feedback.Default())
		return
	}
	writeJSON(w, http.StatusOK, st)
}

type feedbackRequest struct {
	Theme          string `json:"theme" validate:"required"`
	Reaction       string `json:"reaction" validate:"omitempty,oneof=love dislike avoid"`
	PrimaryEmotion string `json:"primaryEmotion"`
	Tone           string `json:"tone"`
	Language       string `json:"language"`
}

func (s *Server) handlePostFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if !decodeValid(w, r, &req) {
		return
	}
	err := s.svc.Prefs.Submit(s.session(r).InstallationID, feedback.Reaction{
		Theme:          req.Theme,
		Reaction:       req.Reaction,
		PrimaryEmotion: req.PrimaryEmotion,
		Tone:           req.Tone,
		Language:       req.Language,
	})
	switch {
	case errors.Is(err, feedback.ErrInvalid):
		writeError(w, http.StatusBadRequest, "Missing theme")
	case err != nil:
		logging.Ctx(r.Context()).Error().Err(err).Msg("save feedback")
		writeError(w, http.StatusInternalServerError, "Unable to save feedback")
	default:
		writeOK(w)
	}
}

type insightsRequest struct {
	Theme string `json:"theme" validate:"required"`
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	var req insightsRequest
	if !decodeValid(w, r, &req) {
		return
	}
	st, err := s.svc.Prefs.Update(s.session(r).InstallationID, func(st *feedback.State) error {
		st.UpdateInsights(req.Theme)
		return nil
	})
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("update insights")
		writeError(w, http.StatusInternalServerError, "Unable to update insights")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "insights": st.Insights})
}

type languageRequest struct {
	Language string `json:"language" validate:"required,oneof=en es pt fr"`
}

func (s *Server) handleLanguage(w http.ResponseWriter, r *http.Request) {
	var req languageRequest
	if !decodeValid(w, r, &req) {
		return
	}
	if err := s.svc.Prefs.SetLanguage(s.session(r).InstallationID, req.Language); err != nil {
		if errors.Is(err, feedback.ErrInvalid) {
			writeError(w, http.StatusBadRequest, "Unsupported language")
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Msg("save language")
		writeError(w, http.StatusInternalServerError, "Unable to save language")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "language": req.Language})
}

type geoRequest struct {
	Region   string `json:"region" validate:"required,oneof=americas europe asia africa oceania unknown"`
	TimeZone string `json:"timeZone"`
	Source   string `json:"source"`
}

func (s *Server) handleGeo(w http.ResponseWriter, r *http.Request) {
	var req geoRequest
	if !decodeValid(w, r, &req) {
		return
	}
	geo := feedback.Geo{TimeZone: req.TimeZone, Region: req.Region, Source: req.Source}
	if geo.Source == "" {
		geo.Source = "timezone"
	}
	if err := s.svc.Prefs.SetGeo(s.session(r).InstallationID, geo); err != nil {
		if errors.Is(err, feedback.ErrInvalid) {
			writeError(w, http.StatusBadRequest, "Invalid region")
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Msg("save geo")
		writeError(w, http.StatusInternalServerError, "Unable to save geo")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "geo": geo})
}

func (s *Server) handlePortal(w http.ResponseWriter, r *http.Request) {
	sess := s.session(r)
	now := time.Now()
	if s.svc.Engine != nil && s.svc.Engine.Now != nil {
		now = s.svc.Engine.Now()
	}
	now = now.In(sess.Location)
	next := engine.NextPortal(now)

	writeJSON(w, http.StatusOK, map[string]any{
		"now":              now.Format(time.RFC3339),
		"next":             next.Format(time.RFC3339),
		"secondsRemaining": int(next.Sub(now).Seconds()),
		"active":           engine.IsPortal(now),
	})
}
