package server

import (
	"errors"
	"net/http"

	"github.com/lazypower/oracle/internal/logging"
	"github.com/lazypower/oracle/internal/metrics"
	"github.com/lazypower/oracle/internal/poster"
	"github.com/lazypower/oracle/internal/social"
)

func (s *Server) handleCronStatus(w http.ResponseWriter, r *http.Request) {
	enabled, err := s.db.PostingEnabled()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"postingEnabled": enabled})
}

func (s *Server) handleCronToggle(enabled bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.db.SetPostingEnabled(enabled); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		logging.Ctx(r.Context()).Info().Bool("enabled", enabled).Msg("auto-posting toggled")
		writeJSON(w, http.StatusOK, map[string]bool{"success": true, "postingEnabled": enabled})
	}
}

// handleTestPost publishes the next manifest prophecy with the test image.
// It ignores the posting flag and returns raw upstream errors.
func (s *Server) handleTestPost(w http.ResponseWriter, r *http.Request) {
	if s.svc.Poster == nil || s.svc.Manifest == nil {
		writeError(w, http.StatusServiceUnavailable, "Posting is not configured")
		return
	}
	res, err := s.svc.Poster.RunOnce(r.Context(), s.svc.Manifest, poster.Options{UseTestImage: true})
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("test post failed")
		if errors.Is(err, poster.ErrEmpty) {
			writeError(w, http.StatusNotFound, "No unposted prophecies left")
			return
		}
		writePublishError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "result": res})
}

type publishRequest struct {
	ImageURL string `json:"imageUrl" validate:"required"`
	Caption  string `json:"caption" validate:"required"`
}

// handleInstagramPublish runs the container/poll/publish flow for an
// arbitrary image. It bypasses the manifest and the posting flag.
func (s *Server) handleInstagramPublish(w http.ResponseWriter, r *http.Request) {
	var req publishRequest
	if !decodeValid(w, r, &req) {
		return
	}
	if s.svc.Poster == nil || s.svc.Poster.Instagram == nil {
		writeError(w, http.StatusServiceUnavailable, "Instagram is not configured")
		return
	}
	res, err := s.svc.Poster.Instagram.Publish(r.Context(), req.ImageURL, req.Caption)
	metrics.RecordPost("instagram", err)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Str("image", req.ImageURL).Msg("instagram publish failed")
		writePublishError(w, err)
		return
	}
	logging.Ctx(r.Context()).Info().Str("media", res.MediaID).Msg("instagram published")
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "result": res})
}

const facebookTestCaption = "11:11 test post"

// handleFacebookTestPost posts the test image to the Facebook page.
func (s *Server) handleFacebookTestPost(w http.ResponseWriter, r *http.Request) {
	if s.svc.Poster == nil || s.svc.Poster.Facebook == nil {
		writeError(w, http.StatusServiceUnavailable, "Facebook is not configured")
		return
	}
	if s.svc.Poster.TestImageURL == "" {
		writeError(w, http.StatusServiceUnavailable, "No test image configured")
		return
	}
	id, err := s.svc.Poster.Facebook.PublishPhoto(r.Context(), s.svc.Poster.TestImageURL, facebookTestCaption)
	metrics.RecordPost("facebook", err)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("facebook test post failed")
		writePublishError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "id": id})
}

func writePublishError(w http.ResponseWriter, err error) {
	var apiErr *social.APIError
	switch {
	case errors.Is(err, social.ErrNotReady):
		writeError(w, http.StatusGatewayTimeout, "Media not ready after polling")
	case errors.As(err, &apiErr):
		writeJSON(w, http.StatusBadGateway, map[string]any{"ok": false, "error": apiErr.Error(), "details": apiErr.Body})
	default:
		writeError(w, http.StatusBadGateway, err.Error())
	}
}
