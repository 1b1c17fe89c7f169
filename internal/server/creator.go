package server

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lazypower/oracle/internal/creator"
	"github.com/lazypower/oracle/internal/logging"
)

// requireCreatorKey rejects requests whose x-creator-key does not match.
// An unset key locks the routes.
func (s *Server) requireCreatorKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(creatorKeyHeader)
		if s.opts.CreatorKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(s.opts.CreatorKey)) != 1 {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleCreator(w http.ResponseWriter, r *http.Request) {
	if s.svc.Creator == nil {
		writeError(w, http.StatusServiceUnavailable, "Creator is not configured")
		return
	}
	kind := chi.URLParam(r, "kind")
	item, err := s.svc.Creator.Generate(r.Context(), kind)
	if errors.Is(err, creator.ErrUnknownKind) {
		writeError(w, http.StatusNotFound, "Unsupported kind")
		return
	}
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("kind", kind).Msg("creator generation failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, item)
}
