package server

import (
	"net/http"

	"github.com/lazypower/oracle/internal/logging"
	"github.com/lazypower/oracle/internal/metrics"
	"github.com/lazypower/oracle/internal/store"
)

func (s *Server) syncQueueDepth() {
	if n, err := s.db.QueueLength(); err == nil {
		metrics.QueueDepth.Set(float64(n))
	}
}

func (s *Server) handleQueueAll(w http.ResponseWriter, r *http.Request) {
	items, err := s.db.ListQueue()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if items == nil {
		items = []store.QueueItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleQueuePeek(w http.ResponseWriter, r *http.Request) {
	item, err := s.db.PeekQueue()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "Queue empty")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// handleQueueNext is peek without the 404.
func (s *Server) handleQueueNext(w http.ResponseWriter, r *http.Request) {
	item, err := s.db.PeekQueue()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if item == nil {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Queue empty"})
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleQueueRemove(w http.ResponseWriter, r *http.Request) {
	item, err := s.db.RemoveQueueHead()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.syncQueueDepth()
	if item == nil {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "message": "Queue empty"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "message": "Next item removed", "item": item})
}

type queueAddRequest struct {
	Kind         string         `json:"kind" validate:"required,oneof=early deep 1111"`
	ProphecyText string         `json:"prophecyText" validate:"required"`
	Captions     store.Captions `json:"captions"`
	CTA          string         `json:"cta"`
	Hashtags     string         `json:"hashtags"`
	CardURL      string         `json:"cardUrl"`
}

func (s *Server) handleQueueAdd(w http.ResponseWriter, r *http.Request) {
	var req queueAddRequest
	if !decodeValid(w, r, &req) {
		return
	}
	item := &store.QueueItem{
		Kind:         req.Kind,
		ProphecyText: req.ProphecyText,
		Captions:     req.Captions,
		CTA:          req.CTA,
		Hashtags:     req.Hashtags,
		CardURL:      req.CardURL,
	}
	if err := s.db.AddQueueItem(item); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.syncQueueDepth()
	logging.Ctx(r.Context()).Info().Str("item", item.ID).Str("kind", item.Kind).Msg("queued by hand")
	writeJSON(w, http.StatusCreated, map[string]any{"ok": true, "message": "Item added to queue", "item": item})
}

func (s *Server) handleQueueClear(w http.ResponseWriter, r *http.Request) {
	n, err := s.db.ClearQueue()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.syncQueueDepth()
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "message": "Queue cleared", "removed": n})
}
