package feedback

import (
	"github.com/lazypower/oracle/internal/store"
)

// DefaultInstallation is used when a request carries no installation ID.
const DefaultInstallation = "default"

// Service reads and mutates preference documents in the store.
type Service struct {
	db *store.DB
}

// NewService returns a Service backed by db.
func NewService(db *store.DB) *Service {
	return &Service{db: db}
}

func documentKey(installation string) string {
	if installation == "" {
		installation = DefaultInstallation
	}
	return "prefs:" + installation
}

// Get returns the normalized preference document, or defaults when none has
// been written yet. It never writes.
func (s *Service) Get(installation string) (*State, error) {
	st := &State{}
	if _, err := s.db.LoadDocument(documentKey(installation), st); err != nil {
		return nil, err
	}
	st.Normalize()
	return st, nil
}

// Update runs fn against the current document and persists the result.
// fn returning an error aborts the write.
func (s *Service) Update(installation string, fn func(*State) error) (*State, error) {
	st := &State{}
	err := s.db.UpdateDocument(documentKey(installation), st, func(bool) error {
		st.Normalize()
		return fn(st)
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

// Submit records a reaction.
func (s *Service) Submit(installation string, r Reaction) error {
	_, err := s.Update(installation, func(st *State) error { return st.Apply(r) })
	return err
}

// RecordTheme pushes a shown theme through the insight update.
func (s *Service) RecordTheme(installation, theme string) error {
	_, err := s.Update(installation, func(st *State) error {
		st.UpdateInsights(theme)
		return nil
	})
	return err
}

// SetLanguage persists the reading language.
func (s *Service) SetLanguage(installation, code string) error {
	_, err := s.Update(installation, func(st *State) error { return st.SetLanguage(code) })
	return err
}

// SetGeo persists the geo block.
func (s *Service) SetGeo(installation string, g Geo) error {
	_, err := s.Update(installation, func(st *State) error { return st.SetGeo(g) })
	return err
}
