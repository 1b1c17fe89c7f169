package engine

import "time"

// Persona labels.
const (
	Seer        = "Seer"
	Pathbreaker = "Pathbreaker"
	Heartkeeper = "Heartkeeper"
	Alchemist   = "Alchemist"
	Wanderer    = "Wanderer"
)

// Profile is the slowly blended emotional profile of an installation.
type Profile struct {
	Release         float64   `json:"release"`
	Courage         float64   `json:"courage"`
	Tenderness      float64   `json:"tenderness"`
	Clarity         float64   `json:"clarity"`
	DominantPersona string    `json:"dominantPersona"`
	TotalReads      int       `json:"totalReads"`
	LastUpdated     time.Time `json:"lastUpdated"`
}

// DefaultProfile is the profile of a first-time reader.
func DefaultProfile() Profile {
	return Profile{
		Release:         0.5,
		Courage:         0.5,
		Tenderness:      0.5,
		Clarity:         0.5,
		DominantPersona: Wanderer,
	}
}

func blend(old, next float64) float64 {
	return old*0.7 + next*0.3
}

// Absorb blends an emotion reading into the profile and relabels it.
func (p *Profile) Absorb(em Emotion, now time.Time) {
	p.Release = blend(p.Release, em.Release)
	p.Courage = blend(p.Courage, em.Courage)
	p.Tenderness = blend(p.Tenderness, em.Tenderness)
	p.Clarity = blend(p.Clarity, em.Clarity)
	p.DominantPersona = p.label()
	p.TotalReads++
	p.LastUpdated = now
}

// label picks the persona for the highest dimension. Ties resolve clarity,
// courage, tenderness, then release.
func (p *Profile) label() string {
	c, g, t, r := p.Clarity, p.Courage, p.Tenderness, p.Release
	switch {
	case c == 0 && g == 0 && t == 0 && r == 0:
		return Wanderer
	case c >= g && c >= t && c >= r:
		return Seer
	case g >= c && g >= t && g >= r:
		return Pathbreaker
	case t >= c && t >= g && t >= r:
		return Heartkeeper
	default:
		return Alchemist
	}
}

func profileKey(installation string) string {
	return "profile:" + installationOrDefault(installation)
}

func (e *Engine) loadProfile(installation string) (Profile, error) {
	p := DefaultProfile()
	_, err := e.DB.LoadDocument(profileKey(installation), &p)
	return p, err
}

func (e *Engine) absorbEmotion(installation string, em Emotion) (Profile, error) {
	p := DefaultProfile()
	err := e.DB.UpdateDocument(profileKey(installation), &p, func(bool) error {
		p.Absorb(em, e.now())
		return nil
	})
	return p, err
}
