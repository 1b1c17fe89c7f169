package engine

import "time"

const dayLayout = "2006-01-02"

// Streak counts consecutive local days with a reading.
type Streak struct {
	Count    int    `json:"count"`
	LastDate string `json:"lastDate"`
}

// Bump records a reading at now, which must already be in local time. A
// second reading on the same day is a no-op.
func (s *Streak) Bump(now time.Time) {
	today := now.Format(dayLayout)
	if s.LastDate == today {
		return
	}
	if s.LastDate == now.AddDate(0, 0, -1).Format(dayLayout) {
		s.Count++
	} else {
		s.Count = 1
	}
	s.LastDate = today
}

func streakKey(installation string) string {
	return "streak:" + installationOrDefault(installation)
}

func (e *Engine) bumpStreak(sess *Session, now time.Time) (Streak, error) {
	var s Streak
	err := e.DB.UpdateDocument(streakKey(sess.InstallationID), &s, func(bool) error {
		s.Bump(now)
		return nil
	})
	return s, err
}

// Difficulty levels.
const (
	Soft    = "soft"
	Deep    = "deep"
	Intense = "intense"
	Journey = "journey"
)

// IsPaid reports whether a reading kind is a paid tier.
func IsPaid(kind string) bool {
	return kind == "early_access" || kind == "deeper_access"
}

// Difficulty picks the reading depth from the kind and the streak.
func Difficulty(kind string, streak int) string {
	level := Soft
	paid := IsPaid(kind)
	if paid {
		level = Deep
	}
	if streak >= 3 && paid {
		level = Intense
	}
	if streak >= 5 {
		level = Journey
	}
	return level
}
