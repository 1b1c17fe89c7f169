package engine

import "time"

var portalHours = []int{11, 23}

// IsPortal reports whether t falls inside an 11:11 or 23:11 minute.
func IsPortal(t time.Time) bool {
	if t.Minute() != 11 {
		return false
	}
	for _, h := range portalHours {
		if t.Hour() == h {
			return true
		}
	}
	return false
}

// NextPortal returns the start of the next 11:11 or 23:11 strictly after t,
// in t's location.
func NextPortal(t time.Time) time.Time {
	y, m, d := t.Date()
	for day := 0; day < 2; day++ {
		for _, h := range portalHours {
			p := time.Date(y, m, d+day, h, 11, 0, 0, t.Location())
			if p.After(t) {
				return p
			}
		}
	}
	// unreachable: tomorrow 11:11 is always after t
	return time.Date(y, m, d+1, 11, 11, 0, 0, t.Location())
}
