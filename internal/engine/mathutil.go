package engine

import "math"

// roundHalfUp rounds halves toward +Inf.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}
