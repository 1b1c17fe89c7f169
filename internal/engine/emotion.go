package engine

import "strings"

// Emotion is a normalized keyword reading of a prophecy.
type Emotion struct {
	Release    float64 `json:"release"`
	Courage    float64 `json:"courage"`
	Tenderness float64 `json:"tenderness"`
	Clarity    float64 `json:"clarity"`
	Primary    string  `json:"primary"`
}

var emotionWords = []struct {
	name  string
	words []string
}{
	{"release", []string{"let go", "no longer", "tired of"}},
	{"courage", []string{"step forward", "risk", "brave"}},
	{"tenderness", []string{"gentle", "soft", "kind"}},
	{"clarity", []string{"realize", "clarity", "understand", "see"}},
}

// AnalyzeEmotion scores text into the four emotion buckets. Scores are
// divided by max(1, highest) and rounded to three decimals. Primary is the
// strictly highest bucket in release, courage, tenderness, clarity order,
// or release when all are zero.
func AnalyzeEmotion(text string) Emotion {
	t := strings.ToLower(text)
	scores := make([]float64, len(emotionWords))
	for i, bucket := range emotionWords {
		for _, w := range bucket.words {
			if strings.Contains(t, w) {
				scores[i]++
			}
		}
	}
	words := len(strings.Split(t, " "))
	scores[3] += min(float64(words)/24, 1) * 0.5

	top := 1.0
	for _, s := range scores {
		top = max(top, s)
	}

	primary, best := "release", 0.0
	for i := range scores {
		scores[i] = round3(scores[i] / top)
		if scores[i] > best {
			best = scores[i]
			primary = emotionWords[i].name
		}
	}

	return Emotion{
		Release:    scores[0],
		Courage:    scores[1],
		Tenderness: scores[2],
		Clarity:    scores[3],
		Primary:    primary,
	}
}
