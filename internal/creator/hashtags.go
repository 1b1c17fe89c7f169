package creator

import (
	"math/rand/v2"
	"strings"
)

const (
	minHashtags = 8
	maxHashtags = 14
)

var brandedTags = []string{"#1111oracle", "#11elevenapp", "#11eleven"}

var depthTags = map[string]string{
	"free":   "#dailyprophecy",
	"early":  "#earlyaccess",
	"deeper": "#deeperinsight",
	"1111":   "#portal1111",
}

var competitorTags = []string{
	"#astrologyvibes",
	"#spiritualjourney",
	"#universemessages",
	"#energyreading",
	"#1111meaning",
	"#awakeningjourney",
	"#selfhealing",
	"#innerwork",
	"#emotionalgrowth",
}

var themePools = map[string][]string{
	"clarity": {
		"#clarityshift", "#innerclarity", "#selfinquiry", "#mindfulvision",
		"#sacredclarity", "#selfreflection", "#alignedthoughts", "#awakeningclarity",
	},
	"worthiness": {
		"#selfworth", "#boundariesintact", "#innerdignity", "#choosingmyself",
		"#unshakenworth", "#standinyourpower", "#sovereignsoul", "#selfrespect",
	},
	"release": {
		"#letgo", "#releaseandrise", "#energeticreset", "#softrelease",
		"#shedtheold", "#clearingseason", "#unburden", "#gentleunraveling",
	},
	"connection": {
		"#opensoul", "#tenderconnection", "#heartuncovered", "#vulnerableisbrave",
		"#authenticbond", "#soulconnection", "#shareyourlight", "#honestheart",
	},
	"intuition": {
		"#1111guidance", "#trustthesigns", "#intuitivetruth", "#innersignal",
		"#divineprompt", "#cosmicnudge", "#portalwhispers", "#inneroracle",
	},
}

var themeAliases = map[string]string{
	"clarity":        "clarity",
	"self-discovery": "clarity",
	"selfdiscovery":  "clarity",
	"decision":       "clarity",
	"self worth":     "worthiness",
	"selfworth":      "worthiness",
	"worthiness":     "worthiness",
	"boundaries":     "worthiness",
	"release":        "release",
	"letting go":     "release",
	"lettinggo":      "release",
	"connection":     "connection",
	"vulnerability":  "connection",
	"vulnerable":     "connection",
	"intuition":      "intuition",
	"guidance":       "intuition",
	"11:11":          "intuition",
	"1111":           "intuition",
}

var spanishTags = []string{"#sanacion", "#energia", "#intuicion", "#caminodelalma"}

var fallbackTags = []string{"#energyshift", "#soulupdate", "#cosmicclarity", "#emotionalalchemy"}

// HashtagOptions selects the pools a hashtag set is drawn from.
type HashtagOptions struct {
	Theme    string
	Language string
	Depth    string // free, early, deeper or 1111
}

func normalizeTheme(theme string) string {
	if pool, ok := themeAliases[strings.ToLower(strings.TrimSpace(theme))]; ok {
		return pool
	}
	return "clarity"
}

// pick returns up to n distinct members of list in random order.
func pick(rng *rand.Rand, list []string, n int) []string {
	pool := append([]string(nil), list...)
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	return pool[:min(n, len(pool))]
}

// between returns a uniform integer in [lo, hi].
func between(rng *rand.Rand, lo, hi int) int {
	return lo + rng.IntN(hi-lo+1)
}

// BuildHashtags assembles a deduplicated list of 8 to 14 tags: the branded
// set, a depth tag, locale tags for Spanish, a handful of theme tags and
// two or three discovery tags. Short lists are padded from the fallback set.
func BuildHashtags(rng *rand.Rand, opts HashtagOptions) []string {
	tags := append([]string(nil), brandedTags...)

	depth, ok := depthTags[opts.Depth]
	if !ok {
		depth = depthTags["free"]
	}
	tags = append(tags, depth)

	// Six slots stay reserved for theme and discovery tags.
	if slots := maxHashtags - len(tags) - 6; slots > 0 && strings.ToLower(opts.Language) == "es" {
		tags = append(tags, pick(rng, spanishTags, max(1, min(len(spanishTags), slots, 3)))...)
	}

	tags = append(tags, pick(rng, themePools[normalizeTheme(opts.Theme)], between(rng, 4, 8))...)
	tags = append(tags, pick(rng, competitorTags, between(rng, 2, 3))...)

	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	if len(out) > maxHashtags {
		out = out[:maxHashtags]
	}
	for _, tag := range pick(rng, fallbackTags, len(fallbackTags)) {
		if len(out) >= minHashtags {
			break
		}
		if !seen[tag] {
			seen[tag] = true
			out = append(out, tag)
		}
	}
	return out
}

// Hashtags is BuildHashtags joined with spaces.
func Hashtags(rng *rand.Rand, opts HashtagOptions) string {
	return strings.Join(BuildHashtags(rng, opts), " ")
}
