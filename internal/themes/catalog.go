// Package themes holds the fixed theme catalog and the static lookup tables
// that map themes to tones, categories, emotions, trends and regions.
package themes

import "slices"

// Theme keys, in catalog order.
const (
	Decision      = "decision"
	Release       = "release"
	Worthiness    = "worthiness"
	Boundaries    = "boundaries"
	SelfDiscovery = "selfDiscovery"
)

// Tone buckets.
const (
	Warm    = "warm"
	Direct  = "direct"
	Neutral = "neutral"
)

// Trends.
const (
	Lifting    = "lifting"
	Descending = "descending"
	Balancing  = "balancing"
)

// Keys lists every theme in catalog order.
var Keys = []string{Decision, Release, Worthiness, Boundaries, SelfDiscovery}

// Lines are the local insight lines for each theme. A theme with no lines
// is excluded from candidate building and bias pools.
var Lines = map[string][]string{
	Decision: {
		"You already know which way you're leaning, and waiting for certainty has only made the choice feel heavier.",
		"You've realized that not choosing is still a choice, and it's been costing you more than you admit.",
		"You're starting to see that the option that scares you is also the one that keeps calling you back.",
	},
	Release: {
		"You've been holding on to something that stopped fitting a while ago, and part of you is ready to set it down.",
		"You're beginning to notice how much lighter you feel on the days you stop carrying the old story.",
		"You've realized that letting go isn't losing, it's making room for what you actually want.",
	},
	Worthiness: {
		"You’ve realized that ignoring your own needs only deepens your sense of disconnection, and honoring them could finally pave the way to feeling more like yourself.",
		"You've begun to see that the fear of failure has held you back more than the actual risk, and embracing your true desires could lead to a life that feels genuinely yours.",
		"You’ve come to see that it's okay to trust your feelings without needing every answer laid out in front of you.",
		"You’ve realized that it's okay to let go of the idea that you have to have everything figured out to take one small step forward.",
		"You’re starting to understand that your deepest longing for connection has often been hidden behind the fear of being truly seen.",
		"You’re slowly uncovering that the weight of pretending has made you forget what joy really feels like.",
	},
	Boundaries: {
		"You've realized that the weight you carry isn’t yours to bear, and it’s okay to let go of what doesn’t belong to you.",
		"You’ve begun to feel that the need for approval from others has kept you from embracing your own voice and desires.",
		"You’re beginning to understand that your happiness has been sidelined by the expectations of others, and now you feel an urgent need to reclaim your own path.",
	},
	SelfDiscovery: {
		"You’re beginning to see that the life you’ve built is not entirely yours, and deep down, you’re ready to chase what truly brings you joy.",
		"You’ve been pushing aside a longing for connection, knowing deep down that letting others in could bring you the support you crave.",
		"Trust that it's okay to feel uncertain; sometimes just allowing yourself to be in that space is where clarity begins to take shape.",
	},
}

// ToneGroups maps tone buckets to their member themes.
var ToneGroups = map[string][]string{
	Warm:   {Decision, Release, Worthiness, SelfDiscovery},
	Direct: {Release, Boundaries},
}

var categories = map[string]string{
	Decision:      "clarity",
	Release:       "release",
	Worthiness:    "self_worth",
	Boundaries:    "alignment",
	SelfDiscovery: "intuition",
}

// CategoryDescriptions steer the generation prompt for each category.
var CategoryDescriptions = map[string]string{
	"clarity":    "seeing a situation, decision, or feeling more clearly",
	"timing":     "when to move, when to wait, and how to change your pace",
	"courage":    "finding the nerve to act differently even when you feel afraid",
	"release":    "letting go of something heavy, stuck, or outdated",
	"alignment":  "living in a way that matches who you really are",
	"desire":     "admitting what you truly want instead of what you think you should want",
	"truth":      "being honest with yourself about what is real and what is not",
	"self_worth": "believing you deserve a better life and better choices",
	"intuition":  "trusting the quiet inner knowing that keeps trying to speak up",
	"general":    "one clear, emotionally honest realization",
}

var preferredEmotions = map[string]string{
	Decision:      "clarity",
	Release:       "release",
	Worthiness:    "tenderness",
	Boundaries:    "courage",
	SelfDiscovery: "clarity",
}

// ToneThemes maps an insight emotional tone to the themes it favours.
var ToneThemes = map[string][]string{
	"gentle":           {Worthiness, Decision},
	"transformational": {SelfDiscovery, Decision},
	"empowering":       {Boundaries},
	"awakening":        {Decision},
	"release":          {Release},
	"direction":        {Decision, Release},
	"rebuilding":       {Worthiness},
	"soothing":         {Worthiness},
	"activation":       {Boundaries, Direct},
}

var trendThemes = map[string][]string{
	Lifting:    {Worthiness, Decision, SelfDiscovery},
	Descending: {Release, Boundaries},
	Balancing:  Keys,
}

var regionFlavors = map[string]string{
	"americas": "direct",
	"europe":   "reflective",
	"asia":     "gentle",
	"africa":   "grounded",
	"oceania":  "uplifting",
}

var flavorThemes = map[string][]string{
	"direct":     {Boundaries, Release},
	"reflective": {SelfDiscovery, Decision},
	"gentle":     {Worthiness, SelfDiscovery},
	"grounded":   {Release, Decision},
	"uplifting":  {Worthiness, Decision},
	"neutral":    {},
}

var emotionalTones = map[string]string{
	Release:       "release",
	Decision:      "awakening",
	Worthiness:    "rebuilding",
	Boundaries:    "empowering",
	SelfDiscovery: "transformational",
	Warm:          "gentle",
	Direct:        "activation",
}

// Regions are the accepted geo regions.
var Regions = []string{"americas", "europe", "asia", "africa", "oceania", "unknown"}

// Languages are the supported reading languages.
var Languages = map[string]string{
	"en": "English",
	"es": "Spanish",
	"pt": "Portuguese",
	"fr": "French",
}

// HasContent reports whether key is a catalog theme with at least one line.
func HasContent(key string) bool {
	return len(Lines[key]) > 0
}

// WithContent filters keys down to themes that have content.
func WithContent(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if HasContent(k) {
			out = append(out, k)
		}
	}
	return out
}

// Tones returns the tone memberships of a theme, or [neutral].
func Tones(key string) []string {
	var tones []string
	if slices.Contains(ToneGroups[Warm], key) {
		tones = append(tones, Warm)
	}
	if slices.Contains(ToneGroups[Direct], key) {
		tones = append(tones, Direct)
	}
	if len(tones) == 0 {
		tones = append(tones, Neutral)
	}
	return tones
}

// PrimaryTone returns the first tone membership of a theme.
func PrimaryTone(key string) string {
	return Tones(key)[0]
}

// Category maps a theme to its generation category, or "general".
func Category(key string) string {
	if c, ok := categories[key]; ok {
		return c
	}
	return "general"
}

// Describe returns the prompt description for a category.
func Describe(category string) string {
	if d, ok := CategoryDescriptions[category]; ok {
		return d
	}
	return CategoryDescriptions["general"]
}

// PreferredEmotion maps a theme to the emotion used when scoring it.
func PreferredEmotion(key string) string {
	if e, ok := preferredEmotions[key]; ok {
		return e
	}
	return "clarity"
}

// TrendThemes returns the themes associated with a trend.
func TrendThemes(trend string) []string {
	return trendThemes[trend]
}

// RegionFlavor maps a geo region to its emotional flavour.
func RegionFlavor(region string) string {
	if f, ok := regionFlavors[region]; ok {
		return f
	}
	return "neutral"
}

// FlavorThemes returns the themes favoured by a regional flavour.
func FlavorThemes(flavor string) []string {
	return flavorThemes[flavor]
}

// EmotionalTone maps a dominant theme (or tone bucket) to an insight tone.
// It returns "" for unknown keys.
func EmotionalTone(key string) string {
	return emotionalTones[key]
}

// ValidRegion reports whether region is one of Regions.
func ValidRegion(region string) bool {
	return slices.Contains(Regions, region)
}

// SupportedLanguage reports whether code is a supported language.
func SupportedLanguage(code string) bool {
	_, ok := Languages[code]
	return ok
}
