package llm

import (
	"fmt"
	"strings"

	"github.com/lazypower/oracle/internal/themes"
)

// ProphecyRequest carries the personalization context for one reading.
type ProphecyRequest struct {
	Kind           string `json:"kind"`
	Difficulty     string `json:"difficulty,omitempty"`
	Streak         int    `json:"streak,omitempty"`
	Persona        string `json:"persona,omitempty"`
	Portal         bool   `json:"portal_1111,omitempty"`
	TargetCategory string `json:"targetCategory,omitempty"`
	LastCategory   string `json:"lastCategory,omitempty"`
	Tone           string `json:"tone,omitempty"`    // time-of-day window
	DayTone        string `json:"dayTone,omitempty"` // weekday name
	LanguageHint   string `json:"languageHint,omitempty"`
	GeoHint        string `json:"geoHint,omitempty"`
	WorldTrend     string `json:"worldTrend,omitempty"`
	DominantTheme  string `json:"dominantTheme,omitempty"`
	Trend          string `json:"trend,omitempty"`
}

// Memory is the anti-repeat context kept per installation.
type Memory struct {
	LastProphecy string `json:"lastProphecy,omitempty"`
	LastCategory string `json:"lastCategory,omitempty"`
	LastAura     string `json:"lastAura,omitempty"`
}

var intentions = map[string]string{
	"free_first":    "gentle, short, slightly mysterious",
	"free_repeat":   "supportive, soft",
	"early_access":  "emotional clarity, honest, revealing",
	"deeper_access": "bold, deeper truth, specific emotional realization",
}

const avoidPhrases = "Avoid repeating phrases about “quiet thoughts”, “nudges”, “sometimes”, or “something”."

// FocusCategory resolves which category a request should write about.
func FocusCategory(req ProphecyRequest) string {
	switch {
	case req.TargetCategory != "":
		return req.TargetCategory
	case req.LastCategory != "":
		return req.LastCategory
	default:
		return "general"
	}
}

// ProphecyPrompt builds the generation prompt for a reading. Deeper-access
// readings use the "one layer deeper" variant.
func ProphecyPrompt(req ProphecyRequest, mem Memory) string {
	focus := FocusCategory(req)
	description := themes.Describe(focus)

	var antiRepeat []string
	if mem.LastProphecy != "" {
		antiRepeat = append(antiRepeat, fmt.Sprintf(
			"Avoid repeating the same idea, structure, or phrases as this previous message: %q.", mem.LastProphecy))
	}
	if mem.LastCategory != "" && focus != "general" && focus != mem.LastCategory {
		antiRepeat = append(antiRepeat, fmt.Sprintf(
			"This time, focus on a different emotional angle than %q.", mem.LastCategory))
	}

	meta := metaTone(req, focus, description)

	var b strings.Builder
	b.WriteString("You are The Oracle of 11Eleven.\n\n")
	if req.Kind == "deeper_access" {
		b.WriteString("Write ONE sentence that deepens the previous insight with a gentle but honest emotional truth and use simple everyday words.\n")
		b.WriteString("Reveal what they’ve been avoiding, wanting, or slowly realizing.\n")
		b.WriteString("Avoid repetition. Avoid clichés. Avoid mystical language.\n")
		b.WriteString(avoidPhrases + "\n")
		b.WriteString("Do NOT repeat the surface-level idea.\nGo one layer deeper.\n\n")
		fmt.Fprintf(&b, "Focus this deeper sentence on the theme of %s.\n\n", description)
		b.WriteString(meta)
		writeLines(&b, antiRepeat)
		b.WriteString("\nTone: warm, direct, grounded.\n\nONE powerful sentence only.\n")
		return b.String()
	}

	b.WriteString("Write ONE sentence.\n")
	b.WriteString("Keep it grounded, warm, human, clean and use simple everyday words.\n")
	b.WriteString("Avoid mystical, cliché, or generic “spiritual” language.\n")
	b.WriteString(avoidPhrases + "\n")
	b.WriteString("Write as if you truly understand the person’s inner conflict or timing.\n\n")
	b.WriteString("The sentence should feel like:\n")
	b.WriteString("- a moment of clarity\n")
	b.WriteString("- something they quietly sensed but hadn’t named\n")
	b.WriteString("- encouragement without prediction\n")
	b.WriteString("- validation without being vague\n")
	b.WriteString("- insight without mysticism\n\n")
	fmt.Fprintf(&b, "Focus this sentence on the theme of %s.\n\n", description)
	b.WriteString(meta)
	writeLines(&b, antiRepeat)
	fmt.Fprintf(&b, "\nWrite with this intention: %q\n", intentions[req.Kind])
	b.WriteString("Output exactly ONE sentence.\n")
	return b.String()
}

func metaTone(req ProphecyRequest, focus, description string) string {
	var b strings.Builder
	b.WriteString("In this message, subtly reflect and use simple everyday words:\n")
	line := func(label, v string) {
		if v != "" {
			fmt.Fprintf(&b, "- %s: %q\n", label, v)
		}
	}
	line("the time tone", req.Tone)
	line("the weekday tone", req.DayTone)
	line("a language personality flavor", req.LanguageHint)
	line("a regional emotional nuance", req.GeoHint)
	line("a collective global trend influencing the world", req.WorldTrend)
	fmt.Fprintf(&b, "- the target emotional lane: %q (%s)\n", focus, description)
	line("avoid repeating the previous category", req.LastCategory)
	if req.Persona != "" {
		fmt.Fprintf(&b, "- the reader's current persona: %q at %s difficulty", req.Persona, orDefault(req.Difficulty, "soft"))
		if req.Streak > 1 {
			fmt.Fprintf(&b, " on a %d-day streak", req.Streak)
		}
		b.WriteString("\n")
	}
	if req.Portal {
		b.WriteString("- it is the 11:11 moment right now; let the sentence feel well timed\n")
	}
	return b.String()
}

func writeLines(b *strings.Builder, lines []string) {
	for _, l := range lines {
		b.WriteString(l)
		b.WriteString("\n")
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// CreatorPrompt builds the generation prompt for a queued social card.
func CreatorPrompt(kind string) string {
	switch kind {
	case "deep":
		return `You are The Oracle of 11Eleven.

Write ONE sentence that feels like a deeper emotional realization.
Be clear, grounded, and human. Avoid mystical language or clichés.
Tone: bold, honest, specific. Output exactly one sentence.`
	case "1111":
		return `You are The Oracle of 11Eleven.

Write ONE sentence as a timely 11:11 insight with a sense of clarity and alignment.
Stay grounded, human, and avoid mystical clichés.
Keep it concise and emotionally honest. One sentence only.`
	default:
		return `You are The Oracle of 11Eleven.

Write ONE sentence that gives an early, clear insight.
Be warm, grounded, and avoid mystical clichés.
Keep it concise and human. One sentence only.`
	}
}

// TranslationPrompt asks for a faithful single-sentence translation.
func TranslationPrompt(text, language, tone string) string {
	name := themes.Languages[language]
	if name == "" {
		name = language
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Translate the following sentence into %s.\n", name)
	b.WriteString("Keep the meaning, warmth and simple everyday wording. Keep any emoji or symbols as they are.\n")
	if tone != "" {
		fmt.Fprintf(&b, "The emotional tone is %q.\n", tone)
	}
	b.WriteString("Return only the translated sentence, nothing else.\n\n")
	b.WriteString(text)
	return b.String()
}
