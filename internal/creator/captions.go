package creator

import (
	"strings"

	"github.com/lazypower/oracle/internal/store"
)

// Card kinds accepted by the generator.
const (
	KindEarly  = "early"
	KindDeep   = "deep"
	KindPortal = "1111"
)

// Kinds lists the creator kinds in rotation order.
var Kinds = []string{KindEarly, KindDeep, KindPortal}

// ValidKind reports whether kind is one of Kinds.
func ValidKind(kind string) bool {
	switch kind {
	case KindEarly, KindDeep, KindPortal:
		return true
	}
	return false
}

var kindLines = map[string]string{
	KindEarly:  "An early signal, before the day gets loud.",
	KindDeep:   "A deeper insight for the part of you that already knows.",
	KindPortal: "11:11. Pause here for a moment.",
}

var reflections = map[string]string{
	KindEarly:  "Read it twice. Notice which word stays with you.",
	KindDeep:   "Sit with it tonight. What would change if this were true?",
	KindPortal: "Make the wish, then take the smallest step toward it.",
}

var ctas = map[string]string{
	KindEarly:  "Get your own early reading at 11eleven.app",
	KindDeep:   "Go deeper with a personal reading at 11eleven.app",
	KindPortal: "Catch the next portal at 11eleven.app",
}

// CTA returns the call to action line for kind.
func CTA(kind string) string {
	if c, ok := ctas[kind]; ok {
		return c
	}
	return ctas[KindEarly]
}

// BuildCaptions writes the three caption lengths around a prophecy.
func BuildCaptions(kind, text string) store.Captions {
	text = strings.TrimSpace(text)
	line, ok := kindLines[kind]
	if !ok {
		line = kindLines[KindEarly]
	}
	reflect, ok := reflections[kind]
	if !ok {
		reflect = reflections[KindEarly]
	}
	return store.Captions{
		Short:  text,
		Medium: text + "\n\n" + line,
		Long:   text + "\n\n" + line + "\n\n" + reflect + "\n\n" + CTA(kind),
	}
}

// depthFor maps a creator kind onto its hashtag depth.
func depthFor(kind string) string {
	switch kind {
	case KindDeep:
		return "deeper"
	case KindPortal:
		return "1111"
	default:
		return "early"
	}
}

// auraThemes maps a prophecy aura onto a hashtag pool.
var auraThemes = map[string]string{
	"gold":   "clarity",
	"purple": "intuition",
	"blue":   "release",
	"pink":   "connection",
	"green":  "release",
}
