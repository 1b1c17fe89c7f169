// Package translate localizes finished prophecies.
package translate

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/lazypower/oracle/internal/llm"
	"github.com/lazypower/oracle/internal/logging"
)

// MaxLength is the longest translation accepted, in characters.
const MaxLength = 450

// Hint is the context passed along with the text.
type Hint struct {
	Theme string
	Tone  string
	Trend string
}

// Translator turns English text into the target language.
type Translator interface {
	Translate(ctx context.Context, text, language string, hint Hint) (string, error)
}

// New returns the translator for a provider name: "hint", "llm" or "none".
func New(provider string, client llm.Client) (Translator, error) {
	switch provider {
	case "", "hint":
		return HintTranslator{}, nil
	case "llm":
		if client == nil {
			return nil, fmt.Errorf("llm translator requires an llm client")
		}
		return &LLMTranslator{Client: client}, nil
	case "none":
		return Passthrough{}, nil
	default:
		return nil, fmt.Errorf("unknown translate provider: %q", provider)
	}
}

// Apply translates text for language and returns the original whenever the
// translator fails, returns nothing, or returns more than MaxLength
// characters. English is never sent to the translator.
func Apply(ctx context.Context, t Translator, text, language string, hint Hint) string {
	if t == nil || text == "" || language == "" || language == "en" {
		return text
	}
	out, err := t.Translate(ctx, text, language, hint)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("language", language).Msg("translation fallback")
		return text
	}
	if strings.TrimSpace(out) == "" || utf8.RuneCountInString(out) > MaxLength {
		return text
	}
	return out
}

// Passthrough returns text unchanged.
type Passthrough struct{}

func (Passthrough) Translate(_ context.Context, text, _ string, _ Hint) (string, error) {
	return text, nil
}

type languageHint struct {
	prefix  string
	toneMap map[string]string
}

var hints = map[string]languageHint{
	"es": {prefix: "✦", toneMap: map[string]string{
		"gentle":           "suave",
		"transformational": "transformadora",
		"empowering":       "empoderadora",
		"awakening":        "despertar",
		"release":          "liberadora",
		"direction":        "direccional",
		"rebuilding":       "reconstrucción",
		"soothing":         "calmante",
		"activation":       "activación",
	}},
	"pt": {prefix: "✦", toneMap: map[string]string{
		"gentle":           "suave",
		"transformational": "transformadora",
		"empowering":       "fortalecedora",
		"awakening":        "despertar",
		"release":          "libertadora",
		"direction":        "rumo",
		"rebuilding":       "reconstrução",
		"soothing":         "acalmar",
		"activation":       "ativação",
	}},
	"fr": {prefix: "✦", toneMap: map[string]string{
		"gentle":           "douce",
		"transformational": "transformation",
		"empowering":       "affirmée",
		"awakening":        "éveil",
		"release":          "libération",
		"direction":        "direction",
		"rebuilding":       "reconstruction",
		"soothing":         "apaisante",
		"activation":       "activation",
	}},
}

// HintTranslator marks text for a language with a prefix and a localized
// tone word instead of translating it.
type HintTranslator struct{}

func (HintTranslator) Translate(_ context.Context, text, language string, hint Hint) (string, error) {
	h, ok := hints[language]
	if !ok {
		return text, nil
	}
	out := h.prefix + " " + text
	if word, ok := h.toneMap[hint.Tone]; ok {
		out += " (" + word + ")"
	}
	return out, nil
}

// LLMTranslator asks the generation provider for a translation.
type LLMTranslator struct {
	Client llm.Client
}

func (t *LLMTranslator) Translate(ctx context.Context, text, language string, hint Hint) (string, error) {
	resp, err := t.Client.Complete(ctx, llm.TranslationPrompt(text, language, hint.Tone))
	if err != nil {
		return "", fmt.Errorf("translate to %s: %w", language, err)
	}
	return strings.TrimSpace(resp.Content), nil
}
