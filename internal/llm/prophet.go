package llm

import (
	"context"
	"strings"
)

// Fallback lines used when a provider answers with nothing usable.
const (
	EmptyReadingText = "The insight almost formed, but slipped away. Try again."
	EmptyCreatorText = "The signal wavered, try again."
	BlurredText      = "The message blurred… try again."
	FallbackText     = "Something is shifting, but the message didn’t come through fully."
)

// Prophet turns prompts into single-sentence prophecies.
type Prophet struct {
	Client Client
}

// NewProphet returns a Prophet backed by client.
func NewProphet(client Client) *Prophet {
	return &Prophet{Client: client}
}

// Prophecy generates a personalized reading.
func (p *Prophet) Prophecy(ctx context.Context, req ProphecyRequest, mem Memory) (string, error) {
	return p.complete(ctx, ProphecyPrompt(req, mem), EmptyReadingText)
}

// Creator generates the text for a social card of the given kind.
func (p *Prophet) Creator(ctx context.Context, kind string) (string, error) {
	return p.complete(ctx, CreatorPrompt(kind), EmptyCreatorText)
}

func (p *Prophet) complete(ctx context.Context, prompt, empty string) (string, error) {
	resp, err := p.Client.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp.Content)
	if text == "" {
		return empty, nil
	}
	return text, nil
}

var auraKeywords = []struct {
	aura  string
	words []string
}{
	{"gold", []string{"clarity", "decision", "clear"}},
	{"purple", []string{"intuition", "sign", "whisper"}},
	{"blue", []string{"peace", "calm", "stillness"}},
	{"pink", []string{"heart", "feeling", "love"}},
	{"green", []string{"change", "opportunity", "shift"}},
}

// Aura picks a colour family for a prophecy from its keywords.
func Aura(text string) string {
	t := strings.ToLower(text)
	for _, a := range auraKeywords {
		for _, w := range a.words {
			if strings.Contains(t, w) {
				return a.aura
			}
		}
	}
	return "purple"
}
