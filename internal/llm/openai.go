package llm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

const openAIResponsesAPI = "https://api.openai.com/v1/responses"

// OpenAI calls the OpenAI Responses API.
type OpenAI struct {
	url    string
	apiKey string
	model  string
	client *http.Client
}

// NewOpenAI creates a new OpenAI Responses client.
func NewOpenAI(url, apiKey, model string, timeout time.Duration) *OpenAI {
	return &OpenAI{
		url:    url,
		apiKey: apiKey,
		model:  model,
		client: &http.Client{Timeout: timeout},
	}
}

type responsesReply struct {
	OutputText string `json:"output_text"`
	Output     []struct {
		Type    string `json:"type"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// Complete sends a prompt to the Responses API.
func (o *OpenAI) Complete(ctx context.Context, prompt string) (*Response, error) {
	body, err := json.Marshal(map[string]any{
		"model": o.model,
		"input": prompt,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", o.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai api: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openai api status %d: %s", resp.StatusCode, respBody)
	}

	var result responsesReply
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	text, ok := outputText(&result)
	if !ok {
		return nil, ErrUnrecognizedResponse
	}
	return &Response{
		Content:    text,
		Provider:   "openai",
		TokensUsed: result.Usage.TotalTokens,
	}, nil
}

// outputText joins the output_text parts of every message item. The SDK
// convenience field output_text is honoured when present.
func outputText(r *responsesReply) (string, bool) {
	if s := strings.TrimSpace(r.OutputText); s != "" {
		return s, true
	}
	var parts []string
	for _, item := range r.Output {
		for _, c := range item.Content {
			if c.Type == "output_text" {
				parts = append(parts, c.Text)
			}
		}
	}
	if len(parts) == 0 {
		return "", false
	}
	return strings.TrimSpace(strings.Join(parts, "")), true
}
