package llm

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// ClaudeCLI shells out to `claude -p` for generation. Useful on a
// workstation that already has the CLI signed in.
type ClaudeCLI struct {
	bin     string
	model   string
	timeout time.Duration
}

// NewClaudeCLI creates a new Claude CLI client.
func NewClaudeCLI(model string) *ClaudeCLI {
	return &ClaudeCLI{
		bin:     "claude",
		model:   model,
		timeout: 120 * time.Second,
	}
}

// Complete pipes the prompt to the CLI and returns its trimmed stdout.
func (c *ClaudeCLI) Complete(ctx context.Context, prompt string) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.bin, "-p", "--model", c.model, "--max-turns", "1")
	cmd.Stdin = strings.NewReader(prompt)
	cmd.Env = filterEnv(os.Environ())

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("claude cli: %w (stderr: %s)", err, stderr.String())
	}

	out := strings.TrimSpace(stdout.String())
	if out == "" {
		return nil, ErrUnrecognizedResponse
	}
	return &Response{
		Content:  out,
		Provider: "claude-cli",
	}, nil
}

// filterEnv drops CLAUDE_* variables so the child never inherits the
// parent's session state.
func filterEnv(env []string) []string {
	filtered := make([]string, 0, len(env))
	for _, e := range env {
		if !strings.HasPrefix(e, "CLAUDE_") {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
