// Package social publishes posts through the Facebook Graph API: Instagram
// media containers and Facebook page photos.
package social

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/lazypower/oracle/internal/logging"
	"github.com/lazypower/oracle/internal/metrics"
)

// APIError is a non-2xx Graph response. Body is the raw upstream payload.
type APIError struct {
	Status  int
	Message string
	Code    int
	Body    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("graph api status %d: %s (code %d)", e.Status, e.Message, e.Code)
	}
	return fmt.Sprintf("graph api status %d: %s", e.Status, e.Body)
}

type graphError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    int    `json:"code"`
}

// Graph is a minimal versioned Graph API client. All calls share one
// circuit breaker that opens after consecutive failures.
type Graph struct {
	base    string
	version string
	client  *http.Client
	cb      *gobreaker.CircuitBreaker[[]byte]
}

// NewGraph returns a client for base (https://graph.facebook.com) at the
// given API version.
func NewGraph(base, version string, timeout time.Duration) *Graph {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	const cbName = "graph-api"
	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0)

	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 1,
		Timeout:     time.Minute,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= 5
		},
		// Only transport errors and 5xx replies count toward tripping.
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			apiErr, ok := err.(*APIError)
			return ok && apiErr.Status < 500
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.WithComponent("social").Warn().
				Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})

	return &Graph{
		base:    strings.TrimRight(base, "/"),
		version: version,
		client:  &http.Client{Timeout: timeout},
		cb:      cb,
	}
}

func (g *Graph) endpoint(path string) string {
	return g.base + "/" + g.version + "/" + strings.TrimLeft(path, "/")
}

// Post sends params as a JSON body to path and decodes the reply into out.
func (g *Graph) Post(ctx context.Context, path string, params map[string]string, out any) error {
	body, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	return g.do(ctx, "POST", g.endpoint(path), body, out)
}

// Get queries path and decodes the reply into out.
func (g *Graph) Get(ctx context.Context, path string, query url.Values, out any) error {
	u := g.endpoint(path)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return g.do(ctx, "GET", u, nil, out)
}

func (g *Graph) do(ctx context.Context, method, u string, body []byte, out any) error {
	respBody, err := g.cb.Execute(func() ([]byte, error) {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, u, reader)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := g.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("graph api: %w", err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, newAPIError(resp.StatusCode, data)
		}
		return data, nil
	})
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func newAPIError(status int, body []byte) *APIError {
	e := &APIError{Status: status, Body: string(body)}
	var wrapped struct {
		Error *graphError `json:"error"`
	}
	if json.Unmarshal(body, &wrapped) == nil && wrapped.Error != nil {
		e.Message = wrapped.Error.Message
		e.Code = wrapped.Error.Code
	}
	return e
}
