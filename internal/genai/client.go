// internal/genai/client.go
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"northwind-agent/internal/common/config"
	"northwind-agent/internal/common/logger"
)

var (
	ErrGenerateFailed  = errors.New("GENERATE_FAILED")
	ErrGenerateTimeout = errors.New("GENERATE_TIMEOUT")
)

// Request is the structured input to the text-generation capability: an
// instruction template id plus named fields. The contract is field-shaped on
// both sides; the engine never parses free-form prose out of band.
type Request struct {
	Template    string            `json:"template"`
	Instruction string            `json:"instruction"`
	Fields      map[string]string `json:"fields"`
	MaxTokens   int               `json:"max_tokens,omitempty"`
	Temperature float64           `json:"temperature,omitempty"`
}

// Response carries the generator's named output fields. Absence of an
// expected field is a valid outcome every caller must handle, not a
// transport error.
type Response struct {
	Fields map[string]string `json:"fields"`
}

// Field returns a named output field and whether it was present.
func (r *Response) Field(name string) (string, bool) {
	if r == nil || r.Fields == nil {
		return "", false
	}
	v, ok := r.Fields[name]
	return v, ok
}

// Generator is the boundary the workflow nodes depend on.
type Generator interface {
	Generate(ctx context.Context, req *Request) (*Response, error)
}

// Cache stores generator responses keyed by request digest.
type Cache interface {
	Get(ctx context.Context, key string) (*Response, bool)
	Set(ctx context.Context, key string, resp *Response)
}

// Client calls the generation service over HTTP with bounded retries.
type Client struct {
	config *config.GenAIConfig
	client *http.Client
	cache  Cache
	logger logger.Logger
}

func NewClient(cfg *config.GenAIConfig, log logger.Logger) *Client {
	return &Client{
		config: cfg,
		// No client-level timeout; the per-call context bounds latency.
		client: &http.Client{},
		logger: log.With(map[string]interface{}{"component": "genai"}),
	}
}

// WithCache attaches a response cache. Safe to call once at startup.
func (c *Client) WithCache(cache Cache) *Client {
	c.cache = cache
	return c
}

func (c *Client) Generate(ctx context.Context, req *Request) (*Response, error) {
	// Every call is bounded by the configured deadline, including retries
	// and backoff; a tighter caller deadline still wins.
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(c.config.Timeout)*time.Millisecond)
		defer cancel()
	}

	if req.MaxTokens == 0 {
		req.MaxTokens = c.config.MaxTokens
	}
	if req.Temperature == 0 {
		req.Temperature = c.config.Temperature
	}

	key := requestDigest(req)
	if c.cache != nil {
		if resp, ok := c.cache.Get(ctx, key); ok {
			c.logger.Debug("cache hit", map[string]interface{}{"template": req.Template})
			return resp, nil
		}
	}

	body, _ := json.Marshal(req)

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ErrGenerateTimeout
			}
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
			c.config.BaseURL+"/api/ai/generate", bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrGenerateFailed, err)
		}
		httpReq.Header.Set("Content-Type", "application/json")

		resp, lastErr = c.client.Do(httpReq)

		if ctx.Err() != nil ||
			errors.Is(lastErr, context.DeadlineExceeded) ||
			errors.Is(lastErr, context.Canceled) {
			return nil, ErrGenerateTimeout
		}

		if lastErr == nil {
			if resp.StatusCode == http.StatusOK {
				break
			}
			resp.Body.Close()
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			resp = nil
		}
	}

	if lastErr != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, ErrGenerateTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrGenerateFailed, lastErr)
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: no successful response after retries", ErrGenerateFailed)
	}
	defer resp.Body.Close()

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode error: %v", ErrGenerateFailed, err)
	}

	c.logger.Debug("generation complete", map[string]interface{}{
		"template":   req.Template,
		"fieldCount": len(out.Fields),
	})

	if c.cache != nil {
		c.cache.Set(ctx, key, &out)
	}

	return &out, nil
}
