// Package openai provides an OpenAI-compatible embeddings client with
// request pacing, retry with backoff, and Retry-After handling. It also
// decodes the Ollama-native response shape, so a local Ollama server works
// as a drop-in base URL.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/cwbudde/docvec/embedding"
)

const (
	// DefaultBaseURL is the OpenAI API endpoint.
	DefaultBaseURL = "https://api.openai.com/v1"

	// DefaultModel is the default embedding model.
	DefaultModel = "text-embedding-3-small"

	// DefaultTimeout is the HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRetries is the number of retries for transient failures.
	DefaultMaxRetries = 5

	// DefaultRequestsPerSecond paces outgoing requests.
	DefaultRequestsPerSecond = 3.0

	apiPathEmbeddings = "/embeddings"

	retryBaseDelay = 500 * time.Millisecond
	retryMaxDelay  = 8 * time.Second
)

// Client is a rate-limited embeddings client for OpenAI-compatible APIs.
// It is safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	maxRetries int
	client     *http.Client
	limiter    *rate.Limiter

	// dimensions is learned from the first response unless pinned;
	// concurrent Embed calls share it.
	dimensions atomic.Int32
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the API base URL (e.g. http://localhost:11434/v1).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithAPIKey sets the bearer token. Local servers may leave it empty.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithModel sets the embedding model identifier.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithDimensions pins the expected vector dimensionality. When zero, the
// dimensionality is learned from the first response.
func WithDimensions(dims int) Option {
	return func(c *Client) {
		if dims >= 0 {
			c.dimensions.Store(int32(dims))
		}
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.client.Timeout = timeout
		}
	}
}

// WithMaxRetries sets the retry budget for transient failures.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithRequestsPerSecond sets the request pacing limit.
func WithRequestsPerSecond(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// New creates an embeddings client with OpenAI defaults.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		model:      DefaultModel,
		maxRetries: DefaultMaxRetries,
		client:     &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRequestsPerSecond), 1),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ModelName returns the embedding model identifier.
func (c *Client) ModelName() string { return c.model }

// Dimensions returns the vector dimensionality, or zero before the first
// successful request when none was configured.
func (c *Client) Dimensions() int { return int(c.dimensions.Load()) }

type embedRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

type embedResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float64 `json:"embedding"`
	} `json:"data"`

	// Ollama-native shape for single-text requests.
	Embedding []float64 `json:"embedding"`
}

// Embed returns one vector per text, in input order.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	payload, err := json.Marshal(embedRequest{Input: texts, Model: c.model})
	if err != nil {
		return nil, c.wrap(0, fmt.Errorf("marshaling request: %w", err))
	}

	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepContext(ctx, retryDelay(attempt-1)); err != nil {
				return nil, c.wrap(0, err)
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, c.wrap(0, err)
		}

		vectors, retry, err := c.doEmbed(ctx, payload, len(texts))
		if err == nil {
			return vectors, nil
		}

		lastErr = err
		if !retry {
			return nil, err
		}
	}

	return nil, lastErr
}

// doEmbed performs one request attempt. retry reports whether the failure is
// transient.
func (c *Client) doEmbed(ctx context.Context, payload []byte, want int) (vectors [][]float64, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+apiPathEmbeddings, bytes.NewReader(payload))
	if err != nil {
		return nil, false, c.wrap(0, fmt.Errorf("creating request: %w", err))
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, c.wrap(0, ctx.Err())
		}

		return nil, true, c.wrap(0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		if delay, ok := retryAfter(resp); ok {
			if err := sleepContext(ctx, delay); err != nil {
				return nil, false, c.wrap(resp.StatusCode, err)
			}
		}

		return nil, true, c.wrap(resp.StatusCode, fmt.Errorf("embeddings request failed: %s", resp.Status))
	}

	if resp.StatusCode >= 300 {
		return nil, false, c.wrap(resp.StatusCode, fmt.Errorf("embeddings request failed: %s", resp.Status))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, c.wrap(0, fmt.Errorf("reading response: %w", err))
	}

	vectors, err = c.decode(body, want)
	if err != nil {
		return nil, false, c.wrap(0, err)
	}

	return vectors, false, nil
}

func (c *Client) decode(body []byte, want int) ([][]float64, error) {
	var out embedResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	var vectors [][]float64

	switch {
	case len(out.Data) > 0:
		sort.Slice(out.Data, func(i, j int) bool { return out.Data[i].Index < out.Data[j].Index })

		vectors = make([][]float64, 0, len(out.Data))
		for _, d := range out.Data {
			vectors = append(vectors, d.Embedding)
		}
	case len(out.Embedding) > 0:
		vectors = [][]float64{out.Embedding}
	default:
		return nil, fmt.Errorf("no embedding in response")
	}

	if len(vectors) != want {
		return nil, fmt.Errorf("got %d embeddings for %d inputs", len(vectors), want)
	}

	for i, v := range vectors {
		if len(v) == 0 {
			return nil, fmt.Errorf("empty embedding at index %d", i)
		}

		c.dimensions.CompareAndSwap(0, int32(len(v)))

		if dims := int(c.dimensions.Load()); len(v) != dims {
			return nil, fmt.Errorf("embedding %d has %d dimensions, want %d", i, len(v), dims)
		}
	}

	return vectors, nil
}

func (c *Client) wrap(status int, err error) error {
	return &embedding.ProviderError{Provider: "openai", Status: status, Err: err}
}

func retryAfter(resp *http.Response) (time.Duration, bool) {
	ra := resp.Header.Get("Retry-After")
	if ra == "" {
		return 0, false
	}

	secs, err := strconv.Atoi(ra)
	if err != nil || secs < 0 {
		return 0, false
	}

	return time.Duration(secs) * time.Second, true
}

func retryDelay(attempt int) time.Duration {
	delay := retryBaseDelay << attempt
	if delay > retryMaxDelay || delay <= 0 {
		delay = retryMaxDelay
	}

	return delay
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
