package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/glowadvisor/backend/internal/domain"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the OpenAI API root
const DefaultBaseURL = "https://api.openai.com/v1"

// Client sends chat-completion requests to an OpenAI-compatible endpoint.
// Each call is a single POST; failures are returned, never retried.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	debug       bool
	logger      *slog.Logger
}

// Options tunes a Client. Zero values select defaults.
type Options struct {
	Timeout        time.Duration
	RequestsPerMin int
	Logger         *slog.Logger
}

// NewClient creates a new chat-completion client
func NewClient(apiKey, baseURL string, opts Options) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.RequestsPerMin <= 0 {
		opts.RequestsPerMin = 60
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	// rate.Limit is requests per second
	limiter := rate.NewLimiter(rate.Limit(float64(opts.RequestsPerMin)/60.0), 5)

	return &Client{
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		apiKey:      apiKey,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		rateLimiter: limiter,
		logger:      opts.Logger.With("component", "openai"),
	}
}

// SetDebug enables logging of request and response bodies
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// CreateChatCompletion posts the request and returns the parsed completion.
// Errors are either *domain.APIError (the endpoint answered with an error
// payload) or wrap domain.ErrChatTransport / domain.ErrRateLimited.
func (c *Client) CreateChatCompletion(ctx context.Context, request *domain.CompletionRequest) (*domain.CompletionResponse, error) {
	if request == nil {
		return nil, domain.ErrInvalidRequest
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		c.logger.Warn("rate limiter rejected request", "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
	}

	payload, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	if c.debug {
		c.logger.Debug("chat completion request", "body", string(payload))
	}

	resp, err := c.doRequest(ctx, c.baseURL+"/chat/completions", payload)
	if err != nil {
		c.logger.Error("chat completion transport error", "error", err)
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", domain.ErrChatTransport, err)
	}
	if c.debug {
		c.logger.Debug("chat completion response", "status", resp.StatusCode, "body", string(body))
	}

	completion, err := ParseCompletion(resp.StatusCode, body)
	if err != nil {
		c.logger.Warn("chat completion failed", "status", resp.StatusCode, "error", err)
		return nil, err
	}

	c.logger.Info("chat completion received", "model", request.Model, "choices", len(completion.Choices))
	return completion, nil
}

// doRequest executes an HTTP POST with JSON and bearer-token headers
func (c *Client) doRequest(ctx context.Context, reqURL string, payload []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("User-Agent", "GlowAdvisor/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrChatTransport, err)
	}

	return resp, nil
}
