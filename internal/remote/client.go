// Package remote pulls entity snapshots from the gym's backend API.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
)

// ErrUnavailable is returned when the backend cannot serve a snapshot:
// transport errors, non-2xx responses, unreadable bodies and an open breaker.
var ErrUnavailable = errors.New("remote backend unavailable")

// maxBody caps how much of a response is read.
const maxBody = 32 << 20

// Fetcher returns the remote records of one entity type, in backend order.
type Fetcher interface {
	FetchSnapshot(ctx context.Context, entity string) ([]json.RawMessage, error)
}

var _ Fetcher = (*Client)(nil)

// Client talks to GET {baseURL}/api/{entity}, which answers {"data": [...]}.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithToken sends token as a bearer credential.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithBreaker replaces the default circuit breaker settings.
func WithBreaker(st gobreaker.Settings) Option {
	return func(c *Client) { c.breaker = gobreaker.NewCircuitBreaker(st) }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient returns a Client for baseURL. The default breaker opens after five
// consecutive failures and probes again after 30 seconds.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.breaker == nil {
		c.breaker = gobreaker.NewCircuitBreaker(DefaultBreakerSettings(c.logger))
	}
	return c
}

// DefaultBreakerSettings is the breaker NewClient uses unless WithBreaker is given.
func DefaultBreakerSettings(logger *slog.Logger) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        "gym-backend",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	}
}

type envelope struct {
	Data []json.RawMessage `json:"data"`
}

// FetchSnapshot returns the records of entity. A response without data is an
// empty snapshot, not an error.
func (c *Client) FetchSnapshot(ctx context.Context, entity string) ([]json.RawMessage, error) {
	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetch(ctx, entity)
	})
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrUnavailable, entity, err)
	}
	return out.([]json.RawMessage), nil
}

func (c *Client) fetch(ctx context.Context, entity string) ([]json.RawMessage, error) {
	url := fmt.Sprintf("%s/api/%s", c.baseURL, entity)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnavailable, entity, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		return nil, fmt.Errorf("%w: %s: unexpected status code: %d", ErrUnavailable, entity, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: %s: failed to decode response: %w", ErrUnavailable, entity, err)
	}
	if env.Data == nil {
		return []json.RawMessage{}, nil
	}
	return env.Data, nil
}
