// internal/personality/client.go
// HTTP client for the external personality analysis service

package personality

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/imadgeboyega/kiekky-matchmaking/internal/logger"
	"github.com/imadgeboyega/kiekky-matchmaking/internal/matching"
)

var (
	ErrUnavailable = errors.New("personality scorer unavailable")
	ErrBadResponse = errors.New("personality scorer returned an invalid response")
)

// Config configures the client
type Config struct {
	URL              string
	Timeout          time.Duration
	RequestsPerSec   float64
	Burst            int
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

// Client implements matching.AuxScorer against a remote scoring endpoint.
type Client struct {
	url     string
	http    *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[float64]
	log     *logger.Logger
}

var _ matching.AuxScorer = (*Client)(nil)

type scoreRequest struct {
	PartyA *matching.Profile `json:"party_a"`
	PartyB *matching.Profile `json:"party_b"`
}

type scoreResponse struct {
	Score *float64 `json:"score"`
}

func NewClient(cfg Config, log *logger.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 3 * time.Second
	}
	if cfg.RequestsPerSec <= 0 {
		cfg.RequestsPerSec = 20
	}
	if cfg.Burst <= 0 {
		cfg.Burst = int(cfg.RequestsPerSec) + 1
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}

	settings := gobreaker.Settings{
		Name:        "personality-scorer",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	}

	return &Client{
		url:     cfg.URL,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), cfg.Burst),
		breaker: gobreaker.NewCircuitBreaker[float64](settings),
		log:     log,
	}
}

// Score asks the remote service for a personality sub-score in [0,1].
func (c *Client) Score(ctx context.Context, a, b *matching.Profile) (float64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	score, err := c.breaker.Execute(func() (float64, error) {
		return c.post(ctx, a, b)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err != nil {
		return 0, err
	}

	if score < 0 {
		score = 0
	} else if score > 1 {
		score = 1
	}
	return score, nil
}

// State reports the breaker state for health output.
func (c *Client) State() string {
	return c.breaker.State().String()
}

func (c *Client) post(ctx context.Context, a, b *matching.Profile) (float64, error) {
	body, err := json.Marshal(scoreRequest{PartyA: a, PartyB: b})
	if err != nil {
		return 0, fmt.Errorf("failed to encode personality request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return 0, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var out scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if out.Score == nil {
		return 0, fmt.Errorf("%w: missing score", ErrBadResponse)
	}
	return *out.Score, nil
}
