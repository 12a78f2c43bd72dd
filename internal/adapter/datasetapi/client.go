package datasetapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/geodata-client/internal/domain"
	"github.com/jonboulle/clockwork"
	"github.com/sony/gobreaker"
)

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 32 << 20

var (
	errTransient   = errors.New("transient upstream status")
	errCircuitOpen = errors.New("circuit breaker open")
)

// StatusError is returned for a non-2xx response that carries no error envelope.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("dataset API error: status %d: %s", e.StatusCode, e.Body)
}

// BackoffConfig controls exponential backoff between attempts.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// Options configures a Client.
type Options struct {
	BaseURL string
	Timeout time.Duration
	Backoff BackoffConfig
	Clock   clockwork.Clock
}

// Client talks to the dataset API. Requests go through a circuit breaker and
// are retried with exponential backoff on transport errors and on 429, 502,
// 503 and 504 responses.
type Client struct {
	httpClient *http.Client
	baseURL    string
	backoff    BackoffConfig
	breaker    *gobreaker.CircuitBreaker
	clock      clockwork.Clock
	logger     *slog.Logger
}

// NewClient creates a dataset API client.
func NewClient(opts Options, logger *slog.Logger) *Client {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Backoff.InitialInterval <= 0 {
		opts.Backoff.InitialInterval = 200 * time.Millisecond
	}
	if opts.Backoff.MaxRetries < 0 {
		opts.Backoff.MaxRetries = 0
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "dataset-api",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &Client{
		httpClient: &http.Client{Timeout: opts.Timeout},
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		backoff:    opts.Backoff,
		breaker:    breaker,
		clock:      opts.Clock,
		logger:     logger,
	}
}

// FetchDatasets runs GET /datasets with the given query and returns the raw
// response body for validation. An error envelope is returned as a body even
// when it arrives with a non-2xx status, so the caller reports the server's
// own message.
func (c *Client) FetchDatasets(ctx context.Context, query url.Values) ([]byte, error) {
	status, body, err := c.get(ctx, "/datasets?"+query.Encode())
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		if hasErrorEnvelope(body) {
			return body, nil
		}
		return nil, &StatusError{StatusCode: status, Body: truncate(body)}
	}
	return body, nil
}

// FetchTypes runs GET /datasets/types and decodes the dataset catalogue.
func (c *Client) FetchTypes(ctx context.Context) ([]domain.DatasetInfo, error) {
	status, body, err := c.get(ctx, "/datasets/types")
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, &StatusError{StatusCode: status, Body: truncate(body)}
	}

	var types []domain.DatasetInfo
	if err := json.Unmarshal(body, &types); err != nil {
		return nil, fmt.Errorf("decode dataset types: %w", err)
	}
	return types, nil
}

func (c *Client) get(ctx context.Context, path string) (int, []byte, error) {
	resp, err := c.doRequestWithResilience(ctx, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	})
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, body, nil
}

// doRequestWithResilience executes the request with retries, exponential
// backoff and a circuit breaker. Only transport failures and transient
// statuses count against the breaker; any other response is returned as is.
func (c *Client) doRequestWithResilience(ctx context.Context, buildRequest func() (*http.Request, error)) (*http.Response, error) {
	var attempt int
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := buildRequest()
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}

		result, err := c.breaker.Execute(func() (any, error) {
			resp, execErr := c.httpClient.Do(req)
			if execErr != nil {
				return nil, execErr
			}
			if isTransient(resp.StatusCode) {
				_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
				resp.Body.Close()
				return nil, fmt.Errorf("%w: %d", errTransient, resp.StatusCode)
			}
			return resp, nil
		})
		if err == nil {
			resp, ok := result.(*http.Response)
			if !ok {
				return nil, errors.New("unexpected result type from circuit breaker")
			}
			return resp, nil
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %w", errCircuitOpen, err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if attempt >= c.backoff.MaxRetries {
			return nil, fmt.Errorf("dataset API request: %w", err)
		}

		delay := c.backoff.InitialInterval << attempt
		if c.backoff.MaxInterval > 0 && delay > c.backoff.MaxInterval {
			delay = c.backoff.MaxInterval
		}
		c.logger.Debug("retrying dataset API request", "attempt", attempt+1, "delay", delay, "error", err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-c.clock.After(delay):
		}
		attempt++
	}
}

func isTransient(status int) bool {
	switch status {
	case http.StatusTooManyRequests, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

func hasErrorEnvelope(body []byte) bool {
	var env struct {
		Error any `json:"error"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return false
	}
	return env.Error != nil
}

func truncate(body []byte) string {
	const limit = 256
	s := strings.TrimSpace(string(body))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
