package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/hammamikhairi/recipebook/internal/domain"
	"github.com/hammamikhairi/recipebook/internal/logger"
)

// Compile-time interface check.
var _ domain.Fetcher = (*HTTPFetcher)(nil)

// maxDocumentSize caps how much of a response body is read.
const maxDocumentSize = 4 << 20

// ErrDocumentTooLarge is returned for bodies over maxDocumentSize.
var ErrDocumentTooLarge = errors.New("document too large")

// StatusError reports a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: status %d", e.URL, e.StatusCode)
}

// Option configures an HTTPFetcher.
type Option func(*HTTPFetcher)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *HTTPFetcher) {
		f.client.Timeout = d
	}
}

// WithHTTPClient replaces the underlying client. Its Timeout is kept.
func WithHTTPClient(c *http.Client) Option {
	return func(f *HTTPFetcher) {
		f.client = c
	}
}

// WithBreaker overrides the circuit breaker thresholds. A breaker opens
// after failures consecutive failed requests and stays open for cooldown.
func WithBreaker(failures uint32, cooldown time.Duration) Option {
	return func(f *HTTPFetcher) {
		f.breakerFailures = failures
		f.breakerCooldown = cooldown
	}
}

// HTTPFetcher GETs documents relative to a base URL. Requests go through a
// circuit breaker so a dead origin fails fast instead of stalling every
// view model on the page.
type HTTPFetcher struct {
	base    string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	log     *logger.Logger

	breakerFailures uint32
	breakerCooldown time.Duration
}

// NewHTTPFetcher creates a fetcher for documents under base.
func NewHTTPFetcher(base string, log *logger.Logger, opts ...Option) *HTTPFetcher {
	f := &HTTPFetcher{
		base:            strings.TrimSuffix(base, "/"),
		client:          &http.Client{Timeout: 10 * time.Second},
		log:             log,
		breakerFailures: 5,
		breakerCooldown: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "fetch " + f.base,
		Timeout: f.breakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= f.breakerFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			f.log.Warn("circuit breaker %q: %s -> %s", name, from, to)
		},
		IsSuccessful: func(err error) bool {
			// A missing document is the caller's problem, not the origin's.
			return err == nil || errors.Is(err, domain.ErrNotFound)
		},
	})
	return f
}

// URL returns the absolute URL for a document name.
func (f *HTTPFetcher) URL(name string) string {
	return f.base + "/" + strings.TrimPrefix(name, "/")
}

// Fetch GETs the named document.
func (f *HTTPFetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	url := f.URL(name)
	f.log.Debug("GET %s", url)

	out, err := f.breaker.Execute(func() (interface{}, error) {
		return f.get(ctx, url)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrFetch, name, err)
	}
	return out.([]byte), nil
}

func (f *HTTPFetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %w", &StatusError{URL: url, StatusCode: resp.StatusCode}, domain.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	if len(body) > maxDocumentSize {
		return nil, fmt.Errorf("%w: over %d bytes", ErrDocumentTooLarge, maxDocumentSize)
	}
	return body, nil
}
