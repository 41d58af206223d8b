package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"authloop/internal/authorizer"
	"authloop/internal/backend"
	"authloop/pkg/logging"
	"authloop/pkg/strings"
)

const (
	// DefaultTimeout bounds a single GET.
	DefaultTimeout = 30 * time.Second

	// MaxBodyBytes caps how much of a response body is read.
	MaxBodyBytes = 10 << 20

	// RequestIDHeader carries a fresh id on every request.
	RequestIDHeader = "X-Request-ID"
)

// StatusError reports a non-2xx response that fresh authorization would not fix.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("GET %s: %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("GET %s: %d %s: %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

// FetcherConfig configures a Fetcher.
type FetcherConfig struct {
	// HTTPClient sends the requests. Use TokenHolder.Client when the provider
	// publishes authorization through a holder. Defaults to a client with
	// DefaultTimeout.
	HTTPClient *http.Client

	// UserAgent is sent when set.
	UserAgent string
}

// Fetcher performs authenticated GET requests.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
}

// NewFetcher creates a Fetcher.
func NewFetcher(cfg FetcherConfig) *Fetcher {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Fetcher{httpClient: httpClient, userAgent: cfg.UserAgent}
}

// Get fetches url. When auth is non-nil its token is sent as the
// Authorization header; a missing or expired token, a 401 or a 403 report
// AuthRequired. Other non-2xx responses fail with a *StatusError.
//
// Get has the shape of an authorizer.Request and is meant to be wrapped:
//
//	get := authorizer.Wrap(provider, fetcher.Get)
func (f *Fetcher) Get(ctx context.Context, auth authorizer.Record, url string) authorizer.Outcome[[]byte] {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return authorizer.Failed[[]byte](fmt.Errorf("invalid request: %w", err))
	}

	if auth != nil {
		token, ok := backend.TokenFromRecord(auth)
		if !ok || !token.Valid() {
			logging.Debug("Client", "No usable token for %s", url)
			return authorizer.AuthRequired[[]byte]()
		}
		token.SetAuthHeader(req)
	}

	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	logging.Debug("Client", "GET %s (request %s)", url, requestID)
	resp, err := f.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, ErrNoToken) {
			return authorizer.AuthRequired[[]byte]()
		}
		return authorizer.Failed[[]byte](err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes))
	if err != nil {
		return authorizer.Failed[[]byte](fmt.Errorf("failed to read response body: %w", err))
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		logging.Debug("Client", "GET %s returned %d (request %s)", url, resp.StatusCode, requestID)
		return authorizer.AuthRequired[[]byte]()
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return authorizer.Failed[[]byte](&StatusError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Body:       strings.Truncate(string(body), strings.DefaultBodyMaxLen),
		})
	default:
		return authorizer.Success(body)
	}
}
