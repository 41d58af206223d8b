package client

import (
	"errors"
	"net/http"
	"sync"

	"golang.org/x/oauth2"

	"authloop/internal/authorizer"
	"authloop/internal/backend"
)

// ErrNoToken is returned by TokenHolder.Token while no usable token is held.
var ErrNoToken = errors.New("no usable token")

// TokenHolder keeps the token of the most recent snapshot a Provider
// published. It is an authorizer.AuthHolder and an oauth2.TokenSource, so an
// HTTP client built with Client authenticates every request with it.
type TokenHolder struct {
	mu    sync.RWMutex
	token *oauth2.Token
}

// NewTokenHolder creates an empty holder.
func NewTokenHolder() *TokenHolder {
	return &TokenHolder{}
}

// SetAuth replaces the held token with the one in snapshot, or clears it.
func (h *TokenHolder) SetAuth(snapshot authorizer.Record) {
	token, ok := backend.TokenFromRecord(snapshot)

	h.mu.Lock()
	defer h.mu.Unlock()
	if !ok {
		h.token = nil
		return
	}
	h.token = token
}

// Token implements oauth2.TokenSource. It never refreshes: an expired or
// missing token yields ErrNoToken, which Fetcher reports as AuthRequired.
func (h *TokenHolder) Token() (*oauth2.Token, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.token == nil || !h.token.Valid() {
		return nil, ErrNoToken
	}
	t := *h.token
	return &t, nil
}

// Client returns an HTTP client that sends the held token. base defaults to
// http.DefaultTransport.
func (h *TokenHolder) Client(base http.RoundTripper) *http.Client {
	return &http.Client{
		Timeout: DefaultTimeout,
		Transport: &oauth2.Transport{
			Source: h,
			Base:   base,
		},
	}
}

var (
	_ authorizer.AuthHolder = (*TokenHolder)(nil)
	_ oauth2.TokenSource    = (*TokenHolder)(nil)
)
