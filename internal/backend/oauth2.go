package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"authloop/internal/authorizer"
	"authloop/pkg/logging"
)

// DefaultHTTPTimeout bounds every request to the authorization server.
const DefaultHTTPTimeout = 30 * time.Second

// Credential fields read from a prompt round.
const (
	UsernameField = "username"
	PasswordField = "password"
)

// Record keys written by Acquire.
const (
	KeyAccessToken  = "access_token"
	KeyTokenType    = "token_type"
	KeyRefreshToken = "refresh_token"
	KeyExpiry       = "expiry"
	KeyScope        = "scope"
)

// RevokedKeys are removed from the record by a successful Revoke.
var RevokedKeys = []string{KeyAccessToken, KeyRefreshToken, KeyTokenType, KeyExpiry, KeyScope}

// Config configures an OAuth2 backend.
type Config struct {
	// TokenURL is the token endpoint used for the password grant. Required.
	TokenURL string

	// RevokeURL is the RFC 7009 revocation endpoint. When empty, Revoke only
	// forgets the stored token.
	RevokeURL string

	ClientID     string
	ClientSecret string
	Scopes       []string

	// HTTPClient is used for all requests. Defaults to a client with
	// DefaultHTTPTimeout.
	HTTPClient *http.Client
}

// OAuth2 acquires tokens with the resource owner password grant and revokes
// them at an RFC 7009 endpoint. Its Acquire and Revoke methods satisfy
// authorizer.AcquireFunc and authorizer.RevokeFunc.
type OAuth2 struct {
	oauth      oauth2.Config
	revokeURL  string
	httpClient *http.Client
}

// New validates cfg and returns an OAuth2 backend.
func New(cfg Config) (*OAuth2, error) {
	if err := validateURL("token URL", cfg.TokenURL); err != nil {
		return nil, err
	}
	if cfg.RevokeURL != "" {
		if err := validateURL("revoke URL", cfg.RevokeURL); err != nil {
			return nil, err
		}
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultHTTPTimeout}
	}

	authStyle := oauth2.AuthStyleInParams
	if cfg.ClientSecret != "" {
		authStyle = oauth2.AuthStyleInHeader
	}

	return &OAuth2{
		oauth: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Scopes:       cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				TokenURL:  cfg.TokenURL,
				AuthStyle: authStyle,
			},
		},
		revokeURL:  cfg.RevokeURL,
		httpClient: httpClient,
	}, nil
}

func validateURL(what, raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("%s is required", what)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", what, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid %s %q: scheme must be http or https", what, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid %s %q: missing host", what, raw)
	}
	return nil
}

// Acquire exchanges the username and password for a token. Credentials the
// server refuses (invalid_grant, or a bare 400/401) yield a nil record so the
// controller prompts again.
func (b *OAuth2) Acquire(ctx context.Context, creds authorizer.Credentials, current authorizer.Record) (authorizer.Record, error) {
	username, password := creds[UsernameField], creds[PasswordField]
	if username == "" || password == "" {
		logging.Warn("Backend", "Empty username or password, asking again")
		return nil, nil
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, b.httpClient)
	token, err := b.oauth.PasswordCredentialsToken(ctx, username, password)
	if err != nil {
		if isRejection(err) {
			logging.Debug("Backend", "Token endpoint rejected credentials: %v", err)
			return nil, nil
		}
		return nil, fmt.Errorf("password grant: %w", err)
	}

	logging.Debug("Backend", "Obtained %s token from %s", token.Type(), b.oauth.Endpoint.TokenURL)
	return recordFromToken(token), nil
}

func isRejection(err error) bool {
	var retrieveErr *oauth2.RetrieveError
	if !errors.As(err, &retrieveErr) {
		return false
	}
	if retrieveErr.ErrorCode != "" {
		return retrieveErr.ErrorCode == "invalid_grant"
	}
	if retrieveErr.Response == nil {
		return false
	}
	status := retrieveErr.Response.StatusCode
	return status == http.StatusBadRequest || status == http.StatusUnauthorized
}

func recordFromToken(token *oauth2.Token) authorizer.Record {
	record := authorizer.Record{
		KeyAccessToken: token.AccessToken,
		KeyTokenType:   token.Type(),
	}
	if token.RefreshToken != "" {
		record[KeyRefreshToken] = token.RefreshToken
	}
	if !token.Expiry.IsZero() {
		record[KeyExpiry] = token.Expiry.UTC().Format(time.RFC3339)
	}
	if scope, ok := token.Extra(KeyScope).(string); ok && scope != "" {
		record[KeyScope] = scope
	}
	return record
}

// TokenFromRecord rebuilds the token stored by Acquire. It reports false when
// the record holds no access token.
func TokenFromRecord(record authorizer.Record) (*oauth2.Token, bool) {
	access, ok := record.StringValue(KeyAccessToken)
	if !ok || access == "" {
		return nil, false
	}

	token := &oauth2.Token{AccessToken: access}
	token.TokenType, _ = record.StringValue(KeyTokenType)
	token.RefreshToken, _ = record.StringValue(KeyRefreshToken)
	if raw, ok := record.StringValue(KeyExpiry); ok {
		if expiry, err := time.Parse(time.RFC3339, raw); err == nil {
			token.Expiry = expiry
		}
	}
	return token, true
}

// Revoke revokes the stored token at the revocation endpoint, authenticating
// with the prompted username and password. 401 and 403 responses yield nil
// so the controller prompts again. On success it returns RevokedKeys.
func (b *OAuth2) Revoke(ctx context.Context, creds authorizer.Credentials, current authorizer.Record) ([]string, error) {
	token, hint := revocableToken(current)
	if token == "" || b.revokeURL == "" {
		logging.Info("Backend", "Nothing to revoke remotely, forgetting local token")
		return append([]string(nil), RevokedKeys...), nil
	}

	username, password := creds[UsernameField], creds[PasswordField]
	if username == "" || password == "" {
		logging.Warn("Backend", "Empty username or password, asking again")
		return nil, nil
	}

	form := url.Values{
		"token":           {token},
		"token_type_hint": {hint},
	}
	if b.oauth.ClientID != "" {
		form.Set("client_id", b.oauth.ClientID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.revokeURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build revocation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(username, password)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("revocation request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		logging.Debug("Backend", "Revoked %s at %s", hint, b.revokeURL)
		return append([]string(nil), RevokedKeys...), nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		logging.Debug("Backend", "Revocation endpoint rejected credentials (%d)", resp.StatusCode)
		return nil, nil
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("revocation endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
}

// revocableToken picks the refresh token if there is one.
func revocableToken(record authorizer.Record) (token, hint string) {
	if refresh, ok := record.StringValue(KeyRefreshToken); ok && refresh != "" {
		return refresh, KeyRefreshToken
	}
	if access, ok := record.StringValue(KeyAccessToken); ok && access != "" {
		return access, KeyAccessToken
	}
	return "", ""
}
