package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"authloop/internal/authorizer"
	"authloop/internal/prompt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAuthServer accepts the password "good" for user "u".
type fakeAuthServer struct {
	tokenCalls  int
	revokeCalls int
	revoked     []string
	revokeCode  int
}

func (s *fakeAuthServer) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		s.tokenCalls++
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "password", r.PostForm.Get("grant_type"))

		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.PostForm.Get("password") == "broken":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_client"}`))
		case r.PostForm.Get("password") == "crash":
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`oops`))
		case r.PostForm.Get("username") != "u" || r.PostForm.Get("password") != "good":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"bad credentials"}`))
		default:
			_ = json.NewEncoder(w).Encode(map[string]any{
				"access_token":  "AT",
				"token_type":    "Bearer",
				"refresh_token": "RT",
				"expires_in":    3600,
				"scope":         r.PostForm.Get("scope"),
			})
		}
	})
	mux.HandleFunc("/revoke", func(w http.ResponseWriter, r *http.Request) {
		s.revokeCalls++
		require.NoError(t, r.ParseForm())
		user, pass, ok := r.BasicAuth()
		if !ok || user != "u" || pass != "good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if s.revokeCode != 0 {
			w.WriteHeader(s.revokeCode)
			_, _ = w.Write([]byte("unsupported_token_type"))
			return
		}
		s.revoked = append(s.revoked, r.PostForm.Get("token_type_hint")+"="+r.PostForm.Get("token"))
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func newTestBackend(t *testing.T, fake *fakeAuthServer) *OAuth2 {
	t.Helper()
	server := httptest.NewServer(fake.handler(t))
	t.Cleanup(server.Close)

	b, err := New(Config{
		TokenURL:  server.URL + "/token",
		RevokeURL: server.URL + "/revoke",
		ClientID:  "authloop",
		Scopes:    []string{"read", "write"},
	})
	require.NoError(t, err)
	return b
}

func creds(user, pass string) authorizer.Credentials {
	return authorizer.Credentials{UsernameField: user, PasswordField: pass}
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"missing token url", Config{}, "token URL is required"},
		{"bad scheme", Config{TokenURL: "ftp://example.com/token"}, "scheme must be http or https"},
		{"missing host", Config{TokenURL: "https:///token"}, "missing host"},
		{"bad revoke url", Config{TokenURL: "https://example.com/token", RevokeURL: "example.com/revoke"}, "revoke URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	b, err := New(Config{TokenURL: "https://example.com/token"})
	require.NoError(t, err)
	assert.Equal(t, DefaultHTTPTimeout, b.httpClient.Timeout)
}

func TestAcquire_Accepted(t *testing.T) {
	fake := &fakeAuthServer{}
	b := newTestBackend(t, fake)

	before := time.Now()
	record, err := b.Acquire(context.Background(), creds("u", "good"), authorizer.Record{})
	require.NoError(t, err)
	require.NotNil(t, record)

	assert.Equal(t, "AT", record[KeyAccessToken])
	assert.Equal(t, "Bearer", record[KeyTokenType])
	assert.Equal(t, "RT", record[KeyRefreshToken])
	assert.Equal(t, "read write", record[KeyScope])

	expiry, err := time.Parse(time.RFC3339, record[KeyExpiry].(string))
	require.NoError(t, err)
	assert.WithinDuration(t, before.Add(time.Hour), expiry, time.Minute)
}

func TestAcquire_Rejected(t *testing.T) {
	fake := &fakeAuthServer{}
	b := newTestBackend(t, fake)

	record, err := b.Acquire(context.Background(), creds("u", "bad"), authorizer.Record{})
	require.NoError(t, err)
	assert.Nil(t, record)
	assert.Equal(t, 1, fake.tokenCalls)
}

func TestAcquire_EmptyCredentialsAreRejectedLocally(t *testing.T) {
	fake := &fakeAuthServer{}
	b := newTestBackend(t, fake)

	record, err := b.Acquire(context.Background(), creds("u", ""), authorizer.Record{})
	require.NoError(t, err)
	assert.Nil(t, record)
	assert.Equal(t, 0, fake.tokenCalls)
}

func TestAcquire_ServerErrors(t *testing.T) {
	fake := &fakeAuthServer{}
	b := newTestBackend(t, fake)

	for _, password := range []string{"broken", "crash"} {
		record, err := b.Acquire(context.Background(), creds("u", password), authorizer.Record{})
		assert.Error(t, err, password)
		assert.Nil(t, record, password)
	}
}

func TestTokenFromRecord(t *testing.T) {
	expiry := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	token, ok := TokenFromRecord(authorizer.Record{
		KeyAccessToken:  "AT",
		KeyTokenType:    "Bearer",
		KeyRefreshToken: "RT",
		KeyExpiry:       expiry.Format(time.RFC3339),
	})
	require.True(t, ok)
	assert.Equal(t, "AT", token.AccessToken)
	assert.Equal(t, "RT", token.RefreshToken)
	assert.True(t, expiry.Equal(token.Expiry))

	_, ok = TokenFromRecord(authorizer.Record{"token": "T"})
	assert.False(t, ok)
}

func TestRevoke_Accepted(t *testing.T) {
	fake := &fakeAuthServer{}
	b := newTestBackend(t, fake)

	keys, err := b.Revoke(context.Background(), creds("u", "good"), authorizer.Record{
		KeyAccessToken:  "AT",
		KeyRefreshToken: "RT",
	})
	require.NoError(t, err)
	assert.Equal(t, RevokedKeys, keys)
	assert.Equal(t, []string{"refresh_token=RT"}, fake.revoked)

	// the returned slice is a copy
	keys[0] = "changed"
	assert.Equal(t, KeyAccessToken, RevokedKeys[0])
}

func TestRevoke_Rejected(t *testing.T) {
	fake := &fakeAuthServer{}
	b := newTestBackend(t, fake)

	keys, err := b.Revoke(context.Background(), creds("u", "bad"), authorizer.Record{KeyAccessToken: "AT"})
	require.NoError(t, err)
	assert.Nil(t, keys)
	assert.Equal(t, 1, fake.revokeCalls)
}

func TestRevoke_ServerError(t *testing.T) {
	fake := &fakeAuthServer{revokeCode: http.StatusBadRequest}
	b := newTestBackend(t, fake)

	keys, err := b.Revoke(context.Background(), creds("u", "good"), authorizer.Record{KeyAccessToken: "AT"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "unsupported_token_type")
	assert.Nil(t, keys)
}

func TestRevoke_NothingStored(t *testing.T) {
	fake := &fakeAuthServer{}
	b := newTestBackend(t, fake)

	keys, err := b.Revoke(context.Background(), creds("", ""), authorizer.Record{})
	require.NoError(t, err)
	assert.Equal(t, RevokedKeys, keys)
	assert.Equal(t, 0, fake.revokeCalls)
}

func TestBackend_DrivesController(t *testing.T) {
	fake := &fakeAuthServer{}
	b := newTestBackend(t, fake)

	answers := []map[string]string{
		{UsernameField: "u", PasswordField: "bad"},
		{UsernameField: "u", PasswordField: "good"},
	}
	ctrl, err := authorizer.New(authorizer.Config{
		Name:     "backend-test",
		Acquire:  b.Acquire,
		Revoke:   b.Revoke,
		Prompter: prompt.NewScripted(answers...),
		StoreDir: t.TempDir(),
	})
	require.NoError(t, err)

	err = ctrl.Ensure(context.Background(), func(ctx context.Context, snapshot authorizer.Record) error {
		if _, ok := TokenFromRecord(snapshot); !ok {
			return authorizer.ErrAuthRequired
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, fake.tokenCalls)

	snapshot, err := ctrl.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "AT", snapshot[KeyAccessToken])
}
