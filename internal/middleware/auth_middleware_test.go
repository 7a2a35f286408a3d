package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func protected(pub *rsa.PublicKey) http.Handler {
	return AuthMiddleware(pub)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := UserID(r.Context())
		_, _ = w.Write([]byte(id))
	}))
}

func TestAuthMiddleware_BearerToken(t *testing.T) {
	key := newKey(t)
	tok, err := IssueAccessToken(key, "acc-1", time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rr := httptest.NewRecorder()
	protected(&key.PublicKey).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "acc-1", rr.Body.String())
}

func TestAuthMiddleware_Cookie(t *testing.T) {
	key := newKey(t)
	tok, err := IssueAccessToken(key, "acc-2", time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookieName, Value: tok})
	rr := httptest.NewRecorder()
	protected(&key.PublicKey).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "acc-2", rr.Body.String())
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	key := newKey(t)
	other := newKey(t)

	expired, err := IssueAccessToken(key, "acc", -time.Minute)
	require.NoError(t, err)
	foreign, err := IssueAccessToken(other, "acc", time.Minute)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"not bearer", "Basic abc"},
		{"expired", "Bearer " + expired},
		{"wrong key", "Bearer " + foreign},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			protected(&key.PublicKey).ServeHTTP(rr, req)
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
		})
	}
}
