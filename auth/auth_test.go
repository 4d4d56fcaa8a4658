package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anyproto/any-sync/app"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

const secret = "test-secret"

func sign(t *testing.T, key string, c jwt.MapClaims) string {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(key))
	require.NoError(t, err)
	return tok
}

func TestAuth_Authenticate(t *testing.T) {
	fx := newFixture(t)
	exp := time.Now().Add(time.Hour).Unix()

	t.Run("bearer header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer "+sign(t, secret, jwt.MapClaims{"id": "u1", "email": "a@sacavia.com", "exp": exp}))
		u, err := fx.Authenticate(r)
		require.NoError(t, err)
		assert.Equal(t, "u1", u.Id)
		assert.Equal(t, "a@sacavia.com", u.Email)
		assert.False(t, u.IsAdmin())
	})
	t.Run("cookie with subject and role", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: CookieName, Value: sign(t, secret, jwt.MapClaims{"sub": "u2", "role": "admin", "exp": exp})})
		u, err := fx.Authenticate(r)
		require.NoError(t, err)
		assert.Equal(t, "u2", u.Id)
		assert.True(t, u.IsAdmin())
	})
	t.Run("roles list", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "JWT "+sign(t, secret, jwt.MapClaims{"id": "u3", "roles": []string{"user", "admin"}}))
		u, err := fx.Authenticate(r)
		require.NoError(t, err)
		assert.True(t, u.IsAdmin())
	})
	t.Run("no token", func(t *testing.T) {
		_, err := fx.Authenticate(httptest.NewRequest(http.MethodGet, "/", nil))
		assert.ErrorIs(t, err, ErrNoToken)
	})
	t.Run("wrong key", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer "+sign(t, "other", jwt.MapClaims{"id": "u1"}))
		_, err := fx.Authenticate(r)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
	t.Run("expired", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer "+sign(t, secret, jwt.MapClaims{"id": "u1", "exp": time.Now().Add(-time.Hour).Unix()}))
		_, err := fx.Authenticate(r)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
	t.Run("no subject", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer "+sign(t, secret, jwt.MapClaims{"email": "a@sacavia.com"}))
		_, err := fx.Authenticate(r)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestAuth_Middleware(t *testing.T) {
	fx := newFixture(t)
	var seen User
	h := fx.Middleware(fx.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = CtxUser(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})))

	do := func(token string) int {
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		if token != "" {
			r.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		return rec.Code
	}
	assert.Equal(t, http.StatusUnauthorized, do(""))
	assert.Equal(t, http.StatusForbidden, do(sign(t, secret, jwt.MapClaims{"id": "u1"})))
	assert.Equal(t, http.StatusNoContent, do(sign(t, secret, jwt.MapClaims{"id": "root", "roles": []string{"admin"}})))
	assert.Equal(t, "root", seen.Id)
}

type testConfig struct{}

func (testConfig) Init(a *app.App) error { return nil }
func (testConfig) Name() string          { return "config" }
func (testConfig) GetAuth() Config       { return Config{JWTSecret: secret} }

type fixture struct {
	Auth
	a *app.App
}

func newFixture(t *testing.T) *fixture {
	fx := &fixture{
		Auth: New(),
		a:    new(app.App),
	}
	fx.a.Register(testConfig{}).Register(fx.Auth)
	require.NoError(t, fx.a.Start(ctx))
	t.Cleanup(func() {
		require.NoError(t, fx.a.Close(ctx))
	})
	return fx
}
