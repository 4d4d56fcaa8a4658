package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anyproto/any-sync/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sacavia/sacavia-push-server/metric"
)

var ctx = context.Background()

type response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func TestHTTPServer_Routes(t *testing.T) {
	fx := newFixture(t)

	t.Run("health", func(t *testing.T) {
		rec := fx.do(httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, rec.Header().Get(RequestIdHeader))
		var resp response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.JSONEq(t, `{"status":"ok"}`, string(resp.Data))
	})
	t.Run("metrics", func(t *testing.T) {
		rec := fx.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "go_goroutines")
	})
	t.Run("not found", func(t *testing.T) {
		rec := fx.do(httptest.NewRequest(http.MethodGet, "/nope", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		var resp response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, ErrNotFound.Error(), resp.Error)
	})
	t.Run("method not allowed", func(t *testing.T) {
		rec := fx.do(httptest.NewRequest(http.MethodPost, "/health", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		var resp response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, ErrMethod.Error(), resp.Error)
	})
	t.Run("request id is kept", func(t *testing.T) {
		var seen string
		fx.Router().HandleFunc("/echo", func(w http.ResponseWriter, r *http.Request) {
			seen = CtxRequestId(r.Context())
			WriteData(w, http.StatusOK, nil)
		})
		req := httptest.NewRequest(http.MethodGet, "/echo", nil)
		req.Header.Set(RequestIdHeader, "req-1")
		rec := fx.do(req)
		assert.Equal(t, "req-1", rec.Header().Get(RequestIdHeader))
		assert.Equal(t, "req-1", seen)
	})
	t.Run("panic", func(t *testing.T) {
		fx.Router().HandleFunc("/boom", func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		})
		rec := fx.do(httptest.NewRequest(http.MethodGet, "/boom", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
	t.Run("listening", func(t *testing.T) {
		resp, err := http.Get("http://" + fx.Addr() + "/health")
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestDecodeJSON(t *testing.T) {
	type req struct {
		Token    string `json:"token" validate:"required"`
		Platform string `json:"platform" validate:"omitempty,oneof=ios android web"`
	}
	t.Run("valid", func(t *testing.T) {
		var v req
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"token":"abc","platform":"ios"}`))
		require.NoError(t, DecodeJSON(r, &v))
		assert.Equal(t, "abc", v.Token)
	})
	t.Run("missing field", func(t *testing.T) {
		var v req
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"platform":"ios"}`))
		err := DecodeJSON(r, &v)
		require.ErrorIs(t, err, ErrBadRequest)
		assert.Contains(t, err.Error(), "token")
	})
	t.Run("bad value", func(t *testing.T) {
		var v req
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"token":"abc","platform":"symbian"}`))
		err := DecodeJSON(r, &v)
		require.ErrorIs(t, err, ErrBadRequest)
		assert.Contains(t, err.Error(), "platform")
	})
	t.Run("broken json", func(t *testing.T) {
		var v req
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"token":`))
		require.ErrorIs(t, DecodeJSON(r, &v), ErrBadRequest)
	})
}

func TestWriteError_hidesInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, http.StatusInternalServerError, errors.New("mongo: connection refused"))
	assert.NotContains(t, rec.Body.String(), "mongo")
	assert.Contains(t, rec.Body.String(), ErrInternal.Error())

	rec = httptest.NewRecorder()
	WriteError(rec, http.StatusServiceUnavailable, errors.New("fcm not configured"))
	assert.Contains(t, rec.Body.String(), "fcm not configured")
}

type testConfig struct{}

func (testConfig) Init(a *app.App) error { return nil }
func (testConfig) Name() string          { return "config" }
func (testConfig) GetHTTP() Config       { return Config{ListenAddr: "127.0.0.1:0"} }

type fixture struct {
	HTTPServer
	a *app.App
}

func newFixture(t *testing.T) *fixture {
	fx := &fixture{
		HTTPServer: New(),
		a:          new(app.App),
	}
	fx.a.Register(testConfig{}).Register(metric.New()).Register(fx.HTTPServer)
	require.NoError(t, fx.a.Start(ctx))
	t.Cleanup(func() {
		require.NoError(t, fx.a.Close(ctx))
	})
	return fx
}

func (fx *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	fx.Router().ServeHTTP(rec, req)
	return rec
}
