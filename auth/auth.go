// Package auth resolves the calling user from a bearer token issued by the CMS.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/anyproto/any-sync/app"
	"github.com/golang-jwt/jwt/v5"

	"github.com/sacavia/sacavia-push-server/httpserver"
)

const CName = "push.auth"

const (
	CookieName = "payload-token"
	RoleAdmin  = "admin"
)

var (
	ErrNoToken      = errors.New("no auth token")
	ErrInvalidToken = errors.New("invalid auth token")
)

func New() Auth {
	return new(auth)
}

type configSource interface {
	GetAuth() Config
}

type Config struct {
	JWTSecret string `yaml:"jwtSecret" env:"PAYLOAD_SECRET"`
}

type User struct {
	Id    string
	Email string
	Roles []string
}

func (u User) IsAdmin() bool {
	return slices.Contains(u.Roles, RoleAdmin)
}

type claims struct {
	Id    string   `json:"id"`
	Email string   `json:"email"`
	Role  string   `json:"role"`
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

type userKey struct{}

func CtxWithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

func CtxUser(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(userKey{}).(User)
	return u, ok
}

type Auth interface {
	Authenticate(r *http.Request) (User, error)
	// Middleware rejects requests without a valid token with 401.
	Middleware(next http.Handler) http.Handler
	// RequireAdmin must run after Middleware; it rejects non admins with 403.
	RequireAdmin(next http.Handler) http.Handler
	app.Component
}

type auth struct {
	secret []byte
}

func (a *auth) Init(ap *app.App) (err error) {
	conf := ap.MustComponent("config").(configSource).GetAuth()
	if conf.JWTSecret == "" {
		return errors.New("auth: jwtSecret is empty")
	}
	a.secret = []byte(conf.JWTSecret)
	return
}

func (a *auth) Name() (name string) {
	return CName
}

func (a *auth) Authenticate(r *http.Request) (u User, err error) {
	raw := bearerToken(r)
	if raw == "" {
		return u, ErrNoToken
	}
	var c claims
	_, err = jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return u, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	u.Id = c.Id
	if u.Id == "" {
		u.Id = c.Subject
	}
	if u.Id == "" {
		return u, fmt.Errorf("%w: no subject", ErrInvalidToken)
	}
	u.Email = c.Email
	u.Roles = c.Roles
	if c.Role != "" && !slices.Contains(u.Roles, c.Role) {
		u.Roles = append(u.Roles, c.Role)
	}
	return u, nil
}

func (a *auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, err := a.Authenticate(r)
		if err != nil {
			httpserver.WriteError(w, http.StatusUnauthorized, httpserver.ErrUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(CtxWithUser(r.Context(), u)))
	})
}

func (a *auth) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := CtxUser(r.Context())
		if !ok {
			httpserver.WriteError(w, http.StatusUnauthorized, httpserver.ErrUnauthorized)
			return
		}
		if !u.IsAdmin() {
			httpserver.WriteError(w, http.StatusForbidden, httpserver.ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && (strings.EqualFold(scheme, "Bearer") || strings.EqualFold(scheme, "JWT")) {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	return ""
}
