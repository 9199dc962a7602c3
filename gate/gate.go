// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package gate guards the API with a shared header secret and the admin pages
// with a session cookie.
package gate

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/stacklok/skillboard/httperr"
)

// Defaults.
const (
	DefaultHeaderName = "X-Secret-Code"
	CookieName        = "auth-token"
	DefaultSessionTTL = 24 * time.Hour
	LoginPath         = "/login"
	LoginAPIPath      = "/api/login"
)

// ErrUnauthorized is written for a missing or wrong secret or password.
var ErrUnauthorized = httperr.New("Unauthorized", http.StatusUnauthorized)

// Options configures a Gate.
type Options struct {
	// Secret is compared against the HeaderName request header.
	Secret     string
	HeaderName string
	// Password is the admin login password.
	Password string
	// SecureCookie marks the session cookie Secure.
	SecureCookie bool
	SessionTTL   time.Duration
	// Public lists non-API path prefixes served without a session.
	Public []string
}

// Gate holds the access checks.
type Gate struct {
	opts   Options
	logger *slog.Logger
}

// New returns a Gate, filling unset options with defaults.
func New(opts Options, logger *slog.Logger) *Gate {
	if opts.HeaderName == "" {
		opts.HeaderName = DefaultHeaderName
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = DefaultSessionTTL
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Gate{opts: opts, logger: logger}
}

// IsAPI reports whether path is under /api.
func IsAPI(path string) bool {
	return path == "/api" || strings.HasPrefix(path, "/api/")
}

// RequireSecret rejects API requests whose secret header does not match.
// The login endpoint is exempt; non-API paths pass through.
func (g *Gate) RequireSecret(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsAPI(r.URL.Path) || r.URL.Path == LoginAPIPath {
			next.ServeHTTP(w, r)
			return
		}
		if !equal(r.Header.Get(g.opts.HeaderName), g.opts.Secret) {
			g.logger.WarnContext(r.Context(), "api secret rejected", "method", r.Method, "path", r.URL.Path)
			httperr.Write(w, r, g.logger, ErrUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSession redirects page navigation without a session cookie to the
// login page, and the login page to / when a session exists. API and public
// paths pass through.
func (g *Gate) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IsAPI(r.URL.Path) || g.isPublic(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}
		signedIn := HasSession(r)
		switch {
		case !signedIn && r.URL.Path != LoginPath:
			http.Redirect(w, r, LoginPath, http.StatusTemporaryRedirect)
		case signedIn && r.URL.Path == LoginPath:
			http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

// HasSession reports whether the request carries a session cookie.
func HasSession(r *http.Request) bool {
	c, err := r.Cookie(CookieName)
	return err == nil && c.Value != ""
}

// Login checks password and sets the session cookie on success.
func (g *Gate) Login(w http.ResponseWriter, password string) error {
	if !equal(password, g.opts.Password) {
		return ErrUnauthorized
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "true",
		Path:     "/",
		HttpOnly: true,
		Secure:   g.opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(g.opts.SessionTTL / time.Second),
	})
	return nil
}

// Logout clears the session cookie.
func (g *Gate) Logout(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   g.opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

func (g *Gate) isPublic(path string) bool {
	for _, p := range g.opts.Public {
		if path == p || strings.HasPrefix(path, strings.TrimRight(p, "/")+"/") {
			return true
		}
	}
	return false
}

// equal compares in constant time. An empty expected value never matches.
func equal(got, want string) bool {
	if want == "" || got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
