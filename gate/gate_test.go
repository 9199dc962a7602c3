// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package gate

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/skillboard/httperr"
)

func newGate() *Gate {
	return New(Options{Secret: "s3cret", Password: "hunter2", Public: []string{"/healthz", "/icons"}}, nil)
}

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireSecret(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		method     string
		path       string
		header     string
		wantStatus int
		wantCalled bool
	}{
		{"missing secret", http.MethodGet, "/api/skills", "", http.StatusUnauthorized, false},
		{"wrong secret", http.MethodPost, "/api/skills", "nope", http.StatusUnauthorized, false},
		{"wrong secret on delete", http.MethodDelete, "/api/skills/1", "nope", http.StatusUnauthorized, false},
		{"categories", http.MethodPost, "/api/skill-categories", "", http.StatusUnauthorized, false},
		{"correct secret", http.MethodGet, "/api/skills", "s3cret", http.StatusOK, true},
		{"login exempt", http.MethodPost, "/api/login", "", http.StatusOK, true},
		{"pages pass", http.MethodGet, "/categories", "", http.StatusOK, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var called bool
			h := newGate().RequireSecret(okHandler(&called))
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.header != "" {
				req.Header.Set(DefaultHeaderName, tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCalled, called)
			if tt.wantStatus == http.StatusUnauthorized {
				var body httperr.Envelope
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, httperr.Envelope{Success: false, Error: "Unauthorized"}, body)
			}
		})
	}
}

func TestRequireSecret_EmptySecretRejectsAll(t *testing.T) {
	t.Parallel()

	var called bool
	h := New(Options{}, nil).RequireSecret(okHandler(&called))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/skills", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestRequireSession(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		path         string
		cookie       bool
		wantStatus   int
		wantLocation string
	}{
		{"no cookie redirects to login", "/", false, http.StatusTemporaryRedirect, "/login"},
		{"no cookie on categories", "/categories", false, http.StatusTemporaryRedirect, "/login"},
		{"no cookie on login", "/login", false, http.StatusOK, ""},
		{"cookie on login redirects home", "/login", true, http.StatusTemporaryRedirect, "/"},
		{"cookie on page", "/categories", true, http.StatusOK, ""},
		{"api bypasses", "/api/skills", false, http.StatusOK, ""},
		{"health bypasses", "/healthz", false, http.StatusOK, ""},
		{"icons bypass", "/icons/go-light.svg", false, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var called bool
			h := newGate().RequireSession(okHandler(&called))
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.cookie {
				req.AddCookie(&http.Cookie{Name: CookieName, Value: "true"})
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
			assert.Equal(t, tt.wantStatus == http.StatusOK, called)
		})
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()

	g := New(Options{Password: "hunter2", SecureCookie: true}, nil)

	rec := httptest.NewRecorder()
	require.ErrorIs(t, g.Login(rec, "wrong"), ErrUnauthorized)
	assert.Empty(t, rec.Result().Cookies())

	rec = httptest.NewRecorder()
	require.NoError(t, g.Login(rec, "hunter2"))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, CookieName, c.Name)
	assert.Equal(t, "true", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, 24*60*60, c.MaxAge)

	rec = httptest.NewRecorder()
	g.Logout(rec)
	cookies = rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestIsAPI(t *testing.T) {
	t.Parallel()

	assert.True(t, IsAPI("/api"))
	assert.True(t, IsAPI("/api/skills"))
	assert.False(t, IsAPI("/apix"))
	assert.False(t, IsAPI("/"))
}
