// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedPages(t *testing.T) {
	t.Parallel()

	for _, file := range pageFiles {
		b, err := pageFS.ReadFile("pages/" + file)
		require.NoError(t, err, file)
		assert.NotEmpty(t, b, file)
	}
}

func TestPages(t *testing.T) {
	t.Parallel()

	pages, err := New(Settings{SecretHeader: "X-Secret-Code", Secret: `abc"</script>`}, nil)
	require.NoError(t, err)
	mux := http.NewServeMux()
	pages.Register(mux)

	tests := []struct {
		path       string
		wantStatus int
		wantBody   string
	}{
		{"/", http.StatusOK, "<h1>Skills</h1>"},
		{"/categories", http.StatusOK, "<h1>Categories</h1>"},
		{"/login", http.StatusOK, `type="password"`},
		{"/nope", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
				assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
			}
		})
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotContains(t, rec.Body.String(), `abc"</script>`, "secret is escaped for the script context")
	assert.Contains(t, rec.Body.String(), `"X-Secret-Code"`)
}
