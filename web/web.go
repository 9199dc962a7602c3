// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package web serves the admin pages. The pages are static shells that call
// the JSON API from the browser.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
)

//go:embed pages/*.html
var pageFS embed.FS

// Page paths.
const (
	HomePath       = "/"
	CategoriesPath = "/categories"
	LoginPath      = "/login"
)

var pageFiles = map[string]string{
	HomePath:       "index.html",
	CategoriesPath: "categories.html",
	LoginPath:      "login.html",
}

// Settings is exposed to page scripts.
type Settings struct {
	// SecretHeader and Secret are sent with every API call from the pages.
	SecretHeader string
	Secret       string
}

// Pages renders the embedded admin pages.
type Pages struct {
	tmpl     *template.Template
	settings Settings
	logger   *slog.Logger
}

// New parses the embedded templates.
func New(settings Settings, logger *slog.Logger) (*Pages, error) {
	tmpl, err := template.ParseFS(pageFS, "pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing pages: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Pages{tmpl: tmpl, settings: settings, logger: logger}, nil
}

// Register mounts every page on mux.
func (p *Pages) Register(mux *http.ServeMux) {
	for path, file := range pageFiles {
		pattern := "GET " + path
		if path == HomePath {
			pattern = "GET /{$}"
		}
		mux.Handle(pattern, p.page(file))
	}
}

func (p *Pages) page(file string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := p.tmpl.ExecuteTemplate(&buf, file, p.settings); err != nil {
			p.logger.ErrorContext(r.Context(), "rendering page", "page", file, "error", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = buf.WriteTo(w)
	})
}
