// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package api exposes the skills catalog over HTTP.
//
// Every JSON response uses the httperr.Envelope shape. Requests pass through
// panic recovery, access logging, the API secret gate and the page session
// gate before reaching a route.
package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/stacklok/skillboard/blob"
	"github.com/stacklok/skillboard/directory"
	"github.com/stacklok/skillboard/gate"
	"github.com/stacklok/skillboard/httperr"
	"github.com/stacklok/skillboard/lifecycle"
	"github.com/stacklok/skillboard/logging"
	"github.com/stacklok/skillboard/query"
	"github.com/stacklok/skillboard/recovery"
	"github.com/stacklok/skillboard/web"
)

// DefaultMaxUploadBytes bounds a multipart skill form.
const DefaultMaxUploadBytes = 5 << 20

// IconsPath is where stored icons are served when Server.Icons is set.
const IconsPath = "/icons/"

// HealthPath answers liveness probes.
const HealthPath = "/healthz"

const apiFallback = "/api/"

var routeMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}

// Server wires the catalog components to HTTP routes.
type Server struct {
	Skills     *lifecycle.Manager
	Categories *directory.Directory
	Query      *query.Service
	Gate       *gate.Gate
	Pages      *web.Pages
	// Icons, when set, serves stored icons under IconsPath.
	Icons          blob.Store
	MaxUploadBytes int64
	Logger         *slog.Logger
}

// handlerFunc is an HTTP handler that reports failures as errors.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func (s *Server) handle(fn handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			httperr.Write(w, r, s.logger(), err)
		}
	})
}

func (s *Server) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}

// Routes registers every route on a new mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("POST /api/login", s.handle(s.login))
	mux.Handle("POST /api/logout", s.handle(s.logout))

	mux.Handle("GET /api/skill-categories", s.handle(s.listCategories))
	mux.Handle("POST /api/skill-categories", s.handle(s.createCategory))
	mux.Handle("GET /api/skill-categories/names", s.handle(s.categoryNames))

	mux.Handle("GET /api/skills", s.handle(s.searchSkills))
	mux.Handle("POST /api/skills", s.handle(s.createSkill))
	mux.Handle("GET /api/skills/{id}", s.handle(s.getSkill))
	mux.Handle("PUT /api/skills/{id}", s.handle(s.updateSkill))
	mux.Handle("DELETE /api/skills/{id}", s.handle(s.deleteSkill))

	mux.Handle(apiFallback, s.handle(func(w http.ResponseWriter, r *http.Request) error {
		if allow := allowedMethods(mux, r); len(allow) > 0 {
			w.Header().Set("Allow", strings.Join(allow, ", "))
			return httperr.Newf(http.StatusMethodNotAllowed, "method %s not allowed for %s", r.Method, r.URL.Path)
		}
		return httperr.Newf(http.StatusNotFound, "no route for %s %s", r.Method, r.URL.Path)
	}))

	mux.HandleFunc("GET "+HealthPath, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	if s.Icons != nil {
		mux.Handle("GET "+IconsPath+"{key...}", s.handle(s.serveIcon))
	}
	if s.Pages != nil {
		s.Pages.Register(mux)
	}
	return mux
}

// allowedMethods lists the methods routed for r's path by something other
// than the API fallback.
func allowedMethods(mux *http.ServeMux, r *http.Request) []string {
	var allow []string
	for _, method := range routeMethods {
		alt := r.WithContext(r.Context())
		alt.Method = method
		if _, pattern := mux.Handler(alt); pattern != "" && pattern != apiFallback {
			allow = append(allow, method)
		}
	}
	return allow
}

// PublicPaths lists the non-API paths served without a session.
func PublicPaths() []string {
	return []string{HealthPath, IconsPath}
}

// Handler returns the full middleware chain around Routes.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.Routes()
	h = s.Gate.RequireSession(h)
	h = s.Gate.RequireSecret(h)
	h = logging.Middleware(s.logger())(h)
	return recovery.Middleware(s.logger())(h)
}

func (s *Server) maxUploadBytes() int64 {
	if s.MaxUploadBytes <= 0 {
		return DefaultMaxUploadBytes
	}
	return s.MaxUploadBytes
}

func ok(w http.ResponseWriter, status int, data any) error {
	httperr.WriteJSON(w, status, httperr.Envelope{Success: true, Data: data})
	return nil
}
