// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package recovery

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/stacklok/skillboard/httperr"
)

// Middleware recovers from panics in next. The panic value and stack trace are
// logged; the client receives a 500 JSON envelope.
func Middleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.Error("panic in handler",
					"method", r.Method,
					"path", r.URL.Path,
					"panic", rec,
					"stack", string(debug.Stack()),
				)
				httperr.Write(w, r, nil, errors.New("panic"))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
