// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package httperr provides error types with HTTP status codes and the JSON
// envelope used by every skillboard API response.
package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

// internalMessage replaces the message of any 5xx error written to a client.
const internalMessage = "internal server error"

// CodedError wraps an error with an HTTP status code.
// Domain sentinels are built from CodedError so that the status travels with
// the error through every fmt.Errorf("%w") layer up to the request boundary.
type CodedError struct {
	err  error
	code int
}

// Error implements the error interface.
func (e *CodedError) Error() string {
	return e.err.Error()
}

// Unwrap returns the underlying error for errors.Is() and errors.As() compatibility.
func (e *CodedError) Unwrap() error {
	return e.err
}

// HTTPCode returns the HTTP status code associated with this error.
func (e *CodedError) HTTPCode() int {
	return e.code
}

// WithCode wraps an error with an HTTP status code.
// If err is nil, WithCode returns nil.
func WithCode(err error, code int) error {
	if err == nil {
		return nil
	}
	return &CodedError{err: err, code: code}
}

// New creates a new error with the given message and HTTP status code.
func New(message string, code int) error {
	return &CodedError{err: errors.New(message), code: code}
}

// Newf is New with a format string.
func Newf(code int, format string, args ...any) error {
	return &CodedError{err: fmt.Errorf(format, args...), code: code}
}

// Code extracts the HTTP status code from an error.
// It unwraps the error chain looking for a CodedError; the outermost one wins.
// If no CodedError is found, it returns http.StatusInternalServerError (500).
func Code(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var coded *CodedError
	if errors.As(err, &coded) {
		return coded.code
	}

	return http.StatusInternalServerError
}

// Envelope is the body shape of every JSON API response.
type Envelope struct {
	Success    bool   `json:"success"`
	Data       any    `json:"data,omitempty"`
	Pagination any    `json:"pagination,omitempty"`
	Error      string `json:"error,omitempty"`
}

// WriteJSON encodes payload as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// Write renders err as a {success:false,error} envelope using Code(err) as the
// status. Server errors are logged and their message hidden from the client.
func Write(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	code := Code(err)
	msg := err.Error()
	if code >= http.StatusInternalServerError {
		if logger != nil {
			logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		}
		msg = internalMessage
	}
	WriteJSON(w, code, Envelope{Success: false, Error: msg})
}
