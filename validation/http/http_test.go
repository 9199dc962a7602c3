// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateHeaderName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		expectErr bool
	}{
		{"secret header", "X-Secret-Code", false},
		{"with dots", "X.Secret.Code", false},
		{"crlf injection", "X-Secret-Code\r\nX-Injected: 1", true},
		{"null byte", "X-Secret-Code\x00", true},
		{"contains space", "X Secret Code", true},
		{"empty string", "", true},
		{"too long", strings.Repeat("A", 300), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateHeaderName(tt.input)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateHeaderValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		expectErr bool
	}{
		{"plain secret", "s3cr3t-value", false},
		{"with spaces", "a long passphrase", false},
		{"newline", "secret\nX-Injected: 1", true},
		{"carriage return", "secret\r", true},
		{"empty", "", true},
		{"too long", strings.Repeat("a", 9000), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateHeaderValue(tt.input)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateBaseURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		expectErr bool
	}{
		{"https host", "https://minio.example.com", false},
		{"http with port and path", "http://localhost:9000/cdn", false},
		{"empty", "", true},
		{"no scheme", "minio.example.com", true},
		{"ftp scheme", "ftp://minio.example.com", true},
		{"query", "https://minio.example.com?x=1", true},
		{"fragment", "https://minio.example.com#top", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateBaseURL(tt.input)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
