// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package env

//go:generate mockgen -source=env.go -destination=mocks/mock_reader.go -package=mocks Reader

import (
	"os"
	"strings"
)

// Reader defines an interface for environment variable access.
type Reader interface {
	Getenv(key string) string
	LookupEnv(key string) (string, bool)
}

// OSReader implements Reader using the standard os package.
type OSReader struct{}

// Getenv returns the value of the environment variable named by the key.
func (*OSReader) Getenv(key string) string {
	return os.Getenv(key)
}

// LookupEnv reports the value and presence of the environment variable named by the key.
func (*OSReader) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// FirstNonEmpty returns the trimmed value of the first key that is set to a
// non-blank value, or "".
func FirstNonEmpty(r Reader, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(r.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}
