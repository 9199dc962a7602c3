// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"crypto/sha1" //nolint:gosec // content fingerprint, not a security boundary
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// namesCacheControl is sent with the category names list.
const namesCacheControl = "private, max-age=60, s-maxage=60, stale-while-revalidate=86400"

// writeCached writes payload as JSON with a strong ETag over the encoded
// body. A matching If-None-Match yields 304 with no body.
func writeCached(w http.ResponseWriter, r *http.Request, payload any, cacheControl string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding response: %w", err)
	}
	tag := etag(body)

	w.Header().Set("ETag", tag)
	if cacheControl != "" {
		w.Header().Set("Cache-Control", cacheControl)
	}
	if etagMatches(r.Header.Get("If-None-Match"), tag) {
		w.WriteHeader(http.StatusNotModified)
		return nil
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
	return nil
}

func etag(body []byte) string {
	sum := sha1.Sum(body) //nolint:gosec // see import
	return `"` + hex.EncodeToString(sum[:]) + `"`
}

// etagMatches implements the If-None-Match list comparison.
func etagMatches(header, tag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == tag {
			return true
		}
	}
	return false
}
