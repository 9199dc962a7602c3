// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package http validates the HTTP-facing pieces of skillboard configuration: the
name and value of the shared-secret header, and the public base URL used to
build icon links.

	if err := http.ValidateHeaderName(cfg.Auth.SecretHeader); err != nil { ... }
	if err := http.ValidateHeaderValue(cfg.Auth.Secret); err != nil { ... }
	if err := http.ValidateBaseURL(cfg.Storage.PublicURL); err != nil { ... }

Header checks reject CRLF injection and control characters (RFC 7230) with
length limits of 256 bytes for names and 8192 for values.
*/
package http
