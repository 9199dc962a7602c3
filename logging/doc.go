// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package logging provides the [log/slog.Logger] factory and HTTP access-log
middleware used by skillboard.

# Defaults

  - Format: JSON ([FormatJSON]) via [log/slog.JSONHandler]
  - Level: INFO ([log/slog.LevelInfo])
  - Output: [os.Stderr]
  - Timestamps: [time.RFC3339]

# Basic Usage

	logger := logging.New(
		logging.WithFormat(logging.FormatText),
		logging.WithLevel(slog.LevelDebug),
	)

Configuration strings map onto options with [ParseFormat] and [ParseLevel].

# Access log

[Middleware] writes one record per request with method, path, status, body
size and duration, and tags the request with an id taken from X-Request-Id or
generated as a UUID. Handlers read it back with [RequestID].
*/
package logging
