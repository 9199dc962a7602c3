// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package httperr provides error types with HTTP status codes and the uniform
JSON envelope written by skillboard API handlers.

# Coded errors

Errors carry their intended HTTP response code through the call stack:

	var ErrNotFound = httperr.New("not found", http.StatusNotFound)

	return fmt.Errorf("skill %s: %w", id, ErrNotFound)

	code := httperr.Code(err) // 404

An error without a CodedError in its chain maps to 500.

# Envelope

Every API response is an [Envelope]:

	{"success": true, "data": ...}
	{"success": false, "error": "skill \"go\" already exists"}

[Write] renders an error as a failure envelope. Messages of 5xx errors are
logged and replaced with a generic message before they reach the client.
*/
package httperr
