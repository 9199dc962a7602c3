// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package recovery provides panic recovery middleware for HTTP handlers.
//
// A panicking handler is logged with its stack and answered with a 500
// {success:false} envelope, so a single bad request cannot take the admin
// server down.
//
//	handler := recovery.Middleware(logger)(mux)
package recovery
