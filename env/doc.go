// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package env provides an interface-based abstraction for environment variable
access, so configuration lookups can be tested without touching the process
environment.

	reader := &env.OSReader{}
	path := env.FirstNonEmpty(reader, "SKILLBOARD_CONFIG")

Tests inject the generated mock from the mocks sub-package:

	ctrl := gomock.NewController(t)
	mock := mocks.NewMockReader(ctrl)
	mock.EXPECT().Getenv("SKILLBOARD_CONFIG").Return("/etc/skillboard.yaml")
*/
package env
