// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package env_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/stacklok/skillboard/env"
	"github.com/stacklok/skillboard/env/mocks"
)

func TestOSReader(t *testing.T) {
	const key = "SKILLBOARD_TEST_ENV_READER"
	t.Setenv(key, "value_123")

	reader := &env.OSReader{}

	assert.Equal(t, "value_123", reader.Getenv(key))

	v, ok := reader.LookupEnv(key)
	assert.True(t, ok)
	assert.Equal(t, "value_123", v)

	_, ok = reader.LookupEnv("SKILLBOARD_TEST_ENV_READER_MISSING_12345")
	assert.False(t, ok)
}

func TestFirstNonEmpty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		values map[string]string
		want   string
	}{
		{"first wins", map[string]string{"A": "a", "B": "b"}, "a"},
		{"blank skipped", map[string]string{"A": "  ", "B": " b "}, "b"},
		{"none set", map[string]string{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)

			mock := mocks.NewMockReader(ctrl)
			mock.EXPECT().Getenv(gomock.Any()).DoAndReturn(func(k string) string {
				return tt.values[k]
			}).AnyTimes()

			assert.Equal(t, tt.want, env.FirstNonEmpty(mock, "A", "B"))
		})
	}
}
