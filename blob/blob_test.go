// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package blob

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		prefix, name, want string
	}{
		{"", "go-light.svg", "go-light.svg"},
		{"skill_icons", "go-light.svg", "skill_icons/go-light.svg"},
		{"/skill_icons/", "go-light.svg", "skill_icons/go-light.svg"},
		{"a/b", "c.svg", "a/b/c.svg"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Join(tt.prefix, tt.name))
		})
	}
}

func TestValidateKey(t *testing.T) {
	t.Parallel()

	for _, key := range []string{"go-light.svg", "skill_icons/go-light.svg"} {
		assert.NoError(t, ValidateKey(key), key)
	}
	for _, key := range []string{"", "/abs", "a/../b", "a//b", "./a", "a/"} {
		assert.Error(t, ValidateKey(key), key)
	}
}

func TestMemory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Put(ctx, "a.svg", []byte("<svg/>"), "image/svg+xml"))
	require.NoError(t, m.Copy(ctx, "a.svg", "b.svg"))

	obj, err := m.Get(ctx, "b.svg")
	require.NoError(t, err)
	assert.Equal(t, []byte("<svg/>"), obj.Data)
	assert.Equal(t, "image/svg+xml", obj.ContentType)

	require.NoError(t, m.Remove(ctx, "a.svg"))
	require.NoError(t, m.Remove(ctx, "a.svg"), "removing a missing key succeeds")
	assert.Equal(t, []string{"b.svg"}, m.Keys())

	_, err = m.Get(ctx, "a.svg")
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, m.Copy(ctx, "a.svg", "c.svg"), ErrNotFound)
}

func TestPrefixed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemory()
	p := WithPrefix(m, "/skill_icons/")

	assert.Equal(t, "skill_icons", p.Prefix())
	require.NoError(t, p.Put(ctx, "go-light.svg", []byte("x"), "image/svg+xml"))
	require.NoError(t, p.Copy(ctx, "go-light.svg", "golang-light.svg"))
	require.NoError(t, p.Remove(ctx, "go-light.svg"))
	assert.Equal(t, []string{"skill_icons/golang-light.svg"}, m.Keys())

	obj, err := p.Get(ctx, "golang-light.svg")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), obj.Data)
}
