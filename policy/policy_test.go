// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package policy

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile_Empty(t *testing.T) {
	t.Parallel()

	rule, err := Compile("   ")
	require.NoError(t, err)
	assert.Nil(t, rule)

	ok, err := rule.Allow(Input{Name: "anything"})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCompile_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		expr  string
		stage Stage
	}{
		{"syntax", `name ==`, StageParse},
		{"unknown variable", `owner == "me"`, StageCheck},
		{"type mismatch", `hasLightIcon == "yes"`, StageCheck},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Compile(tt.expr)
			require.ErrorIs(t, err, ErrCompile)

			var ce *CompileError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.stage, ce.Stage)
			assert.Equal(t, tt.expr, ce.Source)
			require.NotEmpty(t, ce.Issues)

			var decoded map[string]any
			require.NoError(t, json.Unmarshal([]byte(ce.JSON()), &decoded))
			assert.Equal(t, string(tt.stage), decoded["stage"])
		})
	}
}

func TestCompile_NotBool(t *testing.T) {
	t.Parallel()

	_, err := Compile(`name`)
	require.ErrorIs(t, err, ErrNotBool)
	require.Error(t, Check(`size(name)`))
}

func TestCompile_TooLong(t *testing.T) {
	t.Parallel()

	_, err := Compile(`name == "` + strings.Repeat("a", MaxExpressionLength) + `"`)
	require.ErrorIs(t, err, ErrCompile)
}

func TestRule_Allow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		expr string
		in   Input
		want bool
	}{
		{"prefix allowed", `!name.startsWith("tmp-")`, Input{Name: "go-lang"}, true},
		{"prefix denied", `!name.startsWith("tmp-")`, Input{Name: "tmp-x"}, false},
		{"create needs category", `operation != "create" || category != ""`, Input{Operation: OpCreate}, false},
		{"update without category", `operation != "create" || category != ""`, Input{Operation: OpUpdate}, true},
		{"both icons", `hasLightIcon && hasDarkIcon`, Input{HasLightIcon: true, HasDarkIcon: true}, true},
		{"one icon", `hasLightIcon && hasDarkIcon`, Input{HasLightIcon: true}, false},
		{"length", `size(name) <= 20`, Input{Name: strings.Repeat("x", 21)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rule, err := Compile(tt.expr)
			require.NoError(t, err)
			require.NoError(t, Check(tt.expr))
			assert.Equal(t, tt.expr, rule.Source())

			got, err := rule.Allow(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRule_Concurrency(t *testing.T) {
	t.Parallel()

	rule, err := Compile(`name.endsWith("-lang")`)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in := Input{Name: "go-lang"}
			if i%2 == 1 {
				in.Name = "rust"
			}
			ok, err := rule.Allow(in)
			assert.NoError(t, err)
			assert.Equal(t, i%2 == 0, ok)
		}(i)
	}
	wg.Wait()
}
