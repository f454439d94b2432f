// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/repo-validator/pkg/types"
)

func TestCheckYAMLSafeMarkdown(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{name: "nil", value: nil, want: true},
		{name: "plain string", value: "inline `code` is fine", want: true},
		{name: "two backticks", value: "``not a fence``", want: true},
		{name: "fenced string", value: "example:\n```\ncode\n```", want: false},
		{name: "fence only", value: "```", want: false},
		{name: "number", value: 42, want: true},
		{name: "float", value: 1.5, want: true},
		{name: "bool", value: true, want: true},
		{name: "empty map", value: map[string]any{}, want: true},
		{name: "empty list", value: []any{}, want: true},
		{
			name:  "fence in map value",
			value: map[string]any{"a": "ok", "b": "```go"},
			want:  false,
		},
		{
			name:  "fence in map key is ignored",
			value: map[string]any{"```": "ok"},
			want:  true,
		},
		{
			name:  "fence in list element",
			value: []any{"ok", 1, "x```y"},
			want:  false,
		},
		{
			name:  "non-string keys",
			value: map[any]any{1: "ok", true: []any{"```"}},
			want:  false,
		},
		{
			name:  "keys that print alike",
			value: map[any]any{1.0: "fine", "1": "```"},
			want:  false,
		},
		{
			name:  "keys that print alike, fence under float key",
			value: map[any]any{1.0: "```", "1": "fine"},
			want:  false,
		},
		{
			name: "deeply nested fence",
			value: map[string]any{
				"outputs": map[string]any{
					"sections": []any{
						map[string]any{"body": "clean"},
						map[string]any{"body": []any{"still clean", "```"}},
					},
				},
			},
			want: false,
		},
		{
			name:  "step record",
			value: types.StepRecord{"step": 0, "notes": "```"},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckYAMLSafeMarkdown(tt.value))
		})
	}
}

func TestCheckYAMLSafeMarkdownDeepNesting(t *testing.T) {
	var v any = "```"
	for i := 0; i < 2000; i++ {
		if i%2 == 0 {
			v = []any{v}
		} else {
			v = map[string]any{"k": v}
		}
	}
	assert.False(t, CheckYAMLSafeMarkdown(v))
}

func TestCheckYAMLSafeMarkdownCollidingKeysStable(t *testing.T) {
	v := map[string]any{"notes": map[any]any{1.0: "fine", "1": "```"}}
	for i := 0; i < 200; i++ {
		path, found := FindFence(v)
		require.True(t, found, "iteration %d", i)
		require.Equal(t, "notes.1", path)
	}
}

func TestCheckYAMLSafeMarkdownOrderIndependent(t *testing.T) {
	items := []any{"a", map[string]any{"x": "```"}, 3, []any{"b"}}
	want := CheckYAMLSafeMarkdown(items)
	assert.False(t, want)

	permute(items, 0, func(p []any) {
		assert.Equal(t, want, CheckYAMLSafeMarkdown(p))
		assert.Equal(t, want, CheckYAMLSafeMarkdown(p), "repeated call")
	})
}

func permute(items []any, k int, visit func([]any)) {
	if k == len(items) {
		cp := make([]any, len(items))
		copy(cp, items)
		visit(cp)
		return
	}
	for i := k; i < len(items); i++ {
		items[k], items[i] = items[i], items[k]
		permute(items, k+1, visit)
		items[k], items[i] = items[i], items[k]
	}
}

func TestFindFence(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		wantPath string
		wantOK   bool
	}{
		{name: "clean", value: map[string]any{"a": "b"}},
		{name: "top-level string", value: "```", wantPath: "", wantOK: true},
		{
			name:     "nested",
			value:    map[string]any{"outputs": map[string]any{"notes": []any{"a", "b", "```"}}},
			wantPath: "outputs.notes[2]",
			wantOK:   true,
		},
		{
			name:     "first in sorted key order",
			value:    map[string]any{"zeta": "```", "alpha": []any{"```"}},
			wantPath: "alpha[0]",
			wantOK:   true,
		},
		{
			name:     "list of maps",
			value:    []any{map[string]any{"body": "ok"}, map[string]any{"body": "```"}},
			wantPath: "[1].body",
			wantOK:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, ok := FindFence(tt.value)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantPath, path)
		})
	}
}

func TestCanonical(t *testing.T) {
	tests := []struct {
		value any
		want  string
	}{
		{value: "1.0", want: "1.0"},
		{value: 3, want: "3"},
		{value: int64(-7), want: "-7"},
		{value: uint64(18446744073709551615), want: "18446744073709551615"},
		{value: 1.0, want: "1.0"},
		{value: 100.0, want: "100.0"},
		{value: 1.25, want: "1.25"},
		{value: 1e20, want: "1e+20"},
		{value: true, want: "true"},
		{value: nil, want: "null"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Canonical(tt.value), "Canonical(%#v)", tt.value)
	}
}

func TestSameValue(t *testing.T) {
	assert.True(t, sameValue("pdf-tools", "pdf-tools"))
	assert.True(t, sameValue(1, 1.0))
	assert.True(t, sameValue([]any{"a"}, []any{"a"}))
	assert.False(t, sameValue("1.0", 1.0))
	assert.False(t, sameValue("a", "b"))
	assert.False(t, sameValue(nil, "a"))
}
