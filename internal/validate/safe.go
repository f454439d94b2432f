// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package validate

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/repo-validator/pkg/types"
)

// fence opens or closes a Markdown fenced code block. Step files are embedded
// in generated Markdown, so a fence inside a YAML string breaks the output.
const fence = "```"

// CheckYAMLSafeMarkdown reports whether no string reachable from v contains a
// code fence. Mapping values and sequence elements are searched at any depth;
// mapping keys and non-string scalars are not checked.
func CheckYAMLSafeMarkdown(v any) bool {
	_, found := FindFence(v)
	return !found
}

// FindFence returns the path of the first string under v that contains a code
// fence. Paths use dotted keys and bracketed indices, e.g. "outputs.notes[2]".
// Mapping keys are visited in sorted order so the path is deterministic.
func FindFence(v any) (string, bool) {
	return findFence(v, "")
}

func findFence(v any, path string) (string, bool) {
	switch x := v.(type) {
	case string:
		return path, strings.Contains(x, fence)
	case types.StepRecord:
		return findFence(map[string]any(x), path)
	case types.Frontmatter:
		return findFence(map[string]any(x), path)
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if p, ok := findFence(x[k], joinKey(path, k)); ok {
				return p, true
			}
		}
	case map[any]any:
		type entry struct {
			name  string
			value any
		}
		entries := make([]entry, 0, len(x))
		for k, val := range x {
			entries = append(entries, entry{name: fmt.Sprint(k), value: val})
		}
		// Distinct keys may print alike (1.0 and "1"); every entry is still visited.
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].name < entries[j].name })
		for _, e := range entries {
			if p, ok := findFence(e.value, joinKey(path, e.name)); ok {
				return p, true
			}
		}
	case []any:
		for i, item := range x {
			if p, ok := findFence(item, fmt.Sprintf("%s[%d]", path, i)); ok {
				return p, true
			}
		}
	}
	return "", false
}

func joinKey(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

// Canonical returns the string form used to compare step and schema_version
// values, so that 1.0 and "1.0" agree. Integral floats keep a ".0" suffix.
func Canonical(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		return formatFloat(x)
	default:
		return fmt.Sprint(x)
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case f == math.Trunc(f) && math.Abs(f) < 1e16:
		return strconv.FormatFloat(f, 'f', 1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// sameValue compares two decoded YAML values. Numbers compare by value
// regardless of whether they decoded as int or float.
func sameValue(a, b any) bool {
	fa, aNum := toFloat(a)
	fb, bNum := toFloat(b)
	if aNum && bNum {
		return fa == fb
	}
	if aNum != bNum {
		return false
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}
