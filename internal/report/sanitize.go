package report

import (
	"math"

	"github.com/spf13/cast"
)

// Sanitize rewrites decoded YAML/JSON values so encoding/json can always
// encode them: maps with non-string keys become string-keyed maps and
// non-finite floats are dropped (map entries removed, slice elements nil).
func Sanitize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if clean, ok := sanitizeValue(val); ok {
				out[k] = clean
			}
		}
		return out
	case Record:
		return Record(Sanitize(map[string]any(t)).(map[string]any))
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if clean, ok := sanitizeValue(val); ok {
				out[cast.ToString(k)] = clean
			}
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i], _ = sanitizeValue(val)
		}
		return out
	default:
		v, _ = sanitizeValue(v)
		return v
	}
}

func sanitizeValue(v any) (any, bool) {
	switch t := v.(type) {
	case float64:
		if !finite(t) {
			return nil, false
		}
		return t, true
	case float32:
		if !finite(float64(t)) {
			return nil, false
		}
		return t, true
	case map[string]any, map[any]any, []any, Record:
		return Sanitize(t), true
	default:
		return v, true
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
