package enrich

import "math"

// Sanitize returns v with every non-finite float replaced by nil, recursing
// through nested maps and slices. Finite values and all non-float types pass
// through unchanged. New record fields inherit the invariant automatically
// because the visitor is independent of the record shape.
func Sanitize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = Sanitize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = Sanitize(val)
		}
		return out
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil
		}
		return t
	case float32:
		f := float64(t)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return t
	default:
		return v
	}
}

// sanitizeSlice applies Sanitize to each element of a dynamic slice.
func sanitizeSlice(vals []any) []any {
	if vals == nil {
		return nil
	}
	out, _ := Sanitize(vals).([]any)
	return out
}
