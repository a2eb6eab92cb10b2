package enrich

import "github.com/Vijay-48/LeadIntel/internal/model"

// view wraps a schemaless raw record with typed optional-field accessors.
// Every accessor returns a zero value when the key is missing or holds the
// wrong type; accessors never mutate the underlying document.
type view struct {
	doc model.Document
}

func (v view) raw(key string) any {
	if v.doc == nil {
		return nil
	}
	return v.doc[key]
}

// str returns the string value at key, or "" when absent or non-string.
func (v view) str(key string) string {
	s, _ := v.raw(key).(string)
	return s
}

// list returns the slice value at key, or nil.
func (v view) list(key string) []any {
	l, _ := v.raw(key).([]any)
	return l
}

// objects returns the slice of sub-documents at key, skipping entries that
// are not objects.
func (v view) objects(key string) []view {
	var out []view
	for _, item := range v.list(key) {
		if m, ok := item.(model.Document); ok {
			out = append(out, view{m})
		}
	}
	return out
}

// truthy reports whether the value at key is present and non-empty in the
// loose sense: nil, "", 0 and 0.0 all count as absent.
func (v view) truthy(key string) bool {
	switch t := v.raw(key).(type) {
	case nil:
		return false
	case string:
		return t != ""
	case float64:
		return t != 0
	case int:
		return t != 0
	case bool:
		return t
	default:
		return true
	}
}
