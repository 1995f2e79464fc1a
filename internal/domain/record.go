package domain

import (
	"encoding/json"
	"time"
)

// Record is a stored document: field name to JSON-safe scalar. Numbers are
// float64, dates and timestamps are ISO-8601 strings.
type Record map[string]any

// DateOnly is the layout used for date fields.
const DateOnly = "2006-01-02"

// Str returns the string value of key, or "" when absent or not a string.
func (r Record) Str(key string) string {
	v, ok := r[key].(string)
	if !ok {
		return ""
	}
	return v
}

// Float returns the numeric value of key, or 0 when absent.
func (r Record) Float(key string) float64 {
	switch v := r[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		f, _ := v.Float64()
		return f
	}
	return 0
}

// Bool returns the boolean value of key, or false when absent.
func (r Record) Bool(key string) bool {
	v, ok := r[key].(bool)
	if !ok {
		return false
	}
	return v
}

// Date parses key as a date or timestamp. The second return reports whether a
// valid value was present.
func (r Record) Date(key string) (time.Time, bool) {
	s := r.Str(key)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(DateOnly, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// Strings returns the value of key as a string slice. JSON round-trips turn
// slices into []any, so both representations are accepted.
func (r Record) Strings(key string) []string {
	switch v := r[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Ints returns the value of key as an int slice.
func (r Record) Ints(key string) []int {
	switch v := r[key].(type) {
	case []int:
		return v
	case []any:
		out := make([]int, 0, len(v))
		for _, e := range v {
			if f, ok := e.(float64); ok {
				out = append(out, int(f))
			}
		}
		return out
	}
	return nil
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Has reports whether key is present with a non-nil value.
func (r Record) Has(key string) bool {
	v, ok := r[key]
	return ok && v != nil
}
