package domain

import (
	"sort"
	"strings"
)

// Op is a filter comparator.
type Op string

const (
	OpEq  Op = "=="
	OpNe  Op = "!="
	OpLt  Op = "<"
	OpLte Op = "<="
	OpGt  Op = ">"
	OpGte Op = ">="
)

// Filter constrains a single field.
type Filter struct {
	Field string
	Op    Op
	Value any
}

// Query describes caller-supplied filtering applied after the implicit tenant
// scope. OrderBy sorts by a single key, descending when prefixed with "-".
// Limit caps results after the sort; zero means no cap.
type Query struct {
	Filters []Filter
	OrderBy string
	Limit   int
}

// Where appends an equality filter.
func (q Query) Where(field string, op Op, value any) Query {
	q.Filters = append(q.Filters, Filter{Field: field, Op: op, Value: value})
	return q
}

// ApplyQuery evaluates q against records: filter, then sort, then limit.
func ApplyQuery(records []Record, q Query) []Record {
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if matches(rec, q.Filters) {
			out = append(out, rec)
		}
	}

	if q.OrderBy != "" {
		key := q.OrderBy
		desc := strings.HasPrefix(key, "-")
		if desc {
			key = key[1:]
		}
		sort.SliceStable(out, func(i, j int) bool {
			cmp, ok := compareValues(out[i][key], out[j][key])
			if !ok {
				return false
			}
			if desc {
				return cmp > 0
			}
			return cmp < 0
		})
	}

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

func matches(rec Record, filters []Filter) bool {
	for _, f := range filters {
		got, ok := rec[f.Field]
		switch f.Op {
		case OpEq:
			if !ok || !equalValues(got, f.Value) {
				return false
			}
		case OpNe:
			if ok && equalValues(got, f.Value) {
				return false
			}
		case OpLt, OpLte, OpGt, OpGte:
			if !ok {
				return false
			}
			cmp, comparable := compareValues(got, f.Value)
			if !comparable {
				return false
			}
			switch f.Op {
			case OpLt:
				if cmp >= 0 {
					return false
				}
			case OpLte:
				if cmp > 0 {
					return false
				}
			case OpGt:
				if cmp <= 0 {
					return false
				}
			case OpGte:
				if cmp < 0 {
					return false
				}
			}
		default:
			return false
		}
	}
	return true
}

func equalValues(a, b any) bool {
	if af, aok := toFloat(a); aok {
		bf, bok := toFloat(b)
		return bok && af == bf
	}
	return a == b
}

// compareValues orders numbers numerically and strings lexicographically.
// ISO-8601 dates compare correctly as strings.
func compareValues(a, b any) (int, bool) {
	if af, aok := toFloat(a); aok {
		bf, bok := toFloat(b)
		if !bok {
			return 0, false
		}
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		}
		return 0, true
	}
	as, aok := a.(string)
	bs, bok := b.(string)
	if !aok || !bok {
		return 0, false
	}
	return strings.Compare(as, bs), true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
