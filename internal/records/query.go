package records

import (
	"encoding/json"
	"sort"
	"strings"
	"time"
)

// Apply evaluates q in process. Backends without native query support run
// their fetched documents through it; it mirrors Firestore semantics, including
// dropping documents that lack an ordered-by field.
func Apply(docs []Document, q Query) []Document {
	out := make([]Document, 0, len(docs))
	for _, d := range docs {
		if Matches(d, q) {
			out = append(out, d)
		}
	}

	if len(q.OrderBy) == 0 {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		for _, o := range q.OrderBy {
			c, ok := Compare(out[i].Get(o.Field), out[j].Get(o.Field))
			if !ok || c == 0 {
				continue
			}
			if o.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
	return out
}

// Matches reports whether d satisfies every filter of q and carries every
// ordered-by field.
func Matches(d Document, q Query) bool {
	for _, o := range q.OrderBy {
		if d.Get(o.Field) == nil {
			return false
		}
	}
	for _, f := range q.Filters {
		if !matchFilter(d.Get(f.Field), f) {
			return false
		}
	}
	return true
}

func matchFilter(v interface{}, f Filter) bool {
	if f.Op == OpEqual && v == nil && f.Value == nil {
		return true
	}
	if v == nil {
		return false
	}
	c, ok := Compare(v, f.Value)
	if !ok {
		return false
	}
	switch f.Op {
	case OpEqual:
		return c == 0
	case OpLess:
		return c < 0
	case OpLessEqual:
		return c <= 0
	case OpGreater:
		return c > 0
	case OpGreaterEqual:
		return c >= 0
	}
	return false
}

type kind int

const (
	kindNone kind = iota
	kindBool
	kindNumber
	kindString
	kindTime
)

// Compare orders two stored values. The second result is false when the values
// are of incomparable kinds. Strings that parse as RFC3339 compare as
// timestamps against time values.
func Compare(a, b interface{}) (int, bool) {
	ka, va := normalize(a)
	kb, vb := normalize(b)

	if ka == kindString && kb == kindTime {
		if t, ok := parseTime(va.(string)); ok {
			ka, va = kindTime, t
		}
	}
	if kb == kindString && ka == kindTime {
		if t, ok := parseTime(vb.(string)); ok {
			kb, vb = kindTime, t
		}
	}
	if ka != kb || ka == kindNone {
		return 0, false
	}

	switch ka {
	case kindBool:
		x, y := va.(bool), vb.(bool)
		switch {
		case x == y:
			return 0, true
		case !x:
			return -1, true
		default:
			return 1, true
		}
	case kindNumber:
		x, y := va.(float64), vb.(float64)
		switch {
		case x < y:
			return -1, true
		case x > y:
			return 1, true
		default:
			return 0, true
		}
	case kindString:
		x, y := va.(string), vb.(string)
		// RFC3339Nano trims trailing zeros, so byte order is not time order
		if tx, ok := parseTime(x); ok {
			if ty, ok := parseTime(y); ok {
				return tx.Compare(ty), true
			}
		}
		return strings.Compare(x, y), true
	case kindTime:
		return va.(time.Time).Compare(vb.(time.Time)), true
	}
	return 0, false
}

func normalize(v interface{}) (kind, interface{}) {
	switch x := v.(type) {
	case nil:
		return kindNone, nil
	case bool:
		return kindBool, x
	case int:
		return kindNumber, float64(x)
	case int32:
		return kindNumber, float64(x)
	case int64:
		return kindNumber, float64(x)
	case float32:
		return kindNumber, float64(x)
	case float64:
		return kindNumber, x
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return kindNone, nil
		}
		return kindNumber, f
	case string:
		return kindString, x
	case time.Time:
		return kindTime, x
	case *time.Time:
		if x == nil {
			return kindNone, nil
		}
		return kindTime, *x
	}
	if t := Timestamp(v); t != nil {
		return kindTime, *t
	}
	return kindNone, nil
}
