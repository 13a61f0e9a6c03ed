package records

import (
	"encoding/json"
	"time"
)

// Timestamp converts any stored timestamp representation into a time value.
// Missing, null or unrecognised values yield nil.
func Timestamp(v interface{}) *time.Time {
	switch x := v.(type) {
	case nil:
		return nil
	case time.Time:
		if x.IsZero() {
			return nil
		}
		return &x
	case *time.Time:
		if x == nil || x.IsZero() {
			return nil
		}
		t := *x
		return &t
	case string:
		if t, ok := parseTime(x); ok {
			return &t
		}
		return nil
	case int64:
		t := time.UnixMilli(x)
		return &t
	case float64:
		t := time.UnixMilli(int64(x))
		return &t
	case json.Number:
		n, err := x.Int64()
		if err != nil {
			return nil
		}
		t := time.UnixMilli(n)
		return &t
	case map[string]interface{}:
		// {seconds, nanos} as produced by serialised protobuf timestamps
		secs, ok := toInt64(x["seconds"])
		if !ok {
			secs, ok = toInt64(x["_seconds"])
		}
		if !ok {
			return nil
		}
		nanos, _ := toInt64(x["nanos"])
		if nanos == 0 {
			nanos, _ = toInt64(x["_nanoseconds"])
		}
		t := time.Unix(secs, nanos)
		return &t
	}
	return nil
}

// EncodeTime renders a time for backends that persist JSON.
func EncodeTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func toInt64(v interface{}) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int64:
		return x, true
	case float64:
		return int64(x), true
	case json.Number:
		n, err := x.Int64()
		return n, err == nil
	}
	return 0, false
}
