package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/storedesk/storedesk-backend/internal/records"
)

// fields reads loosely typed document data. Missing or mistyped values read
// as the zero value; timestamps that cannot be converted read as nil.
type fields map[string]interface{}

func (f fields) str(key string) string {
	s, _ := f[key].(string)
	return s
}

func (f fields) number(key string) float64 {
	switch x := f[key].(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case json.Number:
		v, _ := x.Float64()
		return v
	}
	return 0
}

func (f fields) integer(key string) int {
	return int(f.number(key))
}

func (f fields) boolean(key string, def bool) bool {
	if b, ok := f[key].(bool); ok {
		return b
	}
	return def
}

func (f fields) time(key string) *time.Time {
	return records.Timestamp(f[key])
}

func (f fields) decimal(key string) decimal.Decimal {
	switch x := f[key].(type) {
	case string:
		d, err := decimal.NewFromString(x)
		if err != nil {
			return decimal.Zero
		}
		return d
	case json.Number:
		d, err := decimal.NewFromString(x.String())
		if err != nil {
			return decimal.Zero
		}
		return d
	case nil:
		return decimal.Zero
	}
	return decimal.NewFromFloat(f.number(key))
}

func timeValue(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}
