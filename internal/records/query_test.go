package records_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/storedesk/storedesk-backend/internal/records"
)

func ids(docs []records.Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.ID
	}
	return out
}

func TestApply(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	docs := []records.Document{
		{ID: "a", Data: map[string]interface{}{"locationId": "loc-1", "createdAt": base, "value": 10.0}},
		{ID: "b", Data: map[string]interface{}{"locationId": "loc-2", "createdAt": base.Add(time.Hour), "value": 5}},
		{ID: "c", Data: map[string]interface{}{"locationId": "loc-1", "createdAt": records.EncodeTime(base.Add(2 * time.Hour)), "value": int64(7)}},
		{ID: "d", Data: map[string]interface{}{"locationId": "loc-1"}},
	}

	t.Run("equality filter", func(t *testing.T) {
		got := records.Apply(docs, records.Query{Filters: []records.Filter{records.Where("locationId", records.OpEqual, "loc-1")}})
		assert.Equal(t, []string{"a", "c", "d"}, ids(got))
	})

	t.Run("order desc mixes time values and RFC3339 strings", func(t *testing.T) {
		got := records.Apply(docs, records.Query{OrderBy: []records.Order{{Field: "createdAt", Desc: true}}})
		assert.Equal(t, []string{"c", "b", "a"}, ids(got), "documents without the ordered field are dropped")
	})

	t.Run("range filter on timestamps", func(t *testing.T) {
		got := records.Apply(docs, records.Query{Filters: []records.Filter{
			records.Where("createdAt", records.OpGreaterEqual, base.Add(30*time.Minute)),
			records.Where("createdAt", records.OpLessEqual, base.Add(2*time.Hour)),
		}})
		assert.Equal(t, []string{"b", "c"}, ids(got))
	})

	t.Run("numeric comparison across int and float", func(t *testing.T) {
		got := records.Apply(docs, records.Query{
			Filters: []records.Filter{records.Where("value", records.OpGreater, 5)},
			OrderBy: []records.Order{{Field: "value"}},
		})
		assert.Equal(t, []string{"c", "a"}, ids(got))
	})

	t.Run("incomparable kinds never match", func(t *testing.T) {
		got := records.Apply(docs, records.Query{Filters: []records.Filter{records.Where("value", records.OpEqual, "10")}})
		assert.Empty(t, got)
	})
}

func TestQueryWithDoesNotAlias(t *testing.T) {
	base := records.Query{Filters: make([]records.Filter, 1, 4), OrderBy: []records.Order{{Field: "createdAt"}}}
	base.Filters[0] = records.Where("locationId", records.OpEqual, "loc-1")

	a := base.With(records.Where("status", records.OpEqual, "new"))
	b := base.With(records.Where("status", records.OpEqual, "lost"))

	assert.Equal(t, "new", a.Filters[1].Value)
	assert.Equal(t, "lost", b.Filters[1].Value)
	assert.Len(t, base.Filters, 1)
}
