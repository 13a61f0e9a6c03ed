package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/storedesk/storedesk-backend/internal/records"
)

// StorePerformance holds one day's sales metrics for a location. Acc is a
// currency amount; the other metrics are unit counts.
type StorePerformance struct {
	ID         string          `json:"id"`
	Date       *time.Time      `json:"date,omitempty"`
	VoiceLines int             `json:"voiceLines"`
	BTS        int             `json:"bts"`
	T4B        int             `json:"t4b"`
	Acc        decimal.Decimal `json:"acc"`
	Hint       int             `json:"hint"`
	LocationID string          `json:"locationId,omitempty"`
	CreatedAt  *time.Time      `json:"createdAt,omitempty"`
	UpdatedAt  *time.Time      `json:"updatedAt,omitempty"`
}

func PerformanceFromDocument(d records.Document) StorePerformance {
	f := fields(d.Data)
	return StorePerformance{
		ID:         d.ID,
		Date:       f.time("date"),
		VoiceLines: f.integer("voiceLines"),
		BTS:        f.integer("bts"),
		T4B:        f.integer("t4b"),
		Acc:        f.decimal("acc"),
		Hint:       f.integer("hint"),
		LocationID: f.str("locationId"),
		CreatedAt:  f.time("createdAt"),
		UpdatedAt:  f.time("updatedAt"),
	}
}

type CreatePerformanceRequest struct {
	Date       time.Time       `json:"date" validate:"required"`
	VoiceLines int             `json:"voiceLines" validate:"gte=0"`
	BTS        int             `json:"bts" validate:"gte=0"`
	T4B        int             `json:"t4b" validate:"gte=0"`
	Acc        decimal.Decimal `json:"acc"`
	Hint       int             `json:"hint" validate:"gte=0"`
}

// acc is persisted as a plain number so documents stay readable by other
// clients of the same collection.
func (r CreatePerformanceRequest) Fields() map[string]interface{} {
	return map[string]interface{}{
		"date":       r.Date,
		"voiceLines": r.VoiceLines,
		"bts":        r.BTS,
		"t4b":        r.T4B,
		"acc":        r.Acc.InexactFloat64(),
		"hint":       r.Hint,
	}
}

type UpdatePerformanceRequest struct {
	Date       *time.Time       `json:"date"`
	VoiceLines *int             `json:"voiceLines" validate:"omitnil,gte=0"`
	BTS        *int             `json:"bts" validate:"omitnil,gte=0"`
	T4B        *int             `json:"t4b" validate:"omitnil,gte=0"`
	Acc        *decimal.Decimal `json:"acc"`
	Hint       *int             `json:"hint" validate:"omitnil,gte=0"`
}

func (r UpdatePerformanceRequest) Fields() map[string]interface{} {
	out := make(map[string]interface{})
	setTime(out, "date", r.Date)
	for key, v := range map[string]*int{"voiceLines": r.VoiceLines, "bts": r.BTS, "t4b": r.T4B, "hint": r.Hint} {
		if v != nil {
			out[key] = *v
		}
	}
	if r.Acc != nil {
		out["acc"] = r.Acc.InexactFloat64()
	}
	return out
}
