// Package performance sums daily store metrics.
package performance

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/storedesk/storedesk-backend/internal/crm/domain"
)

type Totals struct {
	VoiceLines int             `json:"voiceLines"`
	BTS        int             `json:"bts"`
	T4B        int             `json:"t4b"`
	Acc        decimal.Decimal `json:"acc"`
	Hint       int             `json:"hint"`
	Entries    int             `json:"entries"`
}

// CalculateTotals sums every metric over the entries dated within
// [from, to], both ends inclusive. Entries without a date are skipped.
func CalculateTotals(entries []domain.StorePerformance, from, to time.Time) Totals {
	t := Totals{Acc: decimal.Zero}
	for _, e := range entries {
		if e.Date == nil || e.Date.Before(from) || e.Date.After(to) {
			continue
		}
		t.VoiceLines += e.VoiceLines
		t.BTS += e.BTS
		t.T4B += e.T4B
		t.Acc = t.Acc.Add(e.Acc)
		t.Hint += e.Hint
		t.Entries++
	}
	return t
}

// DayRange widens two calendar dates to cover both days completely.
func DayRange(from, to time.Time) (time.Time, time.Time) {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	return time.Date(fy, fm, fd, 0, 0, 0, 0, from.Location()),
		time.Date(ty, tm, td, 23, 59, 59, int(time.Second-time.Nanosecond), to.Location())
}
