// Package dashboard computes the summary counters shown on the landing page.
package dashboard

import (
	"math"
	"time"

	"github.com/storedesk/storedesk-backend/internal/crm/domain"
)

const upcomingWindow = 7 * 24 * time.Hour

type Stats struct {
	TotalCustomers       int `json:"totalCustomers"`
	ActiveLeads          int `json:"activeLeads"`
	UpcomingAppointments int `json:"upcomingAppointments"`
	ConversionRate       int `json:"conversionRate"`
}

// Compute derives all counters from already loaded lists.
func Compute(customers []domain.Customer, interactions []domain.Interaction, appointments []domain.Appointment, now time.Time) Stats {
	return Stats{
		TotalCustomers:       CustomersCreatedToday(customers, now),
		ActiveLeads:          ActiveLeads(interactions),
		UpcomingAppointments: UpcomingAppointments(appointments, now),
		ConversionRate:       ConversionRate(interactions),
	}
}

// CustomersCreatedToday counts customers whose createdAt falls in
// [start of today, start of tomorrow).
func CustomersCreatedToday(customers []domain.Customer, now time.Time) int {
	y, m, d := now.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	end := time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())

	n := 0
	for _, c := range customers {
		if c.CreatedAt != nil && !c.CreatedAt.Before(start) && c.CreatedAt.Before(end) {
			n++
		}
	}
	return n
}

func ActiveLeads(interactions []domain.Interaction) int {
	n := 0
	for _, i := range interactions {
		if i.Status.Open() {
			n++
		}
	}
	return n
}

// UpcomingAppointments counts non-cancelled appointments scheduled within
// [now, now+7d].
func UpcomingAppointments(appointments []domain.Appointment, now time.Time) int {
	limit := now.Add(upcomingWindow)
	n := 0
	for _, a := range appointments {
		if a.Status == domain.AppointmentCancelled || a.ScheduledDate == nil {
			continue
		}
		if !a.ScheduledDate.Before(now) && !a.ScheduledDate.After(limit) {
			n++
		}
	}
	return n
}

// ConversionRate is the rounded percentage of converted interactions, 0 for
// an empty list.
func ConversionRate(interactions []domain.Interaction) int {
	if len(interactions) == 0 {
		return 0
	}
	converted := 0
	for _, i := range interactions {
		if i.Status == domain.LeadConverted {
			converted++
		}
	}
	return int(math.Round(100 * float64(converted) / float64(len(interactions))))
}
