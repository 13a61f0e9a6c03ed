// Package schedule buckets shift entries into day and week views. All
// functions are pure: they read the list they are given and keep no state.
package schedule

import (
	"time"

	"github.com/storedesk/storedesk-backend/internal/crm/domain"
)

type DailySchedule struct {
	Date           time.Time              `json:"date"`
	Entries        []domain.ScheduleEntry `json:"entries"`
	TotalEmployees int                    `json:"totalEmployees"`
	ActiveShifts   int                    `json:"activeShifts"`
}

type WeeklySchedule struct {
	WeekStart      time.Time       `json:"weekStart"`
	WeekEnd        time.Time       `json:"weekEnd"`
	DailySchedules []DailySchedule `json:"dailySchedules"`
}

// StartOfDay floors t to midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// WeekBounds returns the Sunday 00:00:00 and Saturday 23:59:59.999 of the
// week containing now, in now's location.
func WeekBounds(now time.Time) (time.Time, time.Time) {
	y, m, d := now.Date()
	offset := int(now.Weekday())
	start := time.Date(y, m, d-offset, 0, 0, 0, 0, now.Location())
	end := time.Date(y, m, d-offset+6, 23, 59, 59, int(999*time.Millisecond), now.Location())
	return start, end
}

// SameDay compares calendar dates, reading t in day's location.
func SameDay(t, day time.Time) bool {
	ty, tm, td := t.In(day.Location()).Date()
	dy, dm, dd := day.Date()
	return ty == dy && tm == dm && td == dd
}

// ForDay collects the active entries dated on day's calendar date.
func ForDay(entries []domain.ScheduleEntry, day time.Time) DailySchedule {
	out := DailySchedule{Date: StartOfDay(day), Entries: []domain.ScheduleEntry{}}
	employees := make(map[string]struct{})
	for _, e := range entries {
		if !e.IsActive || e.Date == nil || !SameDay(*e.Date, out.Date) {
			continue
		}
		out.Entries = append(out.Entries, e)
		employees[e.EmployeeID] = struct{}{}
	}
	out.TotalEmployees = len(employees)
	out.ActiveShifts = len(out.Entries)
	return out
}

// Today is ForDay for now's calendar date.
func Today(entries []domain.ScheduleEntry, now time.Time) DailySchedule {
	return ForDay(entries, now)
}

// CurrentWeek returns seven daily schedules, Sunday first.
func CurrentWeek(entries []domain.ScheduleEntry, now time.Time) WeeklySchedule {
	start, end := WeekBounds(now)
	week := WeeklySchedule{
		WeekStart:      start,
		WeekEnd:        end,
		DailySchedules: make([]DailySchedule, 7),
	}
	for i := range week.DailySchedules {
		y, m, d := start.Date()
		week.DailySchedules[i] = ForDay(entries, time.Date(y, m, d+i, 0, 0, 0, 0, start.Location()))
	}
	return week
}

// ResolveNames fills EmployeeName from the current roster. When an employee
// is missing from the roster the stored name is kept, and entries that never
// had one get domain.UnknownEmployee.
func ResolveNames(entries []domain.ScheduleEntry, roster []domain.SchedulingEmployee) []domain.ScheduleEntry {
	names := make(map[string]string, len(roster))
	for _, e := range roster {
		names[e.ID] = e.FullName()
	}

	out := make([]domain.ScheduleEntry, len(entries))
	for i, e := range entries {
		if name, ok := names[e.EmployeeID]; ok && name != "" {
			e.EmployeeName = name
		} else if e.EmployeeName == "" {
			e.EmployeeName = domain.UnknownEmployee
		}
		out[i] = e
	}
	return out
}
