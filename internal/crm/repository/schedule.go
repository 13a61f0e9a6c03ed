package repository

import (
	"context"
	"time"

	"github.com/storedesk/storedesk-backend/internal/auth"
	"github.com/storedesk/storedesk-backend/internal/crm/domain"
	"github.com/storedesk/storedesk-backend/internal/crm/schedule"
	"github.com/storedesk/storedesk-backend/internal/records"
)

// ScheduleEntries stores shifts. Each entry carries a copy of its employee's
// name taken at write time; reads prefer the live roster name and fall back
// to that copy.
type ScheduleEntries struct {
	*Repository[domain.ScheduleEntry]
	employees *Employees
}

func NewScheduleEntries(store records.Store, session auth.Session, opts ...Option) *ScheduleEntries {
	return &ScheduleEntries{
		Repository: newRepository(store, CollectionSchedule, session, domain.ScheduleEntryFromDocument, byShiftDate, opts),
		employees:  NewEmployees(store, session, opts...),
	}
}

func (r *ScheduleEntries) Create(ctx context.Context, req domain.CreateScheduleEntryRequest) (string, error) {
	if err := domain.Validate(req); err != nil {
		return "", err
	}
	if !r.session.HasLocation() {
		return "", r.scopeError("create")
	}

	name, err := r.employeeName(ctx, req.EmployeeID)
	if err != nil {
		return "", err
	}
	data := req.Fields()
	data["employeeName"] = name
	return r.create(ctx, data)
}

// Update re-copies the employee name when the entry moves to another
// employee. A lone start or end time is checked against the stored one.
func (r *ScheduleEntries) Update(ctx context.Context, id string, req domain.UpdateScheduleEntryRequest) error {
	if err := domain.Validate(req); err != nil {
		return err
	}
	doc, err := r.owned(ctx, "update", id)
	if err != nil {
		return err
	}

	if (req.StartTime == nil) != (req.EndTime == nil) {
		current := r.decode(*doc)
		start, end := current.StartTime, current.EndTime
		if req.StartTime != nil {
			start = *req.StartTime
		}
		if req.EndTime != nil {
			end = *req.EndTime
		}
		if !domain.ShiftTimesOrdered(start, end) {
			return domain.ValidationErrors{{Field: "endTime", Message: "must be after startTime"}}
		}
	}

	data := req.Fields()
	if req.EmployeeID != nil {
		name, err := r.employeeName(ctx, *req.EmployeeID)
		if err != nil {
			return err
		}
		data["employeeName"] = name
	}
	return r.write(ctx, id, data)
}

func (r *ScheduleEntries) employeeName(ctx context.Context, employeeID string) (string, error) {
	e, err := r.employees.lookup(ctx, employeeID)
	if err != nil {
		return "", err
	}
	if e == nil {
		return domain.UnknownEmployee, nil
	}
	return e.FullName(), nil
}

func (r *ScheduleEntries) resolved(ctx context.Context, entries []domain.ScheduleEntry, err error) ([]domain.ScheduleEntry, error) {
	if err != nil {
		return nil, err
	}
	roster, err := r.employees.List(ctx)
	if err != nil {
		return nil, err
	}
	return schedule.ResolveNames(entries, roster), nil
}

func (r *ScheduleEntries) List(ctx context.Context) ([]domain.ScheduleEntry, error) {
	entries, err := r.fetch(ctx)
	return r.resolved(ctx, entries, err)
}

func (r *ScheduleEntries) Get(ctx context.Context, id string) (domain.ScheduleEntry, error) {
	entry, err := r.Repository.Get(ctx, id)
	if err != nil {
		return entry, err
	}
	out, err := r.resolved(ctx, []domain.ScheduleEntry{entry}, nil)
	if err != nil {
		return entry, err
	}
	return out[0], nil
}

func (r *ScheduleEntries) ByEmployee(ctx context.Context, employeeID string) ([]domain.ScheduleEntry, error) {
	entries, err := r.fetch(ctx, records.Where("employeeId", records.OpEqual, employeeID))
	return r.resolved(ctx, entries, err)
}

// ByDateRange lists entries dated within [from, to].
func (r *ScheduleEntries) ByDateRange(ctx context.Context, from, to time.Time) ([]domain.ScheduleEntry, error) {
	entries, err := r.fetch(ctx, dateRange("date", from, to)...)
	return r.resolved(ctx, entries, err)
}

// CurrentWeek buckets the loaded entries into the week containing now.
// Matching is by calendar date, so the whole list is loaded rather than a
// time range.
func (r *ScheduleEntries) CurrentWeek(ctx context.Context, now time.Time) (schedule.WeeklySchedule, error) {
	entries, err := r.List(ctx)
	if err != nil {
		return schedule.WeeklySchedule{}, err
	}
	return schedule.CurrentWeek(entries, now), nil
}

func (r *ScheduleEntries) Today(ctx context.Context, now time.Time) (schedule.DailySchedule, error) {
	entries, err := r.List(ctx)
	if err != nil {
		return schedule.DailySchedule{}, err
	}
	return schedule.Today(entries, now), nil
}

// ScheduleView is the live schedule of one location with roster names
// resolved.
type ScheduleView struct {
	*Merged[State[domain.ScheduleEntry]]
	entries *Live[domain.ScheduleEntry]
	roster  *Live[domain.SchedulingEmployee]
}

// Rescope moves both the entries and the roster to session's location.
func (v *ScheduleView) Rescope(session auth.Session) {
	v.entries.Rescope(session)
	v.roster.Rescope(session)
}

// Watch follows both the entries and the roster so renamed employees show
// up without rewriting their shifts.
func (r *ScheduleEntries) Watch(ctx context.Context) *ScheduleView {
	entries := r.Repository.Watch(ctx)
	roster := r.employees.Watch(ctx)
	merged := Merge(func() State[domain.ScheduleEntry] {
		s := entries.State()
		rs := roster.State()
		s.Items = schedule.ResolveNames(s.Items, rs.Items)
		s.Loading = s.Loading || rs.Loading
		if s.Error == "" {
			s.Error = rs.Error
		}
		return s
	}, entries, roster)
	return &ScheduleView{Merged: merged, entries: entries, roster: roster}
}
