package domain

import "strings"

// Filter keeps the items for which keep returns true. Post-filters run over a
// list already scoped to the caller's location.
func Filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

// matchesSearch reports a case-insensitive substring match of term in any of
// the given values. An empty term matches everything.
func matchesSearch(term string, values ...string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), term) {
			return true
		}
	}
	return false
}

func exact[T ~string](want, got T) bool {
	return want == "" || want == got
}

type CustomerFilter struct {
	Search       string
	CustomerType CustomerType
}

func (f CustomerFilter) Match(c Customer) bool {
	return exact(f.CustomerType, c.CustomerType) &&
		matchesSearch(f.Search, c.FirstName, c.LastName, c.FullName(), c.Email, c.Phone)
}

type LeadFilter struct {
	Search     string
	Status     LeadStatus
	Priority   Priority
	Source     LeadSource
	AssignedTo string
	CustomerID string
}

func (f LeadFilter) Match(l Lead) bool {
	return exact(f.Status, l.Status) &&
		exact(f.Priority, l.Priority) &&
		exact(f.Source, l.Source) &&
		exact(f.AssignedTo, l.AssignedTo) &&
		exact(f.CustomerID, l.CustomerID) &&
		matchesSearch(f.Search, l.Notes, l.CustomerID, l.AssignedTo)
}

func (f LeadFilter) MatchInteraction(i Interaction) bool {
	return f.Match(Lead(i))
}

type AppointmentFilter struct {
	Search     string
	Status     AppointmentStatus
	AssignedTo string
	CustomerID string
}

func (f AppointmentFilter) Match(a Appointment) bool {
	return exact(f.Status, a.Status) &&
		exact(f.AssignedTo, a.AssignedTo) &&
		exact(f.CustomerID, a.CustomerID) &&
		matchesSearch(f.Search, a.Title, a.Description, a.Location)
}

type EmployeeFilter struct {
	Search     string
	Department string
	Position   string
	Active     *bool
}

func (f EmployeeFilter) Match(e SchedulingEmployee) bool {
	if f.Active != nil && *f.Active != e.IsActive {
		return false
	}
	return exact(f.Department, e.Department) &&
		exact(f.Position, e.Position) &&
		matchesSearch(f.Search, e.FirstName, e.LastName, e.FullName(), e.Email)
}

type ScheduleFilter struct {
	Search     string
	EmployeeID string
	ShiftType  ShiftType
	Active     *bool
}

func (f ScheduleFilter) Match(s ScheduleEntry) bool {
	if f.Active != nil && *f.Active != s.IsActive {
		return false
	}
	return exact(f.EmployeeID, s.EmployeeID) &&
		exact(f.ShiftType, s.ShiftType) &&
		matchesSearch(f.Search, s.EmployeeName, s.Notes)
}

type UserFilter struct {
	Search string
	Role   string
}

func (f UserFilter) Match(u AppUser) bool {
	return exact(f.Role, string(u.Role)) && matchesSearch(f.Search, u.DisplayName, u.Email)
}
