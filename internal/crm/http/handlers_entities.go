package http

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/storedesk/storedesk-backend/internal/auth"
	"github.com/storedesk/storedesk-backend/internal/crm/domain"
	"github.com/storedesk/storedesk-backend/internal/crm/repository"
)

type (
	customerResource    = resource[domain.Customer, domain.CreateCustomerRequest, domain.UpdateCustomerRequest]
	leadResource        = resource[domain.Lead, domain.CreateLeadRequest, domain.UpdateLeadRequest]
	interactionResource = resource[domain.Interaction, domain.CreateInteractionRequest, domain.UpdateInteractionRequest]
	appointmentResource = resource[domain.Appointment, domain.CreateAppointmentRequest, domain.UpdateAppointmentRequest]
	employeeResource    = resource[domain.SchedulingEmployee, domain.CreateEmployeeRequest, domain.UpdateEmployeeRequest]
	scheduleResource    = resource[domain.ScheduleEntry, domain.CreateScheduleEntryRequest, domain.UpdateScheduleEntryRequest]
	performanceResource = resource[domain.StorePerformance, domain.CreatePerformanceRequest, domain.UpdatePerformanceRequest]
)

func (h *Handler) customers() customerResource {
	open := func(s auth.Session) *repository.Customers { return repository.NewCustomers(h.store, s, h.opts...) }
	return customerResource{
		name:      "customers",
		single:    "customer",
		keepAlive: h.keepAlive,
		list: func(c *gin.Context, s auth.Session) ([]domain.Customer, error) {
			return open(s).List(c.Request.Context())
		},
		get: func(ctx context.Context, s auth.Session, id string) (domain.Customer, error) {
			return open(s).Get(ctx, id)
		},
		create: func(ctx context.Context, s auth.Session, req domain.CreateCustomerRequest) (string, error) {
			return open(s).Create(ctx, req)
		},
		update: func(ctx context.Context, s auth.Session, id string, req domain.UpdateCustomerRequest) error {
			return open(s).Update(ctx, id, req)
		},
		remove: func(ctx context.Context, s auth.Session, id string) error {
			return open(s).Delete(ctx, id)
		},
		watch: func(ctx context.Context, s auth.Session) repository.View[repository.State[domain.Customer]] {
			return open(s).Watch(ctx)
		},
		match: func(c *gin.Context) func(domain.Customer) bool {
			return domain.CustomerFilter{
				Search:       c.Query("search"),
				CustomerType: domain.CustomerType(c.Query("customerType")),
			}.Match
		},
	}
}

func leadFilter(c *gin.Context) domain.LeadFilter {
	return domain.LeadFilter{
		Search:     c.Query("search"),
		Status:     domain.LeadStatus(c.Query("status")),
		Priority:   domain.Priority(c.Query("priority")),
		Source:     domain.LeadSource(c.Query("source")),
		AssignedTo: c.Query("assignedTo"),
		CustomerID: c.Query("customerId"),
	}
}

func (h *Handler) leads() leadResource {
	open := func(s auth.Session) *repository.Leads { return repository.NewLeads(h.store, s, h.opts...) }
	return leadResource{
		name:      "leads",
		single:    "lead",
		keepAlive: h.keepAlive,
		list: func(c *gin.Context, s auth.Session) ([]domain.Lead, error) {
			repo, ctx := open(s), c.Request.Context()
			switch {
			case c.Query("customerId") != "":
				return repo.ByCustomer(ctx, c.Query("customerId"))
			case c.Query("assignedTo") != "":
				return repo.ByAssignee(ctx, c.Query("assignedTo"))
			}
			return repo.List(ctx)
		},
		get: func(ctx context.Context, s auth.Session, id string) (domain.Lead, error) {
			return open(s).Get(ctx, id)
		},
		create: func(ctx context.Context, s auth.Session, req domain.CreateLeadRequest) (string, error) {
			return open(s).Create(ctx, req)
		},
		update: func(ctx context.Context, s auth.Session, id string, req domain.UpdateLeadRequest) error {
			return open(s).Update(ctx, id, req)
		},
		remove: func(ctx context.Context, s auth.Session, id string) error {
			return open(s).Delete(ctx, id)
		},
		watch: func(ctx context.Context, s auth.Session) repository.View[repository.State[domain.Lead]] {
			return open(s).Watch(ctx)
		},
		match: func(c *gin.Context) func(domain.Lead) bool {
			return leadFilter(c).Match
		},
	}
}

func (h *Handler) interactions() interactionResource {
	open := func(s auth.Session) *repository.Interactions {
		return repository.NewInteractions(h.store, s, h.opts...)
	}
	return interactionResource{
		name:      "interactions",
		single:    "interaction",
		keepAlive: h.keepAlive,
		list: func(c *gin.Context, s auth.Session) ([]domain.Interaction, error) {
			repo, ctx := open(s), c.Request.Context()
			switch {
			case c.Query("customerId") != "":
				return repo.ByCustomer(ctx, c.Query("customerId"))
			case c.Query("assignedTo") != "":
				return repo.ByAssignee(ctx, c.Query("assignedTo"))
			}
			return repo.List(ctx)
		},
		get: func(ctx context.Context, s auth.Session, id string) (domain.Interaction, error) {
			return open(s).Get(ctx, id)
		},
		create: func(ctx context.Context, s auth.Session, req domain.CreateInteractionRequest) (string, error) {
			return open(s).Create(ctx, req)
		},
		update: func(ctx context.Context, s auth.Session, id string, req domain.UpdateInteractionRequest) error {
			return open(s).Update(ctx, id, req)
		},
		remove: func(ctx context.Context, s auth.Session, id string) error {
			return open(s).Delete(ctx, id)
		},
		watch: func(ctx context.Context, s auth.Session) repository.View[repository.State[domain.Interaction]] {
			return open(s).Watch(ctx)
		},
		match: func(c *gin.Context) func(domain.Interaction) bool {
			return leadFilter(c).MatchInteraction
		},
	}
}

func (h *Handler) appointments() appointmentResource {
	open := func(s auth.Session) *repository.Appointments {
		return repository.NewAppointments(h.store, s, h.opts...)
	}
	return appointmentResource{
		name:      "appointments",
		single:    "appointment",
		keepAlive: h.keepAlive,
		list: func(c *gin.Context, s auth.Session) ([]domain.Appointment, error) {
			repo, ctx := open(s), c.Request.Context()
			from, to, ranged, err := dateRange(c)
			switch {
			case err != nil:
				return nil, queryError(err)
			case ranged:
				return repo.ByDateRange(ctx, from, to)
			case c.Query("customerId") != "":
				return repo.ByCustomer(ctx, c.Query("customerId"))
			case c.Query("assignedTo") != "":
				return repo.ByAssignee(ctx, c.Query("assignedTo"))
			}
			return repo.List(ctx)
		},
		get: func(ctx context.Context, s auth.Session, id string) (domain.Appointment, error) {
			return open(s).Get(ctx, id)
		},
		create: func(ctx context.Context, s auth.Session, req domain.CreateAppointmentRequest) (string, error) {
			return open(s).Create(ctx, req)
		},
		update: func(ctx context.Context, s auth.Session, id string, req domain.UpdateAppointmentRequest) error {
			return open(s).Update(ctx, id, req)
		},
		remove: func(ctx context.Context, s auth.Session, id string) error {
			return open(s).Delete(ctx, id)
		},
		watch: func(ctx context.Context, s auth.Session) repository.View[repository.State[domain.Appointment]] {
			return open(s).Watch(ctx)
		},
		match: func(c *gin.Context) func(domain.Appointment) bool {
			return domain.AppointmentFilter{
				Search:     c.Query("search"),
				Status:     domain.AppointmentStatus(c.Query("status")),
				AssignedTo: c.Query("assignedTo"),
				CustomerID: c.Query("customerId"),
			}.Match
		},
	}
}

func (h *Handler) employees() employeeResource {
	open := func(s auth.Session) *repository.Employees { return repository.NewEmployees(h.store, s, h.opts...) }
	return employeeResource{
		name:      "employees",
		single:    "employee",
		keepAlive: h.keepAlive,
		list: func(c *gin.Context, s auth.Session) ([]domain.SchedulingEmployee, error) {
			return open(s).List(c.Request.Context())
		},
		get: func(ctx context.Context, s auth.Session, id string) (domain.SchedulingEmployee, error) {
			return open(s).Get(ctx, id)
		},
		create: func(ctx context.Context, s auth.Session, req domain.CreateEmployeeRequest) (string, error) {
			return open(s).Create(ctx, req)
		},
		update: func(ctx context.Context, s auth.Session, id string, req domain.UpdateEmployeeRequest) error {
			return open(s).Update(ctx, id, req)
		},
		remove: func(ctx context.Context, s auth.Session, id string) error {
			return open(s).Delete(ctx, id)
		},
		watch: func(ctx context.Context, s auth.Session) repository.View[repository.State[domain.SchedulingEmployee]] {
			return open(s).Watch(ctx)
		},
		match: func(c *gin.Context) func(domain.SchedulingEmployee) bool {
			return domain.EmployeeFilter{
				Search:     c.Query("search"),
				Department: c.Query("department"),
				Position:   c.Query("position"),
				Active:     boolQuery(c, "active"),
			}.Match
		},
	}
}

func (h *Handler) schedule() scheduleResource {
	open := func(s auth.Session) *repository.ScheduleEntries {
		return repository.NewScheduleEntries(h.store, s, h.opts...)
	}
	return scheduleResource{
		name:      "schedule",
		single:    "entry",
		keepAlive: h.keepAlive,
		list: func(c *gin.Context, s auth.Session) ([]domain.ScheduleEntry, error) {
			repo, ctx := open(s), c.Request.Context()
			from, to, ranged, err := dateRange(c)
			switch {
			case err != nil:
				return nil, queryError(err)
			case ranged:
				return repo.ByDateRange(ctx, from, to)
			case c.Query("employeeId") != "":
				return repo.ByEmployee(ctx, c.Query("employeeId"))
			}
			return repo.List(ctx)
		},
		get: func(ctx context.Context, s auth.Session, id string) (domain.ScheduleEntry, error) {
			return open(s).Get(ctx, id)
		},
		create: func(ctx context.Context, s auth.Session, req domain.CreateScheduleEntryRequest) (string, error) {
			return open(s).Create(ctx, req)
		},
		update: func(ctx context.Context, s auth.Session, id string, req domain.UpdateScheduleEntryRequest) error {
			return open(s).Update(ctx, id, req)
		},
		remove: func(ctx context.Context, s auth.Session, id string) error {
			return open(s).Delete(ctx, id)
		},
		watch: func(ctx context.Context, s auth.Session) repository.View[repository.State[domain.ScheduleEntry]] {
			return open(s).Watch(ctx)
		},
		match: func(c *gin.Context) func(domain.ScheduleEntry) bool {
			return domain.ScheduleFilter{
				Search:     c.Query("search"),
				EmployeeID: c.Query("employeeId"),
				ShiftType:  domain.ShiftType(c.Query("shiftType")),
				Active:     boolQuery(c, "active"),
			}.Match
		},
	}
}

func (h *Handler) performance() performanceResource {
	open := func(s auth.Session) *repository.Performance { return repository.NewPerformance(h.store, s, h.opts...) }
	return performanceResource{
		name:      "performance",
		single:    "record",
		keepAlive: h.keepAlive,
		list: func(c *gin.Context, s auth.Session) ([]domain.StorePerformance, error) {
			repo, ctx := open(s), c.Request.Context()
			from, to, ranged, err := dateRange(c)
			if err != nil {
				return nil, queryError(err)
			}
			if ranged {
				return repo.ByDateRange(ctx, from, to)
			}
			return repo.List(ctx)
		},
		get: func(ctx context.Context, s auth.Session, id string) (domain.StorePerformance, error) {
			return open(s).Get(ctx, id)
		},
		create: func(ctx context.Context, s auth.Session, req domain.CreatePerformanceRequest) (string, error) {
			return open(s).Create(ctx, req)
		},
		update: func(ctx context.Context, s auth.Session, id string, req domain.UpdatePerformanceRequest) error {
			return open(s).Update(ctx, id, req)
		},
		remove: func(ctx context.Context, s auth.Session, id string) error {
			return open(s).Delete(ctx, id)
		},
		watch: func(ctx context.Context, s auth.Session) repository.View[repository.State[domain.StorePerformance]] {
			return open(s).Watch(ctx)
		},
	}
}
