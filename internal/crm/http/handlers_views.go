package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/storedesk/storedesk-backend/internal/auth"
	"github.com/storedesk/storedesk-backend/internal/crm/dashboard"
	"github.com/storedesk/storedesk-backend/internal/crm/performance"
	"github.com/storedesk/storedesk-backend/internal/crm/repository"
)

// ScheduleWeek returns the seven daily schedules of the current week.
func (h *Handler) ScheduleWeek(c *gin.Context) {
	repo := repository.NewScheduleEntries(h.store, auth.CurrentSession(c), h.opts...)
	week, err := repo.CurrentWeek(c.Request.Context(), h.now())
	if err != nil {
		writeError(c, "schedule_week", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"week": week})
}

func (h *Handler) ScheduleToday(c *gin.Context) {
	repo := repository.NewScheduleEntries(h.store, auth.CurrentSession(c), h.opts...)
	today, err := repo.Today(c.Request.Context(), h.now())
	if err != nil {
		writeError(c, "schedule_today", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"today": today})
}

// PerformanceTotals sums the metrics for ?from=YYYY-MM-DD&to=YYYY-MM-DD,
// both days included.
func (h *Handler) PerformanceTotals(c *gin.Context) {
	from, err := time.ParseInLocation(dateLayout, c.Query("from"), time.Local)
	if err != nil {
		badRequest(c, "from must be a date in YYYY-MM-DD format")
		return
	}
	to, err := time.ParseInLocation(dateLayout, c.Query("to"), time.Local)
	if err != nil {
		badRequest(c, "to must be a date in YYYY-MM-DD format")
		return
	}
	if to.Before(from) {
		badRequest(c, "from must not be after to")
		return
	}

	start, end := performance.DayRange(from, to)
	repo := repository.NewPerformance(h.store, auth.CurrentSession(c), h.opts...)
	totals, err := repo.Totals(c.Request.Context(), start, end)
	if err != nil {
		writeError(c, "performance_totals", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"totals": totals, "from": c.Query("from"), "to": c.Query("to")})
}

func (h *Handler) dashboardSources(s auth.Session) dashboard.Sources {
	return dashboard.Sources{
		Customers:    repository.NewCustomers(h.store, s, h.opts...),
		Interactions: repository.NewInteractions(h.store, s, h.opts...),
		Appointments: repository.NewAppointments(h.store, s, h.opts...),
	}
}

func (h *Handler) Dashboard(c *gin.Context) {
	stats, err := dashboard.Load(c.Request.Context(), h.dashboardSources(auth.CurrentSession(c)), h.now())
	if err != nil {
		writeError(c, "dashboard", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// DashboardStream recomputes the stats whenever customers, interactions or
// appointments change.
func (h *Handler) DashboardStream(c *gin.Context) {
	view := dashboard.Watch(c.Request.Context(), h.dashboardSources(auth.CurrentSession(c)), h.now)
	streamView(c, view, h.keepAlive, func(s dashboard.Snapshot) interface{} { return s })
}
