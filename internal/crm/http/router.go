package http

import (
	"github.com/gin-gonic/gin"

	"github.com/storedesk/storedesk-backend/internal/auth"
	"github.com/storedesk/storedesk-backend/internal/auth/middleware"
)

// Register mounts the CRM routes on a group that already carries the
// token and session middleware. Sales data is open to every signed-in
// user; scheduling and performance need a manager, user admin an admin.
func (h *Handler) Register(rg *gin.RouterGroup) {
	h.customers().register(rg)
	h.leads().register(rg)
	h.interactions().register(rg)
	h.appointments().register(rg)
	rg.GET("/dashboard", h.Dashboard)
	rg.GET("/dashboard/stream", h.DashboardStream)

	manager := rg.Group("", middleware.RequireRole(auth.RoleManager))
	manager.GET("/schedule/week", h.ScheduleWeek)
	manager.GET("/schedule/today", h.ScheduleToday)
	manager.GET("/performance/totals", h.PerformanceTotals)
	h.employees().register(manager)
	h.schedule().register(manager)
	h.performance().register(manager)

	admin := rg.Group("/users", middleware.RequireRole(auth.RoleAdmin))
	admin.GET("", h.ListUsers)
	admin.PUT("/:uid", h.UpdateUser)
}
