package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storedesk/storedesk-backend/internal/auth"
	"github.com/storedesk/storedesk-backend/internal/crm/domain"
	"github.com/storedesk/storedesk-backend/internal/crm/repository"
)

// ListUsers returns the profiles assigned to the admin's location.
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := repository.NewUsers(h.store, auth.CurrentSession(c), h.opts...).List(c.Request.Context())
	if err != nil {
		writeError(c, "list_users", err)
		return
	}
	f := domain.UserFilter{Search: c.Query("search"), Role: c.Query("role")}
	c.JSON(http.StatusOK, gin.H{"users": domain.Filter(users, f.Match)})
}

// UpdateUser changes another user's role, location or active flag.
func (h *Handler) UpdateUser(c *gin.Context) {
	var req domain.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	ctx := c.Request.Context()
	repo := repository.NewUsers(h.store, auth.CurrentSession(c), h.opts...)
	uid := c.Param("uid")
	if err := repo.Update(ctx, uid, req); err != nil {
		writeError(c, "update_user", err)
		return
	}

	user, err := repo.Profile(ctx, uid)
	if err != nil {
		writeError(c, "get_user", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
