package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storedesk/storedesk-backend/internal/auth"
	"github.com/storedesk/storedesk-backend/internal/auth/service"
	"github.com/storedesk/storedesk-backend/internal/crm/domain"
)

// SignUp creates the account and its rep profile, then sends the
// verification email.
func (h *Handler) SignUp(c *gin.Context) {
	var req service.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.accounts.SignUp(c.Request.Context(), req)
	if err != nil {
		var verrs domain.ValidationErrors
		switch {
		case errors.As(err, &verrs):
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": verrs})
		case errors.Is(err, service.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "email already exists"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sign up"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// GetProfile returns the current user's profile
func (h *Handler) GetProfile(c *gin.Context) {
	firebaseUID := auth.UserFirebaseUID(c)
	if firebaseUID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	user, err := h.accounts.Profile(c.Request.Context(), firebaseUID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "session": auth.CurrentSession(c)})
}

// SignOut revokes the caller's refresh tokens.
func (h *Handler) SignOut(c *gin.Context) {
	firebaseUID := auth.UserFirebaseUID(c)
	if firebaseUID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	if err := h.accounts.SignOut(c.Request.Context(), firebaseUID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sign out"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "signed out"})
}
