package http

import "github.com/gin-gonic/gin"

// RegisterPublic registers the routes reachable without a token.
func (h *Handler) RegisterPublic(rg *gin.RouterGroup) {
	rg.POST("/signup", h.SignUp)
}

// Register registers the routes of signed-in users.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/profile", h.GetProfile)
	rg.POST("/signout", h.SignOut)
}
