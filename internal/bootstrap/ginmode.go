package bootstrap

import (
	"github.com/gin-gonic/gin"

	"github.com/storedesk/storedesk-backend/config"
)

// GinMode maps APP_ENV onto a gin mode. Unknown environments run in debug.
func GinMode(app config.AppConfig) string {
	switch app.Environment {
	case "production", "staging":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	}
	return gin.DebugMode
}

func SetGinMode(app config.AppConfig) {
	gin.SetMode(GinMode(app))
}
