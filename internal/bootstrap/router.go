package bootstrap

import (
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpapi "github.com/storedesk/storedesk-backend/internal/api/http"
	apimw "github.com/storedesk/storedesk-backend/internal/api/http/middleware"
	"github.com/storedesk/storedesk-backend/internal/auth"
	authhttp "github.com/storedesk/storedesk-backend/internal/auth/http"
	"github.com/storedesk/storedesk-backend/internal/auth/middleware"
	"github.com/storedesk/storedesk-backend/internal/auth/service"
	crmhttp "github.com/storedesk/storedesk-backend/internal/crm/http"
	"github.com/storedesk/storedesk-backend/internal/crm/repository"
	"github.com/storedesk/storedesk-backend/internal/records"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	Backend        string
	AllowedOrigins []string
	Store          records.Store
	Verifier       middleware.TokenVerifier
	Identity       service.IdentityProvider
}

// WithFirebaseAuth fills the identity fields from a Firebase auth client.
func (d RouterDeps) WithFirebaseAuth(client *fbauth.Client) RouterDeps {
	d.Verifier = client
	d.Identity = service.NewFirebaseIdentity(client)
	return d
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(apimw.RequestIDMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     dep.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", apimw.HeaderRequestID},
		ExposeHeaders:    []string{"Content-Length", apimw.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Backend, dep.Store)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")

	// profiles are read by uid, so the loader needs no session of its own
	users := repository.NewUsers(dep.Store, auth.Session{})
	authHandler := authhttp.New(service.NewAuthService(dep.Identity, users, nil))
	authHandler.RegisterPublic(api.Group("/auth"))

	protected := api.Group("")
	protected.Use(middleware.FirebaseAuthMiddleware(dep.Verifier))
	protected.Use(middleware.SessionMiddleware(users))

	authHandler.Register(protected.Group("/auth"))
	crmhttp.New(dep.Store).Register(protected)

	return r
}
