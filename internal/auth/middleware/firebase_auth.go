package middleware

import (
	"context"
	"net/http"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"

	"github.com/storedesk/storedesk-backend/internal/auth"
	"github.com/storedesk/storedesk-backend/internal/logging"
)

// TokenVerifier is satisfied by *firebase auth.Client.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// SessionLoader resolves a verified uid into the user's session. A nil
// session with a nil error means the user has no profile yet.
type SessionLoader interface {
	LoadSession(ctx context.Context, uid, email string) (*auth.Session, error)
}

// FirebaseAuthMiddleware validates Firebase ID tokens and extracts user info
func FirebaseAuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization token"})
			c.Abort()
			return
		}

		decodedToken, err := verifier.VerifyIDToken(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Set(auth.CtxFirebaseUID, decodedToken.UID)
		if email, ok := decodedToken.Claims["email"].(string); ok {
			c.Set(auth.CtxEmail, email)
		}

		c.Next()
	}
}

// SessionMiddleware loads the caller's profile and stores the resulting
// Session in both the Gin and the request context. Users without a profile
// get a session with no role or location; disabled users are rejected.
func SessionMiddleware(loader SessionLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := auth.UserFirebaseUID(c)
		if uid == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			c.Abort()
			return
		}

		email := c.GetString(auth.CtxEmail)
		session, err := loader.LoadSession(c.Request.Context(), uid, email)
		if err != nil {
			logging.New(c.Request.Context()).Error("load_session", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user profile"})
			c.Abort()
			return
		}
		if session == nil {
			session = &auth.Session{UID: uid, Email: email}
		} else if !session.Active {
			c.JSON(http.StatusForbidden, gin.H{"error": "account is disabled"})
			c.Abort()
			return
		}

		c.Set(auth.CtxSession, *session)
		c.Request = c.Request.WithContext(auth.WithSession(c.Request.Context(), *session))
		c.Next()
	}
}

// RequireRole rejects callers whose role ranks below min.
func RequireRole(min auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !auth.CurrentSession(c).CanAccess(min) {
			c.JSON(http.StatusForbidden, gin.H{"error": "insufficient role", "required": min})
			c.Abort()
			return
		}
		c.Next()
	}
}

// extractToken extracts the Bearer token from the Authorization header
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return strings.TrimSpace(bearerToken[7:])
	}
	return ""
}
