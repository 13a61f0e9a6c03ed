package auth

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
)

type Role string

const (
	RoleRep     Role = "rep"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

var roleRank = map[Role]int{
	RoleRep:     1,
	RoleManager: 2,
	RoleAdmin:   3,
}

// Valid reports whether r is one of the three fixed roles.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r grants everything min grants.
func (r Role) AtLeast(min Role) bool {
	return roleRank[r] > 0 && roleRank[r] >= roleRank[min]
}

// Session is the signed-in user's identity and scope. Repositories receive
// it explicitly; a zero LocationID means scoped operations are refused.
type Session struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	Role        Role   `json:"role,omitempty"`
	LocationID  string `json:"locationId,omitempty"`
	Active      bool   `json:"isActive"`
}

func (s Session) HasLocation() bool {
	return strings.TrimSpace(s.LocationID) != ""
}

func (s Session) CanAccess(min Role) bool {
	return s.Role.AtLeast(min)
}

const (
	CtxFirebaseUID = "firebase_uid"
	CtxEmail       = "email"
	CtxSession     = "session"
)

type sessionKey struct{}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom returns the session stored in ctx. ok is false for anonymous
// requests.
func SessionFrom(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	return s, ok
}

// UserFirebaseUID extracts the Firebase UID set by FirebaseAuthMiddleware.
func UserFirebaseUID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxFirebaseUID))
}

// CurrentSession returns the session placed by SessionMiddleware.
func CurrentSession(c *gin.Context) Session {
	if v, ok := c.Get(CtxSession); ok {
		if s, ok := v.(Session); ok {
			return s
		}
	}
	return Session{UID: UserFirebaseUID(c), Email: c.GetString(CtxEmail)}
}
