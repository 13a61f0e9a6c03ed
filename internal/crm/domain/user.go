package domain

import (
	"strings"
	"time"

	"github.com/storedesk/storedesk-backend/internal/auth"
	"github.com/storedesk/storedesk-backend/internal/records"
)

// AppUser is the profile written at sign-up, keyed by the identity
// provider's uid.
type AppUser struct {
	UID           string     `json:"uid"`
	Email         string     `json:"email"`
	DisplayName   string     `json:"displayName"`
	Role          auth.Role  `json:"role"`
	LocationID    string     `json:"locationId,omitempty"`
	IsActive      bool       `json:"isActive"`
	EmailVerified bool       `json:"emailVerified"`
	CreatedAt     *time.Time `json:"createdAt,omitempty"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
}

func UserFromDocument(d records.Document) AppUser {
	f := fields(d.Data)
	uid := f.str("uid")
	if uid == "" {
		uid = d.ID
	}
	return AppUser{
		UID:           uid,
		Email:         f.str("email"),
		DisplayName:   f.str("displayName"),
		Role:          auth.Role(f.str("role")),
		LocationID:    f.str("locationId"),
		IsActive:      f.boolean("isActive", true),
		EmailVerified: f.boolean("emailVerified", false),
		CreatedAt:     f.time("createdAt"),
		UpdatedAt:     f.time("updatedAt"),
	}
}

// Session is the scope this profile grants its owner.
func (u AppUser) Session() auth.Session {
	return auth.Session{
		UID:         u.UID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		LocationID:  u.LocationID,
		Active:      u.IsActive,
	}
}

// Fields is the document written for a new profile.
func (u AppUser) Fields() map[string]interface{} {
	role := u.Role
	if role == "" {
		role = auth.RoleRep
	}
	out := map[string]interface{}{
		"uid":           u.UID,
		"email":         strings.ToLower(strings.TrimSpace(u.Email)),
		"displayName":   u.DisplayName,
		"role":          string(role),
		"isActive":      u.IsActive,
		"emailVerified": u.EmailVerified,
	}
	if u.LocationID != "" {
		out["locationId"] = u.LocationID
	}
	return out
}

// UpdateUserRequest is the admin-side profile edit.
type UpdateUserRequest struct {
	DisplayName *string    `json:"displayName" validate:"omitnil,notblank"`
	Role        *auth.Role `json:"role" validate:"omitnil,oneof=rep manager admin"`
	LocationID  *string    `json:"locationId"`
	IsActive    *bool      `json:"isActive"`
}

func (r UpdateUserRequest) Fields() map[string]interface{} {
	out := make(map[string]interface{})
	setString(out, "displayName", r.DisplayName)
	if r.Role != nil {
		out["role"] = string(*r.Role)
	}
	setString(out, "locationId", r.LocationID)
	setBool(out, "isActive", r.IsActive)
	return out
}
