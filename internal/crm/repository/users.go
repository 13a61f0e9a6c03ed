package repository

import (
	"context"
	"fmt"

	"github.com/storedesk/storedesk-backend/internal/auth"
	"github.com/storedesk/storedesk-backend/internal/crm/domain"
	"github.com/storedesk/storedesk-backend/internal/logging"
	"github.com/storedesk/storedesk-backend/internal/records"
)

// Users stores AppUser profiles keyed by the identity provider's uid.
// Listing and watching are scoped to the session's location; profile reads
// by uid are not.
type Users struct {
	*Repository[domain.AppUser]
}

func NewUsers(store records.Store, session auth.Session, opts ...Option) *Users {
	return &Users{newRepository(store, CollectionUsers, session, domain.UserFromDocument, byCreatedDesc, opts)}
}

// Profile returns the profile for uid, or nil when none was written.
func (r *Users) Profile(ctx context.Context, uid string) (*domain.AppUser, error) {
	doc, err := r.store.GetByID(ctx, r.collection, uid)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}
	u := r.decode(*doc)
	return &u, nil
}

// CreateProfile writes the profile created at sign-up.
func (r *Users) CreateProfile(ctx context.Context, u domain.AppUser) error {
	data := u.Fields()
	now := r.now()
	data[fieldCreatedAt] = now
	data[fieldUpdatedAt] = now

	if err := r.store.CreateWithID(ctx, r.collection, u.UID, data); err != nil {
		logging.New(ctx).Error("create_profile", err)
		return err
	}
	return nil
}

// LoadSession resolves a signed-in uid into its session.
func (r *Users) LoadSession(ctx context.Context, uid, email string) (*auth.Session, error) {
	u, err := r.Profile(ctx, uid)
	if err != nil || u == nil {
		return nil, err
	}
	s := u.Session()
	if s.Email == "" {
		s.Email = email
	}
	return &s, nil
}

// Update edits another user's profile. Admins manage users of their own
// location and users not yet assigned to any location.
func (r *Users) Update(ctx context.Context, uid string, req domain.UpdateUserRequest) error {
	if err := domain.Validate(req); err != nil {
		return err
	}
	if !r.session.HasLocation() {
		return r.scopeError("update")
	}

	target, err := r.Profile(ctx, uid)
	if err != nil {
		logging.New(ctx).Error("update_users", err)
		return err
	}
	if target == nil || (target.LocationID != "" && target.LocationID != r.session.LocationID) {
		return fmt.Errorf("users %s: %w", uid, domain.ErrNotFound)
	}
	if req.LocationID != nil && *req.LocationID != "" && *req.LocationID != r.session.LocationID {
		return fmt.Errorf("assign user to %s: %w", *req.LocationID, domain.ErrForbidden)
	}

	// written directly: the shared write path refuses to change locationId
	data := req.Fields()
	data[fieldUpdatedAt] = r.now()
	if err := r.store.Update(ctx, r.collection, uid, data); err != nil {
		logging.New(ctx).Error("update_users", err)
		return err
	}
	return nil
}
