package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storedesk/storedesk-backend/internal/auth"
	"github.com/storedesk/storedesk-backend/internal/crm/domain"
)

type fakeIdentity struct {
	createErr error
	linkErr   error
	created   []string
	deleted   []string
	revoked   []string
}

func (f *fakeIdentity) CreateUser(_ context.Context, email, _, _ string) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	uid := "uid-" + email
	f.created = append(f.created, uid)
	return uid, nil
}

func (f *fakeIdentity) EmailVerificationLink(_ context.Context, email string) (string, error) {
	if f.linkErr != nil {
		return "", f.linkErr
	}
	return "https://verify.example.com/?email=" + email, nil
}

func (f *fakeIdentity) RevokeRefreshTokens(_ context.Context, uid string) error {
	f.revoked = append(f.revoked, uid)
	return nil
}

func (f *fakeIdentity) DeleteUser(_ context.Context, uid string) error {
	f.deleted = append(f.deleted, uid)
	return nil
}

type fakeProfiles struct {
	writeErr error
	users    map[string]domain.AppUser
}

func (f *fakeProfiles) Profile(_ context.Context, uid string) (*domain.AppUser, error) {
	u, ok := f.users[uid]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (f *fakeProfiles) CreateProfile(_ context.Context, u domain.AppUser) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	if f.users == nil {
		f.users = map[string]domain.AppUser{}
	}
	f.users[u.UID] = u
	return nil
}

type recordingSender struct {
	links map[string]string
}

func (r *recordingSender) SendVerification(_ context.Context, email, link string) error {
	if r.links == nil {
		r.links = map[string]string{}
	}
	r.links[email] = link
	return nil
}

func validSignUp() SignUpRequest {
	return SignUpRequest{Email: " Ada@Example.com", Password: "s3cret!", DisplayName: "Ada Lovelace"}
}

func TestSignUpWritesProfileAndSendsVerification(t *testing.T) {
	identity := &fakeIdentity{}
	profiles := &fakeProfiles{}
	sender := &recordingSender{}
	svc := NewAuthService(identity, profiles, sender)

	user, err := svc.SignUp(context.Background(), validSignUp())
	require.NoError(t, err)

	assert.Equal(t, "uid-ada@example.com", user.UID)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, auth.RoleRep, user.Role)
	assert.True(t, user.IsActive)
	assert.False(t, user.EmailVerified)
	assert.Empty(t, user.LocationID)

	stored, ok := profiles.users[user.UID]
	require.True(t, ok)
	assert.Equal(t, "Ada Lovelace", stored.DisplayName)
	assert.Contains(t, sender.links["ada@example.com"], "verify.example.com")
}

func TestSignUpRejectsInvalidForm(t *testing.T) {
	identity := &fakeIdentity{}
	svc := NewAuthService(identity, &fakeProfiles{}, nil)

	req := validSignUp()
	req.Email = "not-an-email"
	req.Password = "123"

	_, err := svc.SignUp(context.Background(), req)
	var verrs domain.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 2)
	assert.Empty(t, identity.created)
}

func TestSignUpRollsBackWhenProfileWriteFails(t *testing.T) {
	identity := &fakeIdentity{}
	svc := NewAuthService(identity, &fakeProfiles{writeErr: errors.New("store down")}, nil)

	_, err := svc.SignUp(context.Background(), validSignUp())
	require.Error(t, err)
	assert.Equal(t, identity.created, identity.deleted)
}

func TestSignUpSurvivesVerificationFailure(t *testing.T) {
	svc := NewAuthService(&fakeIdentity{linkErr: errors.New("quota")}, &fakeProfiles{}, nil)

	user, err := svc.SignUp(context.Background(), validSignUp())
	require.NoError(t, err)
	assert.NotEmpty(t, user.UID)
}

func TestSignUpPassesProviderErrors(t *testing.T) {
	svc := NewAuthService(&fakeIdentity{createErr: ErrEmailTaken}, &fakeProfiles{}, nil)

	_, err := svc.SignUp(context.Background(), validSignUp())
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignOutRevokesTokens(t *testing.T) {
	identity := &fakeIdentity{}
	svc := NewAuthService(identity, &fakeProfiles{}, nil)

	require.NoError(t, svc.SignOut(context.Background(), "u1"))
	assert.Equal(t, []string{"u1"}, identity.revoked)
}

func TestProfile(t *testing.T) {
	profiles := &fakeProfiles{users: map[string]domain.AppUser{"u1": {UID: "u1", Email: "a@example.com"}}}
	svc := NewAuthService(&fakeIdentity{}, profiles, nil)

	u, err := svc.Profile(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", u.Email)

	_, err = svc.Profile(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
