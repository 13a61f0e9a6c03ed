package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"

	"github.com/storedesk/storedesk-backend/internal/auth"
	"github.com/storedesk/storedesk-backend/internal/crm/domain"
	"github.com/storedesk/storedesk-backend/internal/logging"
)

var ErrEmailTaken = errors.New("email already registered")

// IdentityProvider is the account side of sign-up and sign-out.
type IdentityProvider interface {
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
	EmailVerificationLink(ctx context.Context, email string) (string, error)
	RevokeRefreshTokens(ctx context.Context, uid string) error
	DeleteUser(ctx context.Context, uid string) error
}

// ProfileStore persists AppUser profiles; *repository.Users satisfies it.
type ProfileStore interface {
	Profile(ctx context.Context, uid string) (*domain.AppUser, error)
	CreateProfile(ctx context.Context, u domain.AppUser) error
}

// VerificationSender delivers the email verification link.
type VerificationSender interface {
	SendVerification(ctx context.Context, email, link string) error
}

// LogVerificationSender writes the link to the log instead of mailing it.
type LogVerificationSender struct{}

func (LogVerificationSender) SendVerification(ctx context.Context, email, link string) error {
	logging.New(ctx).Infof("send_verification", "email=%s link=%s", email, link)
	return nil
}

type SignUpRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	DisplayName string `json:"displayName" validate:"notblank"`
}

type AuthService struct {
	identity IdentityProvider
	profiles ProfileStore
	sender   VerificationSender
}

func NewAuthService(identity IdentityProvider, profiles ProfileStore, sender VerificationSender) *AuthService {
	if sender == nil {
		sender = LogVerificationSender{}
	}
	return &AuthService{
		identity: identity,
		profiles: profiles,
		sender:   sender,
	}
}

// SignUp creates the provider account and its profile. New users are reps
// without a location until an admin assigns one. If the profile cannot be
// written the provider account is removed again.
func (s *AuthService) SignUp(ctx context.Context, req SignUpRequest) (*domain.AppUser, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	if err := domain.Validate(req); err != nil {
		return nil, err
	}

	log := logging.New(ctx)
	uid, err := s.identity.CreateUser(ctx, req.Email, req.Password, req.DisplayName)
	if err != nil {
		log.Error("signup_create_user", err)
		return nil, err
	}

	user := domain.AppUser{
		UID:         uid,
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Role:        auth.RoleRep,
		IsActive:    true,
	}
	if err := s.profiles.CreateProfile(ctx, user); err != nil {
		if derr := s.identity.DeleteUser(ctx, uid); derr != nil {
			log.Errorf("signup_rollback", "uid=%s error=%v", uid, derr)
		}
		return nil, fmt.Errorf("write profile: %w", err)
	}

	link, err := s.identity.EmailVerificationLink(ctx, req.Email)
	if err != nil {
		log.Warnf("signup_verification", "uid=%s error=%v", uid, err)
	} else if err := s.sender.SendVerification(ctx, req.Email, link); err != nil {
		log.Warnf("signup_verification", "uid=%s error=%v", uid, err)
	}

	log.Infof("signup", "uid=%s", uid)
	return &user, nil
}

// SignOut revokes every refresh token of uid, ending all its sessions.
func (s *AuthService) SignOut(ctx context.Context, uid string) error {
	if err := s.identity.RevokeRefreshTokens(ctx, uid); err != nil {
		logging.New(ctx).Error("signout", err)
		return err
	}
	return nil
}

func (s *AuthService) Profile(ctx context.Context, uid string) (*domain.AppUser, error) {
	u, err := s.profiles.Profile(ctx, uid)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("profile %s: %w", uid, domain.ErrNotFound)
	}
	return u, nil
}

// FirebaseIdentity adapts the Firebase Admin auth client.
type FirebaseIdentity struct {
	client *fbauth.Client
}

func NewFirebaseIdentity(client *fbauth.Client) *FirebaseIdentity {
	return &FirebaseIdentity{client: client}
}

func (f *FirebaseIdentity) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	params := (&fbauth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(displayName).
		EmailVerified(false)

	rec, err := f.client.CreateUser(ctx, params)
	if err != nil {
		if fbauth.IsEmailAlreadyExists(err) {
			return "", ErrEmailTaken
		}
		return "", fmt.Errorf("create identity: %w", err)
	}
	return rec.UID, nil
}

func (f *FirebaseIdentity) EmailVerificationLink(ctx context.Context, email string) (string, error) {
	return f.client.EmailVerificationLink(ctx, email)
}

func (f *FirebaseIdentity) RevokeRefreshTokens(ctx context.Context, uid string) error {
	return f.client.RevokeRefreshTokens(ctx, uid)
}

func (f *FirebaseIdentity) DeleteUser(ctx context.Context, uid string) error {
	return f.client.DeleteUser(ctx, uid)
}
