package http

import (
	"context"

	"github.com/storedesk/storedesk-backend/internal/auth/service"
	"github.com/storedesk/storedesk-backend/internal/crm/domain"
)

// Accounts is the part of *service.AuthService the handlers call.
type Accounts interface {
	SignUp(ctx context.Context, req service.SignUpRequest) (*domain.AppUser, error)
	SignOut(ctx context.Context, uid string) error
	Profile(ctx context.Context, uid string) (*domain.AppUser, error)
}

type Handler struct {
	accounts Accounts
}

func New(accounts Accounts) *Handler {
	return &Handler{accounts: accounts}
}
