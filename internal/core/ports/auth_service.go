package ports

import (
	"context"

	"github.com/sweetshop/sweet-shop/internal/core/domain"
)

// RegisterResult reports the account and whether it was created by this call.
type RegisterResult struct {
	User    *domain.User
	Created bool
}

type AuthService interface {
	Register(ctx context.Context, email, password, adminKey string) (*RegisterResult, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Logout(ctx context.Context, claims domain.Claims) error
	// Verify parses an access token and returns its claims, rejecting revoked tokens.
	Verify(ctx context.Context, token string) (*domain.Claims, error)
}
