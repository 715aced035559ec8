package ports

import (
	"context"

	"github.com/sweetshop/sweet-shop-api/internal/core/domain"
)

type AuthService interface {
	// Register creates a customer account and returns a freshly minted token
	// alongside the stored account view. The password is never persisted in
	// plaintext.
	Register(ctx context.Context, username, email, password string) (string, *domain.User, error)
	// Login verifies credentials and mints a token. A missing account and a
	// wrong password are indistinguishable to the caller.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
