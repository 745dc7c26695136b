package ports

import (
	"context"

	"github.com/companyhub/companies-api/internal/core/domain"
)

// RegisterInput carries the fields accepted when creating an account.
type RegisterInput struct {
	Username  string `json:"username"   validate:"required,min=3,max=150,alphanum"`
	Password  string `json:"password"   validate:"required,min=8,max=72"`
	Email     string `json:"email"      validate:"omitempty,email,max=254"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name"  validate:"max=150"`
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	// Authenticate verifies a bearer token and returns the identity it carries.
	Authenticate(ctx context.Context, token string) (*domain.Identity, error)
	// Logout revokes the token behind identity until it would have expired.
	Logout(ctx context.Context, identity *domain.Identity) error
}
