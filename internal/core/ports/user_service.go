package ports

import (
	"context"

	"github.com/companyhub/companies-api/internal/core/domain"
)

type UserService interface {
	ListUsers(ctx context.Context) ([]*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
}
