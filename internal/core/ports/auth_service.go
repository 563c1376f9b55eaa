package ports

import (
	"context"

	"github.com/loginbox/auth-api/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, name, lastName, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Profile(ctx context.Context, userID int64) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID int64, name, lastName string) (*domain.User, error)
}
