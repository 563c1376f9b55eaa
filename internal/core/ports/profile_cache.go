package ports

import (
	"context"

	"github.com/loginbox/auth-api/internal/core/domain"
)

// ProfileCache is a best-effort read-through cache for profile lookups.
// A miss or a cache failure both mean "go to the store".
type ProfileCache interface {
	Get(ctx context.Context, userID int64) (*domain.User, bool)
	Set(ctx context.Context, user *domain.User)
	Invalidate(ctx context.Context, userID int64)
}
