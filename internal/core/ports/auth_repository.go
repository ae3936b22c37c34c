package ports

import (
	"context"
	"time"

	"github.com/swiftcargo/movers-portal/internal/core/domain"
)

// AuthRepository defines persistence for back-office credentials.
type AuthRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Admin, error)
	FindByID(ctx context.Context, id string) (*domain.Admin, error)
	Create(ctx context.Context, admin *domain.Admin) (*domain.Admin, error)
}

// TokenStore remembers revoked session tokens until they would have expired.
type TokenStore interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
