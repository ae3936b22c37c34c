package ports

import (
	"context"
	"time"

	"github.com/swiftcargo/movers-portal/internal/core/domain"
)

// RegisterInput carries the fields needed to create a back-office account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// TokenInfo is what a validated session token says about its bearer.
type TokenInfo struct {
	SubjectID string
	Role      string
	Email     string
	TokenID   string
	ExpiresAt time.Time
	// Expired is set when the signature is good but exp has passed.
	Expired bool
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.Admin, error)
	Login(ctx context.Context, email, password string) (string, *domain.Admin, error)
	ValidateToken(ctx context.Context, token string) (*TokenInfo, error)
	Logout(ctx context.Context, info *TokenInfo) error
	Me(ctx context.Context, subjectID string) (*domain.Admin, error)
}
