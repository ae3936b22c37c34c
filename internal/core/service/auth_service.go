package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/swiftcargo/movers-portal/internal/core/domain"
	"github.com/swiftcargo/movers-portal/internal/core/ports"
)

// AuthService implements back-office registration, login and session tokens.
type AuthService struct {
	repo      ports.AuthRepository
	tokens    ports.TokenStore
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
	now       func() time.Time
}

func NewAuthService(repo ports.AuthRepository, tokens ports.TokenStore, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		repo:      repo,
		tokens:    tokens,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log,
		now:       time.Now,
	}
}

type sessionClaims struct {
	Role  string `json:"role"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Admin, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" || !domain.ValidRole(in.Role) {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, &domain.Admin{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         in.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("admin_id", created.ID).Str("role", created.Role).Msg("account registered")
	return created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.Admin, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	admin, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(admin)
	if err != nil {
		return "", nil, fmt.Errorf("login: sign token: %w", err)
	}

	return token, admin, nil
}

// ValidateToken verifies the signature and reports the bearer. A correctly
// signed but expired token yields Expired=true together with
// jwt.ErrTokenExpired so callers can tell it apart from a forged one.
func (s *AuthService) ValidateToken(ctx context.Context, raw string) (*ports.TokenInfo, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithTimeFunc(s.now))

	expired := errors.Is(err, jwt.ErrTokenExpired)
	if err != nil && !expired {
		return nil, domain.ErrInvalidCredentials
	}

	info := &ports.TokenInfo{
		SubjectID: claims.Subject,
		Role:      claims.Role,
		Email:     claims.Email,
		TokenID:   claims.ID,
		Expired:   expired,
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	if expired {
		return info, err
	}

	if s.tokens != nil && info.TokenID != "" {
		revoked, rerr := s.tokens.IsRevoked(ctx, info.TokenID)
		if rerr != nil {
			// Fail open on denylist outages.
			s.log.Warn().Err(rerr).Str("token_id", info.TokenID).Msg("revocation check failed")
		} else if revoked {
			return nil, domain.ErrTokenRevoked
		}
	}

	return info, nil
}

// Logout denylists the token until it would have expired on its own.
func (s *AuthService) Logout(ctx context.Context, info *ports.TokenInfo) error {
	if info == nil || info.TokenID == "" {
		return domain.ErrInvalidCredentials
	}
	if err := s.tokens.Revoke(ctx, info.TokenID, info.ExpiresAt); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.log.Info().Str("admin_id", info.SubjectID).Str("token_id", info.TokenID).Msg("session revoked")
	return nil
}

func (s *AuthService) Me(ctx context.Context, subjectID string) (*domain.Admin, error) {
	return s.repo.FindByID(ctx, subjectID)
}

// EnsureAdmin creates the bootstrap administrator when no account with that
// email exists yet. It is a no-op when email or password is empty.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	_, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("ensure admin: %w", err)
	}

	_, err = s.Register(ctx, ports.RegisterInput{
		Name:     "Administrator",
		Email:    email,
		Password: password,
		Role:     domain.RoleAdmin,
	})
	if errors.Is(err, domain.ErrUserExists) {
		return nil
	}
	return err
}

func (s *AuthService) generateToken(admin *domain.Admin) (string, error) {
	now := s.now()
	claims := sessionClaims{
		Role:  admin.Role,
		Email: admin.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   admin.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
