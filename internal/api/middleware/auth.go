package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/swiftcargo/movers-portal/internal/core/domain"
	"github.com/swiftcargo/movers-portal/internal/core/ports"
)

// Context keys set by Auth.
const (
	ContextAdminID = "admin_id"
	ContextRole    = "role"
	ContextToken   = "token"
)

// TokenVerifier is the part of the auth service the middleware needs.
type TokenVerifier interface {
	ValidateToken(ctx context.Context, raw string) (*ports.TokenInfo, error)
}

// Auth validates the bearer token and injects the caller into context.
func Auth(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			info, err := verifier.ValidateToken(c.Request().Context(), strings.TrimSpace(parts[1]))
			switch {
			case errors.Is(err, jwt.ErrTokenExpired):
				return echo.NewHTTPError(http.StatusUnauthorized, "token expired")
			case errors.Is(err, domain.ErrTokenRevoked):
				return echo.NewHTTPError(http.StatusUnauthorized, "token revoked")
			case err != nil || info == nil || info.SubjectID == "":
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(ContextAdminID, info.SubjectID)
			c.Set(ContextRole, info.Role)
			c.Set(ContextToken, info)

			return next(c)
		}
	}
}

// Token returns the token info stored by Auth, or nil.
func Token(c echo.Context) *ports.TokenInfo {
	info, _ := c.Get(ContextToken).(*ports.TokenInfo)
	return info
}
