package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/swiftcargo/movers-portal/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that maps domain
// sentinels to status codes and renders {"error": "<message>"}. Unexpected
// errors are logged and reported as a generic 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

// statusFor lists sentinel errors in match order. The message for
// validation-style errors carries the wrapped detail.
var statusFor = []struct {
	target error
	code   int
	detail bool
}{
	{domain.ErrShipmentNotFound, http.StatusNotFound, false},
	{domain.ErrDocumentNotFound, http.StatusNotFound, false},
	{domain.ErrUserNotFound, http.StatusNotFound, false},
	{domain.ErrTemplateNotFound, http.StatusNotFound, true},
	{domain.ErrInvalidID, http.StatusBadRequest, true},
	{domain.ErrInvalidTransitStop, http.StatusUnprocessableEntity, true},
	{domain.ErrInvalidStopStatus, http.StatusUnprocessableEntity, true},
	{domain.ErrInvalidShipmentStatus, http.StatusUnprocessableEntity, true},
	{domain.ErrStopIndexOutOfRange, http.StatusUnprocessableEntity, true},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, false},
	{domain.ErrTokenRevoked, http.StatusUnauthorized, false},
	{domain.ErrForbidden, http.StatusForbidden, false},
	{domain.ErrUserExists, http.StatusConflict, false},
	{domain.ErrDocumentNumberExists, http.StatusConflict, false},
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError && he.Internal != nil {
			log.Error().Err(he.Internal).Str("path", c.Path()).Msg("http error")
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	for _, s := range statusFor {
		if errors.Is(err, s.target) {
			if s.detail {
				return s.code, err.Error()
			}
			return s.code, s.target.Error()
		}
	}

	if errors.Is(err, domain.ErrInvalidTemplate) {
		log.Error().Err(err).Str("path", c.Path()).Msg("document template unusable")
		return http.StatusInternalServerError, domain.ErrInvalidTemplate.Error()
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
