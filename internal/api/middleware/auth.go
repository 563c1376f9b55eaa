package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/loginbox/auth-api/internal/api/metrics"
	"github.com/loginbox/auth-api/internal/core/token"
)

// ClaimsKey is the echo context key under which verified claims are stored.
const ClaimsKey = "auth_claims"

// Auth validates the bearer token and injects the decoded claims into the
// request context. A missing or malformed Authorization header is 401; a
// token that fails verification (bad signature, expired, garbage) is 403.
func Auth(tokens *token.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				metrics.TokenVerificationsTotal.WithLabelValues("missing").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				metrics.TokenVerificationsTotal.WithLabelValues("missing").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := tokens.Verify(parts[1])
			if err != nil {
				metrics.TokenVerificationsTotal.WithLabelValues(rejectLabel(err)).Inc()
				return echo.NewHTTPError(http.StatusForbidden, "invalid or expired token")
			}

			metrics.TokenVerificationsTotal.WithLabelValues("ok").Inc()
			c.Set(ClaimsKey, claims)

			return next(c)
		}
	}
}

func rejectLabel(err error) string {
	switch {
	case errors.Is(err, token.ErrExpired):
		return "expired"
	case errors.Is(err, token.ErrSignature):
		return "signature"
	default:
		return "malformed"
	}
}
