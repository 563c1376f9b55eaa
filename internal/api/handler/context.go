package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/loginbox/auth-api/internal/api/middleware"
	"github.com/loginbox/auth-api/internal/core/token"
)

// ctxClaims extracts the claims injected by the Auth middleware and performs
// a fast-fail check before any service call: a missing or zero-subject claim
// means the middleware did not run, so the route is misconfigured rather
// than the token being bad.
func ctxClaims(c echo.Context) (*token.Claims, error) {
	claims, _ := c.Get(middleware.ClaimsKey).(*token.Claims)
	if claims == nil || claims.UserID == 0 {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims, nil
}
