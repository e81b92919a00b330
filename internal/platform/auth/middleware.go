package auth

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

type contextKey string

const IdentityKey contextKey = "identity"

// Middleware returns echo middleware that resolves the bearer token on every
// request and stores the authenticated identity in the request context. All
// failures produce the same 401 response.
func Middleware(tokens *TokenService, dir PhysicianDirectory) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ident, err := ResolveIdentity(
				c.Request().Context(),
				c.Request().Header.Get("Authorization"),
				tokens, dir,
			)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing credentials")
			}

			ctx := context.WithValue(c.Request().Context(), IdentityKey, ident)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// IdentityFromContext retrieves the authenticated identity set by Middleware.
func IdentityFromContext(ctx context.Context) *Identity {
	ident, _ := ctx.Value(IdentityKey).(*Identity)
	return ident
}
