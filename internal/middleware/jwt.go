package middleware // middleware contains reusable HTTP middleware shared by both services

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/1xev3/edev-backend/internal/auth"
)

// Context keys under which the guard stores the authenticated identity.
const (
	OwnerKey   = "owner"    // owner email (token subject)
	GroupIDKey = "group_id" // user's group id
)

// JWTAuth returns the authorization guard: an Echo middleware that extracts
// the Bearer credential, verifies it through the token service (signature,
// expiry, revocation) and injects the authenticated identity into the
// request context.  Any failure -- missing header, wrong scheme, bad
// signature, expired or revoked token, malformed claims -- yields the same
// 401 response so callers cannot probe which check rejected them.  There is
// no anonymous fallthrough: handlers behind this middleware always see an
// authenticated owner.
func JWTAuth(tokens *auth.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return unauthorized(c)
			}
			claims, err := tokens.VerifyAccess(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				return unauthorized(c)
			}
			c.Set(OwnerKey, claims.Subject)
			c.Set(GroupIDKey, claims.GroupID)
			return next(c)
		}
	}
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
}
