package middleware

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/minishop/backend/internal/token"
)

const (
	CtxUserID = "user_id"
	CtxRole   = "role"
)

// RequireAuth verifies the Bearer token and stores the caller's identity in
// the request context. Paired with RequireRole it forms the per-route access
// policy: routes declare what they need at registration time.
func RequireAuth(tokens *token.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			raw, found := strings.CutPrefix(header, "Bearer ")
			raw = strings.TrimSpace(raw)
			if !found || raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Access denied")
			}

			claims, err := tokens.Verify(raw)
			if err != nil {
				if errors.Is(err, token.ErrExpired) {
					return echo.NewHTTPError(http.StatusUnauthorized, "Token expired")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			c.Set(CtxUserID, claims.Subject)
			c.Set(CtxRole, claims.Role)
			return next(c)
		}
	}
}

func RequireRole(required ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxRole).(string)
			if role == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Access denied")
			}
			if !slices.Contains(required, role) {
				return echo.NewHTTPError(http.StatusForbidden, "Admins only")
			}
			return next(c)
		}
	}
}

// UserID extracts the authenticated caller's id set by RequireAuth.
func UserID(c echo.Context) (uuid.UUID, error) {
	s, ok := c.Get(CtxUserID).(string)
	if !ok || s == "" {
		return uuid.Nil, errors.New("unauthenticated context")
	}
	return uuid.Parse(s)
}
