package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ksuzuki/todo-auth-api/internal/auth"
	"github.com/ksuzuki/todo-auth-api/internal/model"
)

// RequireRole enforces that the authenticated caller satisfies the required
// role. The decision itself lives in auth.Authorize; this middleware only
// translates a denial into a 403. It assumes JWTAuth already stored the
// role in the context.
func RequireRole(required model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(CtxRole).(model.Role)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}
			if d := auth.Authorize(role, required); !d.Allowed {
				return c.JSON(http.StatusForbidden, echo.Map{
					"error":  "insufficient permissions",
					"reason": d.Reason,
				})
			}
			return next(c)
		}
	}
}
