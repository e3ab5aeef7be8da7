package middleware

import (
    "net/http"

    "github.com/labstack/echo/v4"
)

// RequireRole returns a middleware that enforces that the authenticated
// caller holds one of the given roles, as carried in the token's "role"
// claim.  It assumes JWTAuth has already stored the role in the context.
// A missing or disallowed role aborts the request with 403 Forbidden; this
// is the single authorization predicate for every role-gated operation, so
// handlers never re-check roles themselves.
func RequireRole(roles ...string) echo.MiddlewareFunc {
    allowed := make(map[string]bool, len(roles))
    for _, r := range roles {
        allowed[r] = true
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            role, ok := c.Get("role").(string)
            if !ok || !allowed[role] {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
            }
            return next(c)
        }
    }
}
