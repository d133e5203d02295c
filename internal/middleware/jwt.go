package middleware

import (
	"net/http" // HTTP status codes for responses
	"strings"  // prefix checking and trimming

	"github.com/golang-jwt/jwt/v5" // JWT parsing and validation
	"github.com/labstack/echo/v4"  // Echo framework
)

// JWTAuth returns an Echo middleware that validates a Bearer access
// token and injects the tenant_id claim into the request context.  The
// external auth collaborator issues the tokens; this service only
// verifies them.  Handlers read the tenant via `c.Get("tenant_id")`
// and every query they run is scoped to it, so a valid token for
// tenant A can never touch tenant B's rooms or holds.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			// HS256 only; a token signed any other way is rejected.
			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}
			tenant, ok := claims["tenant_id"]
			if !ok || tenant == nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing tenant_id claim"})
			}
			c.Set("tenant_id", tenant)
			return next(c)
		}
	}
}
