// Package middleware contains reusable HTTP middleware functions.
package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// OperatorAuth returns an Echo middleware that validates a Bearer token
// and requires its role claim to be OPERATOR.  Triggering a run truncates
// and rewrites whole tables, so the run-control endpoints must never be
// open.  The subject claim is stored in the context under "operator" for
// log attribution.
func OperatorAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

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
			if role, _ := claims["role"].(string); role != "OPERATOR" {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "operator role required"})
			}
			if sub, _ := claims["sub"].(string); sub != "" {
				c.Set("operator", sub)
			}
			return next(c)
		}
	}
}
