package auth

import (
	"github.com/labstack/echo/v4"
)

// ContextKey is where the bearer middleware stores validated *Claims.
const ContextKey = "user"

// ClaimsFromContext returns the claims set by the bearer middleware.
func ClaimsFromContext(c echo.Context) (*Claims, bool) {
	claims, ok := c.Get(ContextKey).(*Claims)
	return claims, ok && claims != nil
}

// ParseTokenFunc adapts ValidateToken to echo-jwt's ParseTokenFunc hook.
func (s *JWTService) ParseTokenFunc(c echo.Context, auth string) (interface{}, error) {
	return s.ValidateToken(auth)
}
