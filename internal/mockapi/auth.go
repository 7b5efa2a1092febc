package mockapi

import (
	"crypto/subtle"
	"net/http"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"
)

// AuthMiddleware rejects requests whose bearer token is not masterKey.
// Paths in skipPaths are public.
func AuthMiddleware(masterKey string, skipPaths []string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if masterKey == "" || slices.Contains(skipPaths, c.Request().URL.Path) {
				return next(c)
			}

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return writeError(c, http.StatusUnauthorized, "authentication_error", "missing authorization header", "")
			}
			const prefix = "Bearer "
			if !strings.HasPrefix(authHeader, prefix) {
				return writeError(c, http.StatusUnauthorized, "authentication_error", "invalid authorization header format, expected 'Bearer <token>'", "")
			}
			token := strings.TrimPrefix(authHeader, prefix)
			if subtle.ConstantTimeCompare([]byte(token), []byte(masterKey)) != 1 {
				return writeError(c, http.StatusUnauthorized, "authentication_error", "Incorrect API key provided", "")
			}
			return next(c)
		}
	}
}
