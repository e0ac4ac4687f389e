package middleware

import (
	"net/http"
	"strings"

	"ExamSeatPlanner/internal/auth"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// JWTMiddleware validates the bearer token and stores its claims under
// "user".
func JWTMiddleware(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing Token"})
			}

			tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
			claims, err := auth.ParseJWT(tokenString)
			if err != nil {
				logger.Debug("token rejected", zap.Error(err))
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid Token"})
			}
			c.Set("user", claims)
			return next(c)
		}
	}
}
