package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/rentflow/payment-gateway/internal/core"
	"github.com/rentflow/payment-gateway/internal/port/output"
)

const principalKey = "principal"

// Auth returns middleware that verifies the Bearer token and loads the
// caller's account, exposing it to handlers as a core.Principal.
func Auth(jwtSecret string, userRepo output.UserRepository) echo.MiddlewareFunc {
	secret := []byte(jwtSecret)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Please authenticate."})
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			claims := &jwt.StandardClaims{}
			token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
				}
				return secret, nil
			})
			if err != nil || !token.Valid {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Please authenticate."})
			}

			userID, err := uuid.Parse(claims.Subject)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Please authenticate."})
			}
			user, err := userRepo.GetByID(c.Request().Context(), userID)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Please authenticate."})
			}

			c.Set(principalKey, core.Principal{UserID: user.ID, Role: user.Role})
			return next(c)
		}
	}
}

// RequireRoles returns middleware that rejects principals outside the
// given roles.
func RequireRoles(roles ...core.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := principalFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Please authenticate."})
			}
			for _, role := range roles {
				if principal.Role == role {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, map[string]string{"error": "Access denied."})
		}
	}
}

func principalFrom(c echo.Context) (core.Principal, bool) {
	principal, ok := c.Get(principalKey).(core.Principal)
	return principal, ok
}
