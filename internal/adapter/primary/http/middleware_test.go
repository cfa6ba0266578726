package http

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentflow/payment-gateway/internal/core"
)

const testSecret = "test-secret"

type stubUserRepo struct {
	users map[uuid.UUID]*core.User
}

func (s *stubUserRepo) Create(context.Context, *core.User) error { return nil }

func (s *stubUserRepo) GetByID(_ context.Context, id uuid.UUID) (*core.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, core.ErrNotFound)
	}
	return u, nil
}

func (s *stubUserRepo) GetByEmail(context.Context, string) (*core.User, error) {
	return nil, core.ErrNotFound
}

func signToken(t *testing.T, userID uuid.UUID, secret string) string {
	t.Helper()
	claims := jwt.StandardClaims{
		Subject:   userID.String(),
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func authTestServer(users *stubUserRepo, extra ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	handlers := append([]echo.MiddlewareFunc{Auth(testSecret, users)}, extra...)
	e.GET("/protected", func(c echo.Context) error {
		principal, _ := principalFrom(c)
		return c.JSON(http.StatusOK, map[string]string{"role": string(principal.Role)})
	}, handlers...)
	return e
}

func TestAuth_ValidTokenLoadsPrincipal(t *testing.T) {
	user := &core.User{ID: uuid.New(), Role: core.RoleLandlord}
	users := &stubUserRepo{users: map[uuid.UUID]*core.User{user.ID: user}}
	e := authTestServer(users)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+signToken(t, user.ID, testSecret))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "landlord")
}

func TestAuth_RejectsBadTokens(t *testing.T) {
	user := &core.User{ID: uuid.New(), Role: core.RoleTenant}
	users := &stubUserRepo{users: map[uuid.UUID]*core.User{user.ID: user}}
	e := authTestServer(users)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.token"},
		{"wrong secret", "Bearer " + signToken(t, user.ID, "other-secret")},
		{"unknown user", "Bearer " + signToken(t, uuid.New(), testSecret)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRequireRoles(t *testing.T) {
	admin := &core.User{ID: uuid.New(), Role: core.RoleAdmin}
	tenant := &core.User{ID: uuid.New(), Role: core.RoleTenant}
	users := &stubUserRepo{users: map[uuid.UUID]*core.User{admin.ID: admin, tenant.ID: tenant}}
	e := authTestServer(users, RequireRoles(core.RoleAdmin, core.RolePropertyManager))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+signToken(t, admin.ID, testSecret))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+signToken(t, tenant.ID, testSecret))
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
