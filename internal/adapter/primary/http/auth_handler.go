package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rentflow/payment-gateway/internal/core"
	"github.com/rentflow/payment-gateway/internal/port/input"
)

// AuthHandler is a primary adapter for registration and login
type AuthHandler struct {
	authService input.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService input.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest represents the HTTP request to create an account
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

// LoginRequest represents the HTTP request to log in
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse represents an account in HTTP responses
type UserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

// AuthResponse pairs an account with its token
type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

// Register handles account creation
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	response, err := h.authService.Register(c.Request().Context(), input.RegisterRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Role:     core.Role(req.Role),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toAuthResponse(response))
}

// Login handles credential verification
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	response, err := h.authService.Login(c.Request().Context(), input.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toAuthResponse(response))
}

// Me returns the authenticated account
func (h *AuthHandler) Me(c echo.Context) error {
	principal, ok := principalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Please authenticate."})
	}
	user, err := h.authService.GetProfile(c.Request().Context(), principal.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toUserHTTPResponse(user))
}

func toUserHTTPResponse(u *input.UserResponse) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

func toAuthResponse(r *input.AuthResponse) AuthResponse {
	return AuthResponse{
		User:  toUserHTTPResponse(&r.User),
		Token: r.Token,
	}
}
