package input

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rentflow/payment-gateway/internal/core"
)

// AuthService is an input port for account registration and login.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*UserResponse, error)
}

// RegisterRequest carries a new account's details.
type RegisterRequest struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Role     core.Role
}

// LoginRequest carries login credentials.
type LoginRequest struct {
	Email    string
	Password string
}

// UserResponse represents an account without its credential hash.
type UserResponse struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Phone     string
	Role      core.Role
	CreatedAt time.Time
}

// AuthResponse pairs an account with a signed token.
type AuthResponse struct {
	User  UserResponse
	Token string
}
