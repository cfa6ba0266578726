package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/rentflow/payment-gateway/internal/core"
	"github.com/rentflow/payment-gateway/internal/port/input"
	"github.com/rentflow/payment-gateway/internal/port/output"
)

const tokenTTL = 24 * time.Hour

// AuthServiceImpl implements the AuthService input port
type AuthServiceImpl struct {
	userRepo  output.UserRepository
	jwtSecret []byte
	log       *logrus.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo output.UserRepository, jwtSecret string, log *logrus.Logger) input.AuthService {
	return &AuthServiceImpl{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		log:       log,
	}
}

// Register creates an account and returns it with a signed token.
func (s *AuthServiceImpl) Register(ctx context.Context, req input.RegisterRequest) (*input.AuthResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("name is required: %w", core.ErrValidation)
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("valid email is required: %w", core.ErrValidation)
	}
	if len(req.Password) < 6 {
		return nil, fmt.Errorf("password must be at least 6 characters: %w", core.ErrValidation)
	}
	if strings.TrimSpace(req.Phone) == "" {
		return nil, fmt.Errorf("phone is required: %w", core.ErrValidation)
	}
	if !core.ValidRole(req.Role) {
		return nil, fmt.Errorf("unknown role %q: %w", req.Role, core.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &core.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		Phone:        strings.TrimSpace(req.Phone),
		Role:         req.Role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.signToken(user.ID)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("user registered")
	return &input.AuthResponse{User: toUserResponse(user), Token: token}, nil
}

// Login verifies credentials and returns the account with a signed
// token.
func (s *AuthServiceImpl) Login(ctx context.Context, req input.LoginRequest) (*input.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, fmt.Errorf("email and password are required: %w", core.ErrValidation)
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		// Same response for unknown email and wrong password.
		return nil, core.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, core.ErrUnauthorized
	}

	token, err := s.signToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &input.AuthResponse{User: toUserResponse(user), Token: token}, nil
}

// GetProfile returns the account for an authenticated user.
func (s *AuthServiceImpl) GetProfile(ctx context.Context, userID uuid.UUID) (*input.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *AuthServiceImpl) signToken(userID uuid.UUID) (string, error) {
	claims := jwt.StandardClaims{
		Subject:   userID.String(),
		IssuedAt:  time.Now().Unix(),
		ExpiresAt: time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func toUserResponse(u *core.User) input.UserResponse {
	return input.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
