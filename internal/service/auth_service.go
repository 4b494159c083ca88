package service

import (
	"context"
	"errors"
	"fmt"

	"lubricentro-ws/internal/model"
	"lubricentro-ws/internal/repository"
	"lubricentro-ws/pkg/jwt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	ResetPassword(ctx context.Context, email, oldPassword, newPassword string) error
	ValidateToken(ctx context.Context, tokenString string) (*TokenValidationResponse, error)
}

type LoginResponse struct {
	Token      string             `json:"token"`
	User       model.UserResponse `json:"user"`
	Role       *model.Role        `json:"role"`
	Privileges []string           `json:"privileges"`
}

type TokenValidationResponse struct {
	User       model.UserResponse `json:"user"`
	Role       *model.Role        `json:"role"`
	Privileges []string           `json:"privileges"`
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *jwt.Manager
	log      zerolog.Logger
}

func NewAuthService(userRepo repository.UserRepository, tokens *jwt.Manager, log zerolog.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		log:      log.With().Str("component", "auth").Logger(),
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if !user.CheckPassword(password) {
		s.log.Warn().Str("email", email).Msg("failed login")
		return nil, ErrInvalidCredentials
	}

	// A new token version invalidates any session opened elsewhere.
	version := uuid.NewString()
	if err := s.userRepo.UpdateTokenVersion(ctx, user.ID, version); err != nil {
		return nil, fmt.Errorf("rotate session: %w", err)
	}

	token, err := s.tokens.Generate(user.ID, user.Email, user.FullName, user.RoleCode(), user.PrivilegeCodes(), version)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &LoginResponse{
		Token:      token,
		User:       user.ToResponse(),
		Role:       user.Role,
		Privileges: user.PrivilegeCodes(),
	}, nil
}

func (s *authService) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.userRepo.UpdateTokenVersion(ctx, userID, uuid.NewString())
}

func (s *authService) ResetPassword(ctx context.Context, email, oldPassword, newPassword string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return notFound(err, "user")
	}
	if !user.CheckPassword(oldPassword) {
		return ErrWrongPassword
	}
	if err := user.SetPassword(newPassword); err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.TokenVersion = uuid.NewString()
	return s.userRepo.Update(ctx, user)
}

func (s *authService) ValidateToken(ctx context.Context, tokenString string) (*TokenValidationResponse, error) {
	claims, err := s.tokens.Validate(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if user.TokenVersion != claims.TokenVersion {
		return nil, ErrSessionReplaced
	}

	return &TokenValidationResponse{
		User:       user.ToResponse(),
		Role:       user.Role,
		Privileges: user.PrivilegeCodes(),
	}, nil
}

// IsAuthError reports errors that should surface as 401.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrUserInactive) ||
		errors.Is(err, ErrSessionReplaced) ||
		errors.Is(err, jwt.ErrInvalidToken) ||
		errors.Is(err, jwt.ErrMissingToken)
}
