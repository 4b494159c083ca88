package handler

import (
	"lubricentro-ws/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ResetPasswordRequest represents the reset password request body
type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// ValidateTokenRequest represents the validate token request body
type ValidateTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

// Login handles user authentication
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := validateBody(c, &req); err != nil {
		return respondError(c, err)
	}

	response, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(response)
}

// ResetPassword handles password change
// POST /api/v1/auth/reset-password
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if err := validateBody(c, &req); err != nil {
		return respondError(c, err)
	}

	if err := h.authService.ResetPassword(c.UserContext(), req.Email, req.OldPassword, req.NewPassword); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password updated successfully"})
}

// Logout ends the current session on every device
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := uuid.Parse(userID)
	if err != nil {
		return respondError(c, fiber.NewError(fiber.StatusBadRequest, "Invalid user ID"))
	}

	if err := h.authService.Logout(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// ValidateToken handles JWT token validation
// POST /api/v1/auth/validate-token
func (h *AuthHandler) ValidateToken(c *fiber.Ctx) error {
	var req ValidateTokenRequest
	if err := validateBody(c, &req); err != nil {
		return respondError(c, err)
	}

	response, err := h.authService.ValidateToken(c.UserContext(), req.Token)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(response)
}
