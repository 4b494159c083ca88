package handler

import (
	"lubricentro-ws/internal/service"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateUser handles user creation
// POST /api/v1/users
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	creatorID, err := getUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req service.CreateUserRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	user, err := h.userService.CreateUser(c.UserContext(), &req, creatorID)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully",
		"data":    user.ToResponse(),
	})
}

// UpdateUserPrivileges handles privilege assignment
// PUT /api/v1/users/:id/privileges
func (h *UserHandler) UpdateUserPrivileges(c *fiber.Ctx) error {
	updaterID, err := getUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	userID, err := parseUUID(c, "id", "user")
	if err != nil {
		return respondError(c, err)
	}

	var req struct {
		Privileges []string `json:"privileges"`
	}
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	user, err := h.userService.UpdateUserPrivileges(c.UserContext(), userID, req.Privileges, updaterID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Privileges updated successfully",
		"data":    user.ToResponse(),
	})
}

// GetUsers returns all users
// GET /api/v1/users
func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	users, err := h.userService.GetAllUsers(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

// GetUser returns a single user by ID
// GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	userID, err := parseUUID(c, "id", "user")
	if err != nil {
		return respondError(c, err)
	}

	user, err := h.userService.GetUserByID(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// UpdateUser handles user update
// PUT /api/v1/users/:id
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	updaterID, err := getUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	userID, err := parseUUID(c, "id", "user")
	if err != nil {
		return respondError(c, err)
	}

	var req service.UpdateUserRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	user, err := h.userService.UpdateUser(c.UserContext(), userID, &req, updaterID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "User updated successfully",
		"data":    user.ToResponse(),
	})
}

// DeleteUser handles user deletion
// DELETE /api/v1/users/:id
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	deleterID, err := getUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	userID, err := parseUUID(c, "id", "user")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.userService.DeleteUser(c.UserContext(), userID, deleterID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}
