package middleware

import (
	"strings"

	"lubricentro-ws/internal/repository"
	"lubricentro-ws/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// RequireAuth is middleware that validates JWT token and sets user info in context
func RequireAuth(userRepo repository.UserRepository, tokens *jwt.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Get Authorization header
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		claims, err := tokens.Validate(parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		// Check strict session against DB
		user, err := userRepo.FindByID(c.UserContext(), claims.UserID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
		}
		if !user.IsActive {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User account is inactive"})
		}
		if user.TokenVersion != claims.TokenVersion {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Session expired (logged in on another device)"})
		}

		// Privileges come from the database so grants and revocations apply without a new login
		c.Locals("user_id", claims.UserID.String())
		c.Locals("user_email", user.Email)
		c.Locals("user_name", user.FullName)
		c.Locals("user_privileges", user.PrivilegeCodes())

		return c.Next()
	}
}

// RequirePrivilege checks if the authenticated user has the required privilege
func RequirePrivilege(requiredPrivilege string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		privileges, ok := c.Locals("user_privileges").([]string)
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "No privileges found"})
		}

		for _, p := range privileges {
			if p == requiredPrivilege {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Forbidden: requires '" + requiredPrivilege + "' privilege",
		})
	}
}

// RequireAnyPrivilege checks if the user has at least one of the specified privileges
func RequireAnyPrivilege(requiredPrivileges ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		privileges, ok := c.Locals("user_privileges").([]string)
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "No privileges found"})
		}

		for _, userPriv := range privileges {
			for _, reqPriv := range requiredPrivileges {
				if userPriv == reqPriv {
					return c.Next()
				}
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Forbidden: requires one of " + strings.Join(requiredPrivileges, ", ") + " privileges",
		})
	}
}
