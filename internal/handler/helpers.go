package handler

import (
	"errors"
	"strings"
	"time"

	"lubricentro-ws/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// getUserID returns the authenticated user set by RequireAuth.
func getUserID(c *fiber.Ctx) (string, error) {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	return userID, nil
}

func parseUUID(c *fiber.Ctx, param, resource string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid "+resource+" ID")
	}
	return id, nil
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid JSON")
	}
	return nil
}

// validateBody parses and validates a request struct owned by the handler.
func validateBody(c *fiber.Ctx, out interface{}) error {
	if err := parseBody(c, out); err != nil {
		return err
	}
	return service.ValidateInput(out)
}

// queryDate parses an optional YYYY-MM-DD query parameter.
func queryDate(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return nil, &service.ValidationError{
			Message: key + " must be a date in YYYY-MM-DD format",
			Fields:  map[string]string{key: "datetime=2006-01-02"},
		}
	}
	return &t, nil
}

// respondError maps service errors to HTTP responses. Anything unrecognised is
// logged and answered with a generic 500.
func respondError(c *fiber.Ctx, err error) error {
	var (
		validation   *service.ValidationError
		notFound     *service.NotFoundError
		insufficient *service.InsufficientStockError
		conflict     *service.ConflictError
		fiberErr     *fiber.Error
	)
	switch {
	case errors.As(err, &validation):
		body := fiber.Map{"error": validation.Message}
		if len(validation.Fields) > 0 {
			body["fields"] = validation.Fields
		}
		return c.Status(fiber.StatusBadRequest).JSON(body)
	case errors.As(err, &notFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": notFound.Error()})
	case errors.As(err, &insufficient):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":     insufficient.Error(),
			"available": insufficient.Available,
			"requested": insufficient.Requested,
			"shortfall": insufficient.Shortfall(),
		})
	case errors.As(err, &conflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": conflict.Error()})
	case errors.Is(err, service.ErrWrongPassword):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case service.IsAuthError(err):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &fiberErr):
		return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
	}

	log.Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg("request failed")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
}

// ErrorHandler is installed as fiber's error handler so errors returned by
// handlers and middleware get the same JSON shape.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return respondError(c, err)
}
