package handler

import (
	"lubricentro-ws/internal/service"

	"github.com/gofiber/fiber/v2"
)

// VehicleHandler serves the vehicle compatibility table (filters and batteries per model).
type VehicleHandler struct {
	service service.VehicleService
}

func NewVehicleHandler(s service.VehicleService) *VehicleHandler {
	return &VehicleHandler{service: s}
}

func (h *VehicleHandler) GetVehicles(c *fiber.Ctx) error {
	vehicles, err := h.service.List(c.UserContext(), c.Query("brand"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(vehicles)
}

func (h *VehicleHandler) GetVehicle(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id", "vehicle")
	if err != nil {
		return respondError(c, err)
	}
	vehicle, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(vehicle)
}

func (h *VehicleHandler) CreateVehicle(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req service.VehicleInput
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	vehicle, err := h.service.Create(c.UserContext(), &req, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Vehicle created", "data": vehicle})
}

func (h *VehicleHandler) UpdateVehicle(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseUUID(c, "id", "vehicle")
	if err != nil {
		return respondError(c, err)
	}
	var req service.VehicleInput
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	vehicle, err := h.service.Update(c.UserContext(), id, &req, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Vehicle updated", "data": vehicle})
}

func (h *VehicleHandler) DeleteVehicle(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseUUID(c, "id", "vehicle")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.service.Delete(c.UserContext(), id, userID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Vehicle deleted"})
}
