package handler

import (
	"strconv"

	"lubricentro-ws/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetStockMovement returns daily entrada/salida totals for charts
// Query params: days (default 7)
func (h *DashboardHandler) GetStockMovement(c *fiber.Ctx) error {
	daysStr := c.Query("days", "7")
	days, err := strconv.Atoi(daysStr)
	if err != nil || days <= 0 {
		days = 7
	}

	data, err := h.service.GetStockMovement(c.UserContext(), days)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"period": days,
		"data":   data,
	})
}

// GetDashboardStats returns overview statistics
func (h *DashboardHandler) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := h.service.GetDashboardStats(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

// GetLowStock lists items at or under the low stock limit
func (h *DashboardHandler) GetLowStock(c *fiber.Ctx) error {
	alerts, err := h.service.GetLowStock(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(alerts)
}
