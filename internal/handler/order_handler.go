package handler

import (
	"lubricentro-ws/internal/model"
	"lubricentro-ws/internal/repository"
	"lubricentro-ws/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(s service.OrderService) *OrderHandler {
	return &OrderHandler{service: s}
}

// CreateOrder takes the ordered quantity out of stock.
// POST /api/v1/orders
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req service.CreateOrderInput
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	order, err := h.service.CreateOrder(c.UserContext(), &req, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Order created", "data": order})
}

// GetOrders lists orders, optionally by ?status=, ?product_id= or ?subproduct_id=
// GET /api/v1/orders
func (h *OrderHandler) GetOrders(c *fiber.Ctx) error {
	var f repository.OrderFilter
	if status := model.OrderStatus(c.Query("status")); status != "" {
		if !status.Valid() {
			return respondError(c, &service.ValidationError{Message: "invalid order status", Fields: map[string]string{"status": "enum"}})
		}
		f.Status = status
	}
	if raw := c.Query("product_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return respondError(c, fiber.NewError(fiber.StatusBadRequest, "Invalid product_id"))
		}
		ref := model.ProductRef(id)
		f.Item = &ref
	} else if raw := c.Query("subproduct_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return respondError(c, fiber.NewError(fiber.StatusBadRequest, "Invalid subproduct_id"))
		}
		ref := model.SubProductRef(id)
		f.Item = &ref
	}

	orders, err := h.service.ListOrders(c.UserContext(), f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(orders)
}

// GET /api/v1/orders/:id
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id", "order")
	if err != nil {
		return respondError(c, err)
	}
	order, err := h.service.GetOrder(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

// UpdateOrder patches an order and books whatever movements keep stock in line with it.
// PUT /api/v1/orders/:id
func (h *OrderHandler) UpdateOrder(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseUUID(c, "id", "order")
	if err != nil {
		return respondError(c, err)
	}
	var req service.UpdateOrderInput
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	order, err := h.service.UpdateOrder(c.UserContext(), id, &req, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Order updated", "data": order})
}

type UpdateOrderStatusRequest struct {
	Status model.OrderStatus `json:"status" validate:"required,enum"`
}

// PATCH /api/v1/orders/:id/status
func (h *OrderHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseUUID(c, "id", "order")
	if err != nil {
		return respondError(c, err)
	}
	var req UpdateOrderStatusRequest
	if err := validateBody(c, &req); err != nil {
		return respondError(c, err)
	}

	order, err := h.service.UpdateOrderStatus(c.UserContext(), id, req.Status, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Order status updated", "data": order})
}

// DeleteOrder returns held stock and removes the order.
// DELETE /api/v1/orders/:id
func (h *OrderHandler) DeleteOrder(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseUUID(c, "id", "order")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.service.DeleteOrder(c.UserContext(), id, userID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Order deleted"})
}
