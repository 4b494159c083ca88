package handler

import (
	"lubricentro-ws/internal/model"
	"lubricentro-ws/internal/repository"
	"lubricentro-ws/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SubProductHandler struct {
	service service.CatalogService
}

func NewSubProductHandler(s service.CatalogService) *SubProductHandler {
	return &SubProductHandler{service: s}
}

// GetSubProducts lists subproducts, optionally by ?category= and ?search=
// GET /api/v1/subproducts
func (h *SubProductHandler) GetSubProducts(c *fiber.Ctx) error {
	subProducts, err := h.service.ListSubProducts(c.UserContext(), repository.SubProductFilter{
		Category: model.SubProductCategory(c.Query("category")),
		Search:   c.Query("search"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(subProducts)
}

// GET /api/v1/subproducts/:id
func (h *SubProductHandler) GetSubProduct(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id", "subproduct")
	if err != nil {
		return respondError(c, err)
	}
	subProduct, err := h.service.GetSubProduct(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(subProduct)
}

// CreateSubProduct books the initial stock, if any, as an entrada.
// POST /api/v1/subproducts
func (h *SubProductHandler) CreateSubProduct(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req service.SubProductInput
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	subProduct, err := h.service.CreateSubProduct(c.UserContext(), &req, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Subproduct created", "data": subProduct})
}

// UpdateSubProduct changes catalogue fields; stock only moves through movements and orders.
// PUT /api/v1/subproducts/:id
func (h *SubProductHandler) UpdateSubProduct(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseUUID(c, "id", "subproduct")
	if err != nil {
		return respondError(c, err)
	}
	var req service.SubProductInput
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	subProduct, err := h.service.UpdateSubProduct(c.UserContext(), id, &req, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Subproduct updated", "data": subProduct})
}

// DELETE /api/v1/subproducts/:id
func (h *SubProductHandler) DeleteSubProduct(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseUUID(c, "id", "subproduct")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.service.DeleteSubProduct(c.UserContext(), id, userID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Subproduct deleted"})
}
