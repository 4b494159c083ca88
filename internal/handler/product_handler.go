package handler

import (
	"lubricentro-ws/internal/model"
	"lubricentro-ws/internal/repository"
	"lubricentro-ws/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	service service.CatalogService
}

func NewProductHandler(s service.CatalogService) *ProductHandler {
	return &ProductHandler{service: s}
}

// GetProducts lists products, optionally by ?category= and ?search=
// GET /api/v1/products
func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.service.ListProducts(c.UserContext(), repository.ProductFilter{
		Category: model.ProductCategory(c.Query("category")),
		Search:   c.Query("search"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// GET /api/v1/products/:id
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id", "product")
	if err != nil {
		return respondError(c, err)
	}
	product, err := h.service.GetProduct(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// CreateProduct books the initial stock, if any, as an entrada.
// POST /api/v1/products
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req service.ProductInput
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	product, err := h.service.CreateProduct(c.UserContext(), &req, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Product created", "data": product})
}

// UpdateProduct changes catalogue fields; stock only moves through movements and orders.
// PUT /api/v1/products/:id
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseUUID(c, "id", "product")
	if err != nil {
		return respondError(c, err)
	}
	var req service.ProductInput
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	product, err := h.service.UpdateProduct(c.UserContext(), id, &req, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": product})
}

// DELETE /api/v1/products/:id
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseUUID(c, "id", "product")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.service.DeleteProduct(c.UserContext(), id, userID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}
