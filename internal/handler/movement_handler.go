package handler

import (
	"fmt"
	"time"

	"lubricentro-ws/internal/model"
	"lubricentro-ws/internal/report"
	"lubricentro-ws/internal/repository"
	"lubricentro-ws/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type MovementHandler struct {
	ledger service.LedgerService
}

func NewMovementHandler(ledger service.LedgerService) *MovementHandler {
	return &MovementHandler{ledger: ledger}
}

// CreateMovementRequest is a manual stock adjustment made at the counter.
type CreateMovementRequest struct {
	ItemID   uuid.UUID          `json:"item_id" validate:"uuid_required"`
	ItemType string             `json:"item_type" validate:"required"`
	Kind     model.MovementKind `json:"kind" validate:"required,enum"`
	Quantity int                `json:"quantity" validate:"required,min=1,max=9999"`
	Note     string             `json:"note" validate:"max=500"`
}

// CreateMovement registers an entrada or salida.
// POST /api/v1/movements
func (h *MovementHandler) CreateMovement(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req CreateMovementRequest
	if err := validateBody(c, &req); err != nil {
		return respondError(c, err)
	}
	itemType, err := model.ParseItemType(req.ItemType)
	if err != nil {
		return respondError(c, &service.ValidationError{
			Message: err.Error(),
			Fields:  map[string]string{"item_type": "enum"},
		})
	}

	movement, err := h.ledger.RegisterMovement(c.UserContext(), service.MovementInput{
		Item:     model.ItemRef{ID: req.ItemID, Type: itemType},
		Kind:     req.Kind,
		Quantity: req.Quantity,
		Note:     req.Note,
		UserID:   userID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Movement registered", "data": movement})
}

func movementFilter(c *fiber.Ctx) (repository.MovementFilter, error) {
	var f repository.MovementFilter
	if kind := model.MovementKind(c.Query("kind")); kind != "" {
		if !kind.Valid() {
			return f, &service.ValidationError{Message: "invalid movement kind", Fields: map[string]string{"kind": "enum"}}
		}
		f.Kind = kind
	}
	if raw := c.Query("item_type"); raw != "" {
		t, err := model.ParseItemType(raw)
		if err != nil {
			return f, &service.ValidationError{Message: err.Error(), Fields: map[string]string{"item_type": "enum"}}
		}
		f.ItemType = t
	}
	from, err := queryDate(c, "from")
	if err != nil {
		return f, err
	}
	to, err := queryDate(c, "to")
	if err != nil {
		return f, err
	}
	f.From = from
	if to != nil {
		// "to" is inclusive of the whole day
		end := to.AddDate(0, 0, 1)
		f.To = &end
	}
	return f, nil
}

// GetMovements lists the movement log, newest first.
// GET /api/v1/movements?kind=&item_type=&from=&to=
func (h *MovementHandler) GetMovements(c *fiber.Ctx) error {
	f, err := movementFilter(c)
	if err != nil {
		return respondError(c, err)
	}
	movements, err := h.ledger.ListMovements(c.UserContext(), f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(movements)
}

// GET /api/v1/movements/product/:productId
func (h *MovementHandler) GetProductMovements(c *fiber.Ctx) error {
	id, err := parseUUID(c, "productId", "product")
	if err != nil {
		return respondError(c, err)
	}
	movements, err := h.ledger.ListMovementsForProduct(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(movements)
}

// GET /api/v1/movements/item/:itemType/:itemId
func (h *MovementHandler) GetItemMovements(c *fiber.Ctx) error {
	itemType, err := model.ParseItemType(c.Params("itemType"))
	if err != nil {
		return respondError(c, fiber.NewError(fiber.StatusBadRequest, err.Error()))
	}
	id, err := parseUUID(c, "itemId", itemType.Label())
	if err != nil {
		return respondError(c, err)
	}
	movements, err := h.ledger.ListMovementsForItem(c.UserContext(), model.ItemRef{ID: id, Type: itemType})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(movements)
}

// GET /api/v1/orders/:id/movements
func (h *MovementHandler) GetOrderMovements(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id", "order")
	if err != nil {
		return respondError(c, err)
	}
	movements, err := h.ledger.ListMovementsForOrder(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(movements)
}

// ExportMovements streams the filtered movement log as a spreadsheet.
// GET /api/v1/movements/export
func (h *MovementHandler) ExportMovements(c *fiber.Ctx) error {
	f, err := movementFilter(c)
	if err != nil {
		return respondError(c, err)
	}
	movements, err := h.ledger.ListMovements(c.UserContext(), f)
	if err != nil {
		return respondError(c, err)
	}

	c.Set(fiber.HeaderContentType, report.ContentTypeXLSX)
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="movimientos-%s.xlsx"`, time.Now().Format("20060102")))
	if err := report.WriteMovements(c.Response().BodyWriter(), movements); err != nil {
		return respondError(c, err)
	}
	return nil
}
