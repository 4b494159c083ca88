package service

import (
	"context"

	"lubricentro-ws/internal/model"
	"lubricentro-ws/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type CreateOrderInput struct {
	Comment      string            `json:"comment" validate:"required,min=1,max=255"`
	ProductID    *uuid.UUID        `json:"product_id"`
	SubProductID *uuid.UUID        `json:"subproduct_id"`
	Quantity     int               `json:"quantity" validate:"required,min=1"`
	Status       model.OrderStatus `json:"status" validate:"omitempty,oneof=en_proceso vendido"`
}

// UpdateOrderInput is a patch: nil fields keep their current value.
type UpdateOrderInput struct {
	Comment      *string            `json:"comment" validate:"omitempty,min=1,max=255"`
	ProductID    *uuid.UUID         `json:"product_id"`
	SubProductID *uuid.UUID         `json:"subproduct_id"`
	Quantity     *int               `json:"quantity" validate:"omitempty,min=1"`
	Status       *model.OrderStatus `json:"status" validate:"omitempty,enum"`
}

func (in *UpdateOrderInput) empty() bool {
	return in.Comment == nil && in.ProductID == nil && in.SubProductID == nil && in.Quantity == nil && in.Status == nil
}

// itemFromIDs enforces that exactly one of the two ids is given.
func itemFromIDs(productID, subProductID *uuid.UUID) (model.ItemRef, error) {
	switch {
	case productID != nil && subProductID != nil:
		return model.ItemRef{}, invalidField("product_id", "excluded_with=subproduct_id", "an order references a product or a subproduct, not both")
	case productID != nil && *productID != uuid.Nil:
		return model.ProductRef(*productID), nil
	case subProductID != nil && *subProductID != uuid.Nil:
		return model.SubProductRef(*subProductID), nil
	}
	return model.ItemRef{}, invalidField("product_id", "required_without=subproduct_id", "an order must reference a product or a subproduct")
}

type OrderService interface {
	CreateOrder(ctx context.Context, in *CreateOrderInput, userID string) (*model.Order, error)
	UpdateOrder(ctx context.Context, id uuid.UUID, in *UpdateOrderInput, userID string) (*model.Order, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus, userID string) (*model.Order, error)
	DeleteOrder(ctx context.Context, id uuid.UUID, userID string) error
	ListOrders(ctx context.Context, f repository.OrderFilter) ([]model.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*model.Order, error)
}

type orderService struct {
	db        *gorm.DB
	orderRepo repository.OrderRepository
	itemRepo  repository.ItemRepository
	ledger    LedgerService
	log       zerolog.Logger
}

func NewOrderService(db *gorm.DB, orderRepo repository.OrderRepository, itemRepo repository.ItemRepository, ledger LedgerService, log zerolog.Logger) OrderService {
	return &orderService{
		db:        db,
		orderRepo: orderRepo,
		itemRepo:  itemRepo,
		ledger:    ledger,
		log:       log.With().Str("component", "orders").Logger(),
	}
}

// reason says why an order booked a movement. It prefixes the movement note.
type reason string

const (
	reasonCreated      reason = "Order"
	reasonItemRestored reason = "Order item changed, restored"
	reasonItemTaken    reason = "Order item changed"
	reasonIncreased    reason = "Order quantity increased"
	reasonDecreased    reason = "Order quantity decreased"
	reasonCancelled    reason = "Order cancelled"
	reasonReactivated  reason = "Order reactivated"
	reasonDeleted      reason = "Order deleted"
)

func (r reason) note(comment string) string {
	return string(r) + ": " + comment
}

func (s *orderService) CreateOrder(ctx context.Context, in *CreateOrderInput, userID string) (*model.Order, error) {
	if err := ValidateInput(in); err != nil {
		return nil, err
	}
	ref, err := itemFromIDs(in.ProductID, in.SubProductID)
	if err != nil {
		return nil, err
	}
	if err := requireActor(userID); err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = model.OrderInProgress
	}
	order := &model.Order{
		Comment:  in.Comment,
		Quantity: in.Quantity,
		Status:   status,
		UserID:   userID,
	}
	order.ID = uuid.New()
	order.Stamp(userID)
	order.SetItem(ref)

	var movement *model.StockMovement
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		movement, err = s.ledger.RegisterMovementTx(tx, MovementInput{
			Item:     ref,
			Kind:     model.MovementOut,
			Quantity: in.Quantity,
			Note:     reasonCreated.note(in.Comment),
			UserID:   userID,
			OrderID:  &order.ID,
		})
		if err != nil {
			return err
		}
		return s.orderRepo.Create(tx, order)
	})
	if err != nil {
		return nil, err
	}

	s.ledger.Announce(movement)
	s.log.Info().Str("order", order.ID.String()).Str("item", ref.String()).Int("quantity", order.Quantity).Msg("order created")
	return s.orderRepo.FindByID(ctx, order.ID)
}

// orderState is the part of an order that determines how much stock it holds.
type orderState struct {
	Item     model.ItemRef
	Quantity int
	Status   model.OrderStatus
}

// adjustment is one movement needed to move an order from one state to another.
type adjustment struct {
	Item     model.ItemRef
	Kind     model.MovementKind
	Quantity int
	Reason   reason
}

// reconcile returns the movements that turn the stock held by before into the
// stock held by after. A holding order keeps Quantity of Item out of stock; a
// cancelled order holds nothing. Restores come before deductions.
func reconcile(before, after orderState) []adjustment {
	held, holds := before.Status.Holding(), after.Status.Holding()

	switch {
	case held && holds:
		if before.Item != after.Item {
			return []adjustment{
				{Item: before.Item, Kind: model.MovementIn, Quantity: before.Quantity, Reason: reasonItemRestored},
				{Item: after.Item, Kind: model.MovementOut, Quantity: after.Quantity, Reason: reasonItemTaken},
			}
		}
		switch delta := after.Quantity - before.Quantity; {
		case delta > 0:
			return []adjustment{{Item: after.Item, Kind: model.MovementOut, Quantity: delta, Reason: reasonIncreased}}
		case delta < 0:
			return []adjustment{{Item: after.Item, Kind: model.MovementIn, Quantity: -delta, Reason: reasonDecreased}}
		}
	case held && !holds:
		return []adjustment{{Item: before.Item, Kind: model.MovementIn, Quantity: before.Quantity, Reason: reasonCancelled}}
	case !held && holds:
		return []adjustment{{Item: after.Item, Kind: model.MovementOut, Quantity: after.Quantity, Reason: reasonReactivated}}
	}
	return nil
}

func (s *orderService) UpdateOrder(ctx context.Context, id uuid.UUID, in *UpdateOrderInput, userID string) (*model.Order, error) {
	if err := ValidateInput(in); err != nil {
		return nil, err
	}
	if in.empty() {
		return nil, invalid("nothing to update")
	}
	if in.ProductID != nil && in.SubProductID != nil {
		return nil, invalidField("product_id", "excluded_with=subproduct_id", "an order references a product or a subproduct, not both")
	}
	if err := requireActor(userID); err != nil {
		return nil, err
	}

	var movements []*model.StockMovement
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.FindForUpdate(tx, id)
		if err != nil {
			return notFound(err, "order")
		}

		before := orderState{Item: order.Item(), Quantity: order.Quantity, Status: order.Status}
		after := before
		if in.ProductID != nil {
			after.Item = model.ProductRef(*in.ProductID)
		}
		if in.SubProductID != nil {
			after.Item = model.SubProductRef(*in.SubProductID)
		}
		if in.Quantity != nil {
			after.Quantity = *in.Quantity
		}
		if in.Status != nil {
			after.Status = *in.Status
		}
		if in.Comment != nil {
			order.Comment = *in.Comment
		}
		// a holding order books a salida on its new item, which resolves it; a
		// cancelled one books nothing, so the item is checked here
		if after.Item != before.Item && !after.Status.Holding() {
			if _, err := s.itemRepo.FindForUpdate(tx, after.Item); err != nil {
				return notFound(err, after.Item.Type.Label())
			}
		}

		for _, adj := range reconcile(before, after) {
			m, err := s.ledger.RegisterMovementTx(tx, MovementInput{
				Item:     adj.Item,
				Kind:     adj.Kind,
				Quantity: adj.Quantity,
				Note:     adj.Reason.note(order.Comment),
				UserID:   userID,
				OrderID:  &order.ID,
			})
			if err != nil {
				return err
			}
			movements = append(movements, m)
		}

		order.SetItem(after.Item)
		order.Quantity = after.Quantity
		order.Status = after.Status
		order.UpdatedBy = userID
		return s.orderRepo.Save(tx, order)
	})
	if err != nil {
		return nil, err
	}

	s.ledger.Announce(movements...)
	s.log.Info().Str("order", id.String()).Int("movements", len(movements)).Msg("order updated")
	return s.orderRepo.FindByID(ctx, id)
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus, userID string) (*model.Order, error) {
	if !status.Valid() {
		return nil, invalidField("status", "enum", "invalid order status")
	}
	return s.UpdateOrder(ctx, id, &UpdateOrderInput{Status: &status}, userID)
}

// DeleteOrder returns the held quantity to stock and soft-deletes the order.
// A cancelled order already gave its stock back, so nothing is booked for it.
func (s *orderService) DeleteOrder(ctx context.Context, id uuid.UUID, userID string) error {
	if err := requireActor(userID); err != nil {
		return err
	}

	var movement *model.StockMovement
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.FindForUpdate(tx, id)
		if err != nil {
			return notFound(err, "order")
		}
		if order.Status.Holding() {
			movement, err = s.ledger.RegisterMovementTx(tx, MovementInput{
				Item:     order.Item(),
				Kind:     model.MovementIn,
				Quantity: order.Quantity,
				Note:     reasonDeleted.note(order.Comment),
				UserID:   userID,
				OrderID:  &order.ID,
			})
			if err != nil {
				return err
			}
		}
		return s.orderRepo.Delete(tx, order, userID)
	})
	if err != nil {
		return err
	}

	s.ledger.Announce(movement)
	s.log.Info().Str("order", id.String()).Msg("order deleted")
	return nil
}

func (s *orderService) ListOrders(ctx context.Context, f repository.OrderFilter) ([]model.Order, error) {
	return s.orderRepo.FindAll(ctx, f)
}

func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "order")
	}
	return order, nil
}
