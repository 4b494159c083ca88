package service

import (
	"context"
	"errors"
	"fmt"

	"lubricentro-ws/internal/model"
	"lubricentro-ws/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// MovementInput describes one stock change.
type MovementInput struct {
	Item     model.ItemRef
	Kind     model.MovementKind
	Quantity int
	Note     string
	UserID   string
	OrderID  *uuid.UUID
}

func (in MovementInput) validate() error {
	switch {
	case in.Quantity <= 0:
		return invalidField("quantity", "gt=0", "quantity must be a positive integer")
	case !in.Kind.Valid():
		return invalidField("kind", "enum", fmt.Sprintf("invalid movement kind %q", in.Kind))
	case !in.Item.Type.Valid():
		return invalidField("item_type", "enum", "invalid item type")
	case in.Item.ID == uuid.Nil:
		return invalidField("item_id", "required", "item id is required")
	}
	return requireActor(in.UserID)
}

// LedgerService books stock movements. It is the only writer of item stock.
type LedgerService interface {
	// RegisterMovement runs in its own transaction and announces the movement once committed.
	RegisterMovement(ctx context.Context, in MovementInput) (*model.StockMovement, error)
	// RegisterMovementTx joins the caller's transaction and never commits it.
	// The caller announces the returned movement after its own commit.
	RegisterMovementTx(tx *gorm.DB, in MovementInput) (*model.StockMovement, error)
	Announce(movements ...*model.StockMovement)

	ListMovements(ctx context.Context, f repository.MovementFilter) ([]model.StockMovement, error)
	ListMovementsForItem(ctx context.Context, ref model.ItemRef) ([]model.StockMovement, error)
	ListMovementsForProduct(ctx context.Context, productID uuid.UUID) ([]model.StockMovement, error)
	ListMovementsForOrder(ctx context.Context, orderID uuid.UUID) ([]model.StockMovement, error)
}

type ledgerService struct {
	db           *gorm.DB
	itemRepo     repository.ItemRepository
	movementRepo repository.MovementRepository
	notifier     Notifier
	log          zerolog.Logger
}

func NewLedgerService(db *gorm.DB, itemRepo repository.ItemRepository, movementRepo repository.MovementRepository, notifier Notifier, log zerolog.Logger) LedgerService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &ledgerService{
		db:           db,
		itemRepo:     itemRepo,
		movementRepo: movementRepo,
		notifier:     notifier,
		log:          log.With().Str("component", "ledger").Logger(),
	}
}

func (s *ledgerService) RegisterMovement(ctx context.Context, in MovementInput) (*model.StockMovement, error) {
	var movement *model.StockMovement
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		movement, err = s.RegisterMovementTx(tx, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.Announce(movement)
	return movement, nil
}

func (s *ledgerService) RegisterMovementTx(tx *gorm.DB, in MovementInput) (*model.StockMovement, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	item, err := s.itemRepo.FindForUpdate(tx, in.Item)
	if err != nil {
		return nil, notFound(err, in.Item.Type.Label())
	}

	before := item.CurrentStock()
	after := before + in.Quantity
	if in.Kind == model.MovementOut {
		if in.Quantity > before {
			return nil, &InsufficientStockError{
				Item:      in.Item,
				Name:      item.Summary().Name,
				Available: before,
				Requested: in.Quantity,
			}
		}
		after = before - in.Quantity
	}

	movement := &model.StockMovement{
		ItemID:      in.Item.ID,
		ItemType:    in.Item.Type,
		Kind:        in.Kind,
		Quantity:    in.Quantity,
		StockBefore: before,
		StockAfter:  after,
		Note:        in.Note,
		OrderID:     in.OrderID,
		UserID:      in.UserID,
	}
	if err := s.movementRepo.Create(tx, movement); err != nil {
		return nil, fmt.Errorf("insert movement: %w", err)
	}
	if err := s.itemRepo.UpdateStock(tx, in.Item, after, in.UserID); err != nil {
		return nil, fmt.Errorf("update stock of %s: %w", in.Item, err)
	}

	summary := item.Summary()
	summary.Stock = after
	movement.Item = &summary

	s.log.Debug().
		Str("item", in.Item.String()).
		Str("kind", string(in.Kind)).
		Int("quantity", in.Quantity).
		Int("stock_after", after).
		Msg("movement booked")
	return movement, nil
}

func (s *ledgerService) Announce(movements ...*model.StockMovement) {
	for _, m := range movements {
		if m != nil {
			s.notifier.Publish(newStockEvent(m))
		}
	}
}

func (s *ledgerService) ListMovements(ctx context.Context, f repository.MovementFilter) ([]model.StockMovement, error) {
	movements, err := s.movementRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	return s.withSummaries(ctx, movements)
}

func (s *ledgerService) ListMovementsForItem(ctx context.Context, ref model.ItemRef) ([]model.StockMovement, error) {
	if !ref.Type.Valid() {
		return nil, invalidField("item_type", "enum", "invalid item type")
	}
	if _, err := s.itemRepo.Find(ctx, ref); err != nil {
		return nil, notFound(err, ref.Type.Label())
	}
	movements, err := s.movementRepo.FindByItem(ctx, ref)
	if err != nil {
		return nil, err
	}
	return s.withSummaries(ctx, movements)
}

func (s *ledgerService) ListMovementsForProduct(ctx context.Context, productID uuid.UUID) ([]model.StockMovement, error) {
	if _, err := s.itemRepo.Find(ctx, model.ProductRef(productID)); err != nil {
		return nil, notFound(err, model.ItemProduct.Label())
	}
	movements, err := s.movementRepo.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return s.withSummaries(ctx, movements)
}

func (s *ledgerService) ListMovementsForOrder(ctx context.Context, orderID uuid.UUID) ([]model.StockMovement, error) {
	movements, err := s.movementRepo.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.withSummaries(ctx, movements)
}

// withSummaries joins each movement with the display fields of its item.
func (s *ledgerService) withSummaries(ctx context.Context, movements []model.StockMovement) ([]model.StockMovement, error) {
	if len(movements) == 0 {
		return movements, nil
	}
	refs := make([]model.ItemRef, 0, len(movements))
	for i := range movements {
		refs = append(refs, movements[i].Ref())
	}
	summaries, err := s.itemRepo.Summaries(ctx, refs)
	if err != nil {
		return nil, fmt.Errorf("resolve movement items: %w", err)
	}
	for i := range movements {
		if sum, ok := summaries[movements[i].Ref()]; ok {
			sum := sum
			movements[i].Item = &sum
		}
	}
	return movements, nil
}

// IsInsufficientStock reports whether err carries an InsufficientStockError.
func IsInsufficientStock(err error) bool {
	var e *InsufficientStockError
	return errors.As(err, &e)
}
