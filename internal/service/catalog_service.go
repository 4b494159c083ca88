package service

import (
	"context"
	"errors"
	"fmt"

	"lubricentro-ws/internal/model"
	"lubricentro-ws/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const initialStockNote = "Initial stock"

// ProductInput is the body of product create and update. Stock is only read on
// create, where it is booked as an entrada; updates never change stock.
type ProductInput struct {
	Code        string                `json:"code" validate:"required,max=50"`
	Name        string                `json:"name" validate:"required,max=255"`
	Description string                `json:"description"`
	Price       decimal.Decimal       `json:"price"`
	Stock       int                   `json:"stock" validate:"min=0"`
	Brand       string                `json:"brand" validate:"max=100"`
	Category    model.ProductCategory `json:"category" validate:"required,enum"`
	Subcategory model.VehicleClass    `json:"subcategory" validate:"required,enum"`
}

type SubProductInput struct {
	Code        string                   `json:"code" validate:"required,max=50"`
	Name        string                   `json:"name" validate:"required,max=255"`
	Description string                   `json:"description"`
	Price       decimal.Decimal          `json:"price"`
	Stock       int                      `json:"stock" validate:"min=0"`
	Brand       string                   `json:"brand" validate:"max=100"`
	Category    model.SubProductCategory `json:"category" validate:"required,enum"`
}

func checkPrice(p decimal.Decimal) error {
	if p.IsNegative() {
		return invalidField("price", "gte=0", "price must not be negative")
	}
	return nil
}

type CatalogService interface {
	CreateProduct(ctx context.Context, in *ProductInput, userID string) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, in *ProductInput, userID string) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID, userID string) error
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
	ListProducts(ctx context.Context, f repository.ProductFilter) ([]model.Product, error)

	CreateSubProduct(ctx context.Context, in *SubProductInput, userID string) (*model.SubProduct, error)
	UpdateSubProduct(ctx context.Context, id uuid.UUID, in *SubProductInput, userID string) (*model.SubProduct, error)
	DeleteSubProduct(ctx context.Context, id uuid.UUID, userID string) error
	GetSubProduct(ctx context.Context, id uuid.UUID) (*model.SubProduct, error)
	ListSubProducts(ctx context.Context, f repository.SubProductFilter) ([]model.SubProduct, error)
}

type catalogService struct {
	db             *gorm.DB
	productRepo    repository.ProductRepository
	subProductRepo repository.SubProductRepository
	itemRepo       repository.ItemRepository
	orderRepo      repository.OrderRepository
	ledger         LedgerService
}

func NewCatalogService(db *gorm.DB, productRepo repository.ProductRepository, subProductRepo repository.SubProductRepository, itemRepo repository.ItemRepository, orderRepo repository.OrderRepository, ledger LedgerService) CatalogService {
	return &catalogService{
		db:             db,
		productRepo:    productRepo,
		subProductRepo: subProductRepo,
		itemRepo:       itemRepo,
		orderRepo:      orderRepo,
		ledger:         ledger,
	}
}

func duplicateCode(kind string) *ConflictError {
	return &ConflictError{Message: kind + " code already exists"}
}

// createStocked inserts row and books its opening stock in one transaction.
func (s *catalogService) createStocked(ctx context.Context, insert func(tx *gorm.DB) error, ref func() model.ItemRef, stock int, userID, kind string) (*model.StockMovement, error) {
	var movement *model.StockMovement
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := insert(tx); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return duplicateCode(kind)
			}
			return fmt.Errorf("insert %s: %w", kind, err)
		}
		if stock == 0 {
			return nil
		}
		var err error
		movement, err = s.ledger.RegisterMovementTx(tx, MovementInput{
			Item:     ref(),
			Kind:     model.MovementIn,
			Quantity: stock,
			Note:     initialStockNote,
			UserID:   userID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	s.ledger.Announce(movement)
	return movement, nil
}

func (s *catalogService) CreateProduct(ctx context.Context, in *ProductInput, userID string) (*model.Product, error) {
	if err := ValidateInput(in); err != nil {
		return nil, err
	}
	if err := checkPrice(in.Price); err != nil {
		return nil, err
	}
	if err := requireActor(userID); err != nil {
		return nil, err
	}
	if existing, err := s.productRepo.FindByCode(ctx, in.Code); err == nil && existing != nil {
		return nil, duplicateCode("product")
	}

	p := &model.Product{
		Code:        in.Code,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Brand:       in.Brand,
		Category:    in.Category,
		Subcategory: in.Subcategory,
	}
	p.Stamp(userID)

	movement, err := s.createStocked(ctx,
		func(tx *gorm.DB) error { return s.productRepo.Create(tx, p) },
		p.Ref, in.Stock, userID, "product")
	if err != nil {
		return nil, err
	}
	if movement != nil {
		p.Stock = movement.StockAfter
	}
	return p, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, in *ProductInput, userID string) (*model.Product, error) {
	if err := ValidateInput(in); err != nil {
		return nil, err
	}
	if err := checkPrice(in.Price); err != nil {
		return nil, err
	}
	p, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "product")
	}
	if in.Code != p.Code {
		if existing, err := s.productRepo.FindByCode(ctx, in.Code); err == nil && existing != nil {
			return nil, duplicateCode("product")
		}
	}

	p.Code = in.Code
	p.Name = in.Name
	p.Description = in.Description
	p.Price = in.Price
	p.Brand = in.Brand
	p.Category = in.Category
	p.Subcategory = in.Subcategory
	p.UpdatedBy = userID
	if err := s.productRepo.Update(ctx, p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, duplicateCode("product")
		}
		return nil, err
	}
	return s.productRepo.FindByID(ctx, id)
}

// deleteItem soft-deletes ref unless an open order still holds it. The item row
// stays locked from the check to the delete; order writes lock the same row.
func (s *catalogService) deleteItem(ctx context.Context, ref model.ItemRef, remove func(tx *gorm.DB, item model.Item) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := s.itemRepo.FindForUpdate(tx, ref)
		if err != nil {
			return notFound(err, ref.Type.Label())
		}
		n, err := s.orderRepo.CountHolding(tx, ref)
		if err != nil {
			return err
		}
		if n > 0 {
			return &ConflictError{Message: fmt.Sprintf("%s is referenced by %d open order(s)", ref.Type.Label(), n)}
		}
		return remove(tx, item)
	})
}

func (s *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID, userID string) error {
	return s.deleteItem(ctx, model.ProductRef(id), func(tx *gorm.DB, item model.Item) error {
		return s.productRepo.Delete(tx, item.(*model.Product), userID)
	})
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	p, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "product")
	}
	return p, nil
}

func (s *catalogService) ListProducts(ctx context.Context, f repository.ProductFilter) ([]model.Product, error) {
	return s.productRepo.FindAll(ctx, f)
}

func (s *catalogService) CreateSubProduct(ctx context.Context, in *SubProductInput, userID string) (*model.SubProduct, error) {
	if err := ValidateInput(in); err != nil {
		return nil, err
	}
	if err := checkPrice(in.Price); err != nil {
		return nil, err
	}
	if err := requireActor(userID); err != nil {
		return nil, err
	}
	if existing, err := s.subProductRepo.FindByCode(ctx, in.Code); err == nil && existing != nil {
		return nil, duplicateCode("subproduct")
	}

	p := &model.SubProduct{
		Code:        in.Code,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Brand:       in.Brand,
		Category:    in.Category,
	}
	p.Stamp(userID)

	movement, err := s.createStocked(ctx,
		func(tx *gorm.DB) error { return s.subProductRepo.Create(tx, p) },
		p.Ref, in.Stock, userID, "subproduct")
	if err != nil {
		return nil, err
	}
	if movement != nil {
		p.Stock = movement.StockAfter
	}
	return p, nil
}

func (s *catalogService) UpdateSubProduct(ctx context.Context, id uuid.UUID, in *SubProductInput, userID string) (*model.SubProduct, error) {
	if err := ValidateInput(in); err != nil {
		return nil, err
	}
	if err := checkPrice(in.Price); err != nil {
		return nil, err
	}
	p, err := s.subProductRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "subproduct")
	}
	if in.Code != p.Code {
		if existing, err := s.subProductRepo.FindByCode(ctx, in.Code); err == nil && existing != nil {
			return nil, duplicateCode("subproduct")
		}
	}

	p.Code = in.Code
	p.Name = in.Name
	p.Description = in.Description
	p.Price = in.Price
	p.Brand = in.Brand
	p.Category = in.Category
	p.UpdatedBy = userID
	if err := s.subProductRepo.Update(ctx, p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, duplicateCode("subproduct")
		}
		return nil, err
	}
	return s.subProductRepo.FindByID(ctx, id)
}

func (s *catalogService) DeleteSubProduct(ctx context.Context, id uuid.UUID, userID string) error {
	return s.deleteItem(ctx, model.SubProductRef(id), func(tx *gorm.DB, item model.Item) error {
		return s.subProductRepo.Delete(tx, item.(*model.SubProduct), userID)
	})
}

func (s *catalogService) GetSubProduct(ctx context.Context, id uuid.UUID) (*model.SubProduct, error) {
	p, err := s.subProductRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "subproduct")
	}
	return p, nil
}

func (s *catalogService) ListSubProducts(ctx context.Context, f repository.SubProductFilter) ([]model.SubProduct, error) {
	return s.subProductRepo.FindAll(ctx, f)
}
