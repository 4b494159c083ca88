package service

import (
	"context"
	"testing"

	"lubricentro-ws/internal/model"
	"lubricentro-ws/internal/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productInput(code string, stock int) *ProductInput {
	return &ProductInput{
		Code:        code,
		Name:        "Aceite sintético",
		Price:       decimal.RequireFromString("15499.90"),
		Stock:       stock,
		Brand:       "Elaion",
		Category:    model.CategoryOil,
		Subcategory: model.ClassCar,
	}
}

func TestCreateProductBooksInitialStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.catalog.CreateProduct(ctx, productInput("ELA-5W30", 12), clerk)
	require.NoError(t, err)
	assert.Equal(t, 12, p.Stock)

	ms := testutil.Movements(t, f.db, p.Ref())
	require.Len(t, ms, 1)
	assert.Equal(t, model.MovementIn, ms[0].Kind)
	assert.Equal(t, 0, ms[0].StockBefore)
	assert.Equal(t, 12, ms[0].StockAfter)
	assert.Equal(t, "Initial stock", ms[0].Note)
	assert.Len(t, f.notifier.stockEvents(), 1)

	empty, err := f.catalog.CreateProduct(ctx, productInput("ELA-0W20", 0), clerk)
	require.NoError(t, err)
	assert.Empty(t, testutil.Movements(t, f.db, empty.Ref()))
}

func TestUpdateProductLeavesStockAlone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, err := f.catalog.CreateProduct(ctx, productInput("ELA-10W40", 5), clerk)
	require.NoError(t, err)

	in := productInput("ELA-10W40", 999)
	in.Name = "Aceite semisintético"
	updated, err := f.catalog.UpdateProduct(ctx, p.ID, in, clerk)
	require.NoError(t, err)
	assert.Equal(t, "Aceite semisintético", updated.Name)
	assert.Equal(t, 5, updated.Stock)
	assert.Equal(t, 5, testutil.Stock(t, f.db, p.Ref()))
	assert.Len(t, testutil.Movements(t, f.db, p.Ref()), 1)
}

func TestCreateProductRejectsDuplicatesAndBadInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.catalog.CreateProduct(ctx, productInput("DUP-1", 3), clerk)
	require.NoError(t, err)

	_, err = f.catalog.CreateProduct(ctx, productInput("DUP-1", 3), clerk)
	var conflict *ConflictError
	assert.ErrorAs(t, err, &conflict)

	bad := productInput("BAD-1", 1)
	bad.Category = "neumatico"
	_, err = f.catalog.CreateProduct(ctx, bad, clerk)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "category")

	negative := productInput("BAD-2", 1)
	negative.Price = decimal.NewFromInt(-1)
	_, err = f.catalog.CreateProduct(ctx, negative, clerk)
	assert.ErrorAs(t, err, &verr)
}

func TestDeleteItemWithHoldingOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s, err := f.catalog.CreateSubProduct(ctx, &SubProductInput{
		Code: "LIMP-20", Name: "Shampoo", Price: decimal.NewFromInt(3200), Stock: 4,
		Category: model.CategoryCleaning,
	}, clerk)
	require.NoError(t, err)

	order, err := f.orders.CreateOrder(ctx, &CreateOrderInput{Comment: "lavadero", SubProductID: &s.ID, Quantity: 1}, clerk)
	require.NoError(t, err)

	err = f.catalog.DeleteSubProduct(ctx, s.ID, clerk)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)

	_, err = f.orders.UpdateOrderStatus(ctx, order.ID, model.OrderCancelled, clerk)
	require.NoError(t, err)
	require.NoError(t, f.catalog.DeleteSubProduct(ctx, s.ID, clerk))

	_, err = f.catalog.GetSubProduct(ctx, s.ID)
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)

	// history still resolves the deleted item
	got, err := f.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, got.SubProduct)
	assert.Equal(t, "LIMP-20", got.SubProduct.Code)
}

func TestDeleteUnknownItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := testutil.SeedProduct(t, f.db, "ACE-TWICE", 0)
	require.NoError(t, f.catalog.DeleteProduct(ctx, p.ID, clerk))

	var nf *NotFoundError
	require.ErrorAs(t, f.catalog.DeleteProduct(ctx, p.ID, clerk), &nf)
	assert.Equal(t, "product", nf.Resource)
	require.ErrorAs(t, f.catalog.DeleteSubProduct(ctx, uuid.New(), clerk), &nf)
	assert.Equal(t, "subproduct", nf.Resource)
}
