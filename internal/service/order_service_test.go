package service

import (
	"context"
	"testing"

	"lubricentro-ws/internal/model"
	"lubricentro-ws/internal/repository"
	"lubricentro-ws/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func orderFor(id uuid.UUID, q int) *CreateOrderInput {
	return &CreateOrderInput{Comment: "cliente mostrador", ProductID: &id, Quantity: q}
}

func TestOrderLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := testutil.SeedProduct(t, f.db, "ACE-5W40", 10)

	// A: creating an order takes its quantity out of stock
	order, err := f.orders.CreateOrder(ctx, orderFor(p.ID, 3), clerk)
	require.NoError(t, err)
	assert.Equal(t, model.OrderInProgress, order.Status)
	assert.Equal(t, 7, testutil.Stock(t, f.db, p.Ref()))
	ms := testutil.Movements(t, f.db, p.Ref())
	require.Len(t, ms, 1)
	assert.Equal(t, model.MovementOut, ms[0].Kind)
	assert.Equal(t, 3, ms[0].Quantity)
	require.NotNil(t, ms[0].OrderID)
	assert.Equal(t, order.ID, *ms[0].OrderID)
	assert.Equal(t, "Order: cliente mostrador", ms[0].Note)

	// B: raising the quantity books only the delta
	order, err = f.orders.UpdateOrder(ctx, order.ID, &UpdateOrderInput{Quantity: ptr(5)}, clerk)
	require.NoError(t, err)
	assert.Equal(t, 5, order.Quantity)
	assert.Equal(t, 5, testutil.Stock(t, f.db, p.Ref()))
	ms = testutil.Movements(t, f.db, p.Ref())
	require.Len(t, ms, 2)
	assert.Equal(t, 2, ms[1].Quantity)
	assert.Equal(t, "Order quantity increased: cliente mostrador", ms[1].Note)

	// C: cancelling returns everything held
	order, err = f.orders.UpdateOrderStatus(ctx, order.ID, model.OrderCancelled, clerk)
	require.NoError(t, err)
	assert.Equal(t, model.OrderCancelled, order.Status)
	assert.Equal(t, 10, testutil.Stock(t, f.db, p.Ref()))
	ms = testutil.Movements(t, f.db, p.Ref())
	require.Len(t, ms, 3)
	assert.Equal(t, model.MovementIn, ms[2].Kind)
	assert.Equal(t, 5, ms[2].Quantity)
	assert.Equal(t, "Order cancelled: cliente mostrador", ms[2].Note)

	// D: reviving takes the quantity again
	order, err = f.orders.UpdateOrderStatus(ctx, order.ID, model.OrderInProgress, clerk)
	require.NoError(t, err)
	assert.Equal(t, model.OrderInProgress, order.Status)
	assert.Equal(t, 5, testutil.Stock(t, f.db, p.Ref()))
	ms = testutil.Movements(t, f.db, p.Ref())
	require.Len(t, ms, 4)
	assert.Equal(t, "Order reactivated: cliente mostrador", ms[3].Note)

	byOrder, err := f.ledger.ListMovementsForOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, byOrder, 4)
}

func TestReviveCancelledOrderWithoutStockFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := testutil.SeedProduct(t, f.db, "BAT-75", 10)

	order, err := f.orders.CreateOrder(ctx, orderFor(p.ID, 5), clerk)
	require.NoError(t, err)
	_, err = f.orders.UpdateOrderStatus(ctx, order.ID, model.OrderCancelled, clerk)
	require.NoError(t, err)

	// another sale drains stock while the first order is cancelled
	_, err = f.orders.CreateOrder(ctx, orderFor(p.ID, 7), clerk)
	require.NoError(t, err)
	require.Equal(t, 3, testutil.Stock(t, f.db, p.Ref()))

	_, err = f.orders.UpdateOrderStatus(ctx, order.ID, model.OrderInProgress, clerk)
	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 2, insufficient.Shortfall())

	got, err := f.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderCancelled, got.Status)
	assert.Equal(t, 3, testutil.Stock(t, f.db, p.Ref()))
}

func TestCancelThenReviveRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := testutil.SeedSubProduct(t, f.db, "ACC-EXT", 8)

	order, err := f.orders.CreateOrder(ctx, &CreateOrderInput{Comment: "taller", SubProductID: &s.ID, Quantity: 2, Status: model.OrderSold}, clerk)
	require.NoError(t, err)
	assert.Equal(t, model.OrderSold, order.Status)
	require.Equal(t, 6, testutil.Stock(t, f.db, s.Ref()))

	for i := 0; i < 3; i++ {
		_, err = f.orders.UpdateOrderStatus(ctx, order.ID, model.OrderCancelled, clerk)
		require.NoError(t, err)
		_, err = f.orders.UpdateOrderStatus(ctx, order.ID, model.OrderSold, clerk)
		require.NoError(t, err)
	}
	assert.Equal(t, 6, testutil.Stock(t, f.db, s.Ref()))
}

func TestSameStatusUpdateBooksNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := testutil.SeedProduct(t, f.db, "FIL-01", 4)

	order, err := f.orders.CreateOrder(ctx, orderFor(p.ID, 1), clerk)
	require.NoError(t, err)

	_, err = f.orders.UpdateOrderStatus(ctx, order.ID, model.OrderSold, clerk)
	require.NoError(t, err)
	_, err = f.orders.UpdateOrder(ctx, order.ID, &UpdateOrderInput{Comment: ptr("retira mañana")}, clerk)
	require.NoError(t, err)

	assert.Equal(t, 3, testutil.Stock(t, f.db, p.Ref()))
	assert.Len(t, testutil.Movements(t, f.db, p.Ref()), 1)
}

func TestUpdateOrderMovesStockBetweenItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := testutil.SeedProduct(t, f.db, "ACE-20W50", 10)
	s := testutil.SeedSubProduct(t, f.db, "REP-10", 10)

	order, err := f.orders.CreateOrder(ctx, orderFor(p.ID, 4), clerk)
	require.NoError(t, err)

	order, err = f.orders.UpdateOrder(ctx, order.ID, &UpdateOrderInput{SubProductID: &s.ID, Quantity: ptr(6)}, clerk)
	require.NoError(t, err)
	assert.Nil(t, order.ProductID)
	require.NotNil(t, order.SubProductID)
	assert.Equal(t, s.ID, *order.SubProductID)

	assert.Equal(t, 10, testutil.Stock(t, f.db, p.Ref()))
	assert.Equal(t, 4, testutil.Stock(t, f.db, s.Ref()))
}

func TestCreateOrderInsufficientStockRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := testutil.SeedProduct(t, f.db, "BAT-45", 2)

	_, err := f.orders.CreateOrder(ctx, orderFor(p.ID, 3), clerk)
	assert.True(t, IsInsufficientStock(err))

	orders, err := f.orders.ListOrders(ctx, repository.OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Equal(t, 2, testutil.Stock(t, f.db, p.Ref()))
	assert.Empty(t, testutil.Movements(t, f.db, p.Ref()))
}

func TestCreateOrderNeedsExactlyOneItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := testutil.SeedProduct(t, f.db, "X-1", 2)
	s := testutil.SeedSubProduct(t, f.db, "X-2", 2)

	_, err := f.orders.CreateOrder(ctx, &CreateOrderInput{Comment: "ambos", ProductID: &p.ID, SubProductID: &s.ID, Quantity: 1}, clerk)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = f.orders.CreateOrder(ctx, &CreateOrderInput{Comment: "ninguno", Quantity: 1}, clerk)
	require.ErrorAs(t, err, &verr)

	_, err = f.orders.CreateOrder(ctx, &CreateOrderInput{Comment: "cancelado", ProductID: &p.ID, Quantity: 1, Status: model.OrderCancelled}, clerk)
	require.ErrorAs(t, err, &verr)

	missing := uuid.New()
	_, err = f.orders.CreateOrder(ctx, orderFor(missing, 1), clerk)
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestDeleteOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := testutil.SeedProduct(t, f.db, "ACE-DEL", 10)

	holding, err := f.orders.CreateOrder(ctx, orderFor(p.ID, 4), clerk)
	require.NoError(t, err)
	cancelled, err := f.orders.CreateOrder(ctx, orderFor(p.ID, 2), clerk)
	require.NoError(t, err)
	_, err = f.orders.UpdateOrderStatus(ctx, cancelled.ID, model.OrderCancelled, clerk)
	require.NoError(t, err)
	require.Equal(t, 6, testutil.Stock(t, f.db, p.Ref()))

	require.NoError(t, f.orders.DeleteOrder(ctx, holding.ID, clerk))
	assert.Equal(t, 10, testutil.Stock(t, f.db, p.Ref()))

	before := len(testutil.Movements(t, f.db, p.Ref()))
	require.NoError(t, f.orders.DeleteOrder(ctx, cancelled.ID, clerk))
	assert.Equal(t, 10, testutil.Stock(t, f.db, p.Ref()))
	assert.Len(t, testutil.Movements(t, f.db, p.Ref()), before)

	_, err = f.orders.GetOrder(ctx, holding.ID)
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
	assert.ErrorAs(t, f.orders.DeleteOrder(ctx, holding.ID, clerk), &nf)
}

func TestReconcile(t *testing.T) {
	a := model.ProductRef(uuid.New())
	b := model.SubProductRef(uuid.New())
	state := func(ref model.ItemRef, q int, st model.OrderStatus) orderState {
		return orderState{Item: ref, Quantity: q, Status: st}
	}

	tests := []struct {
		name   string
		before orderState
		after  orderState
		want   []adjustment
	}{
		{"unchanged", state(a, 3, model.OrderInProgress), state(a, 3, model.OrderSold), nil},
		{"more", state(a, 3, model.OrderInProgress), state(a, 5, model.OrderInProgress),
			[]adjustment{{Item: a, Kind: model.MovementOut, Quantity: 2, Reason: reasonIncreased}}},
		{"less", state(a, 5, model.OrderSold), state(a, 1, model.OrderSold),
			[]adjustment{{Item: a, Kind: model.MovementIn, Quantity: 4, Reason: reasonDecreased}}},
		{"swap item", state(a, 3, model.OrderInProgress), state(b, 2, model.OrderInProgress),
			[]adjustment{
				{Item: a, Kind: model.MovementIn, Quantity: 3, Reason: reasonItemRestored},
				{Item: b, Kind: model.MovementOut, Quantity: 2, Reason: reasonItemTaken},
			}},
		{"cancel", state(a, 3, model.OrderSold), state(b, 9, model.OrderCancelled),
			[]adjustment{{Item: a, Kind: model.MovementIn, Quantity: 3, Reason: reasonCancelled}}},
		{"revive", state(a, 3, model.OrderCancelled), state(b, 4, model.OrderInProgress),
			[]adjustment{{Item: b, Kind: model.MovementOut, Quantity: 4, Reason: reasonReactivated}}},
		{"stay cancelled", state(a, 3, model.OrderCancelled), state(b, 8, model.OrderCancelled), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reconcile(tt.before, tt.after))
		})
	}
}

func TestEditCancelledOrderThenRevive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := testutil.SeedProduct(t, f.db, "ACE-CXL", 10)
	s := testutil.SeedSubProduct(t, f.db, "REP-CXL", 10)

	order, err := f.orders.CreateOrder(ctx, orderFor(p.ID, 3), clerk)
	require.NoError(t, err)
	_, err = f.orders.UpdateOrderStatus(ctx, order.ID, model.OrderCancelled, clerk)
	require.NoError(t, err)
	require.Len(t, testutil.Movements(t, f.db, p.Ref()), 2)

	// while cancelled, edits move no stock
	order, err = f.orders.UpdateOrder(ctx, order.ID, &UpdateOrderInput{Quantity: ptr(6), SubProductID: &s.ID}, clerk)
	require.NoError(t, err)
	assert.Nil(t, order.ProductID)
	require.NotNil(t, order.SubProductID)
	assert.Equal(t, s.ID, *order.SubProductID)
	assert.Equal(t, 10, testutil.Stock(t, f.db, p.Ref()))
	assert.Equal(t, 10, testutil.Stock(t, f.db, s.Ref()))
	assert.Len(t, testutil.Movements(t, f.db, p.Ref()), 2)
	assert.Empty(t, testutil.Movements(t, f.db, s.Ref()))

	// reviving takes the new quantity of the new item, once
	_, err = f.orders.UpdateOrderStatus(ctx, order.ID, model.OrderInProgress, clerk)
	require.NoError(t, err)
	assert.Equal(t, 10, testutil.Stock(t, f.db, p.Ref()))
	assert.Equal(t, 4, testutil.Stock(t, f.db, s.Ref()))
	ms := testutil.Movements(t, f.db, s.Ref())
	require.Len(t, ms, 1)
	assert.Equal(t, model.MovementOut, ms[0].Kind)
	assert.Equal(t, 6, ms[0].Quantity)
	assert.Equal(t, "Order reactivated: cliente mostrador", ms[0].Note)
}

func TestRepointCancelledOrderNeedsLiveItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := testutil.SeedProduct(t, f.db, "ACE-RPT", 10)
	gone := testutil.SeedProduct(t, f.db, "ACE-GONE", 10)
	require.NoError(t, f.catalog.DeleteProduct(ctx, gone.ID, clerk))

	order, err := f.orders.CreateOrder(ctx, orderFor(p.ID, 2), clerk)
	require.NoError(t, err)
	_, err = f.orders.UpdateOrderStatus(ctx, order.ID, model.OrderCancelled, clerk)
	require.NoError(t, err)

	for name, id := range map[string]uuid.UUID{"unknown": uuid.New(), "nil": uuid.Nil, "deleted": gone.ID} {
		t.Run(name, func(t *testing.T) {
			_, err := f.orders.UpdateOrder(ctx, order.ID, &UpdateOrderInput{ProductID: ptr(id)}, clerk)
			var nf *NotFoundError
			require.ErrorAs(t, err, &nf)
			assert.Equal(t, "product", nf.Resource)

			got, err := f.orders.GetOrder(ctx, order.ID)
			require.NoError(t, err)
			require.NotNil(t, got.ProductID)
			assert.Equal(t, p.ID, *got.ProductID)
		})
	}
}
