package service

import (
	"context"
	"errors"
	"testing"

	"lubricentro-ws/internal/model"
	"lubricentro-ws/internal/repository"
	"lubricentro-ws/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func out(ref model.ItemRef, q int) MovementInput {
	return MovementInput{Item: ref, Kind: model.MovementOut, Quantity: q, Note: "venta mostrador", UserID: clerk}
}

func in(ref model.ItemRef, q int) MovementInput {
	return MovementInput{Item: ref, Kind: model.MovementIn, Quantity: q, Note: "reposicion", UserID: clerk}
}

func TestRegisterMovementSalidaBoundary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := testutil.SeedProduct(t, f.db, "ACE-5W30", 4)

	_, err := f.ledger.RegisterMovement(ctx, out(p.Ref(), 5))
	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 4, insufficient.Available)
	assert.Equal(t, 1, insufficient.Shortfall())
	assert.Equal(t, 4, testutil.Stock(t, f.db, p.Ref()))

	m, err := f.ledger.RegisterMovement(ctx, out(p.Ref(), 4))
	require.NoError(t, err)
	assert.Equal(t, 4, m.StockBefore)
	assert.Equal(t, 0, m.StockAfter)
	assert.Equal(t, 0, testutil.Stock(t, f.db, p.Ref()))
	assert.Len(t, testutil.Movements(t, f.db, p.Ref()), 1)
}

func TestRegisterMovementOnEmptyStockLeavesNoTrace(t *testing.T) {
	f := newFixture(t)
	p := testutil.SeedProduct(t, f.db, "FIL-AIRE", 0)

	_, err := f.ledger.RegisterMovement(context.Background(), out(p.Ref(), 1))
	assert.True(t, IsInsufficientStock(err))
	assert.Equal(t, 0, testutil.Stock(t, f.db, p.Ref()))
	assert.Empty(t, testutil.Movements(t, f.db, p.Ref()))
	assert.Empty(t, f.notifier.stockEvents())
}

func TestRegisterMovementDuplicatesAreNotMerged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := testutil.SeedSubProduct(t, f.db, "LIMP-01", 2)

	first, err := f.ledger.RegisterMovement(ctx, in(s.Ref(), 3))
	require.NoError(t, err)
	second, err := f.ledger.RegisterMovement(ctx, in(s.Ref(), 3))
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 8, testutil.Stock(t, f.db, s.Ref()))
	assert.Len(t, testutil.Movements(t, f.db, s.Ref()), 2)
	assert.Len(t, f.notifier.stockEvents(), 2)
}

func TestRegisterMovementValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := testutil.SeedProduct(t, f.db, "BAT-12V", 10)

	cases := map[string]MovementInput{
		"zero quantity":     out(p.Ref(), 0),
		"negative quantity": out(p.Ref(), -2),
		"bad kind":          {Item: p.Ref(), Kind: "ajuste", Quantity: 1, UserID: clerk},
		"bad item type":     {Item: model.ItemRef{ID: p.ID, Type: "vehiculo"}, Kind: model.MovementIn, Quantity: 1, UserID: clerk},
		"missing actor":     {Item: p.Ref(), Kind: model.MovementIn, Quantity: 1},
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.ledger.RegisterMovement(ctx, input)
			var verr *ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
	assert.Equal(t, 10, testutil.Stock(t, f.db, p.Ref()))
}

func TestRegisterMovementUnknownItem(t *testing.T) {
	f := newFixture(t)

	_, err := f.ledger.RegisterMovement(context.Background(), in(model.SubProductRef(uuid.New()), 1))
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "subproduct", nf.Resource)
}

func TestRegisterMovementTxLeavesCommitToCaller(t *testing.T) {
	f := newFixture(t)
	p := testutil.SeedProduct(t, f.db, "ACE-15W40", 6)
	boom := errors.New("caller failed later")

	err := f.db.Transaction(func(tx *gorm.DB) error {
		m, err := f.ledger.RegisterMovementTx(tx, out(p.Ref(), 2))
		require.NoError(t, err)
		assert.Equal(t, 4, m.StockAfter)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 6, testutil.Stock(t, f.db, p.Ref()))
	assert.Empty(t, testutil.Movements(t, f.db, p.Ref()))
	assert.Empty(t, f.notifier.stockEvents(), "nothing is announced for a caller-owned transaction")
}

func TestStoredMovementsCannotBeUpdated(t *testing.T) {
	f := newFixture(t)
	p := testutil.SeedProduct(t, f.db, "ACE-10W40", 1)
	m, err := f.ledger.RegisterMovement(context.Background(), in(p.Ref(), 1))
	require.NoError(t, err)

	m.Quantity = 50
	err = f.db.Save(m).Error
	assert.ErrorIs(t, err, model.ErrMovementImmutable)
}

func TestListMovementsForProductIncludesLegacyRows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := testutil.SeedProduct(t, f.db, "FIL-ACE", 3)
	other := testutil.SeedProduct(t, f.db, "FIL-COMB", 3)

	_, err := f.ledger.RegisterMovement(ctx, out(p.Ref(), 1))
	require.NoError(t, err)
	_, err = f.ledger.RegisterMovement(ctx, out(other.Ref(), 1))
	require.NoError(t, err)

	// a pre-migration row whose item reference was copied from the flat column
	legacy := &model.StockMovement{
		ItemID: p.ID, ItemType: model.ItemProduct, LegacyProductID: &p.ID,
		Kind: model.MovementIn, Quantity: 2, StockBefore: 1, StockAfter: 3, UserID: "1",
	}
	require.NoError(t, f.db.Create(legacy).Error)

	ms, err := f.ledger.ListMovementsForProduct(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, ms, 2)
	for _, m := range ms {
		require.NotNil(t, m.Item)
		assert.Equal(t, "FIL-ACE", m.Item.Code)
	}

	_, err = f.ledger.ListMovementsForProduct(ctx, uuid.New())
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestListMovementsFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := testutil.SeedProduct(t, f.db, "ACE-0W20", 5)
	s := testutil.SeedSubProduct(t, f.db, "REP-02", 5)

	for _, input := range []MovementInput{out(p.Ref(), 1), in(p.Ref(), 2), out(s.Ref(), 3)} {
		_, err := f.ledger.RegisterMovement(ctx, input)
		require.NoError(t, err)
	}

	all, err := f.ledger.ListMovements(ctx, repository.MovementFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	outs, err := f.ledger.ListMovements(ctx, repository.MovementFilter{Kind: model.MovementOut})
	require.NoError(t, err)
	assert.Len(t, outs, 2)

	subs, err := f.ledger.ListMovementsForItem(ctx, s.Ref())
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, model.ItemSubProduct, subs[0].Item.Type)
}

func TestListMovementsJoinsSummariesOfBothKinds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := testutil.SeedProduct(t, f.db, "ACE-MIX", 5)
	s := testutil.SeedSubProduct(t, f.db, "REP-MIX", 5)

	for _, input := range []MovementInput{in(p.Ref(), 1), in(s.Ref(), 2), out(s.Ref(), 1)} {
		_, err := f.ledger.RegisterMovement(ctx, input)
		require.NoError(t, err)
	}

	all, err := f.ledger.ListMovements(ctx, repository.MovementFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	codes := map[model.ItemRef]string{p.Ref(): "ACE-MIX", s.Ref(): "REP-MIX"}
	for _, m := range all {
		require.NotNil(t, m.Item, "movement on %s has no item", m.Ref())
		assert.Equal(t, codes[m.Ref()], m.Item.Code)
		assert.Equal(t, m.ItemType, m.Item.Type)
	}
}
