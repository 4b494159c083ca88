package repository

import (
	"context"
	"testing"

	"lubricentro-ws/internal/model"
	"lubricentro-ws/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestProductUpdateNeverWritesStock(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProductRepo(db)
	ctx := context.Background()
	p := testutil.SeedProduct(t, db, "ACE-U", 4)

	p.Name = "Renombrado"
	p.Stock = 400
	require.NoError(t, repo.Update(ctx, p))

	got, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renombrado", got.Name)
	assert.Equal(t, 4, got.Stock)
}

func TestProductFilterAndDuplicateCode(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProductRepo(db)
	ctx := context.Background()
	testutil.SeedProduct(t, db, "FIL-AIRE", 1)
	testutil.SeedProduct(t, db, "ACE-5W30", 1)

	found, err := repo.FindAll(ctx, ProductFilter{Search: "fil"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "FIL-AIRE", found[0].Code)

	found, err = repo.FindAll(ctx, ProductFilter{Category: model.CategoryBattery})
	require.NoError(t, err)
	assert.Empty(t, found)

	dup := &model.Product{Code: "ACE-5W30", Name: "x", Category: model.CategoryOil, Subcategory: model.ClassCar}
	err = repo.Create(db, dup)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestVehicleRepoCRUD(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewVehicleRepo(db)
	ctx := context.Background()

	v := &model.Vehicle{Brand: "Ford", Model: "Ka", Year: 2015, OilFilter: "FO-12"}
	v.Stamp(model.SystemActor)
	require.NoError(t, repo.Create(ctx, v))

	list, err := repo.FindAll(ctx, "ford")
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, v.ID, "u-1"))
	assert.ErrorIs(t, repo.Delete(ctx, v.ID, "u-1"), gorm.ErrRecordNotFound)
}
