//go:build integration

// Run with: go test -tags integration ./internal/service/...
package service

import (
	"context"
	"sync"
	"testing"

	"lubricentro-ws/internal/config"
	"lubricentro-ws/internal/model"
	"lubricentro-ws/internal/repository"
	"lubricentro-ws/internal/testutil"
	"lubricentro-ws/pkg/database"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

func postgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		tcPostgres.WithDatabase("lubricentro_test"),
		tcPostgres.WithUsername("lubricentro"),
		tcPostgres.WithPassword("lubricentro"),
		testcontainers.WithWaitStrategy(tcPostgres.BasicWaitStrategies()...),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	url, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.ConnectDB(config.DBConfig{DatabaseURL: url, MaxOpenConns: 20, MaxIdleConns: 5}, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestConcurrentSalidasNeverOversell(t *testing.T) {
	db := postgresDB(t)
	ctx := context.Background()
	ledger := NewLedgerService(db, repository.NewItemRepo(db), repository.NewMovementRepo(db), nil, zerolog.Nop())
	p := testutil.SeedProduct(t, db, "ACE-RACE", 10)

	const attempts = 25
	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		ok, rejected int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ledger.RegisterMovement(ctx, out(p.Ref(), 1))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case IsInsufficientStock(err):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, ok)
	assert.Equal(t, attempts-10, rejected)
	assert.Equal(t, 0, testutil.Stock(t, db, p.Ref()))

	ms := testutil.Movements(t, db, p.Ref())
	require.Len(t, ms, 10)
	seen := map[int]bool{}
	for _, m := range ms {
		assert.Equal(t, m.StockBefore-1, m.StockAfter)
		assert.False(t, seen[m.StockBefore], "two salidas saw the same stock %d", m.StockBefore)
		seen[m.StockBefore] = true
	}
}

func TestCheckConstraintsHoldInPostgres(t *testing.T) {
	db := postgresDB(t)
	p := testutil.SeedProduct(t, db, "ACE-CHK", 1)

	err := db.Model(&model.Product{}).Where("id = ?", p.ID).Update("stock", -1).Error
	assert.Error(t, err, "stock may never go negative")

	err = db.Exec("INSERT INTO orders (id, comment, quantity, status, user_id, created_at, updated_at) VALUES (gen_random_uuid(), 'sin item', 1, 'en_proceso', 'x', now(), now())").Error
	assert.Error(t, err, "an order needs exactly one item")
}

func TestDeleteProductRacesOrderCreation(t *testing.T) {
	db := postgresDB(t)
	ctx := context.Background()
	items := repository.NewItemRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	ledger := NewLedgerService(db, items, repository.NewMovementRepo(db), nil, zerolog.Nop())
	orders := NewOrderService(db, orderRepo, items, ledger, zerolog.Nop())
	catalog := NewCatalogService(db, repository.NewProductRepo(db), repository.NewSubProductRepo(db), items, orderRepo, ledger)

	for round := 0; round < 20; round++ {
		p := testutil.SeedProduct(t, db, "ACE-DEL-"+uuid.NewString()[:8], 5)

		var wg sync.WaitGroup
		var deleteErr, orderErr error
		wg.Add(2)
		go func() {
			defer wg.Done()
			deleteErr = catalog.DeleteProduct(ctx, p.ID, clerk)
		}()
		go func() {
			defer wg.Done()
			_, orderErr = orders.CreateOrder(ctx, orderFor(p.ID, 1), clerk)
		}()
		wg.Wait()

		if deleteErr == nil {
			var nf *NotFoundError
			require.ErrorAs(t, orderErr, &nf, "round %d", round)
		} else {
			var conflict *ConflictError
			require.ErrorAs(t, deleteErr, &conflict, "round %d", round)
			require.NoError(t, orderErr, "round %d", round)
		}

		holding, err := orderRepo.CountHolding(db, p.Ref())
		require.NoError(t, err)
		if deleteErr == nil {
			assert.Zero(t, holding, "round %d: deleted product still held by an order", round)
		}
	}
}
