package service

import (
	"sync"
	"testing"

	"lubricentro-ws/internal/repository"
	"lubricentro-ws/internal/testutil"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []interface{}
}

func (n *recordingNotifier) Publish(ev interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
}

func (n *recordingNotifier) stockEvents() []StockEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []StockEvent
	for _, ev := range n.events {
		if se, ok := ev.(StockEvent); ok {
			out = append(out, se)
		}
	}
	return out
}

type fixture struct {
	db       *gorm.DB
	notifier *recordingNotifier
	ledger   LedgerService
	orders   OrderService
	catalog  CatalogService
	items    repository.ItemRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	n := &recordingNotifier{}
	items := repository.NewItemRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	ledger := NewLedgerService(db, items, repository.NewMovementRepo(db), n, zerolog.Nop())
	return &fixture{
		db:       db,
		notifier: n,
		ledger:   ledger,
		orders:   NewOrderService(db, orderRepo, items, ledger, zerolog.Nop()),
		catalog:  NewCatalogService(db, repository.NewProductRepo(db), repository.NewSubProductRepo(db), items, orderRepo, ledger),
		items:    items,
	}
}

const clerk = "9b2f0c4e-0000-4000-8000-000000000001"
