package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Fulbito99/Deposito-Unsa/internal/application/inventory"
	"github.com/Fulbito99/Deposito-Unsa/internal/domain/entity"
	"github.com/Fulbito99/Deposito-Unsa/internal/domain/repository"
	"github.com/Fulbito99/Deposito-Unsa/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type recordingObserver struct {
	mu        sync.Mutex
	committed []inventory.Operation
	failed    []error
}

func (o *recordingObserver) Committed(_ context.Context, op inventory.Operation, _ *entity.Transfer) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.committed = append(o.committed, op)
}

func (o *recordingObserver) Failed(_ context.Context, _ inventory.Operation, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failed = append(o.failed, err)
}

type fixture struct {
	store    *memory.Store
	repos    repository.Repositories
	transfer *inventory.TransferUseCase
	reversal *inventory.ReversalUseCase
	history  *inventory.HistoryUseCase
	observer *recordingObserver
}

// newFixture arma el motor sobre el almacén en memoria con un reloj que avanza un segundo por llamada.
func newFixture(t *testing.T, mutate ...func(*inventory.Settings)) *fixture {
	t.Helper()
	store := memory.NewStore()
	obs := &recordingObserver{}
	clock := time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)
	var mu sync.Mutex
	cfg := inventory.Settings{
		RetractStatsOnReversal: true,
		Observer:               obs,
		Now: func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			clock = clock.Add(time.Second)
			return clock
		},
	}
	for _, m := range mutate {
		m(&cfg)
	}
	repos := store.Repositories()
	return &fixture{
		store:    store,
		repos:    repos,
		transfer: inventory.NewTransferUseCase(store, repos.Transfers, cfg),
		reversal: inventory.NewReversalUseCase(store, repos.Transfers, cfg),
		history:  inventory.NewHistoryUseCase(repos.Transfers),
		observer: obs,
	}
}

func (f *fixture) product(t *testing.T, id, name string, masterStock int) {
	t.Helper()
	require.NoError(t, f.repos.Products.Create(context.Background(), &entity.Product{
		ID: id, SKU: "SKU-" + id, Name: name, MasterStock: masterStock,
	}))
}

func (f *fixture) locale(t *testing.T, id, name string, inventory map[string]int) {
	t.Helper()
	require.NoError(t, f.repos.Locales.Create(context.Background(), &entity.Locale{
		ID: id, Name: name, Inventory: inventory,
	}))
}

func (f *fixture) masterStock(t *testing.T, id string) int {
	t.Helper()
	p, err := f.repos.Products.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.MasterStock
}

func (f *fixture) localeStock(t *testing.T, localeID, productID string) int {
	t.Helper()
	l, err := f.repos.Locales.GetByID(context.Background(), localeID)
	require.NoError(t, err)
	require.NotNil(t, l)
	return l.Stock(productID)
}

func (f *fixture) stats(t *testing.T) *entity.Stats {
	t.Helper()
	s, err := f.repos.Stats.Get(context.Background())
	require.NoError(t, err)
	return s
}

// totalUnits suma el depósito y todos los locales para el producto.
func (f *fixture) totalUnits(t *testing.T, productID string) int {
	t.Helper()
	total := f.masterStock(t, productID)
	locales, err := f.repos.Locales.List(context.Background())
	require.NoError(t, err)
	for _, l := range locales {
		total += l.Stock(productID)
	}
	return total
}

func (f *fixture) move(t *testing.T, productID string, from, to entity.Holder, qty int) *entity.Transfer {
	t.Helper()
	tr, err := f.transfer.Execute(context.Background(), inventory.TransferInput{
		ProductID: productID, Source: from, Destination: to, Quantity: qty,
	})
	require.NoError(t, err)
	return tr
}
