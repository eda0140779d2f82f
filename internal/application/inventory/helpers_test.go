package inventory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-locations-api/internal/application/inventory"
	"github.com/jhoicas/stock-locations-api/internal/domain/entity"
	"github.com/jhoicas/stock-locations-api/internal/infrastructure/memory"
	"github.com/jhoicas/stock-locations-api/pkg/logger"
)

// fixture agrupa el store en memoria y los componentes bajo prueba.
type fixture struct {
	store    *memory.Store
	stock    *memory.LocationStockRepo
	allocs   *memory.OrderLineAllocationRepo
	products *memory.ProductRepo
	metrics  *fakeMetrics
	ledger   *inventory.Ledger
	svc      *inventory.OrderLineService
}

type stockRow struct {
	id  string
	qty int64
}

func newFixture(t *testing.T, rows ...stockRow) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	f := &fixture{
		store:    store,
		stock:    memory.NewLocationStockRepository(store),
		allocs:   memory.NewOrderLineAllocationRepository(store),
		products: memory.NewProductRepository(store),
		metrics:  &fakeMetrics{},
	}
	locRepo := memory.NewLocationRepository(store)
	require.NoError(t, f.products.Create(ctx, &entity.Product{ID: "p1", SKU: "SKU-1", Name: "Camiseta", ManageStock: true}))
	require.NoError(t, f.products.Create(ctx, &entity.Product{ID: "p-free", SKU: "SKU-F", Name: "Servicio", ManageStock: false}))
	require.NoError(t, f.products.Create(ctx, &entity.Product{ID: "p-empty", SKU: "SKU-E", Name: "Sin ubicaciones", ManageStock: true}))
	for i, r := range rows {
		require.NoError(t, locRepo.Create(ctx, &entity.Location{ID: r.id, Name: "Ubicación " + r.id, Slug: r.id}))
		require.NoError(t, f.stock.Set(ctx, &entity.LocationStock{ProductID: "p1", LocationID: r.id, Quantity: r.qty, Position: i}))
	}

	f.ledger = inventory.NewLedger(memory.NewTxRunner(store), f.metrics)
	f.svc = inventory.NewOrderLineService(f.ledger, f.products, f.stock, f.allocs, locRepo, nil, logger.Nop())
	return f
}

func (f *fixture) qty(t *testing.T, locationID string) int64 {
	t.Helper()
	s, err := f.stock.Get(context.Background(), "p1", locationID)
	require.NoError(t, err)
	require.NotNil(t, s)
	return s.Quantity
}

type fakeMetrics struct {
	mu         sync.Mutex
	applies    int
	replays    int
	subtracted int64
	shortfall  int64
}

func (m *fakeMetrics) ObserveApply(_ string, _ bool, subtracted, shortfall int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.applies++
	m.subtracted += subtracted
	m.shortfall += shortfall
}

func (m *fakeMetrics) ObserveReplay(string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replays++
}

func memoryLocation(f *fixture, id string) error {
	return memory.NewLocationRepository(f.store).Create(context.Background(), &entity.Location{ID: id, Name: "Ubicación " + id, Slug: id})
}
