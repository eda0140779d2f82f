//go:build integration

// Pruebas contra una base real: DATABASE_URL=postgres://... go test -tags integration ./internal/infrastructure/postgres/
package postgres_test

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/stock-locations-api/internal/application/inventory"
	"github.com/jhoicas/stock-locations-api/internal/domain/allocation"
	"github.com/jhoicas/stock-locations-api/internal/domain/entity"
	"github.com/jhoicas/stock-locations-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-locations-api/pkg/config"
	"github.com/jhoicas/stock-locations-api/pkg/logger"
)

type pgFixture struct {
	pool      *pgxpool.Pool
	productID string
	locations []string
}

// newPGFixture migra el esquema y crea un producto con una fila de stock por cantidad dada.
// Los IDs son aleatorios para no chocar con datos de otras corridas.
func newPGFixture(t *testing.T, quantities ...int64) *pgFixture {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL no definido")
	}
	cfg := config.DBConfig{DatabaseURL: url, MaxConns: 8, MigrationsPath: "../../../migrations"}
	require.NoError(t, postgres.Migrate(cfg, logger.Nop()))

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	f := &pgFixture{pool: pool, productID: uuid.NewString()}
	require.NoError(t, postgres.NewProductRepository(pool).Create(ctx, &entity.Product{
		ID: f.productID, SKU: "IT-" + f.productID, Name: "Integración", ManageStock: true,
	}))
	locRepo := postgres.NewLocationRepository(pool)
	stockRepo := postgres.NewLocationStockRepository(pool)
	for i, q := range quantities {
		id := uuid.NewString()
		require.NoError(t, locRepo.Create(ctx, &entity.Location{ID: id, Name: "Ubicación " + id, Slug: "it-" + id}))
		require.NoError(t, stockRepo.Set(ctx, &entity.LocationStock{ProductID: f.productID, LocationID: id, Quantity: q, Position: i}))
		f.locations = append(f.locations, id)
	}
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM order_line_allocations WHERE product_id = $1`, f.productID)
		_, _ = pool.Exec(context.Background(), `DELETE FROM products WHERE id = $1`, f.productID)
		_, _ = pool.Exec(context.Background(), `DELETE FROM locations WHERE id = ANY($1)`, f.locations)
	})
	return f
}

func (f *pgFixture) qty(t *testing.T, locationID string) int64 {
	t.Helper()
	s, err := postgres.NewLocationStockRepository(f.pool).Get(context.Background(), f.productID, locationID)
	require.NoError(t, err)
	require.NotNil(t, s)
	return s.Quantity
}

func TestClaim_SegundoReclamoDevuelveFalse(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()
	repo := postgres.NewOrderLineAllocationRepository(f.pool)
	a := &entity.OrderLineAllocation{
		OrderLineID: uuid.NewString(), OrderID: "o-it", ProductID: f.productID,
		RequestedQuantity: 1, Source: entity.AllocationSourceAuto,
	}

	claimed, err := repo.Claim(ctx, a)
	require.NoError(t, err)
	assert.True(t, claimed)
	claimed, err = repo.Claim(ctx, a)
	require.NoError(t, err)
	assert.False(t, claimed)
}

func TestLedger_AplicacionesConcurrentesRestanUnaVez(t *testing.T) {
	f := newPGFixture(t, 5, 3)
	ledger := inventory.NewLedger(postgres.NewTxRunner(f.pool), nil)
	in := inventory.ApplyInput{
		OrderLineID:       uuid.NewString(),
		OrderID:           "o-it",
		ProductID:         f.productID,
		RequestedQuantity: 6,
		Plan: allocation.Plan{
			{LocationID: f.locations[0], Quantity: 5},
			{LocationID: f.locations[1], Quantity: 1},
		},
		Source: entity.AllocationSourceAuto,
	}

	const workers = 8
	results := make([]*inventory.ApplyResult, workers)
	var g errgroup.Group
	for i := range workers {
		g.Go(func() error {
			res, err := ledger.Apply(context.Background(), in)
			results[i] = res
			return err
		})
	}
	require.NoError(t, g.Wait())

	applied := 0
	for _, r := range results {
		if !r.Replayed {
			applied++
		}
		assert.True(t, r.FullySatisfied)
	}
	assert.Equal(t, 1, applied)
	assert.Equal(t, int64(0), f.qty(t, f.locations[0]))
	assert.Equal(t, int64(2), f.qty(t, f.locations[1]))

	stored, err := postgres.NewOrderLineAllocationRepository(f.pool).GetByOrderLine(context.Background(), in.OrderLineID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.Applied)
	assert.Len(t, stored.PerLocationApplied, 2)
}

func TestLedger_StockAgotadoEntrePlanYAplicacion(t *testing.T) {
	f := newPGFixture(t, 2)
	ctx := context.Background()
	ledger := inventory.NewLedger(postgres.NewTxRunner(f.pool), nil)

	_, err := postgres.NewLocationStockRepository(f.pool).SubtractAvailable(ctx, f.productID, f.locations[0], 1)
	require.NoError(t, err)

	res, err := ledger.Apply(ctx, inventory.ApplyInput{
		OrderLineID: uuid.NewString(), OrderID: "o-it", ProductID: f.productID, RequestedQuantity: 2,
		Plan:   allocation.Plan{{LocationID: f.locations[0], Quantity: 2}},
		Source: entity.AllocationSourceManual,
	})
	require.NoError(t, err)
	assert.False(t, res.FullySatisfied)
	assert.Equal(t, int64(1), res.AppliedTotal())
	assert.Equal(t, int64(0), f.qty(t, f.locations[0]))
}
