package inventory_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/stock-locations-api/internal/application/inventory"
	"github.com/jhoicas/stock-locations-api/internal/domain"
	"github.com/jhoicas/stock-locations-api/internal/domain/allocation"
	"github.com/jhoicas/stock-locations-api/internal/domain/entity"
)

func plan(entries ...allocation.LocationQuantity) allocation.Plan { return entries }

func lq(id string, qty int64) allocation.LocationQuantity {
	return allocation.LocationQuantity{LocationID: id, Quantity: qty}
}

// Escenario A de punta a punta: plan + apply, stock posterior L1=0, L2=2.
func TestLedger_EscenarioA(t *testing.T) {
	f := newFixture(t, stockRow{"L1", 5}, stockRow{"L2", 3})
	ctx := context.Background()

	p, err := allocation.PlanAllocation(allocation.Request{
		ProductID:         "p1",
		RequestedQuantity: 6,
		AvailableStock:    []allocation.LocationQuantity{lq("L1", 5), lq("L2", 3)},
	})
	require.NoError(t, err)
	require.Equal(t, plan(lq("L1", 5), lq("L2", 1)), p)

	res, err := f.ledger.Apply(ctx, inventory.ApplyInput{
		OrderLineID: "ol-1", OrderID: "o-1", ProductID: "p1", RequestedQuantity: 6, Plan: p,
	})
	require.NoError(t, err)
	assert.True(t, res.FullySatisfied)
	assert.False(t, res.Replayed)
	assert.Equal(t, p, res.AppliedPlan)
	assert.Equal(t, int64(0), f.qty(t, "L1"))
	assert.Equal(t, int64(2), f.qty(t, "L2"))

	rec, err := f.allocs.GetByOrderLine(ctx, "ol-1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.True(t, rec.Applied)
	assert.Equal(t, entity.AllocationSourceAuto, rec.Source)
	assert.Equal(t, int64(6), rec.AppliedTotal())
}

// Escenario B: solo hay 2 de 5 → fullySatisfied=false, aplicado 2.
func TestLedger_EscenarioB(t *testing.T) {
	f := newFixture(t, stockRow{"L1", 2})

	res, err := f.ledger.Apply(context.Background(), inventory.ApplyInput{
		OrderLineID: "ol-1", ProductID: "p1", RequestedQuantity: 5, Plan: plan(lq("L1", 2)),
	})
	require.NoError(t, err)
	assert.False(t, res.FullySatisfied)
	assert.Equal(t, int64(2), res.AppliedTotal())
	assert.Equal(t, int64(3), f.metrics.shortfall)
}

func TestLedger_IdempotentePorLinea(t *testing.T) {
	f := newFixture(t, stockRow{"L1", 5})
	ctx := context.Background()
	in := inventory.ApplyInput{OrderLineID: "ol-1", ProductID: "p1", RequestedQuantity: 4, Plan: plan(lq("L1", 4))}

	first, err := f.ledger.Apply(ctx, in)
	require.NoError(t, err)
	second, err := f.ledger.Apply(ctx, in)
	require.NoError(t, err)

	assert.True(t, second.Replayed)
	assert.Equal(t, first.FullySatisfied, second.FullySatisfied)
	assert.Equal(t, first.AppliedPlan, second.AppliedPlan)
	assert.Equal(t, int64(1), f.qty(t, "L1"), "el stock se resta una sola vez")
	assert.Equal(t, 1, f.metrics.applies)
	assert.Equal(t, 1, f.metrics.replays)
}

// Reaplicar con otro plan no cambia nada: devuelve el resultado guardado.
func TestLedger_ReaplicarConOtroPlanDevuelveGuardado(t *testing.T) {
	f := newFixture(t, stockRow{"L1", 5}, stockRow{"L2", 5})
	ctx := context.Background()

	_, err := f.ledger.Apply(ctx, inventory.ApplyInput{OrderLineID: "ol-1", ProductID: "p1", RequestedQuantity: 3, Plan: plan(lq("L1", 3))})
	require.NoError(t, err)
	res, err := f.ledger.Apply(ctx, inventory.ApplyInput{OrderLineID: "ol-1", ProductID: "p1", RequestedQuantity: 3, Plan: plan(lq("L2", 3))})
	require.NoError(t, err)

	assert.True(t, res.Replayed)
	assert.Equal(t, plan(lq("L1", 3)), res.AppliedPlan)
	assert.Equal(t, int64(5), f.qty(t, "L2"))
}

// Si el stock baja entre planificar y aplicar, se resta lo que quede.
func TestLedger_AplicacionParcialPorCarrera(t *testing.T) {
	f := newFixture(t, stockRow{"L1", 5}, stockRow{"L2", 3})
	ctx := context.Background()

	p, err := allocation.PlanAllocation(allocation.Request{
		RequestedQuantity: 6,
		AvailableStock:    []allocation.LocationQuantity{lq("L1", 5), lq("L2", 3)},
	})
	require.NoError(t, err)

	// Otro pedido consume L1 antes de aplicar.
	_, err = f.ledger.Apply(ctx, inventory.ApplyInput{OrderLineID: "other", ProductID: "p1", RequestedQuantity: 4, Plan: plan(lq("L1", 4))})
	require.NoError(t, err)

	res, err := f.ledger.Apply(ctx, inventory.ApplyInput{OrderLineID: "ol-1", ProductID: "p1", RequestedQuantity: 6, Plan: p})
	require.NoError(t, err)
	assert.False(t, res.FullySatisfied)
	assert.Equal(t, plan(lq("L1", 1), lq("L2", 1)), res.AppliedPlan)
	assert.Equal(t, int64(0), f.qty(t, "L1"))
	assert.Equal(t, int64(2), f.qty(t, "L2"))
}

// Escenario D: cantidad no positiva → ValidationError sin tocar estado.
func TestLedger_ValidacionSinMutarEstado(t *testing.T) {
	f := newFixture(t, stockRow{"L1", 5})
	ctx := context.Background()

	cases := []inventory.ApplyInput{
		{OrderLineID: "ol-1", ProductID: "p1", RequestedQuantity: 0, Plan: plan(lq("L1", 1))},
		{OrderLineID: "ol-1", ProductID: "p1", RequestedQuantity: -2, Plan: plan(lq("L1", 1))},
		{OrderLineID: "ol-1", ProductID: "p1", RequestedQuantity: 2, Plan: plan(lq("L1", 3))},
		{OrderLineID: "ol-1", ProductID: "p1", RequestedQuantity: 2, Plan: plan()},
		{OrderLineID: "", ProductID: "p1", RequestedQuantity: 2, Plan: plan(lq("L1", 1))},
	}
	for _, in := range cases {
		_, err := f.ledger.Apply(ctx, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}

	assert.Equal(t, int64(5), f.qty(t, "L1"))
	rec, err := f.allocs.GetByOrderLine(ctx, "ol-1")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

// Llamadas concurrentes sobre la misma línea: exactamente una resta.
func TestLedger_ConcurrenciaMismaLinea(t *testing.T) {
	f := newFixture(t, stockRow{"L1", 100})
	in := inventory.ApplyInput{OrderLineID: "ol-1", ProductID: "p1", RequestedQuantity: 7, Plan: plan(lq("L1", 7))}

	var fresh atomic.Int32
	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < 32; i++ {
		g.Go(func() error {
			res, err := f.ledger.Apply(ctx, in)
			if err != nil {
				return err
			}
			if !res.Replayed {
				fresh.Add(1)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(1), fresh.Load())
	assert.Equal(t, int64(93), f.qty(t, "L1"))
}

// Líneas distintas compitiendo por el mismo stock nunca lo dejan negativo.
func TestLedger_ConcurrenciaLineasDistintas(t *testing.T) {
	f := newFixture(t, stockRow{"L1", 10})

	var applied atomic.Int64
	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < 20; i++ {
		id := "ol-" + string(rune('a'+i))
		g.Go(func() error {
			res, err := f.ledger.Apply(ctx, inventory.ApplyInput{OrderLineID: id, ProductID: "p1", RequestedQuantity: 3, Plan: plan(lq("L1", 3))})
			if err != nil {
				return err
			}
			applied.Add(res.AppliedTotal())
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int64(10), applied.Load())
	assert.Equal(t, int64(0), f.qty(t, "L1"))
}
