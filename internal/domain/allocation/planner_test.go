package allocation_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-locations-api/internal/domain"
	"github.com/jhoicas/stock-locations-api/internal/domain/allocation"
)

func lq(id string, qty int64) allocation.LocationQuantity {
	return allocation.LocationQuantity{LocationID: id, Quantity: qty}
}

// Escenario A: [(L1,5),(L2,3)] solicitado 6 → [(L1,5),(L2,1)].
func TestPlanAllocation_LlenadoVoraz(t *testing.T) {
	plan, err := allocation.PlanAllocation(allocation.Request{
		ProductID:         "p1",
		RequestedQuantity: 6,
		AvailableStock:    []allocation.LocationQuantity{lq("L1", 5), lq("L2", 3)},
	})
	require.NoError(t, err)

	want := allocation.Plan{lq("L1", 5), lq("L2", 1)}
	if diff := cmp.Diff(want, plan); diff != "" {
		t.Fatalf("plan inesperado (-want +got):\n%s", diff)
	}
}

// Escenario B: [(L1,2)] solicitado 5 → [(L1,2)].
func TestPlanAllocation_StockInsuficiente(t *testing.T) {
	plan, err := allocation.PlanAllocation(allocation.Request{
		RequestedQuantity: 5,
		AvailableStock:    []allocation.LocationQuantity{lq("L1", 2)},
	})
	require.NoError(t, err)
	assert.Equal(t, allocation.Plan{lq("L1", 2)}, plan)
	assert.Equal(t, int64(2), plan.Total())
}

// Escenario D: cantidad 0 o negativa → ValidationError.
func TestPlanAllocation_CantidadNoPositiva(t *testing.T) {
	for _, q := range []int64{0, -3} {
		_, err := allocation.PlanAllocation(allocation.Request{
			RequestedQuantity: q,
			AvailableStock:    []allocation.LocationQuantity{lq("L1", 2)},
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput), "q=%d", q)
	}
}

func TestPlanAllocation_SinStockDevuelvePlanVacio(t *testing.T) {
	plan, err := allocation.PlanAllocation(allocation.Request{
		RequestedQuantity: 4,
		AvailableStock:    []allocation.LocationQuantity{lq("L1", 0), lq("L2", 0)},
	})
	require.NoError(t, err)
	assert.True(t, plan.IsEmpty())
}

func TestPlanAllocation_OmiteCerosYNegativos(t *testing.T) {
	plan, err := allocation.PlanAllocation(allocation.Request{
		RequestedQuantity: 4,
		AvailableStock:    []allocation.LocationQuantity{lq("L1", 0), lq("L2", -7), lq("L3", 10)},
	})
	require.NoError(t, err)
	assert.Equal(t, allocation.Plan{lq("L3", 4)}, plan)
}

func TestPlanAllocation_SeDetieneAlCubrir(t *testing.T) {
	plan, err := allocation.PlanAllocation(allocation.Request{
		RequestedQuantity: 3,
		AvailableStock:    []allocation.LocationQuantity{lq("L1", 3), lq("L2", 9)},
	})
	require.NoError(t, err)
	assert.Equal(t, allocation.Plan{lq("L1", 3)}, plan)
}

func TestPlanAllocation_UbicacionRepetida(t *testing.T) {
	_, err := allocation.PlanAllocation(allocation.Request{
		RequestedQuantity: 3,
		AvailableStock:    []allocation.LocationQuantity{lq("L1", 3), lq("L1", 9)},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Propiedades: suma = min(Q,T), nunca más que lo disponible por ubicación, determinista.
func TestPlanAllocation_Propiedades(t *testing.T) {
	stocks := [][]int64{
		{5, 3}, {0, 0, 1}, {2}, {7, 0, 7, 0}, {1, 1, 1, 1, 1}, {-2, 4}, {},
	}
	for _, s := range stocks {
		available := make([]allocation.LocationQuantity, 0, len(s))
		var total int64
		for i, q := range s {
			available = append(available, lq(string(rune('A'+i)), q))
			total += max(q, 0)
		}
		for q := int64(1); q <= 16; q++ {
			req := allocation.Request{RequestedQuantity: q, AvailableStock: available}
			plan, err := allocation.PlanAllocation(req)
			require.NoError(t, err)

			assert.Equal(t, min(q, total), plan.Total(), "stock=%v q=%d", s, q)
			for _, e := range plan {
				assert.Positive(t, e.Quantity)
				for _, a := range available {
					if a.LocationID == e.LocationID {
						assert.LessOrEqual(t, e.Quantity, a.Quantity)
					}
				}
			}

			again, err := allocation.PlanAllocation(req)
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(plan, again))
		}
	}
}

func TestPlan_Validate(t *testing.T) {
	tests := []struct {
		name      string
		plan      allocation.Plan
		requested int64
		wantErr   bool
	}{
		{"válido", allocation.Plan{lq("L1", 2), lq("L2", 1)}, 3, false},
		{"parcial", allocation.Plan{lq("L1", 2)}, 3, false},
		{"vacío", allocation.Plan{}, 3, true},
		{"sin ubicación", allocation.Plan{lq("", 2)}, 3, true},
		{"cantidad cero", allocation.Plan{lq("L1", 0)}, 3, true},
		{"repetida", allocation.Plan{lq("L1", 1), lq("L1", 1)}, 3, true},
		{"excede solicitado", allocation.Plan{lq("L1", 4)}, 3, true},
		{"solicitado cero", allocation.Plan{lq("L1", 1)}, 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.plan.Validate(tc.requested)
			if tc.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			assert.NoError(t, err)
		})
	}
}
