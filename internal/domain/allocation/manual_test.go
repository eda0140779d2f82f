package allocation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-locations-api/internal/domain"
	"github.com/jhoicas/stock-locations-api/internal/domain/allocation"
)

func TestManualPlan_SigueOrdenDeUbicaciones(t *testing.T) {
	available := []allocation.LocationQuantity{lq("L1", 5), lq("L2", 3), lq("L3", 1)}

	plan, err := allocation.ManualPlan(available, map[string]int64{"L3": 1, "L1": 4, "L2": 0})
	require.NoError(t, err)
	assert.Equal(t, allocation.Plan{lq("L1", 4), lq("L3", 1)}, plan)
}

func TestManualPlan_SinCantidadesDevuelvePlanVacio(t *testing.T) {
	plan, err := allocation.ManualPlan([]allocation.LocationQuantity{lq("L1", 5)}, map[string]int64{"L1": 0})
	require.NoError(t, err)
	assert.True(t, plan.IsEmpty())
}

func TestManualPlan_Errores(t *testing.T) {
	available := []allocation.LocationQuantity{lq("L1", 5)}
	cases := map[string]map[string]int64{
		"negativa":        {"L1": -1},
		"supera stock":    {"L1": 6},
		"ubicación ajena": {"LX": 1},
	}
	for name, q := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := allocation.ManualPlan(available, q)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}
