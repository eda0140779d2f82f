package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-locations-api/internal/application/inventory"
)

func TestFormatQuantity(t *testing.T) {
	cases := map[int64]string{
		0:       "0",
		999:     "999",
		1000:    "1.000",
		25000:   "25.000",
		1000000: "1.000.000",
		-4500:   "-4.500",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatQuantity(in))
	}
}

func TestGeneratePickingSlip(t *testing.T) {
	g := NewMarotoPickingSlipGenerator("stock-locations-api")
	slip := &inventory.PickingSlip{
		OrderID:     "PED-100",
		GeneratedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Lines: []inventory.PickingLine{
			{OrderLineID: "L1", SKU: "CAM-M", ProductName: "Camiseta M", LocationName: "Bodega Norte", Quantity: 3, Requested: 5, FullySatisfied: false},
			{OrderLineID: "L1", SKU: "CAM-M", ProductName: "Camiseta M", LocationName: "Tienda Centro", Quantity: 2, Requested: 5, FullySatisfied: false},
		},
	}

	out, err := g.GeneratePickingSlip(context.Background(), slip)
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, err = g.GeneratePickingSlip(context.Background(), nil)
	assert.Error(t, err)
}
