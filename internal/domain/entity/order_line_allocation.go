package entity

import "time"

// Origen de una asignación.
const (
	AllocationSourceAuto   = "auto"
	AllocationSourceManual = "manual"
)

// AppliedLocation cantidad efectivamente restada de una ubicación para una línea de pedido.
type AppliedLocation struct {
	LocationID string
	Quantity   int64
}

// OrderLineAllocation registro persistido de la asignación de una línea de pedido.
// Applied es un cerrojo de una sola escritura: una vez en true el stock de la línea no se vuelve a restar.
type OrderLineAllocation struct {
	OrderLineID        string
	OrderID            string
	ProductID          string
	RequestedQuantity  int64
	Applied            bool
	PerLocationApplied []AppliedLocation
	FullySatisfied     bool
	Source             string
	AppliedAt          time.Time
	CreatedAt          time.Time
}

// AppliedTotal suma las cantidades restadas en todas las ubicaciones.
func (a *OrderLineAllocation) AppliedTotal() int64 {
	var total int64
	for _, l := range a.PerLocationApplied {
		total += l.Quantity
	}
	return total
}

// AppliedFor devuelve lo restado en una ubicación (0 si no hubo asignación).
func (a *OrderLineAllocation) AppliedFor(locationID string) int64 {
	for _, l := range a.PerLocationApplied {
		if l.LocationID == locationID {
			return l.Quantity
		}
	}
	return 0
}
