package allocation

import (
	"fmt"
	"sort"

	"github.com/jhoicas/stock-locations-api/internal/domain"
)

// ManualPlan convierte las cantidades que envía el operador (ubicación -> cantidad) en un plan.
//
// Cero o ausente: la ubicación se omite. Negativo, ubicación desconocida para el producto
// o cantidad mayor al stock actual: ValidationError. El plan sigue el orden de available.
func ManualPlan(available []LocationQuantity, quantities map[string]int64) (Plan, error) {
	if err := validateAvailable(available); err != nil {
		return nil, err
	}
	stock := make(map[string]int64, len(available))
	for _, a := range available {
		stock[a.LocationID] = max(a.Quantity, 0)
	}

	// Orden estable para que el error reportado sea determinista.
	ids := make([]string, 0, len(quantities))
	for id := range quantities {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		qty := quantities[id]
		if qty < 0 {
			return nil, domain.NewValidationError(fmt.Sprintf("locations[%s]", id), "la cantidad no puede ser negativa")
		}
		if qty == 0 {
			continue
		}
		current, ok := stock[id]
		if !ok {
			return nil, domain.NewValidationError(fmt.Sprintf("locations[%s]", id), "ubicación no configurada para el producto")
		}
		if qty > current {
			return nil, domain.NewValidationError(fmt.Sprintf("locations[%s]", id),
				fmt.Sprintf("la cantidad %d supera el stock actual %d", qty, current))
		}
	}

	plan := Plan{}
	for _, a := range available {
		if qty := quantities[a.LocationID]; qty > 0 {
			plan = append(plan, LocationQuantity{LocationID: a.LocationID, Quantity: qty})
		}
	}
	return plan, nil
}
