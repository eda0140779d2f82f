package allocation

import "github.com/jhoicas/stock-locations-api/internal/domain"

// PlanAllocation calcula la asignación voraz: recorre AvailableStock en el orden recibido y toma
// min(restante, disponible) de cada ubicación hasta cubrir la cantidad solicitada.
//
// La suma del plan es min(solicitado, total disponible). Sin stock devuelve un plan vacío, no un error.
// Cantidades negativas se tratan como 0. Sin efectos secundarios.
func PlanAllocation(req Request) (Plan, error) {
	if req.RequestedQuantity <= 0 {
		return nil, domain.NewValidationError("requested_quantity", "debe ser mayor que cero")
	}
	if err := validateAvailable(req.AvailableStock); err != nil {
		return nil, err
	}

	remaining := req.RequestedQuantity
	plan := Plan{}
	for _, a := range req.AvailableStock {
		if remaining == 0 {
			break
		}
		take := min(remaining, max(a.Quantity, 0))
		if take > 0 {
			plan = append(plan, LocationQuantity{LocationID: a.LocationID, Quantity: take})
			remaining -= take
		}
	}
	return plan, nil
}
