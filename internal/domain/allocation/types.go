// Package allocation contiene la lógica pura de asignación de stock por ubicación
// (servicio de dominio sin estado ni dependencias de infraestructura).
package allocation

import (
	"fmt"

	"github.com/jhoicas/stock-locations-api/internal/domain"
)

// LocationQuantity par (ubicación, cantidad) usado tanto para stock disponible como para asignaciones.
type LocationQuantity struct {
	LocationID string `json:"location_id"`
	Quantity   int64  `json:"quantity"`
}

// Request entrada del planificador. El orden de AvailableStock es significativo:
// es el orden configurado de las ubicaciones del producto.
type Request struct {
	ProductID         string
	RequestedQuantity int64
	AvailableStock    []LocationQuantity
}

// Plan secuencia ordenada de asignaciones (ubicación, cantidad > 0), como máximo una por ubicación.
type Plan []LocationQuantity

// Total suma las cantidades asignadas.
func (p Plan) Total() int64 {
	var total int64
	for _, e := range p {
		total += e.Quantity
	}
	return total
}

// QuantityFor devuelve la cantidad asignada a una ubicación (0 si no aparece).
func (p Plan) QuantityFor(locationID string) int64 {
	for _, e := range p {
		if e.LocationID == locationID {
			return e.Quantity
		}
	}
	return 0
}

// IsEmpty indica que no hay nada asignable.
func (p Plan) IsEmpty() bool { return len(p) == 0 }

// Validate verifica la forma del plan contra la cantidad solicitada:
// entradas con ubicación, cantidades positivas, sin ubicaciones repetidas y suma <= solicitada.
func (p Plan) Validate(requested int64) error {
	if requested <= 0 {
		return domain.NewValidationError("requested_quantity", "debe ser mayor que cero")
	}
	if len(p) == 0 {
		return domain.NewValidationError("plan", "sin asignaciones")
	}
	seen := make(map[string]struct{}, len(p))
	for i, e := range p {
		if e.LocationID == "" {
			return domain.NewValidationError(fmt.Sprintf("plan[%d].location_id", i), "requerido")
		}
		if e.Quantity <= 0 {
			return domain.NewValidationError(fmt.Sprintf("plan[%d].quantity", i), "debe ser mayor que cero")
		}
		if _, dup := seen[e.LocationID]; dup {
			return domain.NewValidationError(fmt.Sprintf("plan[%d].location_id", i), "ubicación repetida")
		}
		seen[e.LocationID] = struct{}{}
	}
	if p.Total() > requested {
		return domain.NewValidationError("plan", "la suma asignada supera la cantidad solicitada")
	}
	return nil
}

func validateAvailable(available []LocationQuantity) error {
	seen := make(map[string]struct{}, len(available))
	for i, a := range available {
		if a.LocationID == "" {
			return domain.NewValidationError(fmt.Sprintf("available_stock[%d].location_id", i), "requerido")
		}
		if _, dup := seen[a.LocationID]; dup {
			return domain.NewValidationError(fmt.Sprintf("available_stock[%d].location_id", i), "ubicación repetida")
		}
		seen[a.LocationID] = struct{}{}
	}
	return nil
}
