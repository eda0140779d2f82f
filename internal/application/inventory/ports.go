package inventory

import (
	"context"

	"github.com/jhoicas/stock-locations-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el reclamo de la línea, las restas de stock y el registro de asignación.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.LocationStockRepository,
		allocRepo repository.OrderLineAllocationRepository,
	) error) error
}

// AllocationMetrics registra el resultado de cada aplicación del ledger.
type AllocationMetrics interface {
	ObserveApply(source string, fullySatisfied bool, subtracted, shortfall int64)
	ObserveReplay(source string)
}

// PickingSlipGenerator genera la hoja de picking (PDF) de un pedido.
type PickingSlipGenerator interface {
	GeneratePickingSlip(ctx context.Context, slip *PickingSlip) ([]byte, error)
}

type nopMetrics struct{}

func (nopMetrics) ObserveApply(string, bool, int64, int64) {}
func (nopMetrics) ObserveReplay(string)                    {}
