package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stock-locations-api/internal/domain"
	"github.com/jhoicas/stock-locations-api/internal/domain/allocation"
	"github.com/jhoicas/stock-locations-api/internal/domain/entity"
	"github.com/jhoicas/stock-locations-api/internal/domain/repository"
)

// Ledger aplica planes de asignación: resta stock por ubicación y registra la asignación
// de la línea de pedido como máximo una vez (reclamo atómico + cerrojo Applied).
type Ledger struct {
	txRunner TxRunner
	metrics  AllocationMetrics
	now      func() time.Time
}

// NewLedger construye el ledger. metrics puede ser nil.
func NewLedger(txRunner TxRunner, metrics AllocationMetrics) *Ledger {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Ledger{txRunner: txRunner, metrics: metrics, now: time.Now}
}

// ApplyInput entrada para aplicar un plan sobre una línea de pedido.
type ApplyInput struct {
	OrderLineID       string
	OrderID           string
	ProductID         string
	RequestedQuantity int64
	Plan              allocation.Plan
	Source            string // entity.AllocationSourceAuto | entity.AllocationSourceManual
}

// ApplyResult resultado de la aplicación. Replayed indica que la línea ya estaba aplicada
// y se devolvió el resultado guardado sin tocar el stock.
type ApplyResult struct {
	OrderLineID    string
	FullySatisfied bool
	AppliedPlan    allocation.Plan
	Replayed       bool
}

// AppliedTotal suma lo efectivamente restado.
func (r *ApplyResult) AppliedTotal() int64 { return r.AppliedPlan.Total() }

// Apply valida la entrada y, en una sola transacción:
//  1. reclama la línea (si ya existe el registro devuelve el resultado guardado),
//  2. resta de cada ubicación min(cantidad del plan, stock actual) con bloqueo de fila,
//  3. completa el registro con Applied=true y lo efectivamente restado.
//
// Una ubicación agotada desde que se calculó el plan no es un error: se aplica lo que quede.
func (l *Ledger) Apply(ctx context.Context, in ApplyInput) (*ApplyResult, error) {
	if in.OrderLineID == "" {
		return nil, domain.NewValidationError("order_line_id", "requerido")
	}
	if in.ProductID == "" {
		return nil, domain.NewValidationError("product_id", "requerido")
	}
	if err := in.Plan.Validate(in.RequestedQuantity); err != nil {
		return nil, err
	}
	source := in.Source
	if source == "" {
		source = entity.AllocationSourceAuto
	}

	var result *ApplyResult
	err := l.txRunner.Run(ctx, func(
		stockRepo repository.LocationStockRepository,
		allocRepo repository.OrderLineAllocationRepository,
	) error {
		now := l.now()
		record := &entity.OrderLineAllocation{
			OrderLineID:       in.OrderLineID,
			OrderID:           in.OrderID,
			ProductID:         in.ProductID,
			RequestedQuantity: in.RequestedQuantity,
			Source:            source,
			CreatedAt:         now,
		}
		claimed, err := allocRepo.Claim(ctx, record)
		if err != nil {
			return err
		}
		if !claimed {
			existing, err := allocRepo.GetByOrderLine(ctx, in.OrderLineID)
			if err != nil {
				return err
			}
			if existing == nil || !existing.Applied {
				return fmt.Errorf("línea %s reclamada sin aplicar: %w", in.OrderLineID, domain.ErrConflict)
			}
			result = resultFromRecord(existing, true)
			return nil
		}

		applied := make([]entity.AppliedLocation, 0, len(in.Plan))
		for _, e := range in.Plan {
			subtracted, err := stockRepo.SubtractAvailable(ctx, in.ProductID, e.LocationID, e.Quantity)
			if err != nil {
				return err
			}
			if subtracted > 0 {
				applied = append(applied, entity.AppliedLocation{LocationID: e.LocationID, Quantity: subtracted})
			}
		}

		record.Applied = true
		record.PerLocationApplied = applied
		record.FullySatisfied = record.AppliedTotal() == in.RequestedQuantity
		record.AppliedAt = now
		if err := allocRepo.Complete(ctx, record); err != nil {
			return err
		}
		result = resultFromRecord(record, false)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Replayed {
		l.metrics.ObserveReplay(source)
	} else {
		total := result.AppliedTotal()
		l.metrics.ObserveApply(source, result.FullySatisfied, total, in.RequestedQuantity-total)
	}
	return result, nil
}

// Stored devuelve el resultado guardado de una línea ya aplicada (Replayed=true), o nil si aún no se aplicó.
func (l *Ledger) Stored(ctx context.Context, allocRepo repository.OrderLineAllocationRepository, orderLineID, source string) (*ApplyResult, error) {
	existing, err := allocRepo.GetByOrderLine(ctx, orderLineID)
	if err != nil {
		return nil, err
	}
	if existing == nil || !existing.Applied {
		return nil, nil
	}
	l.metrics.ObserveReplay(source)
	return resultFromRecord(existing, true), nil
}

func resultFromRecord(a *entity.OrderLineAllocation, replayed bool) *ApplyResult {
	plan := make(allocation.Plan, 0, len(a.PerLocationApplied))
	for _, l := range a.PerLocationApplied {
		plan = append(plan, allocation.LocationQuantity{LocationID: l.LocationID, Quantity: l.Quantity})
	}
	return &ApplyResult{
		OrderLineID:    a.OrderLineID,
		FullySatisfied: a.FullySatisfied,
		AppliedPlan:    plan,
		Replayed:       replayed,
	}
}
