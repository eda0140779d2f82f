package repository

import (
	"context"

	"github.com/jhoicas/stock-locations-api/internal/domain/entity"
)

// OrderLineAllocationRepository define el puerto para los registros de asignación por línea de pedido.
type OrderLineAllocationRepository interface {
	// Claim inserta el registro si no existe (reclamo atómico de la línea).
	// Devuelve false si otra operación ya reclamó la línea.
	Claim(ctx context.Context, allocation *entity.OrderLineAllocation) (bool, error)
	// Complete persiste el resultado aplicado (Applied, cantidades por ubicación, FullySatisfied).
	Complete(ctx context.Context, allocation *entity.OrderLineAllocation) error
	// GetByOrderLine devuelve nil, nil si la línea no tiene registro.
	GetByOrderLine(ctx context.Context, orderLineID string) (*entity.OrderLineAllocation, error)
	ListByOrder(ctx context.Context, orderID string) ([]*entity.OrderLineAllocation, error)
	Delete(ctx context.Context, orderLineID string) error
}
