package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-locations-api/internal/domain"
	"github.com/jhoicas/stock-locations-api/internal/domain/entity"
	"github.com/jhoicas/stock-locations-api/internal/domain/repository"
)

var _ repository.OrderLineAllocationRepository = (*OrderLineAllocationRepo)(nil)

// OrderLineAllocationRepo registros de asignación sobre PostgreSQL.
// Cabecera en order_line_allocations (clave única = order_line_id); detalle en order_line_allocation_items.
type OrderLineAllocationRepo struct {
	q Querier
}

// NewOrderLineAllocationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderLineAllocationRepository(q Querier) *OrderLineAllocationRepo {
	return &OrderLineAllocationRepo{q: q}
}

const allocationColumns = `order_line_id, order_id, product_id, requested_quantity, applied,
	fully_satisfied, source, COALESCE(applied_at, created_at), created_at`

// Claim inserta la cabecera con applied=false. Si otra tx ya insertó la misma línea,
// ON CONFLICT espera a que ésta termine y no inserta nada: devuelve false.
func (r *OrderLineAllocationRepo) Claim(ctx context.Context, a *entity.OrderLineAllocation) (bool, error) {
	query := `
		INSERT INTO order_line_allocations
			(order_line_id, order_id, product_id, requested_quantity, applied, fully_satisfied, source, created_at)
		VALUES ($1, $2, $3, $4, false, false, $5, $6)
		ON CONFLICT (order_line_id) DO NOTHING`
	cmd, err := r.q.Exec(ctx, query, a.OrderLineID, a.OrderID, a.ProductID, a.RequestedQuantity, a.Source, a.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("claim order line allocation: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// Complete marca la línea como aplicada y guarda lo restado por ubicación.
func (r *OrderLineAllocationRepo) Complete(ctx context.Context, a *entity.OrderLineAllocation) error {
	query := `
		UPDATE order_line_allocations
		SET applied = $2, fully_satisfied = $3, applied_at = $4
		WHERE order_line_id = $1`
	cmd, err := r.q.Exec(ctx, query, a.OrderLineID, a.Applied, a.FullySatisfied, a.AppliedAt)
	if err != nil {
		return fmt.Errorf("complete order line allocation: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	for i, item := range a.PerLocationApplied {
		itemQuery := `
			INSERT INTO order_line_allocation_items (order_line_id, location_id, quantity, position)
			VALUES ($1, $2, $3, $4)`
		if _, err := r.q.Exec(ctx, itemQuery, a.OrderLineID, item.LocationID, item.Quantity, i); err != nil {
			return fmt.Errorf("insert allocation item: %w", err)
		}
	}
	return nil
}

// GetByOrderLine devuelve nil, nil si la línea no tiene registro.
func (r *OrderLineAllocationRepo) GetByOrderLine(ctx context.Context, orderLineID string) (*entity.OrderLineAllocation, error) {
	query := `SELECT ` + allocationColumns + ` FROM order_line_allocations WHERE order_line_id = $1`
	var a entity.OrderLineAllocation
	err := r.q.QueryRow(ctx, query, orderLineID).Scan(
		&a.OrderLineID, &a.OrderID, &a.ProductID, &a.RequestedQuantity, &a.Applied,
		&a.FullySatisfied, &a.Source, &a.AppliedAt, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order line allocation: %w", err)
	}
	items, err := r.items(ctx, []string{orderLineID})
	if err != nil {
		return nil, err
	}
	a.PerLocationApplied = items[orderLineID]
	return &a, nil
}

// ListByOrder devuelve los registros de un pedido ordenados por línea.
func (r *OrderLineAllocationRepo) ListByOrder(ctx context.Context, orderID string) ([]*entity.OrderLineAllocation, error) {
	query := `SELECT ` + allocationColumns + ` FROM order_line_allocations WHERE order_id = $1 ORDER BY order_line_id`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order line allocations: %w", err)
	}
	var list []*entity.OrderLineAllocation
	var ids []string
	for rows.Next() {
		var a entity.OrderLineAllocation
		if err := rows.Scan(
			&a.OrderLineID, &a.OrderID, &a.ProductID, &a.RequestedQuantity, &a.Applied,
			&a.FullySatisfied, &a.Source, &a.AppliedAt, &a.CreatedAt,
		); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan order line allocation: %w", err)
		}
		list = append(list, &a)
		ids = append(ids, a.OrderLineID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list order line allocations: %w", err)
	}
	if len(ids) == 0 {
		return list, nil
	}
	items, err := r.items(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, a := range list {
		a.PerLocationApplied = items[a.OrderLineID]
	}
	return list, nil
}

func (r *OrderLineAllocationRepo) items(ctx context.Context, orderLineIDs []string) (map[string][]entity.AppliedLocation, error) {
	query := `
		SELECT order_line_id, location_id, quantity
		FROM order_line_allocation_items
		WHERE order_line_id = ANY($1)
		ORDER BY order_line_id, position`
	rows, err := r.q.Query(ctx, query, orderLineIDs)
	if err != nil {
		return nil, fmt.Errorf("list allocation items: %w", err)
	}
	defer rows.Close()
	out := make(map[string][]entity.AppliedLocation, len(orderLineIDs))
	for rows.Next() {
		var lineID string
		var item entity.AppliedLocation
		if err := rows.Scan(&lineID, &item.LocationID, &item.Quantity); err != nil {
			return nil, fmt.Errorf("scan allocation item: %w", err)
		}
		out[lineID] = append(out[lineID], item)
	}
	return out, rows.Err()
}

// Delete elimina el registro; los items caen en cascada.
func (r *OrderLineAllocationRepo) Delete(ctx context.Context, orderLineID string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM order_line_allocations WHERE order_line_id = $1`, orderLineID)
	if err != nil {
		return fmt.Errorf("delete order line allocation: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
