package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-locations-api/internal/domain/entity"
	"github.com/jhoicas/stock-locations-api/internal/domain/repository"
)

var _ repository.LocationStockRepository = (*LocationStockRepo)(nil)

// LocationStockRepo stock por (producto, ubicación) sobre PostgreSQL (usable con pool o tx).
type LocationStockRepo struct {
	q Querier
}

// NewLocationStockRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLocationStockRepository(q Querier) *LocationStockRepo {
	return &LocationStockRepo{q: q}
}

// ListByProduct devuelve las ubicaciones configuradas en orden de posición.
func (r *LocationStockRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.ProductLocationStock, error) {
	query := `
		SELECT l.id, l.name, l.slug, l.created_at, l.updated_at,
		       s.product_id, s.location_id, s.quantity, s.position, s.updated_at
		FROM location_stock s
		JOIN locations l ON l.id = s.location_id
		WHERE s.product_id = $1
		ORDER BY s.position, s.location_id`
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list location stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductLocationStock
	for rows.Next() {
		var pl entity.ProductLocationStock
		if err := rows.Scan(
			&pl.Location.ID, &pl.Location.Name, &pl.Location.Slug, &pl.Location.CreatedAt, &pl.Location.UpdatedAt,
			&pl.Stock.ProductID, &pl.Stock.LocationID, &pl.Stock.Quantity, &pl.Stock.Position, &pl.Stock.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan location stock: %w", err)
		}
		list = append(list, &pl)
	}
	return list, rows.Err()
}

// Get obtiene el stock de un producto en una ubicación; nil si no está configurada.
func (r *LocationStockRepo) Get(ctx context.Context, productID, locationID string) (*entity.LocationStock, error) {
	query := `
		SELECT product_id, location_id, quantity, position, updated_at
		FROM location_stock WHERE product_id = $1 AND location_id = $2`
	return r.scanOne(ctx, query, productID, locationID)
}

// getForUpdate obtiene la fila y la bloquea (SELECT FOR UPDATE) hasta el fin de la transacción.
func (r *LocationStockRepo) getForUpdate(ctx context.Context, productID, locationID string) (*entity.LocationStock, error) {
	query := `
		SELECT product_id, location_id, quantity, position, updated_at
		FROM location_stock WHERE product_id = $1 AND location_id = $2
		FOR UPDATE`
	return r.scanOne(ctx, query, productID, locationID)
}

func (r *LocationStockRepo) scanOne(ctx context.Context, query, productID, locationID string) (*entity.LocationStock, error) {
	var s entity.LocationStock
	err := r.q.QueryRow(ctx, query, productID, locationID).Scan(
		&s.ProductID, &s.LocationID, &s.Quantity, &s.Position, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location stock: %w", err)
	}
	return &s, nil
}

// Set inserta o reemplaza cantidad y posición (por producto y ubicación).
func (r *LocationStockRepo) Set(ctx context.Context, stock *entity.LocationStock) error {
	query := `
		INSERT INTO location_stock (product_id, location_id, quantity, position, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (product_id, location_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, position = EXCLUDED.position, updated_at = now()`
	_, err := r.q.Exec(ctx, query, stock.ProductID, stock.LocationID, stock.Quantity, stock.Position)
	if err != nil {
		return fmt.Errorf("upsert location stock: %w", err)
	}
	return nil
}

// Remove quita la ubicación del producto.
func (r *LocationStockRepo) Remove(ctx context.Context, productID, locationID string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM location_stock WHERE product_id = $1 AND location_id = $2`, productID, locationID)
	if err != nil {
		return fmt.Errorf("delete location stock: %w", err)
	}
	return nil
}

// SubtractAvailable bloquea la fila y resta min(quantity, actual). Debe llamarse dentro de una tx.
func (r *LocationStockRepo) SubtractAvailable(ctx context.Context, productID, locationID string, quantity int64) (int64, error) {
	if quantity <= 0 {
		return 0, nil
	}
	current, err := r.getForUpdate(ctx, productID, locationID)
	if err != nil {
		return 0, err
	}
	if current == nil {
		return 0, nil
	}
	taken := min(quantity, max(current.Quantity, 0))
	if taken == 0 {
		return 0, nil
	}
	query := `
		UPDATE location_stock SET quantity = quantity - $3, updated_at = now()
		WHERE product_id = $1 AND location_id = $2`
	if _, err := r.q.Exec(ctx, query, productID, locationID, taken); err != nil {
		return 0, fmt.Errorf("subtract location stock: %w", err)
	}
	return taken, nil
}
