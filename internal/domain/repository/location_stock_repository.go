package repository

import (
	"context"

	"github.com/jhoicas/stock-locations-api/internal/domain/entity"
)

// LocationStockRepository define el puerto para el stock por (producto, ubicación).
// Usado dentro de transacciones para garantizar consistencia.
type LocationStockRepository interface {
	// ListByProduct devuelve las ubicaciones configuradas del producto en orden de Position.
	ListByProduct(ctx context.Context, productID string) ([]*entity.ProductLocationStock, error)
	// Get devuelve nil, nil si la ubicación no está configurada para el producto.
	Get(ctx context.Context, productID, locationID string) (*entity.LocationStock, error)
	// Set crea o reemplaza la fila (operación administrativa del catálogo).
	Set(ctx context.Context, stock *entity.LocationStock) error
	// Remove quita la ubicación de las configuradas para el producto.
	Remove(ctx context.Context, productID, locationID string) error
	// SubtractAvailable bloquea la fila, resta min(quantity, stock actual) y devuelve lo restado.
	// Sin fila configurada resta 0: nunca crea stock implícitamente.
	SubtractAvailable(ctx context.Context, productID, locationID string, quantity int64) (int64, error)
}
