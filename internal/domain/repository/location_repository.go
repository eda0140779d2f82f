package repository

import (
	"context"

	"github.com/jhoicas/stock-locations-api/internal/domain/entity"
)

// LocationRepository define el puerto de persistencia para el registro de ubicaciones (DIP).
type LocationRepository interface {
	Create(ctx context.Context, location *entity.Location) error
	GetByID(ctx context.Context, id string) (*entity.Location, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Location, error)
	Update(ctx context.Context, location *entity.Location) error
	List(ctx context.Context, limit, offset int) ([]*entity.Location, error)
	Delete(ctx context.Context, id string) error
}
