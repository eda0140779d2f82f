package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/stock-locations-api/internal/domain/entity"
	"github.com/jhoicas/stock-locations-api/internal/domain/repository"
)

var _ repository.LocationStockRepository = (*LocationStockRepo)(nil)

// LocationStockRepo stock por (producto, ubicación) en memoria.
type LocationStockRepo struct {
	acc access
}

// NewLocationStockRepository construye el repositorio sobre el store.
func NewLocationStockRepository(store *Store) *LocationStockRepo {
	return &LocationStockRepo{acc: access{store: store}}
}

// ListByProduct devuelve las filas en orden de Position (desempate por ID de ubicación).
func (r *LocationStockRepo) ListByProduct(_ context.Context, productID string) ([]*entity.ProductLocationStock, error) {
	var out []*entity.ProductLocationStock
	err := r.acc.do(func(st *state) error {
		for lid, s := range st.stock[productID] {
			loc, ok := st.locations[lid]
			if !ok {
				continue
			}
			out = append(out, &entity.ProductLocationStock{Location: loc, Stock: s})
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].Stock.Position == out[j].Stock.Position {
				return out[i].Stock.LocationID < out[j].Stock.LocationID
			}
			return out[i].Stock.Position < out[j].Stock.Position
		})
		return nil
	})
	return out, err
}

func (r *LocationStockRepo) Get(_ context.Context, productID, locationID string) (*entity.LocationStock, error) {
	var out *entity.LocationStock
	err := r.acc.do(func(st *state) error {
		if s, ok := st.stock[productID][locationID]; ok {
			out = &s
		}
		return nil
	})
	return out, err
}

func (r *LocationStockRepo) Set(_ context.Context, stock *entity.LocationStock) error {
	return r.acc.do(func(st *state) error {
		rows, ok := st.stock[stock.ProductID]
		if !ok {
			rows = map[string]entity.LocationStock{}
			st.stock[stock.ProductID] = rows
		}
		s := *stock
		if s.UpdatedAt.IsZero() {
			s.UpdatedAt = time.Now()
		}
		rows[stock.LocationID] = s
		return nil
	})
}

func (r *LocationStockRepo) Remove(_ context.Context, productID, locationID string) error {
	return r.acc.do(func(st *state) error {
		delete(st.stock[productID], locationID)
		return nil
	})
}

// SubtractAvailable resta min(quantity, actual) bajo el bloqueo del store.
func (r *LocationStockRepo) SubtractAvailable(_ context.Context, productID, locationID string, quantity int64) (int64, error) {
	var taken int64
	err := r.acc.do(func(st *state) error {
		s, ok := st.stock[productID][locationID]
		if !ok || quantity <= 0 {
			return nil
		}
		taken = min(quantity, max(s.Quantity, 0))
		if taken == 0 {
			return nil
		}
		s.Quantity -= taken
		s.UpdatedAt = time.Now()
		st.stock[productID][locationID] = s
		return nil
	})
	return taken, err
}
