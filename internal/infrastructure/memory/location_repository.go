package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/stock-locations-api/internal/domain"
	"github.com/jhoicas/stock-locations-api/internal/domain/entity"
	"github.com/jhoicas/stock-locations-api/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo registro de ubicaciones en memoria.
type LocationRepo struct {
	acc access
}

// NewLocationRepository construye el repositorio sobre el store.
func NewLocationRepository(store *Store) *LocationRepo {
	return &LocationRepo{acc: access{store: store}}
}

func (r *LocationRepo) Create(_ context.Context, location *entity.Location) error {
	return r.acc.do(func(st *state) error {
		if _, ok := st.locations[location.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, l := range st.locations {
			if l.Slug == location.Slug {
				return domain.ErrDuplicate
			}
		}
		st.locations[location.ID] = *location
		return nil
	})
}

func (r *LocationRepo) GetByID(_ context.Context, id string) (*entity.Location, error) {
	var out *entity.Location
	err := r.acc.do(func(st *state) error {
		if l, ok := st.locations[id]; ok {
			out = &l
		}
		return nil
	})
	return out, err
}

func (r *LocationRepo) GetBySlug(_ context.Context, slug string) (*entity.Location, error) {
	var out *entity.Location
	err := r.acc.do(func(st *state) error {
		for _, l := range st.locations {
			if l.Slug == slug {
				l := l
				out = &l
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *LocationRepo) Update(_ context.Context, location *entity.Location) error {
	return r.acc.do(func(st *state) error {
		if _, ok := st.locations[location.ID]; !ok {
			return domain.ErrNotFound
		}
		for id, l := range st.locations {
			if id != location.ID && l.Slug == location.Slug {
				return domain.ErrDuplicate
			}
		}
		st.locations[location.ID] = *location
		return nil
	})
}

// List ordena por nombre para una paginación estable.
func (r *LocationRepo) List(_ context.Context, limit, offset int) ([]*entity.Location, error) {
	var out []*entity.Location
	err := r.acc.do(func(st *state) error {
		all := make([]entity.Location, 0, len(st.locations))
		for _, l := range st.locations {
			all = append(all, l)
		}
		sort.Slice(all, func(i, j int) bool {
			if all[i].Name == all[j].Name {
				return all[i].ID < all[j].ID
			}
			return all[i].Name < all[j].Name
		})
		for i := offset; i < len(all) && len(out) < limit; i++ {
			l := all[i]
			out = append(out, &l)
		}
		return nil
	})
	return out, err
}

// Delete elimina la ubicación y sus filas de stock.
func (r *LocationRepo) Delete(_ context.Context, id string) error {
	return r.acc.do(func(st *state) error {
		if _, ok := st.locations[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.locations, id)
		for _, rows := range st.stock {
			delete(rows, id)
		}
		return nil
	})
}
