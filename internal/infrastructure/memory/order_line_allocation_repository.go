package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/stock-locations-api/internal/domain"
	"github.com/jhoicas/stock-locations-api/internal/domain/entity"
	"github.com/jhoicas/stock-locations-api/internal/domain/repository"
)

var _ repository.OrderLineAllocationRepository = (*OrderLineAllocationRepo)(nil)

// OrderLineAllocationRepo registros de asignación en memoria.
type OrderLineAllocationRepo struct {
	acc access
}

// NewOrderLineAllocationRepository construye el repositorio sobre el store.
func NewOrderLineAllocationRepository(store *Store) *OrderLineAllocationRepo {
	return &OrderLineAllocationRepo{acc: access{store: store}}
}

// Claim inserta el registro si la línea no tiene uno (equivalente a la clave única en PostgreSQL).
func (r *OrderLineAllocationRepo) Claim(_ context.Context, allocation *entity.OrderLineAllocation) (bool, error) {
	claimed := false
	err := r.acc.do(func(st *state) error {
		if _, ok := st.allocations[allocation.OrderLineID]; ok {
			return nil
		}
		st.allocations[allocation.OrderLineID] = copyAllocation(*allocation)
		claimed = true
		return nil
	})
	return claimed, err
}

func (r *OrderLineAllocationRepo) Complete(_ context.Context, allocation *entity.OrderLineAllocation) error {
	return r.acc.do(func(st *state) error {
		if _, ok := st.allocations[allocation.OrderLineID]; !ok {
			return domain.ErrNotFound
		}
		st.allocations[allocation.OrderLineID] = copyAllocation(*allocation)
		return nil
	})
}

func (r *OrderLineAllocationRepo) GetByOrderLine(_ context.Context, orderLineID string) (*entity.OrderLineAllocation, error) {
	var out *entity.OrderLineAllocation
	err := r.acc.do(func(st *state) error {
		if a, ok := st.allocations[orderLineID]; ok {
			c := copyAllocation(a)
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *OrderLineAllocationRepo) ListByOrder(_ context.Context, orderID string) ([]*entity.OrderLineAllocation, error) {
	var out []*entity.OrderLineAllocation
	err := r.acc.do(func(st *state) error {
		for _, a := range st.allocations {
			if a.OrderID == orderID {
				c := copyAllocation(a)
				out = append(out, &c)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].OrderLineID < out[j].OrderLineID })
		return nil
	})
	return out, err
}

func (r *OrderLineAllocationRepo) Delete(_ context.Context, orderLineID string) error {
	return r.acc.do(func(st *state) error {
		if _, ok := st.allocations[orderLineID]; !ok {
			return domain.ErrNotFound
		}
		delete(st.allocations, orderLineID)
		return nil
	})
}
