// Package memory implementa los puertos de persistencia en memoria (modo desarrollo y tests).
//
// Las transacciones se serializan con un mutex y trabajan sobre una copia del estado;
// la copia solo reemplaza al estado vigente si la función termina sin error (rollback implícito).
package memory

import (
	"sync"

	"github.com/jhoicas/stock-locations-api/internal/domain/entity"
)

// Store estado compartido por todos los repositorios en memoria.
type Store struct {
	mu   sync.Mutex
	data *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{data: newState()}
}

type state struct {
	locations   map[string]entity.Location
	products    map[string]entity.Product
	stock       map[string]map[string]entity.LocationStock // productID -> locationID
	allocations map[string]entity.OrderLineAllocation
}

func newState() *state {
	return &state{
		locations:   map[string]entity.Location{},
		products:    map[string]entity.Product{},
		stock:       map[string]map[string]entity.LocationStock{},
		allocations: map[string]entity.OrderLineAllocation{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.locations {
		c.locations[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for pid, rows := range s.stock {
		m := make(map[string]entity.LocationStock, len(rows))
		for lid, v := range rows {
			m[lid] = v
		}
		c.stock[pid] = m
	}
	for k, v := range s.allocations {
		c.allocations[k] = copyAllocation(v)
	}
	return c
}

func copyAllocation(a entity.OrderLineAllocation) entity.OrderLineAllocation {
	a.PerLocationApplied = append([]entity.AppliedLocation(nil), a.PerLocationApplied...)
	return a
}

// access resuelve sobre qué estado opera un repositorio: el de una transacción en curso
// (ya bloqueado por el TxRunner) o el vigente, bloqueando por operación.
type access struct {
	store *Store
	tx    *state
}

func (a access) do(fn func(st *state) error) error {
	if a.tx != nil {
		return fn(a.tx)
	}
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	return fn(a.store.data)
}
