package memory

import (
	"context"

	"github.com/jhoicas/stock-locations-api/internal/application/inventory"
	"github.com/jhoicas/stock-locations-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks de forma serializada sobre una copia del estado.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner con el store.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run bloquea el store, ejecuta fn con repos atados a la copia y confirma solo si fn no falla.
func (r *TxRunner) Run(ctx context.Context, fn func(
	stockRepo repository.LocationStockRepository,
	allocRepo repository.OrderLineAllocationRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	working := r.store.data.clone()
	acc := access{store: r.store, tx: working}
	if err := fn(&LocationStockRepo{acc: acc}, &OrderLineAllocationRepo{acc: acc}); err != nil {
		return err
	}
	r.store.data = working
	return nil
}
