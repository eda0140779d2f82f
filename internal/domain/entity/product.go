package entity

import "time"

// Product representa un producto o variación vendible.
// Una variación (ParentID != "") asigna stock con su propio ID y su propia lista de ubicaciones.
type Product struct {
	ID          string
	ParentID    string
	SKU         string
	Name        string
	ManageStock bool // sin gestión de stock el motor de asignación nunca se invoca
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsVariation indica si el producto es una variación de otro.
func (p *Product) IsVariation() bool {
	return p != nil && p.ParentID != ""
}
