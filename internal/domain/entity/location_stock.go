package entity

import "time"

// LocationStock es el stock de un producto en una ubicación.
// Quantity nunca es negativo; Position es el orden configurado de la ubicación para el producto
// y define el desempate del planificador.
type LocationStock struct {
	ProductID  string
	LocationID string
	Quantity   int64
	Position   int
	UpdatedAt  time.Time
}

// ProductLocationStock une el stock con los datos de la ubicación para lecturas del catálogo.
type ProductLocationStock struct {
	Location Location
	Stock    LocationStock
}
