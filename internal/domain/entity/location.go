package entity

import "time"

// Location representa un punto de stock (bodega, tienda, estante) donde un producto puede tener existencias.
// El registro de ubicaciones es externo al motor de asignación: aquí solo se consulta su existencia.
type Location struct {
	ID        string
	Name      string
	Slug      string // único; derivado del nombre si no se envía
	CreatedAt time.Time
	UpdatedAt time.Time
}
