package dto

import "time"

// CreateProductRequest entrada para crear un producto o variación.
type CreateProductRequest struct {
	SKU         string `json:"sku" validate:"required,min=1,max=100"`
	Name        string `json:"name" validate:"required,min=1,max=200"`
	ParentID    string `json:"parent_id"`
	ManageStock bool   `json:"manage_stock"`
}

// UpdateProductRequest entrada para actualizar un producto.
type UpdateProductRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	ManageStock *bool   `json:"manage_stock"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string    `json:"id"`
	ParentID    string    `json:"parent_id,omitempty"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	ManageStock bool      `json:"manage_stock"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ProductLocationDTO stock de un producto en una ubicación (lectura y escritura del catálogo).
// En escritura se identifica la ubicación por ID o por slug; Quantity null quita la ubicación del producto.
type ProductLocationDTO struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	Slug     string `json:"slug,omitempty"`
	Quantity *int64 `json:"quantity"`
}

// SetProductLocationsRequest body para PUT /api/products/:id/locations.
type SetProductLocationsRequest struct {
	Locations []ProductLocationDTO `json:"locations"`
}

// ProductLocationsResponse ubicaciones del producto en orden configurado.
type ProductLocationsResponse struct {
	ProductID string               `json:"product_id"`
	Locations []ProductLocationDTO `json:"locations"`
	Total     int64                `json:"total"`
}
