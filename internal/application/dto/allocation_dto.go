package dto

import (
	"time"

	"github.com/jhoicas/stock-locations-api/internal/domain/allocation"
)

// PlanRequest body para POST /api/allocations/plan (simulación sin efectos).
type PlanRequest struct {
	ProductID         string `json:"product_id"`
	VariationID       string `json:"variation_id,omitempty"`
	RequestedQuantity int64  `json:"requested_quantity"`
}

// PlanResponse plan calculado contra el stock actual.
type PlanResponse struct {
	ProductID         string                        `json:"product_id"`
	RequestedQuantity int64                         `json:"requested_quantity"`
	Plan              []allocation.LocationQuantity `json:"plan"`
	Total             int64                         `json:"total"`
	FullySatisfiable  bool                          `json:"fully_satisfiable"`
}

// NewOrderLineRequest body para POST /api/orders/:orderId/lines.
type NewOrderLineRequest struct {
	OrderLineID string `json:"order_line_id"`
	ProductID   string `json:"product_id"`
	VariationID string `json:"variation_id,omitempty"`
	Quantity    int64  `json:"quantity"`
	FromAdmin   bool   `json:"from_admin"`
}

// ApplyResultDTO resultado de aplicar una asignación.
type ApplyResultDTO struct {
	OrderLineID    string                        `json:"order_line_id"`
	FullySatisfied bool                          `json:"fully_satisfied"`
	AppliedPlan    []allocation.LocationQuantity `json:"applied_plan"`
	Replayed       bool                          `json:"replayed"`
}

// OrderLineOutcomeResponse salida del disparador de nueva línea.
type OrderLineOutcomeResponse struct {
	OrderLineID string          `json:"order_line_id"`
	Status      string          `json:"status"`
	Reason      string          `json:"reason,omitempty"`
	Result      *ApplyResultDTO `json:"result,omitempty"`
}

// OrderEditRequest body para PUT /api/orders/:orderId/allocations.
type OrderEditRequest struct {
	Autosave bool               `json:"autosave"`
	Lines    []OrderEditLineDTO `json:"lines"`
}

// OrderEditLineDTO cantidades manuales de una línea (location_id -> cantidad).
type OrderEditLineDTO struct {
	OrderLineID string           `json:"order_line_id"`
	ProductID   string           `json:"product_id"`
	VariationID string           `json:"variation_id,omitempty"`
	Quantity    int64            `json:"quantity"`
	Locations   map[string]int64 `json:"locations"`
}

// NoticeDTO aviso para el operador.
type NoticeDTO struct {
	OrderLineID string          `json:"order_line_id"`
	Level       string          `json:"level"`
	Message     string          `json:"message"`
	Result      *ApplyResultDTO `json:"result,omitempty"`
}

// OrderEditResponse avisos por línea tras guardar.
type OrderEditResponse struct {
	Notices []NoticeDTO `json:"notices"`
}

// EditFormRequest body para POST /api/orders/:orderId/edit-form.
type EditFormRequest struct {
	Lines []EditFormLineDTO `json:"lines"`
}

// EditFormLineDTO línea para la que se pide el formulario.
type EditFormLineDTO struct {
	OrderLineID string `json:"order_line_id"`
	ProductID   string `json:"product_id"`
	VariationID string `json:"variation_id,omitempty"`
}

// EditFormResponse formulario de edición.
type EditFormResponse struct {
	OrderID  string        `json:"order_id"`
	Lines    []FormLineDTO `json:"lines"`
	Warnings []string      `json:"warnings"`
}

// FormLineDTO entradas por ubicación de una línea.
type FormLineDTO struct {
	OrderLineID string         `json:"order_line_id"`
	ProductID   string         `json:"product_id"`
	Applied     bool           `json:"applied"`
	Message     string         `json:"message,omitempty"`
	Inputs      []FormInputDTO `json:"inputs"`
}

// FormInputDTO entrada numérica por ubicación.
type FormInputDTO struct {
	InputID         string `json:"input_id"`
	LocationID      string `json:"location_id"`
	LocationName    string `json:"location_name"`
	CurrentStock    int64  `json:"current_stock"`
	AppliedQuantity int64  `json:"applied_quantity"`
	ReadOnly        bool   `json:"read_only"`
	Hidden          bool   `json:"hidden"`
	Description     string `json:"description"`
}

// OrderLineAllocationResponse registro de asignación persistido.
type OrderLineAllocationResponse struct {
	OrderLineID       string                        `json:"order_line_id"`
	OrderID           string                        `json:"order_id"`
	ProductID         string                        `json:"product_id"`
	RequestedQuantity int64                         `json:"requested_quantity"`
	Applied           bool                          `json:"applied"`
	PerLocation       []allocation.LocationQuantity `json:"per_location_applied"`
	FullySatisfied    bool                          `json:"fully_satisfied"`
	Source            string                        `json:"source"`
	AppliedAt         time.Time                     `json:"applied_at"`
}

// OrderAllocationsResponse registros de un pedido.
type OrderAllocationsResponse struct {
	OrderID string                        `json:"order_id"`
	Items   []OrderLineAllocationResponse `json:"items"`
}
