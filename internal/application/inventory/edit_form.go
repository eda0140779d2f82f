package inventory

import (
	"context"
	"fmt"
)

// Mensajes del formulario de edición.
const (
	MsgAddToLocation    = "Para gestionar el stock de este producto, agréguelo a una ubicación de stock."
	MsgUnmanagedStock   = "Este producto/variación no tiene gestión de stock activada."
	MsgNoStockAtLoc     = "Esta ubicación no tiene stock y no se puede restar."
	MsgEnterQuantity    = "Ingrese la cantidad de stock a restar de esta ubicación."
	msgLineNotAllocated = "Falta stock parcial o total en ubicaciones para la línea %s. Complete el stock restante."
)

// EditFormLine línea de pedido para la que se pide el formulario.
type EditFormLine struct {
	OrderLineID string
	ProductID   string
	VariationID string
}

// EditForm modelo de lectura del formulario de edición de pedido (una entrada por ubicación y línea).
type EditForm struct {
	OrderID  string
	Lines    []FormLine
	Warnings []string
}

// FormLine entradas de una línea; Message reemplaza las entradas cuando no aplican.
type FormLine struct {
	OrderLineID string
	ProductID   string
	Applied     bool
	Message     string
	Inputs      []FormInput
}

// FormInput entrada numérica por ubicación. Tras aplicar la línea la entrada es de solo lectura y oculta;
// sin stock en la ubicación la entrada se oculta.
type FormInput struct {
	InputID         string
	LocationID      string
	LocationName    string
	CurrentStock    int64
	AppliedQuantity int64
	ReadOnly        bool
	Hidden          bool
	Description     string
}

// EditForm construye el formulario de edición para las líneas indicadas.
func (s *OrderLineService) EditForm(ctx context.Context, orderID string, lines []EditFormLine) (*EditForm, error) {
	form := &EditForm{OrderID: orderID, Lines: make([]FormLine, 0, len(lines)), Warnings: []string{}}

	for _, l := range lines {
		record, err := s.allocRepo.GetByOrderLine(ctx, l.OrderLineID)
		if err != nil {
			return nil, err
		}
		applied := record != nil && record.Applied
		if !applied {
			form.Warnings = append(form.Warnings, fmt.Sprintf(msgLineNotAllocated, l.OrderLineID))
		}

		product, err := s.resolveProduct(ctx, l.ProductID, l.VariationID)
		if err != nil {
			return nil, err
		}
		fl := FormLine{OrderLineID: l.OrderLineID, ProductID: product.ID, Applied: applied}

		rows, err := s.stockRepo.ListByProduct(ctx, product.ID)
		if err != nil {
			return nil, err
		}
		switch {
		case len(rows) == 0:
			fl.Message = MsgAddToLocation
		case !product.ManageStock:
			fl.Message = MsgUnmanagedStock
		default:
			fl.Inputs = make([]FormInput, 0, len(rows))
			for _, r := range rows {
				in := FormInput{
					InputID:      fmt.Sprintf("oitem_%s_%s_%s", l.OrderLineID, product.ID, r.Location.ID),
					LocationID:   r.Location.ID,
					LocationName: r.Location.Name,
					CurrentStock: r.Stock.Quantity,
					Description:  MsgEnterQuantity,
				}
				if applied {
					in.ReadOnly = true
					in.Hidden = true
					in.AppliedQuantity = record.AppliedFor(r.Location.ID)
				}
				if r.Stock.Quantity <= 0 {
					in.Hidden = true
					in.Description = MsgNoStockAtLoc
				}
				fl.Inputs = append(fl.Inputs, in)
			}
		}
		form.Lines = append(form.Lines, fl)
	}
	return form, nil
}
