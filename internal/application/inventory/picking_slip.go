package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/stock-locations-api/internal/domain"
)

// PickingSlip datos de la hoja de picking de un pedido: qué retirar de cada ubicación.
type PickingSlip struct {
	OrderID     string
	GeneratedAt time.Time
	Lines       []PickingLine
}

// PickingLine una fila por (línea de pedido, ubicación).
type PickingLine struct {
	OrderLineID    string
	SKU            string
	ProductName    string
	LocationName   string
	Quantity       int64
	Requested      int64
	FullySatisfied bool
}

// BuildPickingSlip arma la hoja de picking con las líneas aplicadas del pedido.
func (s *OrderLineService) BuildPickingSlip(ctx context.Context, orderID string) (*PickingSlip, error) {
	records, err := s.allocRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	slip := &PickingSlip{OrderID: orderID, GeneratedAt: time.Now()}
	locationNames := map[string]string{}

	for _, r := range records {
		if !r.Applied {
			continue
		}
		sku, name := r.ProductID, r.ProductID
		product, err := s.productRepo.GetByID(ctx, r.ProductID)
		if err != nil {
			return nil, err
		}
		if product != nil {
			sku, name = product.SKU, product.Name
		}
		for _, l := range r.PerLocationApplied {
			locName, ok := locationNames[l.LocationID]
			if !ok {
				loc, err := s.locationRepo.GetByID(ctx, l.LocationID)
				if err != nil {
					return nil, err
				}
				locName = l.LocationID
				if loc != nil {
					locName = loc.Name
				}
				locationNames[l.LocationID] = locName
			}
			slip.Lines = append(slip.Lines, PickingLine{
				OrderLineID:    r.OrderLineID,
				SKU:            sku,
				ProductName:    name,
				LocationName:   locName,
				Quantity:       l.Quantity,
				Requested:      r.RequestedQuantity,
				FullySatisfied: r.FullySatisfied,
			})
		}
	}
	if len(slip.Lines) == 0 {
		return nil, fmt.Errorf("pedido %s sin asignaciones aplicadas: %w", orderID, domain.ErrNotFound)
	}
	return slip, nil
}

// PickingSlipPDF genera el PDF de la hoja de picking.
func (s *OrderLineService) PickingSlipPDF(ctx context.Context, orderID string) ([]byte, error) {
	if s.pdf == nil {
		return nil, errors.New("generador de PDF no configurado")
	}
	slip, err := s.BuildPickingSlip(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.pdf.GeneratePickingSlip(ctx, slip)
}
