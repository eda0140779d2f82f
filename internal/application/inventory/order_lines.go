package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/stock-locations-api/internal/domain"
	"github.com/jhoicas/stock-locations-api/internal/domain/allocation"
	"github.com/jhoicas/stock-locations-api/internal/domain/entity"
	"github.com/jhoicas/stock-locations-api/internal/domain/repository"
	"github.com/jhoicas/stock-locations-api/pkg/logger"
)

// Estados de una línea procesada por el disparador automático.
const (
	OutcomeApplied  = "applied"
	OutcomeReplayed = "replayed"
	OutcomeSkipped  = "skipped"
)

// Niveles de aviso para el operador.
const (
	NoticeSuccess = "success"
	NoticeWarning = "warning"
	NoticeError   = "error"
)

// Mensajes de aviso al guardar un pedido.
const (
	MsgStockUpdated = "Stock en ubicaciones actualizado correctamente."
	MsgStockMissing = "Falta stock parcial o total en ubicaciones para este pedido. Complete el stock restante."
)

// OrderLineService orquesta el motor de asignación para las líneas de pedido:
// asignación automática al crear la línea y asignación manual al editar el pedido.
type OrderLineService struct {
	ledger       *Ledger
	productRepo  repository.ProductRepository
	stockRepo    repository.LocationStockRepository
	allocRepo    repository.OrderLineAllocationRepository
	locationRepo repository.LocationRepository
	pdf          PickingSlipGenerator
	log          *logger.Logger
}

// NewOrderLineService construye el servicio. pdf puede ser nil si no se exponen hojas de picking.
func NewOrderLineService(
	ledger *Ledger,
	productRepo repository.ProductRepository,
	stockRepo repository.LocationStockRepository,
	allocRepo repository.OrderLineAllocationRepository,
	locationRepo repository.LocationRepository,
	pdf PickingSlipGenerator,
	log *logger.Logger,
) *OrderLineService {
	if log == nil {
		log = logger.Nop()
	}
	return &OrderLineService{
		ledger:       ledger,
		productRepo:  productRepo,
		stockRepo:    stockRepo,
		allocRepo:    allocRepo,
		locationRepo: locationRepo,
		pdf:          pdf,
		log:          log,
	}
}

// NewOrderLineInput entrada del disparador de creación de línea de pedido.
// FromAdmin: la línea se creó desde el panel; el operador asigna manualmente al guardar.
type NewOrderLineInput struct {
	OrderID     string
	OrderLineID string
	ProductID   string
	VariationID string
	Quantity    int64
	FromAdmin   bool
}

// OrderLineOutcome resultado del disparador automático.
type OrderLineOutcome struct {
	OrderLineID string
	Status      string
	Reason      string
	Result      *ApplyResult
}

// AllocateNewOrderLine planifica contra el stock actual (orden configurado de ubicaciones)
// y aplica el plan sin interacción del operador.
func (s *OrderLineService) AllocateNewOrderLine(ctx context.Context, in NewOrderLineInput) (*OrderLineOutcome, error) {
	if in.OrderLineID == "" {
		return nil, domain.NewValidationError("order_line_id", "requerido")
	}
	if in.Quantity <= 0 {
		return nil, domain.NewValidationError("quantity", "debe ser mayor que cero")
	}
	skip := func(reason string) (*OrderLineOutcome, error) {
		s.log.Debug().Str("order_line_id", in.OrderLineID).Str("reason", reason).Msg("asignación automática omitida")
		return &OrderLineOutcome{OrderLineID: in.OrderLineID, Status: OutcomeSkipped, Reason: reason}, nil
	}
	if in.FromAdmin {
		return skip("creada desde el panel: asignación manual")
	}
	stored, err := s.ledger.Stored(ctx, s.allocRepo, in.OrderLineID, entity.AllocationSourceAuto)
	if err != nil {
		return nil, err
	}
	if stored != nil {
		return &OrderLineOutcome{OrderLineID: in.OrderLineID, Status: OutcomeReplayed, Result: stored}, nil
	}

	product, err := s.resolveProduct(ctx, in.ProductID, in.VariationID)
	if err != nil {
		return nil, err
	}
	if !product.ManageStock {
		return skip(domain.ErrUnmanagedStock.Error())
	}
	available, err := s.availableStock(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	if len(available) == 0 {
		return skip(domain.ErrNoLocations.Error())
	}

	plan, err := allocation.PlanAllocation(allocation.Request{
		ProductID:         product.ID,
		RequestedQuantity: in.Quantity,
		AvailableStock:    available,
	})
	if err != nil {
		return nil, err
	}
	if plan.IsEmpty() {
		return skip("sin stock asignable")
	}

	result, err := s.ledger.Apply(ctx, ApplyInput{
		OrderLineID:       in.OrderLineID,
		OrderID:           in.OrderID,
		ProductID:         product.ID,
		RequestedQuantity: in.Quantity,
		Plan:              plan,
		Source:            entity.AllocationSourceAuto,
	})
	if err != nil {
		return nil, err
	}
	s.logResult(in.OrderLineID, product.ID, in.Quantity, result)

	status := OutcomeApplied
	if result.Replayed {
		status = OutcomeReplayed
	}
	return &OrderLineOutcome{OrderLineID: in.OrderLineID, Status: status, Result: result}, nil
}

// OrderEditInput cantidades por ubicación enviadas por el operador al guardar un pedido.
type OrderEditInput struct {
	OrderID  string
	Autosave bool
	Lines    []OrderEditLine
}

// OrderEditLine línea del formulario de edición. Locations: ubicación -> cantidad a restar.
type OrderEditLine struct {
	OrderLineID string
	ProductID   string
	VariationID string
	Quantity    int64
	Locations   map[string]int64
}

// Notice aviso para el operador sobre una línea.
type Notice struct {
	OrderLineID string
	Level       string
	Message     string
	Result      *ApplyResult
}

// SaveOrderEdit aplica las cantidades manuales de cada línea. Un error de validación en una línea
// se informa como aviso de error y el resto de líneas continúa; errores de infraestructura abortan.
func (s *OrderLineService) SaveOrderEdit(ctx context.Context, in OrderEditInput) ([]Notice, error) {
	if in.OrderID == "" {
		return nil, domain.NewValidationError("order_id", "requerido")
	}
	notices := []Notice{}
	if in.Autosave {
		return notices, nil
	}

	for _, line := range in.Lines {
		notice, err := s.saveLine(ctx, in.OrderID, line)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrNotFound) {
				notices = append(notices, Notice{OrderLineID: line.OrderLineID, Level: NoticeError, Message: err.Error()})
				continue
			}
			return nil, err
		}
		if notice != nil {
			notices = append(notices, *notice)
		}
	}
	return notices, nil
}

func (s *OrderLineService) saveLine(ctx context.Context, orderID string, line OrderEditLine) (*Notice, error) {
	if line.OrderLineID == "" {
		return nil, domain.NewValidationError("order_line_id", "requerido")
	}
	stored, err := s.ledger.Stored(ctx, s.allocRepo, line.OrderLineID, entity.AllocationSourceManual)
	if err != nil {
		return nil, err
	}
	if stored != nil {
		return noticeFor(line.OrderLineID, stored), nil
	}
	product, err := s.resolveProduct(ctx, line.ProductID, line.VariationID)
	if err != nil {
		return nil, err
	}
	if !product.ManageStock {
		return nil, nil
	}
	available, err := s.availableStock(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	if len(available) == 0 {
		return nil, nil
	}

	// Solo se leen las ubicaciones configuradas para el producto.
	submitted := make(map[string]int64, len(line.Locations))
	for _, a := range available {
		if qty, ok := line.Locations[a.LocationID]; ok {
			submitted[a.LocationID] = qty
		}
	}
	if len(submitted) == 0 {
		return nil, nil
	}

	plan, err := allocation.ManualPlan(available, submitted)
	if err != nil {
		return nil, err
	}
	if plan.IsEmpty() {
		return nil, nil
	}

	result, err := s.ledger.Apply(ctx, ApplyInput{
		OrderLineID:       line.OrderLineID,
		OrderID:           orderID,
		ProductID:         product.ID,
		RequestedQuantity: line.Quantity,
		Plan:              plan,
		Source:            entity.AllocationSourceManual,
	})
	if err != nil {
		return nil, err
	}
	s.logResult(line.OrderLineID, product.ID, line.Quantity, result)
	return noticeFor(line.OrderLineID, result), nil
}

func noticeFor(orderLineID string, result *ApplyResult) *Notice {
	if result.FullySatisfied {
		return &Notice{OrderLineID: orderLineID, Level: NoticeSuccess, Message: MsgStockUpdated, Result: result}
	}
	return &Notice{OrderLineID: orderLineID, Level: NoticeWarning, Message: MsgStockMissing, Result: result}
}

// PreviewPlan calcula el plan automático contra el stock actual sin aplicarlo.
// Devuelve el producto resuelto (variación si llega) y el plan, vacío si no hay stock.
func (s *OrderLineService) PreviewPlan(ctx context.Context, productID, variationID string, quantity int64) (*entity.Product, allocation.Plan, error) {
	product, err := s.resolveProduct(ctx, productID, variationID)
	if err != nil {
		return nil, nil, err
	}
	if !product.ManageStock {
		return nil, nil, fmt.Errorf("producto %s: %w", product.ID, domain.ErrUnmanagedStock)
	}
	available, err := s.availableStock(ctx, product.ID)
	if err != nil {
		return nil, nil, err
	}
	if len(available) == 0 {
		return nil, nil, fmt.Errorf("producto %s: %w", product.ID, domain.ErrNoLocations)
	}
	plan, err := allocation.PlanAllocation(allocation.Request{
		ProductID:         product.ID,
		RequestedQuantity: quantity,
		AvailableStock:    available,
	})
	if err != nil {
		return nil, nil, err
	}
	return product, plan, nil
}

// GetAllocation devuelve el registro de asignación de una línea.
func (s *OrderLineService) GetAllocation(ctx context.Context, orderLineID string) (*entity.OrderLineAllocation, error) {
	a, err := s.allocRepo.GetByOrderLine(ctx, orderLineID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	return a, nil
}

// ListOrderAllocations devuelve los registros de asignación de un pedido.
func (s *OrderLineService) ListOrderAllocations(ctx context.Context, orderID string) ([]*entity.OrderLineAllocation, error) {
	return s.allocRepo.ListByOrder(ctx, orderID)
}

// DeleteOrderLine elimina el registro de asignación cuando la línea de pedido se borra.
// El stock ya restado no se devuelve.
func (s *OrderLineService) DeleteOrderLine(ctx context.Context, orderLineID string) error {
	a, err := s.allocRepo.GetByOrderLine(ctx, orderLineID)
	if err != nil {
		return err
	}
	if a == nil {
		return domain.ErrNotFound
	}
	return s.allocRepo.Delete(ctx, orderLineID)
}

// resolveProduct usa la variación si existe; si no, el producto.
func (s *OrderLineService) resolveProduct(ctx context.Context, productID, variationID string) (*entity.Product, error) {
	id := productID
	if variationID != "" {
		id = variationID
	}
	if id == "" {
		return nil, domain.NewValidationError("product_id", "requerido")
	}
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("producto %s: %w", id, domain.ErrNotFound)
	}
	return product, nil
}

func (s *OrderLineService) availableStock(ctx context.Context, productID string) ([]allocation.LocationQuantity, error) {
	rows, err := s.stockRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	available := make([]allocation.LocationQuantity, 0, len(rows))
	for _, r := range rows {
		available = append(available, allocation.LocationQuantity{LocationID: r.Stock.LocationID, Quantity: r.Stock.Quantity})
	}
	return available, nil
}

func (s *OrderLineService) logResult(orderLineID, productID string, requested int64, r *ApplyResult) {
	if r.Replayed {
		s.log.Info().Str("order_line_id", orderLineID).Msg("línea ya asignada: se devuelve el resultado guardado")
		return
	}
	ev := s.log.Info()
	if !r.FullySatisfied {
		ev = s.log.Warn()
	}
	ev.Str("order_line_id", orderLineID).
		Str("product_id", productID).
		Int64("requested", requested).
		Int64("applied", r.AppliedTotal()).
		Bool("fully_satisfied", r.FullySatisfied).
		Msg("asignación de stock aplicada")
}
