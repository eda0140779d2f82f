package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-locations-api/internal/application/dto"
	"github.com/jhoicas/stock-locations-api/internal/application/inventory"
	"github.com/jhoicas/stock-locations-api/internal/domain/allocation"
	"github.com/jhoicas/stock-locations-api/internal/domain/entity"
	"github.com/jhoicas/stock-locations-api/pkg/logger"
)

// AllocationHandler expone el motor de asignación: simulación, disparadores de pedido y consultas.
type AllocationHandler struct {
	svc *inventory.OrderLineService
	log *logger.Logger
}

// NewAllocationHandler construye el handler.
func NewAllocationHandler(svc *inventory.OrderLineService, log *logger.Logger) *AllocationHandler {
	return &AllocationHandler{svc: svc, log: log}
}

// Plan godoc
// @Summary      Simular asignación (no modifica stock)
// @Tags         allocations
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PlanRequest  true  "Producto y cantidad"
// @Success      200   {object}  dto.PlanResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/allocations/plan [post]
func (h *AllocationHandler) Plan(c *fiber.Ctx) error {
	var in dto.PlanRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	product, plan, err := h.svc.PreviewPlan(c.UserContext(), in.ProductID, in.VariationID, in.RequestedQuantity)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.PlanResponse{
		ProductID:         product.ID,
		RequestedQuantity: in.RequestedQuantity,
		Plan:              planDTO(plan),
		Total:             plan.Total(),
		FullySatisfiable:  plan.Total() == in.RequestedQuantity,
	})
}

// NewOrderLine godoc
// @Summary      Asignación automática de una nueva línea de pedido
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        orderId  path  string                   true  "ID del pedido"
// @Param        body     body  dto.NewOrderLineRequest  true  "Línea creada"
// @Success      200      {object}  dto.OrderLineOutcomeResponse
// @Failure      400      {object}  dto.ErrorResponse
// @Failure      404      {object}  dto.ErrorResponse
// @Router       /api/orders/{orderId}/lines [post]
func (h *AllocationHandler) NewOrderLine(c *fiber.Ctx) error {
	var in dto.NewOrderLineRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.svc.AllocateNewOrderLine(c.UserContext(), inventory.NewOrderLineInput{
		OrderID:     c.Params("orderId"),
		OrderLineID: in.OrderLineID,
		ProductID:   in.ProductID,
		VariationID: in.VariationID,
		Quantity:    in.Quantity,
		FromAdmin:   in.FromAdmin,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.OrderLineOutcomeResponse{
		OrderLineID: out.OrderLineID,
		Status:      out.Status,
		Reason:      out.Reason,
		Result:      applyResultDTO(out.Result),
	})
}

// SaveOrderEdit godoc
// @Summary      Guardar cantidades manuales por ubicación (edición del pedido)
// @Description  Devuelve un aviso por línea: success, warning (stock faltante) o error.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        orderId  path  string                true  "ID del pedido"
// @Param        body     body  dto.OrderEditRequest  true  "Cantidades por línea y ubicación"
// @Success      200      {object}  dto.OrderEditResponse
// @Failure      400      {object}  dto.ErrorResponse
// @Router       /api/orders/{orderId}/allocations [put]
func (h *AllocationHandler) SaveOrderEdit(c *fiber.Ctx) error {
	var in dto.OrderEditRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	lines := make([]inventory.OrderEditLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, inventory.OrderEditLine{
			OrderLineID: l.OrderLineID,
			ProductID:   l.ProductID,
			VariationID: l.VariationID,
			Quantity:    l.Quantity,
			Locations:   l.Locations,
		})
	}
	notices, err := h.svc.SaveOrderEdit(c.UserContext(), inventory.OrderEditInput{
		OrderID:  c.Params("orderId"),
		Autosave: in.Autosave,
		Lines:    lines,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := dto.OrderEditResponse{Notices: make([]dto.NoticeDTO, 0, len(notices))}
	for _, n := range notices {
		out.Notices = append(out.Notices, dto.NoticeDTO{
			OrderLineID: n.OrderLineID,
			Level:       n.Level,
			Message:     n.Message,
			Result:      applyResultDTO(n.Result),
		})
	}
	return c.JSON(out)
}

// EditForm godoc
// @Summary      Formulario de edición por ubicación para las líneas dadas
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        orderId  path  string               true  "ID del pedido"
// @Param        body     body  dto.EditFormRequest  true  "Líneas del pedido"
// @Success      200      {object}  dto.EditFormResponse
// @Failure      400      {object}  dto.ErrorResponse
// @Router       /api/orders/{orderId}/edit-form [post]
func (h *AllocationHandler) EditForm(c *fiber.Ctx) error {
	var in dto.EditFormRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	lines := make([]inventory.EditFormLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, inventory.EditFormLine{OrderLineID: l.OrderLineID, ProductID: l.ProductID, VariationID: l.VariationID})
	}
	form, err := h.svc.EditForm(c.UserContext(), c.Params("orderId"), lines)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := dto.EditFormResponse{OrderID: form.OrderID, Warnings: form.Warnings, Lines: make([]dto.FormLineDTO, 0, len(form.Lines))}
	if out.Warnings == nil {
		out.Warnings = []string{}
	}
	for _, l := range form.Lines {
		fl := dto.FormLineDTO{
			OrderLineID: l.OrderLineID,
			ProductID:   l.ProductID,
			Applied:     l.Applied,
			Message:     l.Message,
			Inputs:      make([]dto.FormInputDTO, 0, len(l.Inputs)),
		}
		for _, in := range l.Inputs {
			fl.Inputs = append(fl.Inputs, dto.FormInputDTO{
				InputID:         in.InputID,
				LocationID:      in.LocationID,
				LocationName:    in.LocationName,
				CurrentStock:    in.CurrentStock,
				AppliedQuantity: in.AppliedQuantity,
				ReadOnly:        in.ReadOnly,
				Hidden:          in.Hidden,
				Description:     in.Description,
			})
		}
		out.Lines = append(out.Lines, fl)
	}
	return c.JSON(out)
}

// ListOrderAllocations godoc
// @Summary      Registros de asignación de un pedido
// @Tags         orders
// @Produce      json
// @Param        orderId  path  string  true  "ID del pedido"
// @Success      200      {object}  dto.OrderAllocationsResponse
// @Router       /api/orders/{orderId}/allocations [get]
func (h *AllocationHandler) ListOrderAllocations(c *fiber.Ctx) error {
	orderID := c.Params("orderId")
	list, err := h.svc.ListOrderAllocations(c.UserContext(), orderID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := dto.OrderAllocationsResponse{OrderID: orderID, Items: make([]dto.OrderLineAllocationResponse, 0, len(list))}
	for _, a := range list {
		out.Items = append(out.Items, allocationDTO(a))
	}
	return c.JSON(out)
}

// PickingSlip godoc
// @Summary      Hoja de picking (PDF) del pedido
// @Tags         orders
// @Produce      application/pdf
// @Param        orderId  path  string  true  "ID del pedido"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{orderId}/picking-slip [get]
func (h *AllocationHandler) PickingSlip(c *fiber.Ctx) error {
	orderID := c.Params("orderId")
	pdf, err := h.svc.PickingSlipPDF(c.UserContext(), orderID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="picking-`+orderID+`.pdf"`)
	return c.Send(pdf)
}

// GetAllocation godoc
// @Summary      Registro de asignación de una línea de pedido
// @Tags         order-lines
// @Produce      json
// @Param        lineId  path  string  true  "ID de la línea"
// @Success      200     {object}  dto.OrderLineAllocationResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/order-lines/{lineId}/allocation [get]
func (h *AllocationHandler) GetAllocation(c *fiber.Ctx) error {
	a, err := h.svc.GetAllocation(c.UserContext(), c.Params("lineId"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(allocationDTO(a))
}

// DeleteAllocation godoc
// @Summary      Eliminar el registro al borrar la línea de pedido
// @Description  El stock ya restado no se devuelve.
// @Tags         order-lines
// @Param        lineId  path  string  true  "ID de la línea"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/order-lines/{lineId}/allocation [delete]
func (h *AllocationHandler) DeleteAllocation(c *fiber.Ctx) error {
	if err := h.svc.DeleteOrderLine(c.UserContext(), c.Params("lineId")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func planDTO(p allocation.Plan) []allocation.LocationQuantity {
	if p == nil {
		return []allocation.LocationQuantity{}
	}
	return p
}

func applyResultDTO(r *inventory.ApplyResult) *dto.ApplyResultDTO {
	if r == nil {
		return nil
	}
	return &dto.ApplyResultDTO{
		OrderLineID:    r.OrderLineID,
		FullySatisfied: r.FullySatisfied,
		AppliedPlan:    planDTO(r.AppliedPlan),
		Replayed:       r.Replayed,
	}
}

func allocationDTO(a *entity.OrderLineAllocation) dto.OrderLineAllocationResponse {
	per := make([]allocation.LocationQuantity, 0, len(a.PerLocationApplied))
	for _, l := range a.PerLocationApplied {
		per = append(per, allocation.LocationQuantity{LocationID: l.LocationID, Quantity: l.Quantity})
	}
	return dto.OrderLineAllocationResponse{
		OrderLineID:       a.OrderLineID,
		OrderID:           a.OrderID,
		ProductID:         a.ProductID,
		RequestedQuantity: a.RequestedQuantity,
		Applied:           a.Applied,
		PerLocation:       per,
		FullySatisfied:    a.FullySatisfied,
		Source:            a.Source,
		AppliedAt:         a.AppliedAt,
	}
}
