package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wms-fulfillment/internal/application/dto"
	"github.com/jhoicas/wms-fulfillment/internal/application/fulfillment"
)

// PickingHandler maneja generación, ruta y ejecución de listas de picking.
type PickingHandler struct {
	generator *fulfillment.PickListGenerator
	route     *fulfillment.RouteOptimizer
	execution *fulfillment.PickExecution
}

// NewPickingHandler construye el handler.
func NewPickingHandler(generator *fulfillment.PickListGenerator, route *fulfillment.RouteOptimizer, execution *fulfillment.PickExecution) *PickingHandler {
	return &PickingHandler{generator: generator, route: route, execution: execution}
}

func pickListResponse(c *fiber.Ctx, status int, view *fulfillment.PickListView) error {
	return c.Status(status).JSON(dto.NewPickListDTO(view.List, view.Items))
}

// Generate godoc
// @Summary      Generar lista de picking para un pedido
// @Description  Reserva todo o nada. warehouse_id vacío = bodega del pedido, luego la principal.
// @Tags         picking
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.GeneratePickListRequest  true  "Pedido"
// @Success      201  {object}  dto.PickListDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/pick-lists [post]
func (h *PickingHandler) Generate(c *fiber.Ctx) error {
	var in dto.GeneratePickListRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	view, err := h.generator.Generate(c.Context(), fulfillment.GenerateInput{
		OrderID:     in.OrderID,
		AdminID:     GetUserID(c),
		WarehouseID: in.WarehouseID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return pickListResponse(c, fiber.StatusCreated, view)
}

// Get godoc
// @Summary      Obtener lista de picking con ítems en orden de ruta
// @Tags         picking
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Lista"
// @Success      200  {object}  dto.PickListDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pick-lists/{id} [get]
func (h *PickingHandler) Get(c *fiber.Ctx) error {
	view, err := h.execution.GetPickList(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return pickListResponse(c, fiber.StatusOK, view)
}

// Optimize godoc
// @Summary      Recalcular la secuencia de ruta
// @Tags         picking
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Lista"
// @Success      200  {object}  dto.PickListDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/pick-lists/{id}/optimize [post]
func (h *PickingHandler) Optimize(c *fiber.Ctx) error {
	view, err := h.route.Optimize(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return pickListResponse(c, fiber.StatusOK, view)
}

// Assign godoc
// @Summary      Asignar lista a un operario
// @Tags         picking
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true   "Lista"
// @Param        body  body  dto.AssignPickListRequest  false  "admin_id (vacío = usuario del token)"
// @Success      200  {object}  dto.PickListDTO
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/pick-lists/{id}/assign [post]
func (h *PickingHandler) Assign(c *fiber.Ctx) error {
	var in dto.AssignPickListRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	if in.AdminID == "" {
		in.AdminID = GetUserID(c)
	}
	list, err := h.execution.Assign(c.Context(), c.Params("id"), in.AdminID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewPickListDTO(list, nil))
}

// RecordPick godoc
// @Summary      Registrar unidades recogidas de un ítem
// @Description  quantity < solicitado libera el faltante; 0 deja el ítem unfulfilled.
// @Tags         picking
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id       path  string                 true  "Lista"
// @Param        item_id  path  string                 true  "Ítem"
// @Param        body     body  dto.RecordPickRequest  true  "Cantidad recogida"
// @Success      200  {object}  dto.PickListDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/pick-lists/{id}/items/{item_id}/pick [post]
func (h *PickingHandler) RecordPick(c *fiber.Ctx) error {
	var in dto.RecordPickRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	view, err := h.execution.RecordPick(c.Context(), fulfillment.RecordPickInput{
		PickListID: c.Params("id"),
		ItemID:     c.Params("item_id"),
		Quantity:   in.Quantity,
		Actor:      GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return pickListResponse(c, fiber.StatusOK, view)
}

// Complete godoc
// @Summary      Cerrar lista sin ítems pendientes
// @Tags         picking
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Lista"
// @Success      200  {object}  dto.PickListDTO
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/pick-lists/{id}/complete [post]
func (h *PickingHandler) Complete(c *fiber.Ctx) error {
	view, err := h.execution.Complete(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return pickListResponse(c, fiber.StatusOK, view)
}

// Cancel godoc
// @Summary      Cancelar lista y liberar sus reservas
// @Tags         picking
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true   "Lista"
// @Param        body  body  dto.CancelRequest  false  "Motivo"
// @Success      200  {object}  dto.PickListDTO
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/pick-lists/{id}/cancel [post]
func (h *PickingHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	view, err := h.execution.Cancel(c.Context(), c.Params("id"), in.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return pickListResponse(c, fiber.StatusOK, view)
}
