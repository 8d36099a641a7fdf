package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wms-fulfillment/internal/application/dto"
	"github.com/jhoicas/wms-fulfillment/internal/application/fulfillment"
	"github.com/jhoicas/wms-fulfillment/internal/domain/entity"
)

// WaveHandler maneja el ciclo de vida de las olas.
type WaveHandler struct {
	waves *fulfillment.WaveOrchestrator
}

// NewWaveHandler construye el handler.
func NewWaveHandler(waves *fulfillment.WaveOrchestrator) *WaveHandler {
	return &WaveHandler{waves: waves}
}

func waveResponse(c *fiber.Ctx, status int, view *fulfillment.WaveView) error {
	return c.Status(status).JSON(dto.NewWaveDTO(view.Wave, view.Orders, view.PickLists))
}

// CreateAuto godoc
// @Summary      Crear ola automática
// @Description  Selecciona pedidos sin ola (más antiguos primero) respetando max_orders y max_items.
// @Tags         waves
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateWaveRequest  true  "Bodega, estrategia y capacidad"
// @Success      201  {object}  dto.WaveDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/waves/auto [post]
func (h *WaveHandler) CreateAuto(c *fiber.Ctx) error {
	var in dto.CreateWaveRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if in.WarehouseID == "" {
		in.WarehouseID = GetWarehouseID(c)
	}
	view, err := h.waves.CreateAuto(c.Context(), fulfillment.CreateWaveInput{
		WarehouseID:      in.WarehouseID,
		AdminID:          GetUserID(c),
		Strategy:         entity.WaveStrategy(in.Strategy),
		MaxOrders:        in.MaxOrders,
		MaxItems:         in.MaxItems,
		Priority:         in.Priority,
		PlannedStartTime: in.PlannedStartTime,
	})
	if err != nil {
		return respondError(c, err)
	}
	return waveResponse(c, fiber.StatusCreated, view)
}

// Get godoc
// @Summary      Obtener ola con pedidos y listas
// @Tags         waves
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Ola"
// @Success      200  {object}  dto.WaveDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/waves/{id} [get]
func (h *WaveHandler) Get(c *fiber.Ctx) error {
	view, err := h.waves.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return waveResponse(c, fiber.StatusOK, view)
}

// Release godoc
// @Summary      Liberar ola: genera y reserva sus listas de picking
// @Description  Todo o nada: si algún pedido no tiene stock la ola queda en planning.
// @Tags         waves
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Ola"
// @Success      200  {object}  dto.WaveDTO
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/waves/{id}/release [post]
func (h *WaveHandler) Release(c *fiber.Ctx) error {
	view, err := h.waves.Release(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return waveResponse(c, fiber.StatusOK, view)
}

// Start godoc
// @Summary      Iniciar ola liberada
// @Tags         waves
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Ola"
// @Success      200  {object}  dto.WaveDTO
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/waves/{id}/start [post]
func (h *WaveHandler) Start(c *fiber.Ctx) error {
	wave, err := h.waves.Start(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewWaveDTO(wave, nil, nil))
}

// Cancel godoc
// @Summary      Cancelar ola, sus listas abiertas y desasignar pedidos
// @Tags         waves
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true   "Ola"
// @Param        body  body  dto.CancelRequest  false  "Motivo"
// @Success      200  {object}  dto.WaveDTO
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/waves/{id}/cancel [post]
func (h *WaveHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	wave, err := h.waves.Cancel(c.Context(), c.Params("id"), in.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewWaveDTO(wave, nil, nil))
}

// Metrics godoc
// @Summary      Métricas de la ola
// @Tags         waves
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Ola"
// @Success      200  {object}  dto.WaveMetricsDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/waves/{id}/metrics [get]
func (h *WaveHandler) Metrics(c *fiber.Ctx) error {
	m, err := h.waves.Metrics(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewWaveMetricsDTO(m))
}
