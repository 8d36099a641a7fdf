package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wms-fulfillment/internal/application/dto"
	"github.com/jhoicas/wms-fulfillment/internal/application/fulfillment"
	"github.com/jhoicas/wms-fulfillment/internal/domain/entity"
	domainfulfillment "github.com/jhoicas/wms-fulfillment/internal/domain/fulfillment"
)

// StockHandler expone el libro de stock: reservas, traslados, ajustes y consulta de asientos.
type StockHandler struct {
	reservations *fulfillment.ReservationManager
	allocation   *fulfillment.AllocationEngine
}

// NewStockHandler construye el handler.
func NewStockHandler(reservations *fulfillment.ReservationManager, allocation *fulfillment.AllocationEngine) *StockHandler {
	return &StockHandler{reservations: reservations, allocation: allocation}
}

// Get godoc
// @Summary      Consultar fila de stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  true   "Producto"
// @Param        location_id   query  string  true   "Ubicación"
// @Param        size          query  string  false  "Talla"
// @Param        batch_number  query  string  false  "Lote"
// @Success      200  {object}  dto.StockDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock [get]
func (h *StockHandler) Get(c *fiber.Ctx) error {
	key := entity.StockKey{
		ProductID:   c.Query("product_id"),
		LocationID:  c.Query("location_id"),
		Size:        c.Query("size"),
		BatchNumber: c.Query("batch_number"),
	}
	stock, err := h.reservations.Stock(c.Context(), key)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewStockDTO(stock))
}

// Reserve godoc
// @Summary      Reservar stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReservationRequest  true  "Llave de stock y cantidad"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock/reserve [post]
func (h *StockHandler) Reserve(c *fiber.Ctx) error {
	var in dto.ReservationRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.reservations.Reserve(c.Context(), in.Key(), in.Quantity); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Unreserve godoc
// @Summary      Liberar reserva
// @Description  released=false cuando la fila no existe o la cantidad no es positiva.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReservationRequest  true  "Llave de stock y cantidad"
// @Success      200  {object}  dto.UnreserveResponse
// @Router       /api/stock/unreserve [post]
func (h *StockHandler) Unreserve(c *fiber.Ctx) error {
	var in dto.ReservationRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	released, err := h.reservations.Unreserve(c.Context(), in.Key(), in.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.UnreserveResponse{Released: released})
}

// Move godoc
// @Summary      Trasladar stock entre ubicaciones
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MoveStockRequest  true  "Origen, destino y cantidad"
// @Success      201  {object}  dto.MoveStockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock/move [post]
func (h *StockHandler) Move(c *fiber.Ctx) error {
	var in dto.MoveStockRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	res, err := h.reservations.Move(c.Context(), fulfillment.MoveInput{
		ProductID:      in.ProductID,
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		Size:           in.Size,
		BatchNumber:    in.BatchNumber,
		Quantity:       in.Quantity,
		Actor:          GetUserID(c),
		Reference:      in.Reference,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MoveStockResponse{
		Reference: res.Reference,
		Out:       dto.NewTransactionDTO(res.Out),
		In:        dto.NewTransactionDTO(res.In),
	})
}

// Adjust godoc
// @Summary      Ajustar cantidad de stock
// @Description  quantity con signo. Si la fila no existe se crea; si queda en cero se elimina.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "Llave, delta y motivo"
// @Success      201  {object}  dto.AdjustStockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock/adjust [post]
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	res, err := h.reservations.Adjust(c.Context(), fulfillment.AdjustInput{
		ProductID:   in.ProductID,
		LocationID:  in.LocationID,
		Size:        in.Size,
		BatchNumber: in.BatchNumber,
		Quantity:    in.Quantity,
		Actor:       GetUserID(c),
		Reason:      in.Reason,
		Reference:   in.Reference,
		UnitCost:    in.UnitCost,
		ExpiryDate:  in.ExpiryDate,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.AdjustStockResponse{
		Stock:       dto.NewStockDTO(res.Stock),
		Deleted:     res.Deleted,
		Transaction: dto.NewTransactionDTO(res.Transaction),
	})
}

// Ledger godoc
// @Summary      Asientos de una referencia
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        reference  path  string  true  "Referencia (traslado, ajuste o lista de picking)"
// @Success      200  {array}  dto.TransactionDTO
// @Router       /api/ledger/{reference} [get]
func (h *StockHandler) Ledger(c *fiber.Ctx) error {
	list, err := h.reservations.Ledger(c.Context(), c.Params("reference"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewTransactionDTOs(list))
}

// History godoc
// @Summary      Historial de asientos de un producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id  path   string  true   "Producto"
// @Param        limit       query  int     false  "Máximo (defecto 20)"
// @Param        offset      query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.TransactionPage
// @Router       /api/products/{product_id}/transactions [get]
func (h *StockHandler) History(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit"), Offset: c.QueryInt("offset")}
	page.DefaultPage()
	list, err := h.reservations.History(c.Context(), c.Params("product_id"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.TransactionPage{Limit: page.Limit, Offset: page.Offset, Transactions: dto.NewTransactionDTOs(list)})
}

// Allocate godoc
// @Summary      Plan de asignación de lotes
// @Description  Informativo: no reserva. Un plan parcial no es error.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AllocateRequest  true  "Producto, cantidad y política (fifo|lifo|fefo)"
// @Success      200  {object}  dto.AllocationPlanDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/allocations [post]
func (h *StockHandler) Allocate(c *fiber.Ctx) error {
	var in dto.AllocateRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	plan, err := h.allocation.Allocate(c.Context(), fulfillment.AllocateInput{
		ProductID:   in.ProductID,
		Size:        in.Size,
		Quantity:    in.Quantity,
		Policy:      domainfulfillment.AllocationPolicy(in.Policy),
		WarehouseID: in.WarehouseID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewAllocationPlanDTO(plan))
}
