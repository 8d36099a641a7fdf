package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wms-fulfillment/internal/application/dto"
	"github.com/jhoicas/wms-fulfillment/internal/domain"
)

var errorStatus = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrInvalidQuantity, fiber.StatusBadRequest, "INVALID_QUANTITY"},
	{domain.ErrInvalidOrder, fiber.StatusUnprocessableEntity, "INVALID_ORDER"},
	{domain.ErrLocationNotFound, fiber.StatusNotFound, "LOCATION_NOT_FOUND"},
	{domain.ErrNoEligibleOrders, fiber.StatusUnprocessableEntity, "NO_ELIGIBLE_ORDERS"},
	{domain.ErrInvalidTransition, fiber.StatusConflict, "INVALID_TRANSITION"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
}

// localInternalError guarda el error no mapeado para que RequestLogger lo registre.
const localInternalError = "internal_error"

// respondError traduce errores de dominio a dto.ErrorResponse. Lo no reconocido es 500 con mensaje
// genérico; el detalle (texto del driver incluido) solo va al log.
func respondError(c *fiber.Ctx, err error) error {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			return c.Status(e.status).JSON(dto.ErrorResponse{Code: e.code, Message: err.Error()})
		}
	}
	c.Locals(localInternalError, err)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
