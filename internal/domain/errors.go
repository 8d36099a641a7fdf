package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInvalidQuantity   = errors.New("cantidad inválida")
	ErrInvalidOrder      = errors.New("pedido no apto para picking")
	ErrLocationNotFound  = errors.New("ubicación no encontrada")
	ErrInvalidTransition = errors.New("transición de estado no permitida")
	ErrNoEligibleOrders  = errors.New("no hay pedidos elegibles para la ola")
)
