package repository

import (
	"context"

	"github.com/jhoicas/wms-fulfillment/internal/domain/entity"
)

// OrderRepository puerto sobre pedidos externos. Solo escribe wave_id y fulfillment_status.
type OrderRepository interface {
	// GetForUpdate bloquea el pedido y carga sus líneas. nil si no existe.
	GetForUpdate(ctx context.Context, id string) (*entity.Order, error)
	// ListUnassigned pedidos activos de tipo fulfillment sin ola ni lista de picking abierta, más antiguos primero.
	// limit (0 = sin límite) se aplica después de excluir los no elegibles.
	// Las filas quedan bloqueadas (FOR UPDATE SKIP LOCKED).
	ListUnassigned(ctx context.Context, warehouseID string, limit int) ([]*entity.Order, error)
	ListByWave(ctx context.Context, waveID string) ([]*entity.Order, error)
	AssignWave(ctx context.Context, orderID string, waveID *string) error
	UpdateFulfillmentStatus(ctx context.Context, orderID, status string) error
}
