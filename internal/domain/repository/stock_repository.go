package repository

import (
	"context"

	"github.com/jhoicas/wms-fulfillment/internal/domain/entity"
)

// StockFilter criterios para listar filas de stock con disponible > 0.
// WarehouseID vacío = todas las bodegas. ForUpdate bloquea las filas devueltas hasta el fin de la tx.
type StockFilter struct {
	ProductID   string
	Size        string
	WarehouseID string
	ForUpdate   bool
}

// StockRepository define el puerto para consultar/actualizar stock por producto+ubicación+talla+lote.
// Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	Get(ctx context.Context, key entity.StockKey) (*entity.Stock, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE). Devuelve nil si no existe.
	GetForUpdate(ctx context.Context, key entity.StockKey) (*entity.Stock, error)
	// ListAvailable devuelve filas con disponible > 0 en ubicaciones activas, junto con su zona.
	ListAvailable(ctx context.Context, filter StockFilter) ([]*entity.LocatedStock, error)
	Create(ctx context.Context, stock *entity.Stock) error
	Update(ctx context.Context, stock *entity.Stock) error
	Delete(ctx context.Context, id string) error
}
