package repository

import (
	"context"

	"github.com/jhoicas/wms-fulfillment/internal/domain/entity"
)

// WarehouseRepository define el puerto de lectura de bodegas (DIP).
type WarehouseRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
	// GetMain devuelve la bodega principal o nil si no hay ninguna marcada.
	GetMain(ctx context.Context) (*entity.Warehouse, error)
}

// LocationRepository lectura de ubicaciones con su zona.
type LocationRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Location, error)
	ListByIDs(ctx context.Context, ids []string) (map[string]*entity.Location, error)
}
