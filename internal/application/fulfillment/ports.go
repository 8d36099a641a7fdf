package fulfillment

import (
	"context"

	"github.com/jhoicas/wms-fulfillment/internal/domain/repository"
)

// Repos repositorios atados a una misma transacción.
type Repos struct {
	Stock        repository.StockRepository
	Transactions repository.InventoryTransactionRepository
	Locations    repository.LocationRepository
	Warehouses   repository.WarehouseRepository
	Orders       repository.OrderRepository
	PickLists    repository.PickListRepository
	Waves        repository.WaveRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn retorna error se hace Rollback; ninguna escritura parcial sobrevive.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repos) error) error
}
