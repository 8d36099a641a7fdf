package repository

import (
	"context"

	"github.com/jhoicas/wms-fulfillment/internal/domain/entity"
)

// InventoryTransactionRepository puerto del libro de inventario (solo inserción y lectura).
type InventoryTransactionRepository interface {
	Create(ctx context.Context, tx *entity.InventoryTransaction) error
	ListByReference(ctx context.Context, reference string) ([]*entity.InventoryTransaction, error)
	ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.InventoryTransaction, error)
}
