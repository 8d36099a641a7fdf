package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/wms-fulfillment/internal/domain/entity"
	"github.com/jhoicas/wms-fulfillment/internal/domain/repository"
)

var _ repository.InventoryTransactionRepository = (*InventoryTransactionRepo)(nil)

// InventoryTransactionRepo libro de inventario en PostgreSQL. Solo inserta y lee.
type InventoryTransactionRepo struct {
	q Querier
}

// NewInventoryTransactionRepository construye el adaptador. Acepta pool o tx (Querier).
func NewInventoryTransactionRepository(q Querier) *InventoryTransactionRepo {
	return &InventoryTransactionRepo{q: q}
}

const transactionColumns = `id, warehouse_id, location_id, product_id, type, quantity, unit_cost, total_cost,
	actor, reference, reason, batch_number, size, created_at`

func (r *InventoryTransactionRepo) Create(ctx context.Context, t *entity.InventoryTransaction) error {
	query := `
		INSERT INTO inventory_transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.WarehouseID, t.LocationID, t.ProductID, string(t.Type), t.Quantity, t.UnitCost, t.TotalCost,
		t.Actor, t.Reference, t.Reason, t.BatchNumber, t.Size, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert inventory transaction: %w", err)
	}
	return nil
}

// ListByReference asientos de una operación en orden de inserción.
func (r *InventoryTransactionRepo) ListByReference(ctx context.Context, reference string) ([]*entity.InventoryTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM inventory_transactions WHERE reference = $1 ORDER BY seq`
	return r.list(ctx, "list transactions by reference", query, reference)
}

// ListByProduct asientos de un producto, más recientes primero.
func (r *InventoryTransactionRepo) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.InventoryTransaction, error) {
	query := `
		SELECT ` + transactionColumns + ` FROM inventory_transactions
		WHERE product_id = $1
		ORDER BY seq DESC LIMIT NULLIF($2, 0) OFFSET $3`
	return r.list(ctx, "list transactions by product", query, productID, limit, offset)
}

func (r *InventoryTransactionRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.InventoryTransaction, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	var list []*entity.InventoryTransaction
	for rows.Next() {
		var t entity.InventoryTransaction
		var typ string
		if err := rows.Scan(
			&t.ID, &t.WarehouseID, &t.LocationID, &t.ProductID, &typ, &t.Quantity, &t.UnitCost, &t.TotalCost,
			&t.Actor, &t.Reference, &t.Reason, &t.BatchNumber, &t.Size, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan inventory transaction: %w", err)
		}
		t.Type = entity.TransactionType(typ)
		list = append(list, &t)
	}
	return list, rows.Err()
}
