package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/wms-fulfillment/internal/domain/entity"
	"github.com/jhoicas/wms-fulfillment/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

const stockColumns = `s.id, s.product_id, s.warehouse_id, s.location_id, s.size, s.batch_number,
	s.amount, s.reserved_quantity, s.unit_cost, s.received_date, s.expiry_date, s.created_at, s.updated_at`

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

func scanStock(row pgx.Row, extra ...any) (*entity.Stock, error) {
	var s entity.Stock
	dest := append([]any{
		&s.ID, &s.ProductID, &s.WarehouseID, &s.LocationID, &s.Size, &s.BatchNumber,
		&s.Amount, &s.ReservedQuantity, &s.UnitCost, &s.ReceivedDate, &s.ExpiryDate, &s.CreatedAt, &s.UpdatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StockRepo) get(ctx context.Context, key entity.StockKey, lock string) (*entity.Stock, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stock s
		WHERE s.product_id = $1 AND s.location_id = $2 AND s.size = $3 AND s.batch_number = $4` + lock
	s, err := scanStock(r.q.QueryRow(ctx, query, key.ProductID, key.LocationID, key.Size, key.BatchNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return s, nil
}

// Get obtiene la fila de stock por su llave. nil si no existe.
func (r *StockRepo) Get(ctx context.Context, key entity.StockKey) (*entity.Stock, error) {
	return r.get(ctx, key, "")
}

// GetForUpdate obtiene la fila y la bloquea hasta el fin de la transacción (SELECT FOR UPDATE).
func (r *StockRepo) GetForUpdate(ctx context.Context, key entity.StockKey) (*entity.Stock, error) {
	return r.get(ctx, key, " FOR UPDATE")
}

// ListAvailable filas con disponible > 0 en ubicaciones activas, más antiguas primero.
func (r *StockRepo) ListAvailable(ctx context.Context, f repository.StockFilter) ([]*entity.LocatedStock, error) {
	query := `
		SELECT ` + stockColumns + `, COALESCE(l.zone_id, ''), COALESCE(z.zone_type, 'other')
		FROM stock s
		JOIN locations l ON l.id = s.location_id
		LEFT JOIN zones z ON z.id = l.zone_id
		WHERE s.product_id = $1 AND s.size = $2
		  AND ($3 = '' OR s.warehouse_id = $3)
		  AND l.active
		  AND s.amount - s.reserved_quantity > 0
		ORDER BY s.created_at, s.id`
	if f.ForUpdate {
		query += ` FOR UPDATE OF s`
	}
	rows, err := r.q.Query(ctx, query, f.ProductID, f.Size, f.WarehouseID)
	if err != nil {
		return nil, fmt.Errorf("list available stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.LocatedStock
	for rows.Next() {
		var zoneID, zoneType string
		s, err := scanStock(rows, &zoneID, &zoneType)
		if err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &entity.LocatedStock{Stock: *s, ZoneID: zoneID, ZoneType: entity.ZoneType(zoneType)})
	}
	return list, rows.Err()
}

// Create inserta una fila nueva. Llave duplicada → ErrConflict; reservado fuera de rango → ErrInvalidQuantity.
func (r *StockRepo) Create(ctx context.Context, s *entity.Stock) error {
	query := `
		INSERT INTO stock (id, product_id, warehouse_id, location_id, size, batch_number,
			amount, reserved_quantity, unit_cost, received_date, expiry_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.ProductID, s.WarehouseID, s.LocationID, s.Size, s.BatchNumber,
		s.Amount, s.ReservedQuantity, s.UnitCost, s.ReceivedDate, s.ExpiryDate, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("insert stock", err)
	}
	return nil
}

// Update persiste cantidad, reservado, costo y vencimiento de la fila.
func (r *StockRepo) Update(ctx context.Context, s *entity.Stock) error {
	query := `
		UPDATE stock
		SET amount = $2, reserved_quantity = $3, unit_cost = $4, expiry_date = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, s.ID, s.Amount, s.ReservedQuantity, s.UnitCost, s.ExpiryDate, s.UpdatedAt)
	if err != nil {
		return mapWriteError("update stock", err)
	}
	return expectOne("update stock", tag)
}

// Delete elimina una fila agotada.
func (r *StockRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM stock WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete stock: %w", err)
	}
	return expectOne("delete stock", tag)
}
