package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/wms-fulfillment/internal/domain/entity"
	"github.com/jhoicas/wms-fulfillment/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo acceso a pedidos externos. Solo escribe wave_id y fulfillment_status.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador de pedidos.
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `id, COALESCE(warehouse_id, ''), order_type, status, fulfillment_status, wave_id, priority, created_at`

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	if err := row.Scan(&o.ID, &o.WarehouseID, &o.OrderType, &o.Status, &o.FulfillmentStatus, &o.WaveID, &o.Priority, &o.CreatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}

// GetForUpdate bloquea el pedido y carga sus líneas. nil si no existe.
func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order for update: %w", err)
	}
	if err := r.loadLines(ctx, []*entity.Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

// ListUnassigned pedidos fulfillment activos sin ola ni lista de picking abierta, más antiguos primero.
// El límite cuenta solo pedidos elegibles. SKIP LOCKED evita que dos olas concurrentes tomen el mismo pedido.
func (r *OrderRepo) ListUnassigned(ctx context.Context, warehouseID string, limit int) ([]*entity.Order, error) {
	query := `
		SELECT ` + orderColumns + ` FROM orders
		WHERE order_type = $1
		  AND status IN ($2, $3, $4)
		  AND wave_id IS NULL
		  AND fulfillment_status <> $5
		  AND ($6 = '' OR warehouse_id IS NULL OR warehouse_id = $6)
		  AND NOT EXISTS (
			SELECT 1 FROM pick_lists pl
			WHERE pl.status NOT IN ($8, $9)
			  AND (pl.order_id = orders.id OR EXISTS (
				SELECT 1 FROM pick_list_items i WHERE i.pick_list_id = pl.id AND i.order_id = orders.id)))
		ORDER BY created_at, id
		LIMIT NULLIF($7, 0)
		FOR UPDATE SKIP LOCKED`
	return r.list(ctx, "list unassigned orders", query,
		entity.OrderTypeFulfillment,
		entity.OrderStatusPending, entity.OrderStatusConfirmed, entity.OrderStatusProcessing,
		entity.FulfillmentStatusPicked, warehouseID, limit,
		string(entity.PickListCompleted), string(entity.PickListCancelled),
	)
}

// ListByWave pedidos asignados a la ola.
func (r *OrderRepo) ListByWave(ctx context.Context, waveID string) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE wave_id = $1 ORDER BY created_at, id`
	return r.list(ctx, "list orders by wave", query, waveID)
}

func (r *OrderRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.Order, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := r.loadLines(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// loadLines carga las líneas de varios pedidos en una sola consulta.
func (r *OrderRepo) loadLines(ctx context.Context, orders []*entity.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, len(orders))
	byID := make(map[string]*entity.Order, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		byID[o.ID] = o
	}
	rows, err := r.q.Query(ctx, `
		SELECT order_id, product_id, quantity, size
		FROM order_products WHERE order_id = ANY($1)
		ORDER BY order_id, id`, ids)
	if err != nil {
		return fmt.Errorf("list order lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var orderID string
		var l entity.OrderLine
		if err := rows.Scan(&orderID, &l.ProductID, &l.Quantity, &l.Size); err != nil {
			return fmt.Errorf("scan order line: %w", err)
		}
		if o := byID[orderID]; o != nil {
			o.Lines = append(o.Lines, l)
		}
	}
	return rows.Err()
}

// AssignWave asigna (o quita, con nil) la ola del pedido.
func (r *OrderRepo) AssignWave(ctx context.Context, orderID string, waveID *string) error {
	tag, err := r.q.Exec(ctx, `UPDATE orders SET wave_id = $2 WHERE id = $1`, orderID, waveID)
	if err != nil {
		return fmt.Errorf("assign wave: %w", err)
	}
	return expectOne("assign wave", tag)
}

func (r *OrderRepo) UpdateFulfillmentStatus(ctx context.Context, orderID, status string) error {
	tag, err := r.q.Exec(ctx, `UPDATE orders SET fulfillment_status = $2 WHERE id = $1`, orderID, status)
	if err != nil {
		return fmt.Errorf("update fulfillment status: %w", err)
	}
	return expectOne("update fulfillment status", tag)
}
