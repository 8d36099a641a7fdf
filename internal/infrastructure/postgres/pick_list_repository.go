package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/wms-fulfillment/internal/domain/entity"
	"github.com/jhoicas/wms-fulfillment/internal/domain/repository"
)

var _ repository.PickListRepository = (*PickListRepo)(nil)

// PickListRepo persistencia de listas de picking y sus ítems.
type PickListRepo struct {
	q Querier
}

// NewPickListRepository construye el adaptador. Acepta pool o tx (Querier).
func NewPickListRepository(q Querier) *PickListRepo {
	return &PickListRepo{q: q}
}

const pickListColumns = `id, order_id, warehouse_id, admin_id, wave_id, status, priority, total_items, picked_items,
	cancel_reason, started_at, completed_at, cancelled_at, created_at, updated_at`

func scanPickList(row pgx.Row) (*entity.PickList, error) {
	var l entity.PickList
	var status string
	if err := row.Scan(
		&l.ID, &l.OrderID, &l.WarehouseID, &l.AdminID, &l.WaveID, &status, &l.Priority, &l.TotalItems, &l.PickedItems,
		&l.CancelReason, &l.StartedAt, &l.CompletedAt, &l.CancelledAt, &l.CreatedAt, &l.UpdatedAt,
	); err != nil {
		return nil, err
	}
	l.Status = entity.PickListStatus(status)
	return &l, nil
}

func (r *PickListRepo) Create(ctx context.Context, l *entity.PickList) error {
	query := `
		INSERT INTO pick_lists (` + pickListColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.OrderID, l.WarehouseID, l.AdminID, l.WaveID, string(l.Status), l.Priority, l.TotalItems, l.PickedItems,
		l.CancelReason, l.StartedAt, l.CompletedAt, l.CancelledAt, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("insert pick list", err)
	}
	return nil
}

func (r *PickListRepo) Update(ctx context.Context, l *entity.PickList) error {
	query := `
		UPDATE pick_lists
		SET admin_id = $2, status = $3, total_items = $4, picked_items = $5, cancel_reason = $6,
			started_at = $7, completed_at = $8, cancelled_at = $9, updated_at = $10
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		l.ID, l.AdminID, string(l.Status), l.TotalItems, l.PickedItems, l.CancelReason,
		l.StartedAt, l.CompletedAt, l.CancelledAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update pick list: %w", err)
	}
	return expectOne("update pick list", tag)
}

func (r *PickListRepo) get(ctx context.Context, id, lock string) (*entity.PickList, error) {
	l, err := scanPickList(r.q.QueryRow(ctx, `SELECT `+pickListColumns+` FROM pick_lists WHERE id = $1`+lock, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pick list: %w", err)
	}
	return l, nil
}

func (r *PickListRepo) Get(ctx context.Context, id string) (*entity.PickList, error) {
	return r.get(ctx, id, "")
}

func (r *PickListRepo) GetForUpdate(ctx context.Context, id string) (*entity.PickList, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

func (r *PickListRepo) ListByWave(ctx context.Context, waveID string) ([]*entity.PickList, error) {
	rows, err := r.q.Query(ctx, `SELECT `+pickListColumns+` FROM pick_lists WHERE wave_id = $1 ORDER BY created_at, id`, waveID)
	if err != nil {
		return nil, fmt.Errorf("list pick lists by wave: %w", err)
	}
	defer rows.Close()
	var list []*entity.PickList
	for rows.Next() {
		l, err := scanPickList(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pick list: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// HasActiveForOrder busca listas no terminales del pedido, propias o compartidas en una ola.
func (r *PickListRepo) HasActiveForOrder(ctx context.Context, orderID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM pick_lists pl
			WHERE pl.status NOT IN ($2, $3)
			  AND (pl.order_id = $1 OR EXISTS (
				SELECT 1 FROM pick_list_items i WHERE i.pick_list_id = pl.id AND i.order_id = $1)))`
	var ok bool
	if err := r.q.QueryRow(ctx, query, orderID, string(entity.PickListCompleted), string(entity.PickListCancelled)).Scan(&ok); err != nil {
		return false, fmt.Errorf("has active pick list: %w", err)
	}
	return ok, nil
}

const pickItemColumns = `id, pick_list_id, order_id, product_id, location_id, size, batch_number,
	quantity_requested, quantity_picked, sequence, status, picked_by, picked_at, created_at, updated_at`

func scanPickItem(row pgx.Row) (*entity.PickListItem, error) {
	var it entity.PickListItem
	var status string
	if err := row.Scan(
		&it.ID, &it.PickListID, &it.OrderID, &it.ProductID, &it.LocationID, &it.Size, &it.BatchNumber,
		&it.QuantityRequested, &it.QuantityPicked, &it.Sequence, &status, &it.PickedBy, &it.PickedAt, &it.CreatedAt, &it.UpdatedAt,
	); err != nil {
		return nil, err
	}
	it.Status = entity.PickItemStatus(status)
	return &it, nil
}

func (r *PickListRepo) CreateItem(ctx context.Context, it *entity.PickListItem) error {
	query := `
		INSERT INTO pick_list_items (` + pickItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.PickListID, it.OrderID, it.ProductID, it.LocationID, it.Size, it.BatchNumber,
		it.QuantityRequested, it.QuantityPicked, it.Sequence, string(it.Status), it.PickedBy, it.PickedAt, it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("insert pick item", err)
	}
	return nil
}

func (r *PickListRepo) UpdateItem(ctx context.Context, it *entity.PickListItem) error {
	query := `
		UPDATE pick_list_items
		SET quantity_picked = $2, sequence = $3, status = $4, picked_by = $5, picked_at = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, it.ID, it.QuantityPicked, it.Sequence, string(it.Status), it.PickedBy, it.PickedAt, it.UpdatedAt)
	if err != nil {
		return mapWriteError("update pick item", err)
	}
	return expectOne("update pick item", tag)
}

func (r *PickListRepo) GetItemForUpdate(ctx context.Context, id string) (*entity.PickListItem, error) {
	it, err := scanPickItem(r.q.QueryRow(ctx, `SELECT `+pickItemColumns+` FROM pick_list_items WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pick item: %w", err)
	}
	return it, nil
}

func (r *PickListRepo) ListItems(ctx context.Context, pickListID string) ([]*entity.PickListItem, error) {
	rows, err := r.q.Query(ctx, `SELECT `+pickItemColumns+` FROM pick_list_items WHERE pick_list_id = $1 ORDER BY sequence, id`, pickListID)
	if err != nil {
		return nil, fmt.Errorf("list pick items: %w", err)
	}
	defer rows.Close()
	var list []*entity.PickListItem
	for rows.Next() {
		it, err := scanPickItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pick item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}
