package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/wms-fulfillment/internal/domain/entity"
	"github.com/jhoicas/wms-fulfillment/internal/domain/repository"
)

var _ repository.WaveRepository = (*WaveRepo)(nil)

// WaveRepo persistencia de olas.
type WaveRepo struct {
	q Querier
}

// NewWaveRepository construye el adaptador de olas.
func NewWaveRepository(q Querier) *WaveRepo {
	return &WaveRepo{q: q}
}

const waveColumns = `id, warehouse_id, admin_id, strategy, status, priority, max_orders, max_items,
	planned_start_time, actual_start_time, actual_end_time, total_orders, total_items, cancel_reason, created_at, updated_at`

func (r *WaveRepo) Create(ctx context.Context, w *entity.Wave) error {
	query := `
		INSERT INTO waves (` + waveColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		w.ID, w.WarehouseID, w.AdminID, string(w.Strategy), string(w.Status), w.Priority, w.MaxOrders, w.MaxItems,
		w.PlannedStartTime, w.ActualStartTime, w.ActualEndTime, w.TotalOrders, w.TotalItems, w.CancelReason, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("insert wave", err)
	}
	return nil
}

func (r *WaveRepo) Update(ctx context.Context, w *entity.Wave) error {
	query := `
		UPDATE waves
		SET status = $2, priority = $3, planned_start_time = $4, actual_start_time = $5, actual_end_time = $6,
			total_orders = $7, total_items = $8, cancel_reason = $9, updated_at = $10
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		w.ID, string(w.Status), w.Priority, w.PlannedStartTime, w.ActualStartTime, w.ActualEndTime,
		w.TotalOrders, w.TotalItems, w.CancelReason, w.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update wave: %w", err)
	}
	return expectOne("update wave", tag)
}

func (r *WaveRepo) get(ctx context.Context, id, lock string) (*entity.Wave, error) {
	var w entity.Wave
	var strategy, status string
	err := r.q.QueryRow(ctx, `SELECT `+waveColumns+` FROM waves WHERE id = $1`+lock, id).Scan(
		&w.ID, &w.WarehouseID, &w.AdminID, &strategy, &status, &w.Priority, &w.MaxOrders, &w.MaxItems,
		&w.PlannedStartTime, &w.ActualStartTime, &w.ActualEndTime, &w.TotalOrders, &w.TotalItems, &w.CancelReason, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get wave: %w", err)
	}
	w.Strategy = entity.WaveStrategy(strategy)
	w.Status = entity.WaveStatus(status)
	return &w, nil
}

func (r *WaveRepo) Get(ctx context.Context, id string) (*entity.Wave, error) {
	return r.get(ctx, id, "")
}

func (r *WaveRepo) GetForUpdate(ctx context.Context, id string) (*entity.Wave, error) {
	return r.get(ctx, id, " FOR UPDATE")
}
