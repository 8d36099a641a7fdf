package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/wms-fulfillment/internal/domain/entity"
	"github.com/jhoicas/wms-fulfillment/internal/domain/repository"
)

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

// WarehouseRepo implementación del puerto WarehouseRepository sobre PostgreSQL.
type WarehouseRepo struct {
	q Querier
}

// NewWarehouseRepository construye el adaptador de persistencia para bodegas.
func NewWarehouseRepository(q Querier) *WarehouseRepo {
	return &WarehouseRepo{q: q}
}

func (r *WarehouseRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.Warehouse, error) {
	var w entity.Warehouse
	err := r.q.QueryRow(ctx, query, args...).Scan(&w.ID, &w.Name, &w.Address, &w.IsMain, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &w, nil
}

// GetByID obtiene una bodega por ID.
func (r *WarehouseRepo) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	query := `
		SELECT id, name, address, is_main, created_at, updated_at
		FROM warehouses WHERE id = $1`
	return r.getOne(ctx, "get warehouse", query, id)
}

// GetMain devuelve la bodega marcada como principal (la de menor id si hay varias).
func (r *WarehouseRepo) GetMain(ctx context.Context) (*entity.Warehouse, error) {
	query := `
		SELECT id, name, address, is_main, created_at, updated_at
		FROM warehouses WHERE is_main ORDER BY id LIMIT 1`
	return r.getOne(ctx, "get main warehouse", query)
}

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo lectura de ubicaciones junto con su zona.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador de ubicaciones.
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

const locationSelect = `
	SELECT l.id, l.warehouse_id, COALESCE(l.zone_id, ''), l.code, l.aisle, l.bay, l.level, l.position, l.active,
		z.id, z.warehouse_id, z.name, z.zone_type
	FROM locations l
	LEFT JOIN zones z ON z.id = l.zone_id`

func scanLocation(row pgx.Row) (*entity.Location, error) {
	var l entity.Location
	var zID, zWarehouse, zName, zType *string
	if err := row.Scan(
		&l.ID, &l.WarehouseID, &l.ZoneID, &l.Code, &l.Aisle, &l.Bay, &l.Level, &l.Position, &l.Active,
		&zID, &zWarehouse, &zName, &zType,
	); err != nil {
		return nil, err
	}
	if zID != nil {
		l.Zone = &entity.Zone{ID: *zID, WarehouseID: *zWarehouse, Name: *zName, ZoneType: entity.ZoneType(*zType)}
	}
	return &l, nil
}

// GetByID obtiene la ubicación con su zona. nil si no existe.
func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	l, err := scanLocation(r.q.QueryRow(ctx, locationSelect+` WHERE l.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return l, nil
}

// ListByIDs carga varias ubicaciones indexadas por id. Las inexistentes se omiten.
func (r *LocationRepo) ListByIDs(ctx context.Context, ids []string) (map[string]*entity.Location, error) {
	out := make(map[string]*entity.Location, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx, locationSelect+` WHERE l.id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		out[l.ID] = l
	}
	return out, rows.Err()
}
