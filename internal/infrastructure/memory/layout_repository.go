package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/wms-fulfillment/internal/domain/entity"
)

type warehouseRepo struct{ st *state }

func (r *warehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	w, ok := r.st.warehouses[id]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

func (r *warehouseRepo) GetMain(_ context.Context) (*entity.Warehouse, error) {
	ids := make([]string, 0, len(r.st.warehouses))
	for id, w := range r.st.warehouses {
		if w.IsMain {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}
	sort.Strings(ids)
	cp := *r.st.warehouses[ids[0]]
	return &cp, nil
}

type locationRepo struct{ st *state }

func (r *locationRepo) load(id string) *entity.Location {
	l, ok := r.st.locations[id]
	if !ok {
		return nil
	}
	cp := *l
	if z, ok := r.st.zones[l.ZoneID]; ok {
		zc := *z
		cp.Zone = &zc
	}
	return &cp
}

func (r *locationRepo) GetByID(_ context.Context, id string) (*entity.Location, error) {
	return r.load(id), nil
}

func (r *locationRepo) ListByIDs(_ context.Context, ids []string) (map[string]*entity.Location, error) {
	out := make(map[string]*entity.Location, len(ids))
	for _, id := range ids {
		if _, done := out[id]; done {
			continue
		}
		if l := r.load(id); l != nil {
			out[id] = l
		}
	}
	return out, nil
}
