package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/wms-fulfillment/internal/domain"
	"github.com/jhoicas/wms-fulfillment/internal/domain/entity"
)

type orderRepo struct{ st *state }

func (r *orderRepo) GetForUpdate(_ context.Context, id string) (*entity.Order, error) {
	o, ok := r.st.orders[id]
	if !ok {
		return nil, nil
	}
	return copyOrder(o), nil
}

func (r *orderRepo) ListUnassigned(_ context.Context, warehouseID string, limit int) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, o := range r.st.orders {
		if !o.IsFulfillment() || !o.IsActive() || o.WaveID != nil || o.FulfillmentStatus == entity.FulfillmentStatusPicked {
			continue
		}
		if warehouseID != "" && o.WarehouseID != "" && o.WarehouseID != warehouseID {
			continue
		}
		if r.st.hasActivePickList(o.ID) {
			continue
		}
		out = append(out, copyOrder(o))
	}
	sortOrders(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *orderRepo) ListByWave(_ context.Context, waveID string) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, o := range r.st.orders {
		if o.WaveID != nil && *o.WaveID == waveID {
			out = append(out, copyOrder(o))
		}
	}
	sortOrders(out)
	return out, nil
}

func (r *orderRepo) AssignWave(_ context.Context, orderID string, waveID *string) error {
	o, ok := r.st.orders[orderID]
	if !ok {
		return fmt.Errorf("assign wave order %s: %w", orderID, domain.ErrNotFound)
	}
	if waveID == nil {
		o.WaveID = nil
		return nil
	}
	id := *waveID
	o.WaveID = &id
	return nil
}

func (r *orderRepo) UpdateFulfillmentStatus(_ context.Context, orderID, status string) error {
	o, ok := r.st.orders[orderID]
	if !ok {
		return fmt.Errorf("update order %s: %w", orderID, domain.ErrNotFound)
	}
	o.FulfillmentStatus = status
	return nil
}

func sortOrders(out []*entity.Order) {
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
}

type pickListRepo struct{ st *state }

func (r *pickListRepo) Create(_ context.Context, l *entity.PickList) error {
	if _, ok := r.st.pickLists[l.ID]; ok {
		return fmt.Errorf("create pick list %s: %w", l.ID, domain.ErrConflict)
	}
	cp := *l
	r.st.pickLists[l.ID] = &cp
	return nil
}

func (r *pickListRepo) Update(_ context.Context, l *entity.PickList) error {
	if _, ok := r.st.pickLists[l.ID]; !ok {
		return fmt.Errorf("update pick list %s: %w", l.ID, domain.ErrNotFound)
	}
	cp := *l
	r.st.pickLists[l.ID] = &cp
	return nil
}

func (r *pickListRepo) Get(_ context.Context, id string) (*entity.PickList, error) {
	l, ok := r.st.pickLists[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (r *pickListRepo) GetForUpdate(ctx context.Context, id string) (*entity.PickList, error) {
	return r.Get(ctx, id)
}

func (r *pickListRepo) ListByWave(_ context.Context, waveID string) ([]*entity.PickList, error) {
	var out []*entity.PickList
	for _, l := range r.st.pickLists {
		if l.WaveID != nil && *l.WaveID == waveID {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *pickListRepo) HasActiveForOrder(_ context.Context, orderID string) (bool, error) {
	return r.st.hasActivePickList(orderID), nil
}

func (st *state) hasActivePickList(orderID string) bool {
	for _, l := range st.pickLists {
		if l.Status.Terminal() {
			continue
		}
		if l.OrderID == orderID {
			return true
		}
		for _, it := range st.items {
			if it.PickListID == l.ID && it.OrderID == orderID {
				return true
			}
		}
	}
	return false
}

func (r *pickListRepo) CreateItem(_ context.Context, it *entity.PickListItem) error {
	if _, ok := r.st.pickLists[it.PickListID]; !ok {
		return fmt.Errorf("create pick item %s: lista %s: %w", it.ID, it.PickListID, domain.ErrNotFound)
	}
	cp := *it
	r.st.items[it.ID] = &cp
	return nil
}

func (r *pickListRepo) UpdateItem(_ context.Context, it *entity.PickListItem) error {
	if _, ok := r.st.items[it.ID]; !ok {
		return fmt.Errorf("update pick item %s: %w", it.ID, domain.ErrNotFound)
	}
	cp := *it
	r.st.items[it.ID] = &cp
	return nil
}

func (r *pickListRepo) GetItemForUpdate(_ context.Context, id string) (*entity.PickListItem, error) {
	it, ok := r.st.items[id]
	if !ok {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

func (r *pickListRepo) ListItems(_ context.Context, pickListID string) ([]*entity.PickListItem, error) {
	var out []*entity.PickListItem
	for _, it := range r.st.items {
		if it.PickListID == pickListID {
			cp := *it
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Sequence != out[j].Sequence {
			return out[i].Sequence < out[j].Sequence
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

type waveRepo struct{ st *state }

func (r *waveRepo) Create(_ context.Context, w *entity.Wave) error {
	if _, ok := r.st.waves[w.ID]; ok {
		return fmt.Errorf("create wave %s: %w", w.ID, domain.ErrConflict)
	}
	cp := *w
	r.st.waves[w.ID] = &cp
	return nil
}

func (r *waveRepo) Update(_ context.Context, w *entity.Wave) error {
	if _, ok := r.st.waves[w.ID]; !ok {
		return fmt.Errorf("update wave %s: %w", w.ID, domain.ErrNotFound)
	}
	cp := *w
	r.st.waves[w.ID] = &cp
	return nil
}

func (r *waveRepo) Get(_ context.Context, id string) (*entity.Wave, error) {
	w, ok := r.st.waves[id]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

func (r *waveRepo) GetForUpdate(ctx context.Context, id string) (*entity.Wave, error) {
	return r.Get(ctx, id)
}
