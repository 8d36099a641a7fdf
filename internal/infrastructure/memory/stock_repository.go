package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/wms-fulfillment/internal/domain"
	"github.com/jhoicas/wms-fulfillment/internal/domain/entity"
	"github.com/jhoicas/wms-fulfillment/internal/domain/repository"
)

type stockRepo struct{ st *state }

func (r *stockRepo) find(key entity.StockKey) *entity.Stock {
	for _, s := range r.st.stock {
		if s.Key() == key {
			return s
		}
	}
	return nil
}

func (r *stockRepo) Get(_ context.Context, key entity.StockKey) (*entity.Stock, error) {
	s := r.find(key)
	if s == nil {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

// GetForUpdate igual que Get: Run ya serializa las transacciones.
func (r *stockRepo) GetForUpdate(ctx context.Context, key entity.StockKey) (*entity.Stock, error) {
	return r.Get(ctx, key)
}

func (r *stockRepo) ListAvailable(_ context.Context, f repository.StockFilter) ([]*entity.LocatedStock, error) {
	var out []*entity.LocatedStock
	for _, s := range r.st.stock {
		if s.ProductID != f.ProductID || s.Size != f.Size || s.Available() <= 0 {
			continue
		}
		if f.WarehouseID != "" && s.WarehouseID != f.WarehouseID {
			continue
		}
		loc := r.st.locations[s.LocationID]
		if loc == nil || !loc.Active {
			continue
		}
		ls := &entity.LocatedStock{Stock: *s, ZoneID: loc.ZoneID, ZoneType: entity.ZoneOther}
		if z := r.st.zones[loc.ZoneID]; z != nil {
			ls.ZoneType = z.ZoneType
		}
		out = append(out, ls)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *stockRepo) Create(_ context.Context, s *entity.Stock) error {
	if !s.Valid() {
		return fmt.Errorf("create stock %s: %w", s.ID, domain.ErrInvalidQuantity)
	}
	if r.find(s.Key()) != nil {
		return fmt.Errorf("create stock %s: %w", s.ID, domain.ErrConflict)
	}
	cp := *s
	r.st.stock[s.ID] = &cp
	return nil
}

func (r *stockRepo) Update(_ context.Context, s *entity.Stock) error {
	if _, ok := r.st.stock[s.ID]; !ok {
		return fmt.Errorf("update stock %s: %w", s.ID, domain.ErrNotFound)
	}
	if !s.Valid() {
		return fmt.Errorf("update stock %s: %w", s.ID, domain.ErrInvalidQuantity)
	}
	cp := *s
	r.st.stock[s.ID] = &cp
	return nil
}

func (r *stockRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.st.stock[id]; !ok {
		return fmt.Errorf("delete stock %s: %w", id, domain.ErrNotFound)
	}
	delete(r.st.stock, id)
	return nil
}

type transactionRepo struct{ st *state }

func (r *transactionRepo) Create(_ context.Context, tx *entity.InventoryTransaction) error {
	cp := *tx
	r.st.transactions = append(r.st.transactions, &cp)
	return nil
}

func (r *transactionRepo) ListByReference(_ context.Context, reference string) ([]*entity.InventoryTransaction, error) {
	var out []*entity.InventoryTransaction
	for _, t := range r.st.transactions {
		if t.Reference == reference {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ListByProduct más recientes primero.
func (r *transactionRepo) ListByProduct(_ context.Context, productID string, limit, offset int) ([]*entity.InventoryTransaction, error) {
	var out []*entity.InventoryTransaction
	for i := len(r.st.transactions) - 1; i >= 0; i-- {
		t := r.st.transactions[i]
		if t.ProductID != productID {
			continue
		}
		if offset > 0 {
			offset--
			continue
		}
		cp := *t
		out = append(out, &cp)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
