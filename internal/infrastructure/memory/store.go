// Package memory implementa todos los puertos de repositorio en proceso.
// Las transacciones se serializan: cada Run trabaja sobre una copia del estado y la publica solo si fn no falla.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/wms-fulfillment/internal/application/fulfillment"
	"github.com/jhoicas/wms-fulfillment/internal/domain/entity"
)

type state struct {
	warehouses   map[string]*entity.Warehouse
	zones        map[string]*entity.Zone
	locations    map[string]*entity.Location
	stock        map[string]*entity.Stock
	transactions []*entity.InventoryTransaction
	orders       map[string]*entity.Order
	pickLists    map[string]*entity.PickList
	items        map[string]*entity.PickListItem
	waves        map[string]*entity.Wave
}

func newState() *state {
	return &state{
		warehouses: map[string]*entity.Warehouse{},
		zones:      map[string]*entity.Zone{},
		locations:  map[string]*entity.Location{},
		stock:      map[string]*entity.Stock{},
		orders:     map[string]*entity.Order{},
		pickLists:  map[string]*entity.PickList{},
		items:      map[string]*entity.PickListItem{},
		waves:      map[string]*entity.Wave{},
	}
}

// clone copia superficial por entidad: los repositorios nunca mutan lo apuntado por un *time.Time o *string.
func (s *state) clone() *state {
	c := newState()
	for k, v := range s.warehouses {
		cp := *v
		c.warehouses[k] = &cp
	}
	for k, v := range s.zones {
		cp := *v
		c.zones[k] = &cp
	}
	for k, v := range s.locations {
		cp := *v
		c.locations[k] = &cp
	}
	for k, v := range s.stock {
		cp := *v
		c.stock[k] = &cp
	}
	c.transactions = append(c.transactions, s.transactions...)
	for k, v := range s.orders {
		c.orders[k] = copyOrder(v)
	}
	for k, v := range s.pickLists {
		cp := *v
		c.pickLists[k] = &cp
	}
	for k, v := range s.items {
		cp := *v
		c.items[k] = &cp
	}
	for k, v := range s.waves {
		cp := *v
		c.waves[k] = &cp
	}
	return c
}

// Store almacén en memoria. Implementa fulfillment.TxRunner.
type Store struct {
	mu    sync.Mutex
	state *state
}

var _ fulfillment.TxRunner = (*Store)(nil)

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{state: newState()}
}

// Run ejecuta fn con repositorios sobre una copia del estado. Si fn devuelve error la copia se descarta.
func (s *Store) Run(ctx context.Context, fn func(repos fulfillment.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.state.clone()
	if err := fn(reposFor(work)); err != nil {
		return err
	}
	s.state = work
	return nil
}

func reposFor(st *state) fulfillment.Repos {
	return fulfillment.Repos{
		Stock:        &stockRepo{st: st},
		Transactions: &transactionRepo{st: st},
		Locations:    &locationRepo{st: st},
		Warehouses:   &warehouseRepo{st: st},
		Orders:       &orderRepo{st: st},
		PickLists:    &pickListRepo{st: st},
		Waves:        &waveRepo{st: st},
	}
}

// AddWarehouse registra una bodega (carga inicial).
func (s *Store) AddWarehouse(w entity.Warehouse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.warehouses[w.ID] = &w
}

// AddZone registra una zona.
func (s *Store) AddZone(z entity.Zone) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.zones[z.ID] = &z
}

// AddLocation registra una ubicación; su zona se resuelve al leer.
func (s *Store) AddLocation(l entity.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l.Zone = nil
	s.state.locations[l.ID] = &l
}

// AddStock registra una fila de stock.
func (s *Store) AddStock(st entity.Stock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.stock[st.ID] = &st
}

// AddOrder registra un pedido externo con sus líneas.
func (s *Store) AddOrder(o entity.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.orders[o.ID] = copyOrder(&o)
}

// Transactions copia del libro completo, en orden de inserción.
func (s *Store) Transactions() []entity.InventoryTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.InventoryTransaction, 0, len(s.state.transactions))
	for _, t := range s.state.transactions {
		out = append(out, *t)
	}
	return out
}

func copyOrder(o *entity.Order) *entity.Order {
	cp := *o
	cp.Lines = append([]entity.OrderLine(nil), o.Lines...)
	return &cp
}
