package fulfillment_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wms-fulfillment/internal/application/fulfillment"
	"github.com/jhoicas/wms-fulfillment/internal/domain/entity"
	"github.com/jhoicas/wms-fulfillment/internal/infrastructure/memory"
	"github.com/jhoicas/wms-fulfillment/pkg/logger"
)

var base = time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

type fixture struct {
	store   *memory.Store
	res     *fulfillment.ReservationManager
	alloc   *fulfillment.AllocationEngine
	gen     *fulfillment.PickListGenerator
	route   *fulfillment.RouteOptimizer
	exec    *fulfillment.PickExecution
	waves   *fulfillment.WaveOrchestrator
	ctx     context.Context
	stockN  int
	ordersN int
}

// newFixture bodega principal wh-1 con zonas picking/storage/receiving y cuatro ubicaciones:
// loc-p1 (picking, pasillo 2), loc-p2 (picking, pasillo 10), loc-s1 (storage), loc-r1 (receiving).
func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	log := logger.Nop()

	store.AddWarehouse(entity.Warehouse{ID: "wh-1", Name: "Principal", IsMain: true})
	store.AddWarehouse(entity.Warehouse{ID: "wh-2", Name: "Secundaria"})
	store.AddZone(entity.Zone{ID: "z-pick", WarehouseID: "wh-1", Name: "Picking", ZoneType: entity.ZonePicking})
	store.AddZone(entity.Zone{ID: "z-store", WarehouseID: "wh-1", Name: "Almacén", ZoneType: entity.ZoneStorage})
	store.AddZone(entity.Zone{ID: "z-recv", WarehouseID: "wh-1", Name: "Recepción", ZoneType: entity.ZoneReceiving})
	store.AddZone(entity.Zone{ID: "z-pick-2", WarehouseID: "wh-2", Name: "Picking 2", ZoneType: entity.ZonePicking})
	for _, l := range []entity.Location{
		{ID: "loc-p1", WarehouseID: "wh-1", ZoneID: "z-pick", Code: "P-02-01-1", Aisle: "2", Bay: "1", Level: "1", Active: true},
		{ID: "loc-p2", WarehouseID: "wh-1", ZoneID: "z-pick", Code: "P-10-01-1", Aisle: "10", Bay: "1", Level: "1", Active: true},
		{ID: "loc-s1", WarehouseID: "wh-1", ZoneID: "z-store", Code: "S-01-01-1", Aisle: "1", Bay: "1", Level: "1", Active: true},
		{ID: "loc-r1", WarehouseID: "wh-1", ZoneID: "z-recv", Code: "R-01-01-1", Aisle: "1", Bay: "1", Level: "1", Active: true},
		{ID: "loc-w2", WarehouseID: "wh-2", ZoneID: "z-pick-2", Code: "P-01-01-1", Aisle: "1", Bay: "1", Level: "1", Active: true},
	} {
		store.AddLocation(l)
	}

	res := fulfillment.NewReservationManager(store, log)
	gen := fulfillment.NewPickListGenerator(store, res, log)
	exec := fulfillment.NewPickExecution(store, res, log)
	return &fixture{
		store: store,
		res:   res,
		alloc: fulfillment.NewAllocationEngine(store, log),
		gen:   gen,
		route: fulfillment.NewRouteOptimizer(store, log),
		exec:  exec,
		waves: fulfillment.NewWaveOrchestrator(store, gen, exec, fulfillment.WaveSettings{
			Batches:            3,
			MinutesPerItem:     decimal.RequireFromString("0.5"),
			MinutesPerLocation: decimal.NewFromInt(1),
		}, log),
		ctx: context.Background(),
	}
}

// addStock agrega una fila en wh-1 (o la bodega de la ubicación loc-w2) con costo unitario 2.
func (f *fixture) addStock(product, location, batch string, amount, reserved int, received time.Time, expiry *time.Time) entity.StockKey {
	f.stockN++
	wh := "wh-1"
	if location == "loc-w2" {
		wh = "wh-2"
	}
	s := entity.Stock{
		ID:               "stk-" + product + "-" + location + "-" + batch,
		ProductID:        product,
		WarehouseID:      wh,
		LocationID:       location,
		BatchNumber:      batch,
		Amount:           amount,
		ReservedQuantity: reserved,
		UnitCost:         decimal.NewFromInt(2),
		ReceivedDate:     received,
		ExpiryDate:       expiry,
		CreatedAt:        base.Add(time.Duration(f.stockN) * time.Second),
	}
	f.store.AddStock(s)
	return s.Key()
}

// addOrder pedido de fulfillment pendiente en wh-1; cada llamada es más reciente que la anterior.
func (f *fixture) addOrder(id string, priority int, lines ...entity.OrderLine) {
	f.ordersN++
	f.store.AddOrder(entity.Order{
		ID:                id,
		WarehouseID:       "wh-1",
		OrderType:         entity.OrderTypeFulfillment,
		Status:            entity.OrderStatusConfirmed,
		FulfillmentStatus: entity.FulfillmentStatusPending,
		Priority:          priority,
		CreatedAt:         base.Add(time.Duration(f.ordersN) * time.Minute),
		Lines:             lines,
	})
}

func line(product string, qty int) entity.OrderLine {
	return entity.OrderLine{ProductID: product, Quantity: qty}
}

func (f *fixture) stock(t *testing.T, key entity.StockKey) *entity.Stock {
	t.Helper()
	var s *entity.Stock
	require.NoError(t, f.store.Run(f.ctx, func(repos fulfillment.Repos) error {
		var err error
		s, err = repos.Stock.Get(f.ctx, key)
		return err
	}))
	return s
}

func (f *fixture) reserved(t *testing.T, key entity.StockKey) int {
	t.Helper()
	s := f.stock(t, key)
	if s == nil {
		return 0
	}
	return s.ReservedQuantity
}

func (f *fixture) order(t *testing.T, id string) *entity.Order {
	t.Helper()
	var o *entity.Order
	require.NoError(t, f.store.Run(f.ctx, func(repos fulfillment.Repos) error {
		var err error
		o, err = repos.Orders.GetForUpdate(f.ctx, id)
		return err
	}))
	require.NotNil(t, o)
	return o
}

func (f *fixture) wave(t *testing.T, id string) *entity.Wave {
	t.Helper()
	view, err := f.waves.Get(f.ctx, id)
	require.NoError(t, err)
	return view.Wave
}

func (f *fixture) hasActive(t *testing.T, orderID string) bool {
	t.Helper()
	var active bool
	require.NoError(t, f.store.Run(f.ctx, func(repos fulfillment.Repos) error {
		var err error
		active, err = repos.PickLists.HasActiveForOrder(f.ctx, orderID)
		return err
	}))
	return active
}

func ptr[T any](v T) *T { return &v }

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}
