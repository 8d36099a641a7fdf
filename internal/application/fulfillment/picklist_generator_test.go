package fulfillment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wms-fulfillment/internal/application/fulfillment"
	"github.com/jhoicas/wms-fulfillment/internal/domain"
	"github.com/jhoicas/wms-fulfillment/internal/domain/entity"
	domainfulfillment "github.com/jhoicas/wms-fulfillment/internal/domain/fulfillment"
)

func TestAllocate_FIFOSobreElAlmacen(t *testing.T) {
	f := newFixture(t)
	f.addStock("A", "loc-s1", "L2", 5, 0, day(t, "2024-02-01"), nil)
	f.addStock("A", "loc-p1", "L1", 10, 0, day(t, "2024-01-01"), nil)
	f.addStock("A", "loc-w2", "L0", 50, 0, day(t, "2023-01-01"), nil)

	plan, err := f.alloc.Allocate(f.ctx, fulfillment.AllocateInput{ProductID: "A", Quantity: 12, Policy: domainfulfillment.PolicyFIFO, WarehouseID: "wh-1"})
	require.NoError(t, err)
	require.Len(t, plan.Lines, 2)
	assert.Equal(t, "loc-p1", plan.Lines[0].LocationID)
	assert.Equal(t, 10, plan.Lines[0].Quantity)
	assert.Equal(t, "loc-s1", plan.Lines[1].LocationID)
	assert.Equal(t, 2, plan.Lines[1].Quantity)
	assert.Equal(t, 12, plan.AllocatedQuantity)
	assert.True(t, plan.FullyAllocated)

	// Sin bodega: el lote más antiguo de wh-2 entra primero.
	plan, err = f.alloc.Allocate(f.ctx, fulfillment.AllocateInput{ProductID: "A", Quantity: 70})
	require.NoError(t, err)
	assert.Equal(t, "loc-w2", plan.Lines[0].LocationID)
	assert.Equal(t, 65, plan.AllocatedQuantity)
	assert.Equal(t, 5, plan.RemainingQuantity)
	assert.False(t, plan.FullyAllocated)

	_, err = f.alloc.Allocate(f.ctx, fulfillment.AllocateInput{ProductID: "A", Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	_, err = f.alloc.Allocate(f.ctx, fulfillment.AllocateInput{ProductID: "A", Quantity: 1, Policy: "random"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGenerate_ReservaYSecuencia(t *testing.T) {
	f := newFixture(t)
	storage := f.addStock("A", "loc-s1", "S", 20, 0, base, nil)
	small := f.addStock("A", "loc-p1", "P1", 5, 0, base, nil)
	big := f.addStock("A", "loc-p2", "P2", 10, 0, base, nil)
	f.addOrder("o1", 3, line("A", 12))

	view, err := f.gen.Generate(f.ctx, fulfillment.GenerateInput{OrderID: "o1", AdminID: "admin-1"})
	require.NoError(t, err)

	assert.Equal(t, "o1", view.List.OrderID)
	assert.Equal(t, "wh-1", view.List.WarehouseID)
	assert.Equal(t, entity.PickListPending, view.List.Status)
	assert.Equal(t, 3, view.List.Priority)
	assert.Equal(t, 12, view.List.TotalItems)

	// Plan: picking primero y mayor cantidad primero (P2 10, P1 2); ruta: pasillo 2 antes que 10.
	require.Len(t, view.Items, 2)
	assert.Equal(t, "loc-p1", view.Items[0].LocationID)
	assert.Equal(t, 2, view.Items[0].QuantityRequested)
	assert.Equal(t, 1, view.Items[0].Sequence)
	assert.Equal(t, "loc-p2", view.Items[1].LocationID)
	assert.Equal(t, 10, view.Items[1].QuantityRequested)
	assert.Equal(t, 2, view.Items[1].Sequence)
	for _, it := range view.Items {
		assert.Equal(t, "o1", it.OrderID)
		assert.Equal(t, entity.PickItemPending, it.Status)
	}

	assert.Equal(t, 2, f.reserved(t, small))
	assert.Equal(t, 10, f.reserved(t, big))
	assert.Equal(t, 0, f.reserved(t, storage))

	stored, err := f.exec.GetPickList(f.ctx, view.List.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 2)
	assert.Equal(t, view.Items[0].ID, stored.Items[0].ID)
}

func TestGenerate_TodoONada(t *testing.T) {
	f := newFixture(t)
	a := f.addStock("A", "loc-p1", "L1", 10, 0, base, nil)
	b := f.addStock("B", "loc-p2", "L1", 3, 1, base, nil)
	f.addOrder("o1", 0, line("A", 5), line("B", 50))

	_, err := f.gen.Generate(f.ctx, fulfillment.GenerateInput{OrderID: "o1"})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, 0, f.reserved(t, a), "la reserva de la línea 1 no sobrevive")
	assert.Equal(t, 1, f.reserved(t, b))
	assert.False(t, f.hasActive(t, "o1"))

	// Con stock suficiente el mismo pedido se genera.
	f.addStock("B", "loc-s1", "L2", 60, 0, base, nil)
	view, err := f.gen.Generate(f.ctx, fulfillment.GenerateInput{OrderID: "o1"})
	require.NoError(t, err)
	assert.Equal(t, 55, view.List.TotalItems)
}

func TestGenerate_MismoProductoEnDosLineasNoSobrerreserva(t *testing.T) {
	f := newFixture(t)
	key := f.addStock("A", "loc-p1", "L1", 10, 0, base, nil)
	f.addOrder("o1", 0, line("A", 6), line("A", 6))

	_, err := f.gen.Generate(f.ctx, fulfillment.GenerateInput{OrderID: "o1"})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 0, f.reserved(t, key))
}

func TestGenerate_PedidoNoApto(t *testing.T) {
	f := newFixture(t)
	f.addStock("A", "loc-p1", "L1", 10, 0, base, nil)
	f.addOrder("o1", 0, line("A", 1))
	f.store.AddOrder(entity.Order{ID: "sale", OrderType: "sale", Status: entity.OrderStatusConfirmed, Lines: []entity.OrderLine{line("A", 1)}})

	_, err := f.gen.Generate(f.ctx, fulfillment.GenerateInput{OrderID: "sale"})
	assert.ErrorIs(t, err, domain.ErrInvalidOrder)

	_, err = f.gen.Generate(f.ctx, fulfillment.GenerateInput{OrderID: "o1"})
	require.NoError(t, err)
	_, err = f.gen.Generate(f.ctx, fulfillment.GenerateInput{OrderID: "o1"})
	assert.ErrorIs(t, err, domain.ErrInvalidOrder, "ya tiene lista activa")

	_, err = f.gen.Generate(f.ctx, fulfillment.GenerateInput{OrderID: "missing"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGenerate_ResuelveBodega(t *testing.T) {
	f := newFixture(t)
	f.addStock("A", "loc-p1", "L1", 10, 0, base, nil)
	f.addStock("A", "loc-w2", "L1", 10, 0, base, nil)
	f.store.AddOrder(entity.Order{ID: "o-sin-bodega", OrderType: entity.OrderTypeFulfillment, Status: entity.OrderStatusPending, Lines: []entity.OrderLine{line("A", 4)}})
	f.addOrder("o-explicita", 0, line("A", 4))

	view, err := f.gen.Generate(f.ctx, fulfillment.GenerateInput{OrderID: "o-sin-bodega"})
	require.NoError(t, err)
	assert.Equal(t, "wh-1", view.List.WarehouseID, "bodega principal")

	view, err = f.gen.Generate(f.ctx, fulfillment.GenerateInput{OrderID: "o-explicita", WarehouseID: "wh-2"})
	require.NoError(t, err)
	assert.Equal(t, "wh-2", view.List.WarehouseID)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "loc-w2", view.Items[0].LocationID)

	f.addOrder("o-otra", 0, line("A", 1))
	_, err = f.gen.Generate(f.ctx, fulfillment.GenerateInput{OrderID: "o-otra", WarehouseID: "wh-9"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOptimize_DeterministaYSoloListasAbiertas(t *testing.T) {
	f := newFixture(t)
	f.addStock("A", "loc-r1", "R", 5, 0, base, nil)
	f.addStock("B", "loc-s1", "S", 5, 0, base, nil)
	f.addStock("C", "loc-p2", "P", 5, 0, base, nil)
	f.addOrder("o1", 0, line("A", 5), line("B", 5), line("C", 5))

	view, err := f.gen.Generate(f.ctx, fulfillment.GenerateInput{OrderID: "o1"})
	require.NoError(t, err)
	got := []string{view.Items[0].LocationID, view.Items[1].LocationID, view.Items[2].LocationID}
	assert.Equal(t, []string{"loc-p2", "loc-s1", "loc-r1"}, got)

	again, err := f.route.Optimize(f.ctx, view.List.ID)
	require.NoError(t, err)
	for i := range view.Items {
		assert.Equal(t, view.Items[i].ID, again.Items[i].ID)
		assert.Equal(t, i+1, again.Items[i].Sequence)
	}

	_, err = f.exec.Cancel(f.ctx, view.List.ID, "")
	require.NoError(t, err)
	_, err = f.route.Optimize(f.ctx, view.List.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = f.route.Optimize(f.ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
