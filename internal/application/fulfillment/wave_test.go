package fulfillment_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wms-fulfillment/internal/application/fulfillment"
	"github.com/jhoicas/wms-fulfillment/internal/domain"
	"github.com/jhoicas/wms-fulfillment/internal/domain/entity"
)

// waveOrders tres pedidos de 50, 80 y 100 unidades (P1, P2, P3), cada producto con stock propio.
func waveOrders(f *fixture) map[string]entity.StockKey {
	keys := map[string]entity.StockKey{
		"P1": f.addStock("P1", "loc-p1", "L1", 60, 0, base, nil),
		"P2": f.addStock("P2", "loc-s1", "L1", 90, 0, base, nil),
		"P3": f.addStock("P3", "loc-p2", "L1", 100, 0, base, nil),
	}
	f.addOrder("o1", 1, line("P1", 50))
	f.addOrder("o2", 5, line("P2", 80))
	f.addOrder("o3", 9, line("P3", 100))
	return keys
}

func createWave(t *testing.T, f *fixture, strategy entity.WaveStrategy, maxItems int) *fulfillment.WaveView {
	t.Helper()
	view, err := f.waves.CreateAuto(f.ctx, fulfillment.CreateWaveInput{
		Strategy:         strategy,
		MaxOrders:        10,
		MaxItems:         maxItems,
		Priority:         2,
		PlannedStartTime: ptr(base.Add(time.Hour)),
		AdminID:          "admin-1",
	})
	require.NoError(t, err)
	return view
}

func TestCreateAuto_LimiteDeCapacidad(t *testing.T) {
	f := newFixture(t)
	waveOrders(f)

	view := createWave(t, f, entity.WaveShortestPath, 200)

	assert.Equal(t, entity.WavePlanning, view.Wave.Status)
	assert.Equal(t, "wh-1", view.Wave.WarehouseID)
	assert.Equal(t, 2, view.Wave.TotalOrders)
	assert.Equal(t, 130, view.Wave.TotalItems)
	require.Len(t, view.Orders, 2)
	assert.Equal(t, "o1", view.Orders[0].ID)
	assert.Equal(t, "o2", view.Orders[1].ID)

	require.NotNil(t, f.order(t, "o1").WaveID)
	assert.Equal(t, view.Wave.ID, *f.order(t, "o2").WaveID)
	assert.Nil(t, f.order(t, "o3").WaveID)
}

func TestCreateAuto_PrioridadReordena(t *testing.T) {
	f := newFixture(t)
	waveOrders(f)

	view := createWave(t, f, entity.WavePriorityBased, 1000)

	require.Len(t, view.Orders, 3)
	assert.Equal(t, []string{"o3", "o2", "o1"}, []string{view.Orders[0].ID, view.Orders[1].ID, view.Orders[2].ID})
}

func TestCreateAuto_SinPedidosElegibles(t *testing.T) {
	f := newFixture(t)
	waveOrders(f)

	_, err := f.waves.CreateAuto(f.ctx, fulfillment.CreateWaveInput{Strategy: entity.WaveZoneBased, MaxOrders: 5, MaxItems: 10})
	assert.ErrorIs(t, err, domain.ErrNoEligibleOrders, "el primer pedido ya desborda")

	_, err = f.waves.CreateAuto(f.ctx, fulfillment.CreateWaveInput{Strategy: "random", MaxOrders: 5, MaxItems: 10})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.waves.CreateAuto(f.ctx, fulfillment.CreateWaveInput{Strategy: entity.WaveZoneBased, MaxOrders: 0, MaxItems: 10})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	// Los pedidos ya en una ola no vuelven a seleccionarse.
	createWave(t, f, entity.WaveProductFamily, 1000)
	_, err = f.waves.CreateAuto(f.ctx, fulfillment.CreateWaveInput{Strategy: entity.WaveZoneBased, MaxOrders: 5, MaxItems: 1000})
	assert.ErrorIs(t, err, domain.ErrNoEligibleOrders)
}

func TestRelease_LotesBalanceadosYReservas(t *testing.T) {
	f := newFixture(t)
	keys := waveOrders(f)
	created := createWave(t, f, entity.WaveShortestPath, 1000)

	view, err := f.waves.Release(f.ctx, created.Wave.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.WaveReleased, view.Wave.Status)
	require.Len(t, view.PickLists, 3, "min(3, pedidos) lotes")
	for _, pl := range view.PickLists {
		require.NotNil(t, pl.WaveID)
		assert.Equal(t, created.Wave.ID, *pl.WaveID)
		assert.Equal(t, 2, pl.Priority)
		assert.NotEmpty(t, pl.OrderID, "lote de un solo pedido conserva su pedido")
	}
	assert.Equal(t, 50, f.reserved(t, keys["P1"]))
	assert.Equal(t, 80, f.reserved(t, keys["P2"]))
	assert.Equal(t, 100, f.reserved(t, keys["P3"]))

	_, err = f.waves.Release(f.ctx, created.Wave.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestRelease_ZonaAgrupaPedidos(t *testing.T) {
	f := newFixture(t)
	f.addStock("A", "loc-p1", "L1", 10, 0, base, nil)
	f.addStock("B", "loc-p2", "L1", 10, 0, base, nil)
	f.addStock("C", "loc-s1", "L1", 10, 0, base, nil)
	f.addOrder("o1", 0, line("A", 2))
	f.addOrder("o2", 0, line("C", 3))
	f.addOrder("o3", 0, line("B", 4))
	created := createWave(t, f, entity.WaveZoneBased, 100)

	view, err := f.waves.Release(f.ctx, created.Wave.ID)
	require.NoError(t, err)

	require.Len(t, view.PickLists, 2, "una lista por zona")
	assert.Empty(t, view.PickLists[0].OrderID, "lista multi-pedido")
	assert.Equal(t, 6, view.PickLists[0].TotalItems, "zona de picking: o1 + o3")
	assert.Equal(t, "o2", view.PickLists[1].OrderID)

	pl, err := f.exec.GetPickList(f.ctx, view.PickLists[0].ID)
	require.NoError(t, err)
	orders := map[string]bool{}
	for _, it := range pl.Items {
		orders[it.OrderID] = true
	}
	assert.Equal(t, map[string]bool{"o1": true, "o3": true}, orders)
}

func TestRelease_PrioridadUnaListaPorPedido(t *testing.T) {
	f := newFixture(t)
	waveOrders(f)
	created := createWave(t, f, entity.WavePriorityBased, 1000)

	view, err := f.waves.Release(f.ctx, created.Wave.ID)
	require.NoError(t, err)

	require.Len(t, view.PickLists, 3)
	assert.Equal(t, []string{"o3", "o2", "o1"}, []string{view.PickLists[0].OrderID, view.PickLists[1].OrderID, view.PickLists[2].OrderID})
}

func TestRelease_FallaSinTocarNada(t *testing.T) {
	f := newFixture(t)
	keys := waveOrders(f)
	f.addOrder("o4", 0, line("P1", 20)) // P1: 60 en stock, o1 + o4 = 70
	created := createWave(t, f, entity.WaveShortestPath, 1000)

	_, err := f.waves.Release(f.ctx, created.Wave.ID)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	view, err := f.waves.Get(f.ctx, created.Wave.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.WavePlanning, view.Wave.Status)
	assert.Empty(t, view.PickLists)
	for _, k := range keys {
		assert.Equal(t, 0, f.reserved(t, k))
	}
}

func TestRelease_RequiereHoraPlanificada(t *testing.T) {
	f := newFixture(t)
	waveOrders(f)
	created, err := f.waves.CreateAuto(f.ctx, fulfillment.CreateWaveInput{Strategy: entity.WavePriorityBased, MaxOrders: 1, MaxItems: 100})
	require.NoError(t, err)

	_, err = f.waves.Release(f.ctx, created.Wave.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.waves.Release(f.ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWave_TransicionesAutomaticas(t *testing.T) {
	f := newFixture(t)
	waveOrders(f)
	created := createWave(t, f, entity.WavePriorityBased, 200)
	released, err := f.waves.Release(f.ctx, created.Wave.ID)
	require.NoError(t, err)
	require.Len(t, released.PickLists, 2)

	first, err := f.exec.GetPickList(f.ctx, released.PickLists[0].ID)
	require.NoError(t, err)
	pick(t, f, first, 0, first.Items[0].QuantityRequested)

	w := f.wave(t, created.Wave.ID)
	assert.Equal(t, entity.WaveInProgress, w.Status)
	require.NotNil(t, w.ActualStartTime)
	assert.Nil(t, w.ActualEndTime)

	second, err := f.exec.GetPickList(f.ctx, released.PickLists[1].ID)
	require.NoError(t, err)
	for i, it := range second.Items {
		pick(t, f, second, i, it.QuantityRequested)
	}

	w = f.wave(t, created.Wave.ID)
	assert.Equal(t, entity.WaveCompleted, w.Status)
	assert.NotNil(t, w.ActualEndTime)

	m, err := f.waves.Metrics(f.ctx, created.Wave.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, m.TotalOrders)
	assert.Equal(t, 130, m.TotalItems)
	assert.Equal(t, 130, m.PickedItems)
	assert.Equal(t, 2, m.PickLists)
	assert.Equal(t, 2, m.UniqueLocations)
	assert.Equal(t, 2, m.UniqueZones)
	assert.Equal(t, "100", m.CompletionPercentage.String())
	assert.Equal(t, "67", m.EstimatedMinutes.String())
	assert.Equal(t, "65", m.AverageItemsPerOrder.String())

	_, err = f.waves.Cancel(f.ctx, created.Wave.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestWave_StartManual(t *testing.T) {
	f := newFixture(t)
	waveOrders(f)
	created := createWave(t, f, entity.WavePriorityBased, 200)

	_, err := f.waves.Start(f.ctx, created.Wave.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "planning no arranca")

	_, err = f.waves.Release(f.ctx, created.Wave.ID)
	require.NoError(t, err)
	w, err := f.waves.Start(f.ctx, created.Wave.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.WaveInProgress, w.Status)
	assert.NotNil(t, w.ActualStartTime)

	m, err := f.waves.Metrics(f.ctx, created.Wave.ID)
	require.NoError(t, err)
	assert.Equal(t, "0", m.CompletionPercentage.String())
}

func TestWave_CancelLiberaYDesasigna(t *testing.T) {
	f := newFixture(t)
	keys := waveOrders(f)
	// o4 comparte lote con o1 (LPT: [o3] [o2] [o1 o4]) y deja su lista con ítems pendientes tras una recogida.
	f.addOrder("o4", 3, line("P1", 5), line("P2", 5))
	created := createWave(t, f, entity.WaveShortestPath, 1000)
	require.Equal(t, 4, created.Wave.TotalOrders)
	released, err := f.waves.Release(f.ctx, created.Wave.ID)
	require.NoError(t, err)

	var shared *fulfillment.PickListView
	for _, pl := range released.PickLists {
		view, err := f.exec.GetPickList(f.ctx, pl.ID)
		require.NoError(t, err)
		if len(view.Items) > 1 {
			shared = view
		}
	}
	require.NotNil(t, shared)
	out := pick(t, f, shared, 0, 1)
	require.Equal(t, entity.PickListInProgress, out.List.Status)

	w, err := f.waves.Cancel(f.ctx, created.Wave.ID, "corte de turno")
	require.NoError(t, err)
	assert.Equal(t, entity.WaveCancelled, w.Status)
	assert.Equal(t, "corte de turno", w.CancelReason)

	for _, k := range keys {
		assert.Equal(t, 0, f.reserved(t, k))
	}
	view, err := f.waves.Get(f.ctx, created.Wave.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Orders, "pedidos desasignados")
	for _, pl := range view.PickLists {
		assert.Equal(t, entity.PickListCancelled, pl.Status)
	}
	assert.Nil(t, f.order(t, "o1").WaveID)

	_, err = f.waves.Cancel(f.ctx, created.Wave.ID, "otra vez")
	require.NoError(t, err)
	assert.Equal(t, "corte de turno", f.wave(t, created.Wave.ID).CancelReason)

	// Los pedidos vuelven a ser elegibles.
	again := createWave(t, f, entity.WaveShortestPath, 1000)
	assert.Equal(t, 4, again.Wave.TotalOrders)
}

func TestWave_CancelOlaCompletadaFalla(t *testing.T) {
	f := newFixture(t)
	f.addStock("P1", "loc-p1", "L1", 10, 0, base, nil)
	f.addOrder("o1", 0, line("P1", 3))
	created := createWave(t, f, entity.WaveShortestPath, 100)
	released, err := f.waves.Release(f.ctx, created.Wave.ID)
	require.NoError(t, err)
	require.Len(t, released.PickLists, 1)

	list, err := f.exec.GetPickList(f.ctx, released.PickLists[0].ID)
	require.NoError(t, err)
	pick(t, f, list, 0, 1)
	assert.Equal(t, entity.WaveCompleted, f.wave(t, created.Wave.ID).Status, "un short pick deja la lista sin pendientes")

	_, err = f.waves.Cancel(f.ctx, created.Wave.ID, "tarde")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCreateAuto_LimiteCuentaSoloElegibles(t *testing.T) {
	f := newFixture(t)
	waveOrders(f)
	// o1 (el más antiguo) ya tiene lista propia: no debe ocupar un cupo de max_orders.
	_, err := f.gen.Generate(f.ctx, fulfillment.GenerateInput{OrderID: "o1"})
	require.NoError(t, err)

	view, err := f.waves.CreateAuto(f.ctx, fulfillment.CreateWaveInput{
		Strategy:         entity.WaveShortestPath,
		MaxOrders:        2,
		MaxItems:         1000,
		PlannedStartTime: ptr(base.Add(time.Hour)),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, view.Wave.TotalOrders)
	ids := make([]string, 0, len(view.Orders))
	for _, o := range view.Orders {
		ids = append(ids, o.ID)
	}
	assert.ElementsMatch(t, []string{"o2", "o3"}, ids)
}
