package fulfillment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wms-fulfillment/internal/application/fulfillment"
	"github.com/jhoicas/wms-fulfillment/internal/domain"
	"github.com/jhoicas/wms-fulfillment/internal/domain/entity"
)

// generated pedido o1 de 12 unidades de A: ítem 1 = 2 u. en loc-p1, ítem 2 = 10 u. en loc-p2.
func generated(t *testing.T, f *fixture) (*fulfillment.PickListView, entity.StockKey, entity.StockKey) {
	t.Helper()
	small := f.addStock("A", "loc-p1", "P1", 5, 0, base, nil)
	big := f.addStock("A", "loc-p2", "P2", 10, 0, base, nil)
	f.addOrder("o1", 0, line("A", 12))
	view, err := f.gen.Generate(f.ctx, fulfillment.GenerateInput{OrderID: "o1"})
	require.NoError(t, err)
	require.Len(t, view.Items, 2)
	return view, small, big
}

func pick(t *testing.T, f *fixture, view *fulfillment.PickListView, i, qty int) *fulfillment.PickListView {
	t.Helper()
	out, err := f.exec.RecordPick(f.ctx, fulfillment.RecordPickInput{
		PickListID: view.List.ID, ItemID: view.Items[i].ID, Quantity: qty, Actor: "picker-1",
	})
	require.NoError(t, err)
	return out
}

func TestRecordPick_CompletoConsumeYCierra(t *testing.T) {
	f := newFixture(t)
	view, small, big := generated(t, f)

	out := pick(t, f, view, 0, 2)
	assert.Equal(t, entity.PickListInProgress, out.List.Status)
	assert.NotNil(t, out.List.StartedAt)
	assert.Equal(t, 2, out.List.PickedItems)
	assert.Equal(t, entity.PickItemPicked, out.Items[0].Status)
	assert.Equal(t, "picker-1", out.Items[0].PickedBy)

	s := f.stock(t, small)
	assert.Equal(t, 3, s.Amount)
	assert.Equal(t, 0, s.ReservedQuantity)

	out = pick(t, f, view, 1, 10)
	assert.Equal(t, entity.PickListCompleted, out.List.Status)
	assert.NotNil(t, out.List.CompletedAt)
	assert.Equal(t, 12, out.List.PickedItems)
	assert.Equal(t, 12, out.List.TotalItems)
	assert.Nil(t, f.stock(t, big), "fila agotada se elimina")
	assert.Equal(t, entity.FulfillmentStatusPicked, f.order(t, "o1").FulfillmentStatus)

	ledger, err := f.res.Ledger(f.ctx, view.List.ID)
	require.NoError(t, err)
	require.Len(t, ledger, 2)
	for _, tx := range ledger {
		assert.Equal(t, entity.TransactionPick, tx.Type)
		assert.Equal(t, "picker-1", tx.Actor)
	}
	assert.Equal(t, -2, ledger[0].Quantity)
	assert.Equal(t, -10, ledger[1].Quantity)
}

func TestRecordPick_ParcialLiberaFaltante(t *testing.T) {
	f := newFixture(t)
	view, _, big := generated(t, f)

	out := pick(t, f, view, 1, 6)
	assert.Equal(t, entity.PickItemShortPicked, out.Items[1].Status)
	assert.Equal(t, 6, out.Items[1].QuantityPicked)

	s := f.stock(t, big)
	assert.Equal(t, 4, s.Amount)
	assert.Equal(t, 0, s.ReservedQuantity)
	assert.True(t, s.Valid())
}

func TestRecordPick_CeroQuedaUnfulfilled(t *testing.T) {
	f := newFixture(t)
	view, small, big := generated(t, f)

	out := pick(t, f, view, 1, 0)
	assert.Equal(t, entity.PickItemUnfulfilled, out.Items[1].Status)
	assert.Equal(t, entity.PickListInProgress, out.List.Status)
	assert.Equal(t, 10, f.stock(t, big).Amount)
	assert.Equal(t, 0, f.reserved(t, big))
	assert.Equal(t, 2, f.reserved(t, small))

	// El último ítem cierra la lista aunque el otro quedó sin surtir.
	out = pick(t, f, view, 0, 2)
	assert.Equal(t, entity.PickListCompleted, out.List.Status)
	assert.Equal(t, 2, out.List.PickedItems)
	assert.Len(t, f.store.Transactions(), 1, "solo un asiento pick")
}

func TestRecordPick_Errores(t *testing.T) {
	f := newFixture(t)
	view, _, big := generated(t, f)

	_, err := f.exec.RecordPick(f.ctx, fulfillment.RecordPickInput{PickListID: view.List.ID, ItemID: view.Items[1].ID, Quantity: 11})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	_, err = f.exec.RecordPick(f.ctx, fulfillment.RecordPickInput{PickListID: view.List.ID, ItemID: view.Items[1].ID, Quantity: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	_, err = f.exec.RecordPick(f.ctx, fulfillment.RecordPickInput{PickListID: view.List.ID, ItemID: "missing", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.exec.RecordPick(f.ctx, fulfillment.RecordPickInput{PickListID: "missing", ItemID: view.Items[1].ID, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 10, f.reserved(t, big))

	pick(t, f, view, 1, 5)
	_, err = f.exec.RecordPick(f.ctx, fulfillment.RecordPickInput{PickListID: view.List.ID, ItemID: view.Items[1].ID, Quantity: 5})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "un ítem ya registrado no se vuelve a recoger")
}

func TestAssignYComplete(t *testing.T) {
	f := newFixture(t)
	view, _, _ := generated(t, f)

	list, err := f.exec.Assign(f.ctx, view.List.ID, "admin-7")
	require.NoError(t, err)
	assert.Equal(t, entity.PickListAssigned, list.Status)
	assert.Equal(t, "admin-7", list.AdminID)
	_, err = f.exec.Assign(f.ctx, view.List.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.exec.Complete(f.ctx, view.List.ID, "admin-7")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "quedan ítems pendientes")

	out := pick(t, f, view, 0, 2)
	assert.Equal(t, entity.PickListInProgress, out.List.Status, "assigned → in_progress")
	pick(t, f, view, 1, 10)

	done, err := f.exec.Complete(f.ctx, view.List.ID, "admin-7")
	require.NoError(t, err)
	assert.Equal(t, entity.PickListCompleted, done.List.Status)

	_, err = f.exec.Assign(f.ctx, view.List.ID, "admin-8")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = f.exec.Cancel(f.ctx, view.List.ID, "tarde")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCancel_RevierteReservasYEsIdempotente(t *testing.T) {
	f := newFixture(t)
	view, small, big := generated(t, f)

	pick(t, f, view, 1, 7)
	out, err := f.exec.Cancel(f.ctx, view.List.ID, "cliente anuló")
	require.NoError(t, err)
	assert.Equal(t, entity.PickListCancelled, out.List.Status)
	assert.Equal(t, "cliente anuló", out.List.CancelReason)
	assert.NotNil(t, out.List.CancelledAt)
	for _, it := range out.Items {
		assert.Equal(t, entity.PickItemCancelled, it.Status)
	}
	assert.Equal(t, 7, out.Items[1].QuantityPicked, "lo recogido se conserva")

	assert.Equal(t, 0, f.reserved(t, small))
	assert.Equal(t, 0, f.reserved(t, big))
	assert.Equal(t, 5, f.stock(t, small).Amount)
	assert.Equal(t, 3, f.stock(t, big).Amount)

	again, err := f.exec.Cancel(f.ctx, view.List.ID, "otra vez")
	require.NoError(t, err)
	assert.Equal(t, "cliente anuló", again.List.CancelReason)
	assert.Equal(t, 0, f.reserved(t, small))

	_, err = f.exec.RecordPick(f.ctx, fulfillment.RecordPickInput{PickListID: view.List.ID, ItemID: view.Items[0].ID, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	assert.False(t, f.hasActive(t, "o1"))
}

func TestCancel_NoLiberaReservasAjenas(t *testing.T) {
	f := newFixture(t)
	key := f.addStock("A", "loc-p1", "L1", 10, 0, base, nil)
	other := f.addStock("B", "loc-p2", "L1", 5, 0, base, nil)
	f.addOrder("o1", 0, line("A", 4), line("B", 2))
	f.addOrder("o2", 0, line("A", 4))

	first, err := f.gen.Generate(f.ctx, fulfillment.GenerateInput{OrderID: "o1"})
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	require.Equal(t, "A", first.Items[0].ProductID)
	second, err := f.gen.Generate(f.ctx, fulfillment.GenerateInput{OrderID: "o2"})
	require.NoError(t, err)
	assert.Equal(t, 8, f.reserved(t, key))
	assert.Equal(t, 2, f.reserved(t, other))

	// Recogida parcial de A; B sigue pendiente y la lista queda en curso.
	out := pick(t, f, first, 0, 1)
	assert.Equal(t, entity.PickListInProgress, out.List.Status)

	cancelled, err := f.exec.Cancel(f.ctx, first.List.ID, "")
	require.NoError(t, err)
	assert.Equal(t, entity.PickListCancelled, cancelled.List.Status)
	assert.Equal(t, 4, f.reserved(t, key), "la reserva de o2 sigue intacta")
	assert.Equal(t, 0, f.reserved(t, other))
	assert.Equal(t, 9, f.stock(t, key).Amount)

	// Una lista completada ya no se cancela ni libera nada.
	done := pick(t, f, second, 0, 4)
	require.Equal(t, entity.PickListCompleted, done.List.Status)
	_, err = f.exec.Cancel(f.ctx, second.List.ID, "tarde")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, 0, f.reserved(t, key))
	assert.Equal(t, 5, f.stock(t, key).Amount)
}
