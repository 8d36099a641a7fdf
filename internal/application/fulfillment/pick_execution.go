package fulfillment

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/wms-fulfillment/internal/domain"
	"github.com/jhoicas/wms-fulfillment/internal/domain/entity"
	"github.com/jhoicas/wms-fulfillment/internal/domain/fulfillment"
	"github.com/jhoicas/wms-fulfillment/pkg/logger"
)

// RecordPickInput registro de unidades recogidas de un ítem.
type RecordPickInput struct {
	PickListID string
	ItemID     string
	Quantity   int
	Actor      string
}

// PickExecution máquina de estados de ejecución: consume reservas a medida que se recoge
// y avanza lista, pedido y ola.
type PickExecution struct {
	txRunner     TxRunner
	reservations *ReservationManager
	log          *logger.Logger
}

// NewPickExecution construye el caso de uso.
func NewPickExecution(txRunner TxRunner, reservations *ReservationManager, log *logger.Logger) *PickExecution {
	return &PickExecution{txRunner: txRunner, reservations: reservations, log: log.Component("pick_execution")}
}

// RecordPick registra quantity (0..solicitado) sobre un ítem pendiente.
//   - >0: consume del stock reservado, asiento pick y libera el faltante.
//   - 0: libera la reserva completa y el ítem queda unfulfilled.
//
// Luego recalcula agregados; sin ítems pendientes la lista se completa y sus pedidos pasan a picked.
func (p *PickExecution) RecordPick(ctx context.Context, in RecordPickInput) (*PickListView, error) {
	var view *PickListView
	var released int
	err := p.txRunner.Run(ctx, func(repos Repos) error {
		list, err := lockPickList(ctx, repos, in.PickListID)
		if err != nil {
			return err
		}
		if list.Status.Terminal() {
			return fmt.Errorf("pick list %s en estado %s: %w", list.ID, list.Status, domain.ErrInvalidTransition)
		}
		item, err := repos.PickLists.GetItemForUpdate(ctx, in.ItemID)
		if err != nil {
			return err
		}
		if item == nil || item.PickListID != list.ID {
			return fmt.Errorf("pick item %s: %w", in.ItemID, domain.ErrNotFound)
		}
		if item.Status != entity.PickItemPending {
			return fmt.Errorf("pick item %s en estado %s: %w", item.ID, item.Status, domain.ErrInvalidTransition)
		}
		status, err := fulfillment.ItemStatusFor(in.Quantity, item.QuantityRequested)
		if err != nil {
			return err
		}

		key := item.StockKey()
		if in.Quantity > 0 {
			if err := p.reservations.ConsumeInTx(ctx, repos, key, in.Quantity, in.Actor, list.ID); err != nil {
				return err
			}
		}
		if shortfall := item.QuantityRequested - in.Quantity; shortfall > 0 {
			released, err = p.reservations.UnreserveInTx(ctx, repos, key, shortfall)
			if err != nil {
				return err
			}
		}

		now := time.Now()
		item.QuantityPicked = in.Quantity
		item.Status = status
		item.PickedBy = in.Actor
		item.PickedAt = &now
		item.UpdatedAt = now
		if err := repos.PickLists.UpdateItem(ctx, item); err != nil {
			return err
		}

		items, err := p.refreshInTx(ctx, repos, list, now)
		if err != nil {
			return err
		}
		view = &PickListView{List: list, Items: items}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if released > 0 {
		p.log.Warn().
			Str("pick_list_id", in.PickListID).
			Str("item_id", in.ItemID).
			Int("qty", released).
			Msg("faltante liberado")
	}
	if view.List.Status == entity.PickListCompleted {
		p.log.Info().Str("pick_list_id", view.List.ID).Int("picked", view.List.PickedItems).Msg("lista de picking completada")
	}
	return view, nil
}

// refreshInTx recalcula total/picked, avanza el estado de la lista y propaga a pedidos y ola.
func (p *PickExecution) refreshInTx(ctx context.Context, repos Repos, list *entity.PickList, now time.Time) ([]*entity.PickListItem, error) {
	items, err := repos.PickLists.ListItems(ctx, list.ID)
	if err != nil {
		return nil, err
	}
	progress := fulfillment.Summarize(items)
	list.TotalItems = progress.TotalItems
	list.PickedItems = progress.PickedItems

	next := fulfillment.NextPickListStatus(list.Status, progress)
	if next != list.Status {
		if list.StartedAt == nil {
			list.StartedAt = &now
		}
		if next == entity.PickListCompleted {
			list.CompletedAt = &now
			if err := markOrdersPicked(ctx, repos, list, items); err != nil {
				return nil, err
			}
		}
		list.Status = next
	}
	list.UpdatedAt = now
	if err := repos.PickLists.Update(ctx, list); err != nil {
		return nil, err
	}
	if list.WaveID != nil {
		if err := syncWaveInTx(ctx, repos, *list.WaveID, now); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// Assign asigna la lista a un operario: pending|assigned → assigned.
func (p *PickExecution) Assign(ctx context.Context, pickListID, adminID string) (*entity.PickList, error) {
	if adminID == "" {
		return nil, fmt.Errorf("assign: operario requerido: %w", domain.ErrInvalidInput)
	}
	var list *entity.PickList
	err := p.txRunner.Run(ctx, func(repos Repos) error {
		var err error
		list, err = lockPickList(ctx, repos, pickListID)
		if err != nil {
			return err
		}
		if list.Status != entity.PickListPending && list.Status != entity.PickListAssigned {
			return fmt.Errorf("assign pick list %s en estado %s: %w", list.ID, list.Status, domain.ErrInvalidTransition)
		}
		list.AdminID = adminID
		list.Status = entity.PickListAssigned
		list.UpdatedAt = time.Now()
		return repos.PickLists.Update(ctx, list)
	})
	if err != nil {
		return nil, err
	}
	p.log.Info().Str("pick_list_id", pickListID).Str("admin_id", adminID).Msg("lista de picking asignada")
	return list, nil
}

// Complete cierra la lista. Falla si queda algún ítem pendiente; sobre una lista ya completada es no-op.
func (p *PickExecution) Complete(ctx context.Context, pickListID, adminID string) (*PickListView, error) {
	var view *PickListView
	err := p.txRunner.Run(ctx, func(repos Repos) error {
		list, err := lockPickList(ctx, repos, pickListID)
		if err != nil {
			return err
		}
		items, err := repos.PickLists.ListItems(ctx, list.ID)
		if err != nil {
			return err
		}
		view = &PickListView{List: list, Items: items}
		switch list.Status {
		case entity.PickListCompleted:
			return nil
		case entity.PickListCancelled:
			return fmt.Errorf("complete pick list %s cancelada: %w", list.ID, domain.ErrInvalidTransition)
		}
		progress := fulfillment.Summarize(items)
		if progress.Pending > 0 {
			return fmt.Errorf("complete pick list %s: %d ítems pendientes: %w", list.ID, progress.Pending, domain.ErrInvalidTransition)
		}

		now := time.Now()
		if list.AdminID == "" {
			list.AdminID = adminID
		}
		if list.StartedAt == nil {
			list.StartedAt = &now
		}
		list.TotalItems = progress.TotalItems
		list.PickedItems = progress.PickedItems
		list.Status = entity.PickListCompleted
		list.CompletedAt = &now
		list.UpdatedAt = now
		if err := markOrdersPicked(ctx, repos, list, items); err != nil {
			return err
		}
		if err := repos.PickLists.Update(ctx, list); err != nil {
			return err
		}
		if list.WaveID != nil {
			return syncWaveInTx(ctx, repos, *list.WaveID, now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	p.log.Info().Str("pick_list_id", pickListID).Msg("lista de picking completada")
	return view, nil
}

// Cancel transacción compensatoria: libera la reserva de cada ítem aún pendiente y cancela
// lista e ítems. Idempotente sobre una lista cancelada; una lista completada no se cancela.
func (p *PickExecution) Cancel(ctx context.Context, pickListID, reason string) (*PickListView, error) {
	var view *PickListView
	var released int
	err := p.txRunner.Run(ctx, func(repos Repos) error {
		list, err := lockPickList(ctx, repos, pickListID)
		if err != nil {
			return err
		}
		now := time.Now()
		released, err = p.cancelInTx(ctx, repos, list, reason, now)
		if err != nil {
			return err
		}
		items, err := repos.PickLists.ListItems(ctx, list.ID)
		if err != nil {
			return err
		}
		view = &PickListView{List: list, Items: items}
		if list.WaveID != nil {
			return syncWaveInTx(ctx, repos, *list.WaveID, now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	p.log.Info().
		Str("pick_list_id", pickListID).
		Str("reason", reason).
		Int("qty", released).
		Msg("lista de picking cancelada")
	return view, nil
}

// cancelInTx cancela una lista ya bloqueada y devuelve las unidades liberadas.
// Solo los ítems pendientes conservan reserva: picked/short_picked/unfulfilled ya liberaron su faltante.
func (p *PickExecution) cancelInTx(ctx context.Context, repos Repos, list *entity.PickList, reason string, now time.Time) (int, error) {
	switch list.Status {
	case entity.PickListCancelled:
		return 0, nil
	case entity.PickListCompleted:
		return 0, fmt.Errorf("cancel pick list %s completada: %w", list.ID, domain.ErrInvalidTransition)
	}
	items, err := repos.PickLists.ListItems(ctx, list.ID)
	if err != nil {
		return 0, err
	}
	released := 0
	for _, it := range items {
		if it.Status == entity.PickItemPending {
			n, err := p.reservations.UnreserveInTx(ctx, repos, it.StockKey(), it.Shortfall())
			if err != nil {
				return 0, err
			}
			released += n
		}
		if it.Status == entity.PickItemCancelled {
			continue
		}
		it.Status = entity.PickItemCancelled
		it.UpdatedAt = now
		if err := repos.PickLists.UpdateItem(ctx, it); err != nil {
			return 0, err
		}
	}
	list.Status = entity.PickListCancelled
	list.CancelReason = reason
	list.CancelledAt = &now
	list.UpdatedAt = now
	if err := repos.PickLists.Update(ctx, list); err != nil {
		return 0, err
	}
	return released, nil
}

// GetPickList lectura de la lista con sus ítems.
func (p *PickExecution) GetPickList(ctx context.Context, pickListID string) (*PickListView, error) {
	var view *PickListView
	err := p.txRunner.Run(ctx, func(repos Repos) error {
		list, err := repos.PickLists.Get(ctx, pickListID)
		if err != nil {
			return err
		}
		if list == nil {
			return fmt.Errorf("pick list %s: %w", pickListID, domain.ErrNotFound)
		}
		items, err := repos.PickLists.ListItems(ctx, list.ID)
		if err != nil {
			return err
		}
		view = &PickListView{List: list, Items: items}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// lockPickList bloquea ola (si la hay) y luego la lista: mismo orden que usan las operaciones de ola.
func lockPickList(ctx context.Context, repos Repos, id string) (*entity.PickList, error) {
	peek, err := repos.PickLists.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if peek == nil {
		return nil, fmt.Errorf("pick list %s: %w", id, domain.ErrNotFound)
	}
	if peek.WaveID != nil {
		if _, err := repos.Waves.GetForUpdate(ctx, *peek.WaveID); err != nil {
			return nil, err
		}
	}
	list, err := repos.PickLists.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, fmt.Errorf("pick list %s: %w", id, domain.ErrNotFound)
	}
	return list, nil
}

// markOrdersPicked marca fulfillment_status = picked en cada pedido servido por la lista.
func markOrdersPicked(ctx context.Context, repos Repos, list *entity.PickList, items []*entity.PickListItem) error {
	seen := map[string]bool{}
	ids := make([]string, 0, 1)
	if list.OrderID != "" {
		seen[list.OrderID] = true
		ids = append(ids, list.OrderID)
	}
	for _, it := range items {
		if it.OrderID == "" || seen[it.OrderID] {
			continue
		}
		seen[it.OrderID] = true
		ids = append(ids, it.OrderID)
	}
	for _, id := range ids {
		if err := repos.Orders.UpdateFulfillmentStatus(ctx, id, entity.FulfillmentStatusPicked); err != nil {
			return err
		}
	}
	return nil
}
