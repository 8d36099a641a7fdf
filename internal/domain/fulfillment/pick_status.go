package fulfillment

import (
	"fmt"

	"github.com/jhoicas/wms-fulfillment/internal/domain"
	"github.com/jhoicas/wms-fulfillment/internal/domain/entity"
)

// ItemStatusFor estado resultante de registrar picked unidades sobre requested.
// 0 → unfulfilled (reserva liberada completa), parcial → short_picked, completo → picked.
func ItemStatusFor(picked, requested int) (entity.PickItemStatus, error) {
	if picked < 0 || picked > requested {
		return "", fmt.Errorf("picked %d de %d: %w", picked, requested, domain.ErrInvalidQuantity)
	}
	switch {
	case picked == 0:
		return entity.PickItemUnfulfilled, nil
	case picked < requested:
		return entity.PickItemShortPicked, nil
	default:
		return entity.PickItemPicked, nil
	}
}

// PickProgress agregados de una lista calculados desde sus ítems.
type PickProgress struct {
	TotalItems  int
	PickedItems int
	Pending     int
	Touched     int
}

// Summarize recalcula total_items (Σ solicitado) y picked_items (Σ recogido).
func Summarize(items []*entity.PickListItem) PickProgress {
	var p PickProgress
	for _, it := range items {
		p.TotalItems += it.QuantityRequested
		p.PickedItems += it.QuantityPicked
		if it.Status == entity.PickItemPending {
			p.Pending++
		} else {
			p.Touched++
		}
	}
	return p
}

// NextPickListStatus estado de la lista tras registrar un picking.
// Sin pendientes → completed; pending/assigned con algún ítem movido → in_progress.
func NextPickListStatus(current entity.PickListStatus, p PickProgress) entity.PickListStatus {
	if current.Terminal() {
		return current
	}
	if p.Pending == 0 {
		return entity.PickListCompleted
	}
	if p.Touched > 0 && (current == entity.PickListPending || current == entity.PickListAssigned) {
		return entity.PickListInProgress
	}
	return current
}
