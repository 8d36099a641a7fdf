package fulfillment

import (
	"context"
	"fmt"

	"github.com/jhoicas/wms-fulfillment/internal/domain"
	"github.com/jhoicas/wms-fulfillment/internal/domain/entity"
	"github.com/jhoicas/wms-fulfillment/internal/domain/fulfillment"
	"github.com/jhoicas/wms-fulfillment/pkg/logger"
)

// RouteOptimizer re-secuencia los ítems de una lista según zona y coordenadas de ubicación.
type RouteOptimizer struct {
	txRunner TxRunner
	log      *logger.Logger
}

// NewRouteOptimizer construye el caso de uso.
func NewRouteOptimizer(txRunner TxRunner, log *logger.Logger) *RouteOptimizer {
	return &RouteOptimizer{txRunner: txRunner, log: log.Component("route")}
}

// Optimize reescribe sequence 1..N. Determinista; solo sobre listas no terminales.
func (o *RouteOptimizer) Optimize(ctx context.Context, pickListID string) (*PickListView, error) {
	var view *PickListView
	err := o.txRunner.Run(ctx, func(repos Repos) error {
		list, err := repos.PickLists.GetForUpdate(ctx, pickListID)
		if err != nil {
			return err
		}
		if list == nil {
			return fmt.Errorf("pick list %s: %w", pickListID, domain.ErrNotFound)
		}
		if list.Status.Terminal() {
			return fmt.Errorf("optimize pick list %s en estado %s: %w", list.ID, list.Status, domain.ErrInvalidTransition)
		}
		items, err := repos.PickLists.ListItems(ctx, list.ID)
		if err != nil {
			return err
		}
		items, err = resequenceInTx(ctx, repos, items)
		if err != nil {
			return err
		}
		view = &PickListView{List: list, Items: items}
		return nil
	})
	if err != nil {
		return nil, err
	}
	o.log.Debug().Str("pick_list_id", pickListID).Int("items", len(view.Items)).Msg("ruta optimizada")
	return view, nil
}

// resequenceInTx ordena los ítems por ruta y persiste solo los que cambiaron de secuencia.
func resequenceInTx(ctx context.Context, repos Repos, items []*entity.PickListItem) ([]*entity.PickListItem, error) {
	if len(items) == 0 {
		return items, nil
	}
	ids := make([]string, 0, len(items))
	before := make(map[string]int, len(items))
	for _, it := range items {
		ids = append(ids, it.LocationID)
		before[it.ID] = it.Sequence
	}
	locations, err := repos.Locations.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	ordered := fulfillment.SequenceRoute(items, locations)
	for _, it := range ordered {
		if before[it.ID] == it.Sequence {
			continue
		}
		if err := repos.PickLists.UpdateItem(ctx, it); err != nil {
			return nil, err
		}
	}
	return ordered, nil
}
