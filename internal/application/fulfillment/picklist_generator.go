package fulfillment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/wms-fulfillment/internal/domain"
	"github.com/jhoicas/wms-fulfillment/internal/domain/entity"
	"github.com/jhoicas/wms-fulfillment/internal/domain/fulfillment"
	"github.com/jhoicas/wms-fulfillment/internal/domain/repository"
	"github.com/jhoicas/wms-fulfillment/pkg/logger"
)

// PickListView lista con sus ítems ordenados por secuencia.
type PickListView struct {
	List  *entity.PickList
	Items []*entity.PickListItem
}

// GenerateInput pedido a surtir. WarehouseID vacío = bodega del pedido, o la principal.
type GenerateInput struct {
	OrderID     string
	AdminID     string
	WarehouseID string
}

// PickListGenerator convierte un pedido en una lista de picking totalmente reservada y secuenciada,
// o falla sin dejar rastro (todo dentro de una sola transacción).
type PickListGenerator struct {
	txRunner     TxRunner
	reservations *ReservationManager
	log          *logger.Logger
}

// NewPickListGenerator construye el caso de uso.
func NewPickListGenerator(txRunner TxRunner, reservations *ReservationManager, log *logger.Logger) *PickListGenerator {
	return &PickListGenerator{txRunner: txRunner, reservations: reservations, log: log.Component("pick_lists")}
}

// Generate crea la lista para un pedido.
func (g *PickListGenerator) Generate(ctx context.Context, in GenerateInput) (*PickListView, error) {
	if in.OrderID == "" {
		return nil, fmt.Errorf("generate: pedido requerido: %w", domain.ErrInvalidInput)
	}

	var view *PickListView
	err := g.txRunner.Run(ctx, func(repos Repos) error {
		// 1. Bloquear el pedido antes de validar que no tenga lista activa.
		order, err := repos.Orders.GetForUpdate(ctx, in.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return fmt.Errorf("order %s: %w", in.OrderID, domain.ErrNotFound)
		}
		if err := g.checkEligible(ctx, repos, order); err != nil {
			return err
		}

		// 2. Bodega: explícita → la del pedido → principal.
		warehouseID, err := resolveWarehouse(ctx, repos, in.WarehouseID, order.WarehouseID)
		if err != nil {
			return err
		}

		view, err = g.buildInTx(ctx, repos, listRequest{
			Orders:      []*entity.Order{order},
			WarehouseID: warehouseID,
			AdminID:     in.AdminID,
			Priority:    order.Priority,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	g.log.Info().
		Str("pick_list_id", view.List.ID).
		Str("order_id", in.OrderID).
		Int("items", len(view.Items)).
		Int("qty", view.List.TotalItems).
		Msg("lista de picking generada")
	return view, nil
}

func (g *PickListGenerator) checkEligible(ctx context.Context, repos Repos, order *entity.Order) error {
	if !order.IsFulfillment() {
		return fmt.Errorf("order %s tipo %q: %w", order.ID, order.OrderType, domain.ErrInvalidOrder)
	}
	if len(order.Lines) == 0 {
		return fmt.Errorf("order %s sin líneas: %w", order.ID, domain.ErrInvalidOrder)
	}
	active, err := repos.PickLists.HasActiveForOrder(ctx, order.ID)
	if err != nil {
		return err
	}
	if active {
		return fmt.Errorf("order %s ya tiene lista activa: %w", order.ID, domain.ErrInvalidOrder)
	}
	return nil
}

// listRequest una lista a construir: uno o varios pedidos (lote de ola) en una bodega.
type listRequest struct {
	Orders      []*entity.Order
	WarehouseID string
	AdminID     string
	WaveID      *string
	Priority    int
}

// buildInTx crea la lista, planifica cada línea sobre filas bloqueadas, reserva cada sub-asignación
// y re-secuencia la ruta. Cualquier línea sin cobertura completa devuelve ErrInsufficientStock
// y el caller revierte la transacción completa.
func (g *PickListGenerator) buildInTx(ctx context.Context, repos Repos, req listRequest) (*PickListView, error) {
	now := time.Now()
	list := &entity.PickList{
		ID:          uuid.New().String(),
		WarehouseID: req.WarehouseID,
		AdminID:     req.AdminID,
		WaveID:      req.WaveID,
		Status:      entity.PickListPending,
		Priority:    req.Priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if len(req.Orders) == 1 {
		list.OrderID = req.Orders[0].ID
	}
	if err := repos.PickLists.Create(ctx, list); err != nil {
		return nil, err
	}

	var items []*entity.PickListItem
	for _, order := range req.Orders {
		for _, line := range order.Lines {
			if line.Quantity <= 0 {
				return nil, fmt.Errorf("order %s línea %s cantidad %d: %w", order.ID, line.ProductID, line.Quantity, domain.ErrInvalidOrder)
			}
			lots, err := repos.Stock.ListAvailable(ctx, repository.StockFilter{
				ProductID:   line.ProductID,
				Size:        line.Size,
				WarehouseID: req.WarehouseID,
				ForUpdate:   true,
			})
			if err != nil {
				return nil, err
			}
			plan := fulfillment.PlanPick(lots, line.Quantity)
			if !plan.FullyAllocated {
				return nil, fmt.Errorf("order %s producto %s faltan %d: %w",
					order.ID, line.ProductID, plan.RemainingQuantity, domain.ErrInsufficientStock)
			}
			for _, pl := range plan.Lines {
				item := &entity.PickListItem{
					ID:                uuid.New().String(),
					PickListID:        list.ID,
					OrderID:           order.ID,
					ProductID:         line.ProductID,
					LocationID:        pl.LocationID,
					Size:              pl.Size,
					BatchNumber:       pl.BatchNumber,
					QuantityRequested: pl.Quantity,
					Sequence:          len(items) + 1,
					Status:            entity.PickItemPending,
					CreatedAt:         now,
					UpdatedAt:         now,
				}
				if err := repos.PickLists.CreateItem(ctx, item); err != nil {
					return nil, err
				}
				if err := g.reservations.ReserveInTx(ctx, repos, item.StockKey(), item.QuantityRequested); err != nil {
					return nil, err
				}
				items = append(items, item)
				list.TotalItems += item.QuantityRequested
			}
		}
	}

	items, err := resequenceInTx(ctx, repos, items)
	if err != nil {
		return nil, err
	}
	if err := repos.PickLists.Update(ctx, list); err != nil {
		return nil, err
	}
	return &PickListView{List: list, Items: items}, nil
}

func resolveWarehouse(ctx context.Context, repos Repos, explicit, fromOrder string) (string, error) {
	if explicit != "" {
		wh, err := repos.Warehouses.GetByID(ctx, explicit)
		if err != nil {
			return "", err
		}
		if wh == nil {
			return "", fmt.Errorf("warehouse %s: %w", explicit, domain.ErrNotFound)
		}
		return wh.ID, nil
	}
	if fromOrder != "" {
		return fromOrder, nil
	}
	main, err := repos.Warehouses.GetMain(ctx)
	if err != nil {
		return "", err
	}
	if main == nil {
		return "", fmt.Errorf("sin bodega principal: %w", domain.ErrInvalidInput)
	}
	return main.ID, nil
}
