package fulfillment

import (
	"context"
	"fmt"

	"github.com/jhoicas/wms-fulfillment/internal/domain"
	"github.com/jhoicas/wms-fulfillment/internal/domain/fulfillment"
	"github.com/jhoicas/wms-fulfillment/internal/domain/repository"
	"github.com/jhoicas/wms-fulfillment/pkg/logger"
)

// AllocationEngine calcula planes de asignación multi-lote. Solo lectura: no reserva.
type AllocationEngine struct {
	txRunner TxRunner
	log      *logger.Logger
}

// NewAllocationEngine construye el caso de uso.
func NewAllocationEngine(txRunner TxRunner, log *logger.Logger) *AllocationEngine {
	return &AllocationEngine{txRunner: txRunner, log: log.Component("allocation")}
}

// AllocateInput producto, talla y cantidad a cubrir. Policy vacía = fifo; WarehouseID vacío = todas las bodegas.
type AllocateInput struct {
	ProductID   string
	Size        string
	Quantity    int
	Policy      fulfillment.AllocationPolicy
	WarehouseID string
}

// Allocate devuelve el plan. Una asignación parcial no es error: se informa en RemainingQuantity/FullyAllocated.
func (e *AllocationEngine) Allocate(ctx context.Context, in AllocateInput) (*fulfillment.AllocationPlan, error) {
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("allocate %d: %w", in.Quantity, domain.ErrInvalidQuantity)
	}
	if in.ProductID == "" {
		return nil, fmt.Errorf("allocate: producto requerido: %w", domain.ErrInvalidInput)
	}
	policy := in.Policy
	if policy == "" {
		policy = fulfillment.PolicyFIFO
	}
	if !policy.Valid() {
		return nil, fmt.Errorf("allocate: política %q: %w", policy, domain.ErrInvalidInput)
	}

	var plan fulfillment.AllocationPlan
	err := e.txRunner.Run(ctx, func(repos Repos) error {
		lots, err := repos.Stock.ListAvailable(ctx, repository.StockFilter{
			ProductID:   in.ProductID,
			Size:        in.Size,
			WarehouseID: in.WarehouseID,
		})
		if err != nil {
			return err
		}
		plan = fulfillment.PlanAllocation(lots, in.Quantity, policy)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !plan.FullyAllocated {
		e.log.Debug().
			Str("product_id", in.ProductID).
			Int("requested", in.Quantity).
			Int("remaining", plan.RemainingQuantity).
			Msg("asignación parcial")
	}
	return &plan, nil
}
