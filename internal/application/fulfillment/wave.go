package fulfillment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/wms-fulfillment/internal/domain"
	"github.com/jhoicas/wms-fulfillment/internal/domain/entity"
	"github.com/jhoicas/wms-fulfillment/internal/domain/fulfillment"
	"github.com/jhoicas/wms-fulfillment/internal/domain/repository"
	"github.com/jhoicas/wms-fulfillment/pkg/logger"
)

// WaveSettings parámetros de olas tomados de la configuración.
type WaveSettings struct {
	Batches            int
	MinutesPerItem     decimal.Decimal
	MinutesPerLocation decimal.Decimal
}

// CreateWaveInput parámetros de create_auto. WarehouseID vacío = bodega principal.
type CreateWaveInput struct {
	WarehouseID      string
	AdminID          string
	Strategy         entity.WaveStrategy
	MaxOrders        int
	MaxItems         int
	Priority         int
	PlannedStartTime *time.Time
}

// WaveView ola con sus pedidos (en el orden de la estrategia) y sus listas.
type WaveView struct {
	Wave      *entity.Wave
	Orders    []*entity.Order
	PickLists []*entity.PickList
}

// WaveOrchestrator agrupa pedidos en olas bajo un límite de capacidad y las expande en listas de picking.
type WaveOrchestrator struct {
	txRunner  TxRunner
	generator *PickListGenerator
	execution *PickExecution
	settings  WaveSettings
	log       *logger.Logger
}

// NewWaveOrchestrator construye el caso de uso.
func NewWaveOrchestrator(
	txRunner TxRunner,
	generator *PickListGenerator,
	execution *PickExecution,
	settings WaveSettings,
	log *logger.Logger,
) *WaveOrchestrator {
	if settings.Batches <= 0 {
		settings.Batches = fulfillment.DefaultBatches
	}
	return &WaveOrchestrator{
		txRunner:  txRunner,
		generator: generator,
		execution: execution,
		settings:  settings,
		log:       log.Component("waves"),
	}
}

// CreateAuto selecciona pedidos sin ola (más antiguos primero, hasta MaxOrders) y los empaqueta
// mientras Σ unidades <= MaxItems, deteniéndose en el primero que desborda.
func (w *WaveOrchestrator) CreateAuto(ctx context.Context, in CreateWaveInput) (*WaveView, error) {
	if !in.Strategy.Valid() {
		return nil, fmt.Errorf("create wave: estrategia %q: %w", in.Strategy, domain.ErrInvalidInput)
	}
	if in.MaxOrders <= 0 || in.MaxItems <= 0 {
		return nil, fmt.Errorf("create wave: max_orders=%d max_items=%d: %w", in.MaxOrders, in.MaxItems, domain.ErrInvalidQuantity)
	}
	planner, _ := fulfillment.PlannerFor(in.Strategy)

	var view *WaveView
	err := w.txRunner.Run(ctx, func(repos Repos) error {
		warehouseID, err := resolveWarehouse(ctx, repos, in.WarehouseID, "")
		if err != nil {
			return err
		}
		eligible, err := repos.Orders.ListUnassigned(ctx, warehouseID, in.MaxOrders)
		if err != nil {
			return err
		}
		selected, total := fulfillment.PackOrders(eligible, in.MaxItems)
		if len(selected) == 0 {
			return fmt.Errorf("create wave en bodega %s: %w", warehouseID, domain.ErrNoEligibleOrders)
		}

		now := time.Now()
		wave := &entity.Wave{
			ID:               uuid.New().String(),
			WarehouseID:      warehouseID,
			AdminID:          in.AdminID,
			Strategy:         in.Strategy,
			Status:           entity.WavePlanning,
			Priority:         in.Priority,
			MaxOrders:        in.MaxOrders,
			MaxItems:         in.MaxItems,
			PlannedStartTime: in.PlannedStartTime,
			TotalOrders:      len(selected),
			TotalItems:       total,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := repos.Waves.Create(ctx, wave); err != nil {
			return err
		}
		for _, o := range selected {
			if err := repos.Orders.AssignWave(ctx, o.ID, &wave.ID); err != nil {
				return err
			}
			o.WaveID = &wave.ID
		}

		input, err := w.planningInput(ctx, repos, in.Strategy, warehouseID, selected)
		if err != nil {
			return err
		}
		view = &WaveView{Wave: wave, Orders: planner.Sequence(selected, input)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	w.log.Info().
		Str("wave_id", view.Wave.ID).
		Str("strategy", string(in.Strategy)).
		Int("orders", view.Wave.TotalOrders).
		Int("qty", view.Wave.TotalItems).
		Msg("ola creada")
	return view, nil
}

// Release expande la ola en listas de picking según su estrategia. Requiere pedidos asignados
// y hora planificada. Si algún lote no se puede reservar completo, nada se crea y la ola sigue en planning.
func (w *WaveOrchestrator) Release(ctx context.Context, waveID string) (*WaveView, error) {
	var view *WaveView
	err := w.txRunner.Run(ctx, func(repos Repos) error {
		wave, err := lockWave(ctx, repos, waveID)
		if err != nil {
			return err
		}
		if !wave.Status.CanTransition(entity.WaveReleased) {
			return fmt.Errorf("release wave %s en estado %s: %w", wave.ID, wave.Status, domain.ErrInvalidTransition)
		}
		if wave.PlannedStartTime == nil {
			return fmt.Errorf("release wave %s sin hora planificada: %w", wave.ID, domain.ErrInvalidInput)
		}
		assigned, err := repos.Orders.ListByWave(ctx, wave.ID)
		if err != nil {
			return err
		}
		if len(assigned) == 0 {
			return fmt.Errorf("release wave %s sin pedidos: %w", wave.ID, domain.ErrInvalidInput)
		}

		orders := make([]*entity.Order, 0, len(assigned))
		for _, a := range assigned {
			o, err := repos.Orders.GetForUpdate(ctx, a.ID)
			if err != nil {
				return err
			}
			if o == nil {
				return fmt.Errorf("order %s: %w", a.ID, domain.ErrNotFound)
			}
			if err := w.generator.checkEligible(ctx, repos, o); err != nil {
				return err
			}
			orders = append(orders, o)
		}

		planner, ok := fulfillment.PlannerFor(wave.Strategy)
		if !ok {
			return fmt.Errorf("release wave %s estrategia %q: %w", wave.ID, wave.Strategy, domain.ErrInvalidInput)
		}
		input, err := w.planningInput(ctx, repos, wave.Strategy, wave.WarehouseID, orders)
		if err != nil {
			return err
		}

		view = &WaveView{Wave: wave}
		for _, group := range planner.Batch(orders, input) {
			if len(group) == 0 {
				continue
			}
			pl, err := w.generator.buildInTx(ctx, repos, listRequest{
				Orders:      group,
				WarehouseID: wave.WarehouseID,
				WaveID:      &wave.ID,
				Priority:    wave.Priority,
			})
			if err != nil {
				return err
			}
			view.PickLists = append(view.PickLists, pl.List)
			view.Orders = append(view.Orders, group...)
		}
		if len(view.PickLists) == 0 {
			return fmt.Errorf("release wave %s no produjo listas: %w", wave.ID, domain.ErrInvalidInput)
		}

		wave.Status = entity.WaveReleased
		wave.UpdatedAt = time.Now()
		return repos.Waves.Update(ctx, wave)
	})
	if err != nil {
		return nil, err
	}
	w.log.Info().
		Str("wave_id", waveID).
		Int("pick_lists", len(view.PickLists)).
		Msg("ola liberada")
	return view, nil
}

// Start released → in_progress.
func (w *WaveOrchestrator) Start(ctx context.Context, waveID string) (*entity.Wave, error) {
	var wave *entity.Wave
	err := w.txRunner.Run(ctx, func(repos Repos) error {
		var err error
		wave, err = lockWave(ctx, repos, waveID)
		if err != nil {
			return err
		}
		if wave.Status != entity.WaveReleased {
			return fmt.Errorf("start wave %s en estado %s: %w", wave.ID, wave.Status, domain.ErrInvalidTransition)
		}
		now := time.Now()
		wave.Status = entity.WaveInProgress
		wave.ActualStartTime = &now
		wave.UpdatedAt = now
		return repos.Waves.Update(ctx, wave)
	})
	if err != nil {
		return nil, err
	}
	w.log.Info().Str("wave_id", waveID).Msg("ola iniciada")
	return wave, nil
}

// Cancel cancela las listas no terminales de la ola (liberando reservas) y desasigna sus pedidos.
// Idempotente sobre una ola cancelada; una ola completada no se cancela.
func (w *WaveOrchestrator) Cancel(ctx context.Context, waveID, reason string) (*entity.Wave, error) {
	var wave *entity.Wave
	released := 0
	err := w.txRunner.Run(ctx, func(repos Repos) error {
		var err error
		wave, err = lockWave(ctx, repos, waveID)
		if err != nil {
			return err
		}
		if wave.Status == entity.WaveCancelled {
			return nil
		}
		if !wave.Status.CanTransition(entity.WaveCancelled) {
			return fmt.Errorf("cancel wave %s en estado %s: %w", wave.ID, wave.Status, domain.ErrInvalidTransition)
		}

		now := time.Now()
		lists, err := repos.PickLists.ListByWave(ctx, wave.ID)
		if err != nil {
			return err
		}
		for _, l := range lists {
			if l.Status.Terminal() {
				continue
			}
			list, err := repos.PickLists.GetForUpdate(ctx, l.ID)
			if err != nil {
				return err
			}
			n, err := w.execution.cancelInTx(ctx, repos, list, reason, now)
			if err != nil {
				return err
			}
			released += n
		}

		orders, err := repos.Orders.ListByWave(ctx, wave.ID)
		if err != nil {
			return err
		}
		for _, o := range orders {
			if err := repos.Orders.AssignWave(ctx, o.ID, nil); err != nil {
				return err
			}
		}

		wave.Status = entity.WaveCancelled
		wave.CancelReason = reason
		wave.UpdatedAt = now
		return repos.Waves.Update(ctx, wave)
	})
	if err != nil {
		return nil, err
	}
	w.log.Info().
		Str("wave_id", waveID).
		Str("reason", reason).
		Int("qty", released).
		Msg("ola cancelada")
	return wave, nil
}

// Get lectura de la ola con pedidos y listas.
func (w *WaveOrchestrator) Get(ctx context.Context, waveID string) (*WaveView, error) {
	var view *WaveView
	err := w.txRunner.Run(ctx, func(repos Repos) error {
		wave, err := repos.Waves.Get(ctx, waveID)
		if err != nil {
			return err
		}
		if wave == nil {
			return fmt.Errorf("wave %s: %w", waveID, domain.ErrNotFound)
		}
		orders, err := repos.Orders.ListByWave(ctx, wave.ID)
		if err != nil {
			return err
		}
		lists, err := repos.PickLists.ListByWave(ctx, wave.ID)
		if err != nil {
			return err
		}
		view = &WaveView{Wave: wave, Orders: orders, PickLists: lists}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Metrics métricas de solo lectura sobre las listas e ítems persistidos.
func (w *WaveOrchestrator) Metrics(ctx context.Context, waveID string) (*fulfillment.WaveMetrics, error) {
	var m fulfillment.WaveMetrics
	err := w.txRunner.Run(ctx, func(repos Repos) error {
		wave, err := repos.Waves.Get(ctx, waveID)
		if err != nil {
			return err
		}
		if wave == nil {
			return fmt.Errorf("wave %s: %w", waveID, domain.ErrNotFound)
		}
		lists, err := repos.PickLists.ListByWave(ctx, wave.ID)
		if err != nil {
			return err
		}
		var items []*entity.PickListItem
		for _, l := range lists {
			li, err := repos.PickLists.ListItems(ctx, l.ID)
			if err != nil {
				return err
			}
			items = append(items, li...)
		}
		locIDs := make([]string, 0, len(items))
		for _, it := range items {
			locIDs = append(locIDs, it.LocationID)
		}
		locations, err := repos.Locations.ListByIDs(ctx, locIDs)
		if err != nil {
			return err
		}
		m = fulfillment.ComputeWaveMetrics(wave, lists, items, locations, fulfillment.MetricsParams{
			MinutesPerItem:     w.settings.MinutesPerItem,
			MinutesPerLocation: w.settings.MinutesPerLocation,
			Now:                time.Now(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// planningInput datos de planificación; la zona principal solo se calcula para zone_based.
func (w *WaveOrchestrator) planningInput(
	ctx context.Context,
	repos Repos,
	strategy entity.WaveStrategy,
	warehouseID string,
	orders []*entity.Order,
) (fulfillment.WaveInput, error) {
	in := fulfillment.WaveInput{Batches: w.settings.Batches}
	if strategy != entity.WaveZoneBased {
		return in, nil
	}
	in.PrimaryZones = make(map[string]fulfillment.ZoneRef, len(orders))
	for _, o := range orders {
		lotsByLine := make([][]*entity.LocatedStock, 0, len(o.Lines))
		for _, line := range o.Lines {
			lots, err := repos.Stock.ListAvailable(ctx, repository.StockFilter{
				ProductID:   line.ProductID,
				Size:        line.Size,
				WarehouseID: warehouseID,
			})
			if err != nil {
				return in, err
			}
			lotsByLine = append(lotsByLine, lots)
		}
		if ref, ok := fulfillment.PrimaryZone(lotsByLine); ok {
			in.PrimaryZones[o.ID] = ref
		}
	}
	return in, nil
}

func lockWave(ctx context.Context, repos Repos, id string) (*entity.Wave, error) {
	wave, err := repos.Waves.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if wave == nil {
		return nil, fmt.Errorf("wave %s: %w", id, domain.ErrNotFound)
	}
	return wave, nil
}

// syncWaveInTx transiciones automáticas: released → in_progress cuando alguna lista arrancó;
// → completed cuando todas las listas son terminales y al menos una se completó.
func syncWaveInTx(ctx context.Context, repos Repos, waveID string, now time.Time) error {
	wave, err := repos.Waves.GetForUpdate(ctx, waveID)
	if err != nil || wave == nil {
		return err
	}
	if wave.Status.Terminal() || wave.Status == entity.WavePlanning {
		return nil
	}
	lists, err := repos.PickLists.ListByWave(ctx, wave.ID)
	if err != nil {
		return err
	}
	started, allTerminal, anyCompleted := false, len(lists) > 0, false
	for _, l := range lists {
		if l.StartedAt != nil || l.Status == entity.PickListInProgress || l.Status == entity.PickListCompleted {
			started = true
		}
		if !l.Status.Terminal() {
			allTerminal = false
		}
		if l.Status == entity.PickListCompleted {
			anyCompleted = true
		}
	}

	next := wave.Status
	switch {
	case allTerminal && anyCompleted:
		next = entity.WaveCompleted
	case started && wave.Status == entity.WaveReleased:
		next = entity.WaveInProgress
	}
	if next == wave.Status || !wave.Status.CanTransition(next) {
		return nil
	}
	if wave.ActualStartTime == nil {
		wave.ActualStartTime = &now
	}
	if next == entity.WaveCompleted {
		wave.ActualEndTime = &now
	}
	wave.Status = next
	wave.UpdatedAt = now
	return repos.Waves.Update(ctx, wave)
}
