package fulfillment

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/wms-fulfillment/internal/domain/entity"
)

// MetricsParams parámetros del tiempo estimado de una ola.
type MetricsParams struct {
	MinutesPerItem     decimal.Decimal
	MinutesPerLocation decimal.Decimal
	Now                time.Time
}

// WaveMetrics métricas derivadas de las listas e ítems persistidos de una ola.
type WaveMetrics struct {
	TotalOrders          int
	TotalItems           int
	PickedItems          int
	PickLists            int
	UniqueLocations      int
	UniqueZones          int
	EstimatedMinutes     decimal.Decimal
	ActualMinutes        decimal.Decimal
	CompletionPercentage decimal.Decimal
	EfficiencyScore      decimal.Decimal
	AverageItemsPerOrder decimal.Decimal
}

// ComputeWaveMetrics cálculo de solo lectura, sin efectos.
//
//	estimado   = total_items × min/ítem + ubicaciones únicas × min/ubicación
//	real       = (fin real o Now) − inicio real; 0 si no inició
//	completado = recogido / solicitado × 100
//	eficiencia = min(100, estimado / real × 100); 0 si real = 0
func ComputeWaveMetrics(
	wave *entity.Wave,
	lists []*entity.PickList,
	items []*entity.PickListItem,
	locations map[string]*entity.Location,
	p MetricsParams,
) WaveMetrics {
	m := WaveMetrics{PickLists: len(lists)}
	hundred := decimal.NewFromInt(100)

	orders := map[string]struct{}{}
	locs := map[string]struct{}{}
	zones := map[string]struct{}{}
	for _, it := range items {
		m.TotalItems += it.QuantityRequested
		m.PickedItems += it.QuantityPicked
		if it.OrderID != "" {
			orders[it.OrderID] = struct{}{}
		}
		locs[it.LocationID] = struct{}{}
		if loc := locations[it.LocationID]; loc != nil && loc.ZoneID != "" {
			zones[loc.ZoneID] = struct{}{}
		}
	}
	m.TotalOrders = len(orders)
	if m.TotalOrders == 0 {
		m.TotalOrders = wave.TotalOrders
	}
	if len(items) == 0 {
		m.TotalItems = wave.TotalItems
	}
	m.UniqueLocations = len(locs)
	m.UniqueZones = len(zones)

	m.EstimatedMinutes = decimal.NewFromInt(int64(m.TotalItems)).Mul(p.MinutesPerItem).
		Add(decimal.NewFromInt(int64(m.UniqueLocations)).Mul(p.MinutesPerLocation)).Round(2)

	m.ActualMinutes = decimal.Zero
	if wave.ActualStartTime != nil {
		end := p.Now
		if wave.ActualEndTime != nil {
			end = *wave.ActualEndTime
		}
		if d := end.Sub(*wave.ActualStartTime); d > 0 {
			m.ActualMinutes = decimal.NewFromFloat(d.Minutes()).Round(2)
		}
	}

	m.CompletionPercentage = decimal.Zero
	if m.TotalItems > 0 {
		m.CompletionPercentage = decimal.NewFromInt(int64(m.PickedItems)).
			Div(decimal.NewFromInt(int64(m.TotalItems))).Mul(hundred).Round(2)
	}

	m.EfficiencyScore = decimal.Zero
	if m.ActualMinutes.GreaterThan(decimal.Zero) {
		score := m.EstimatedMinutes.Div(m.ActualMinutes).Mul(hundred).Round(2)
		if score.GreaterThan(hundred) {
			score = hundred
		}
		m.EfficiencyScore = score
	}

	m.AverageItemsPerOrder = decimal.Zero
	if m.TotalOrders > 0 {
		m.AverageItemsPerOrder = decimal.NewFromInt(int64(m.TotalItems)).
			Div(decimal.NewFromInt(int64(m.TotalOrders))).Round(2)
	}
	return m
}
