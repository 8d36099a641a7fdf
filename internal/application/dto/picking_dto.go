package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/wms-fulfillment/internal/domain/entity"
	"github.com/jhoicas/wms-fulfillment/internal/domain/fulfillment"
)

// GeneratePickListRequest body para POST /api/pick-lists.
type GeneratePickListRequest struct {
	OrderID     string `json:"order_id"`
	WarehouseID string `json:"warehouse_id,omitempty"`
}

// AssignPickListRequest body para POST /api/pick-lists/:id/assign. AdminID vacío = usuario del token.
type AssignPickListRequest struct {
	AdminID string `json:"admin_id,omitempty"`
}

// CancelRequest body de cancelación de listas y olas.
type CancelRequest struct {
	Reason string `json:"reason,omitempty"`
}

// RecordPickRequest body para POST /api/pick-lists/:id/items/:item_id/pick.
type RecordPickRequest struct {
	Quantity int `json:"quantity"`
}

// PickListItemDTO instrucción de picking.
type PickListItemDTO struct {
	ID                string     `json:"id"`
	OrderID           string     `json:"order_id"`
	ProductID         string     `json:"product_id"`
	LocationID        string     `json:"location_id"`
	Size              string     `json:"size"`
	BatchNumber       string     `json:"batch_number"`
	QuantityRequested int        `json:"quantity_requested"`
	QuantityPicked    int        `json:"quantity_picked"`
	Sequence          int        `json:"sequence"`
	Status            string     `json:"status"`
	PickedBy          string     `json:"picked_by,omitempty"`
	PickedAt          *time.Time `json:"picked_at,omitempty"`
}

// PickListDTO lista de picking con sus ítems en orden de ruta.
type PickListDTO struct {
	ID           string            `json:"id"`
	OrderID      string            `json:"order_id,omitempty"`
	WarehouseID  string            `json:"warehouse_id"`
	AdminID      string            `json:"admin_id,omitempty"`
	WaveID       *string           `json:"wave_id,omitempty"`
	Status       string            `json:"status"`
	Priority     int               `json:"priority"`
	TotalItems   int               `json:"total_items"`
	PickedItems  int               `json:"picked_items"`
	CancelReason string            `json:"cancel_reason,omitempty"`
	StartedAt    *time.Time        `json:"started_at,omitempty"`
	CompletedAt  *time.Time        `json:"completed_at,omitempty"`
	CancelledAt  *time.Time        `json:"cancelled_at,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	Items        []PickListItemDTO `json:"items,omitempty"`
}

// NewPickListDTO mapea la lista y, si se pasan, sus ítems.
func NewPickListDTO(l *entity.PickList, items []*entity.PickListItem) *PickListDTO {
	out := &PickListDTO{
		ID:           l.ID,
		OrderID:      l.OrderID,
		WarehouseID:  l.WarehouseID,
		AdminID:      l.AdminID,
		WaveID:       l.WaveID,
		Status:       string(l.Status),
		Priority:     l.Priority,
		TotalItems:   l.TotalItems,
		PickedItems:  l.PickedItems,
		CancelReason: l.CancelReason,
		StartedAt:    l.StartedAt,
		CompletedAt:  l.CompletedAt,
		CancelledAt:  l.CancelledAt,
		CreatedAt:    l.CreatedAt,
	}
	for _, it := range items {
		out.Items = append(out.Items, PickListItemDTO{
			ID:                it.ID,
			OrderID:           it.OrderID,
			ProductID:         it.ProductID,
			LocationID:        it.LocationID,
			Size:              it.Size,
			BatchNumber:       it.BatchNumber,
			QuantityRequested: it.QuantityRequested,
			QuantityPicked:    it.QuantityPicked,
			Sequence:          it.Sequence,
			Status:            string(it.Status),
			PickedBy:          it.PickedBy,
			PickedAt:          it.PickedAt,
		})
	}
	return out
}

// CreateWaveRequest body para POST /api/waves/auto.
type CreateWaveRequest struct {
	WarehouseID      string     `json:"warehouse_id"`
	Strategy         string     `json:"strategy"`
	MaxOrders        int        `json:"max_orders"`
	MaxItems         int        `json:"max_items"`
	Priority         int        `json:"priority"`
	PlannedStartTime *time.Time `json:"planned_start_time,omitempty"`
}

// WaveDTO ola con sus pedidos y listas.
type WaveDTO struct {
	ID               string         `json:"id"`
	WarehouseID      string         `json:"warehouse_id"`
	AdminID          string         `json:"admin_id,omitempty"`
	Strategy         string         `json:"strategy"`
	Status           string         `json:"status"`
	Priority         int            `json:"priority"`
	MaxOrders        int            `json:"max_orders"`
	MaxItems         int            `json:"max_items"`
	TotalOrders      int            `json:"total_orders"`
	TotalItems       int            `json:"total_items"`
	PlannedStartTime *time.Time     `json:"planned_start_time,omitempty"`
	ActualStartTime  *time.Time     `json:"actual_start_time,omitempty"`
	ActualEndTime    *time.Time     `json:"actual_end_time,omitempty"`
	CancelReason     string         `json:"cancel_reason,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	OrderIDs         []string       `json:"order_ids,omitempty"`
	PickLists        []*PickListDTO `json:"pick_lists,omitempty"`
}

// NewWaveDTO mapea la ola; orders y lists son opcionales.
func NewWaveDTO(w *entity.Wave, orders []*entity.Order, lists []*entity.PickList) *WaveDTO {
	out := &WaveDTO{
		ID:               w.ID,
		WarehouseID:      w.WarehouseID,
		AdminID:          w.AdminID,
		Strategy:         string(w.Strategy),
		Status:           string(w.Status),
		Priority:         w.Priority,
		MaxOrders:        w.MaxOrders,
		MaxItems:         w.MaxItems,
		TotalOrders:      w.TotalOrders,
		TotalItems:       w.TotalItems,
		PlannedStartTime: w.PlannedStartTime,
		ActualStartTime:  w.ActualStartTime,
		ActualEndTime:    w.ActualEndTime,
		CancelReason:     w.CancelReason,
		CreatedAt:        w.CreatedAt,
	}
	for _, o := range orders {
		out.OrderIDs = append(out.OrderIDs, o.ID)
	}
	for _, l := range lists {
		out.PickLists = append(out.PickLists, NewPickListDTO(l, nil))
	}
	return out
}

// WaveMetricsDTO métricas de solo lectura de la ola.
type WaveMetricsDTO struct {
	TotalOrders          int             `json:"total_orders"`
	TotalItems           int             `json:"total_items"`
	PickedItems          int             `json:"picked_items"`
	PickLists            int             `json:"pick_lists"`
	UniqueLocations      int             `json:"unique_locations"`
	UniqueZones          int             `json:"unique_zones"`
	EstimatedMinutes     decimal.Decimal `json:"estimated_minutes"`
	ActualMinutes        decimal.Decimal `json:"actual_minutes"`
	CompletionPercentage decimal.Decimal `json:"completion_percentage"`
	EfficiencyScore      decimal.Decimal `json:"efficiency_score"`
	AverageItemsPerOrder decimal.Decimal `json:"average_items_per_order"`
}

// NewWaveMetricsDTO mapea las métricas.
func NewWaveMetricsDTO(m *fulfillment.WaveMetrics) *WaveMetricsDTO {
	return &WaveMetricsDTO{
		TotalOrders:          m.TotalOrders,
		TotalItems:           m.TotalItems,
		PickedItems:          m.PickedItems,
		PickLists:            m.PickLists,
		UniqueLocations:      m.UniqueLocations,
		UniqueZones:          m.UniqueZones,
		EstimatedMinutes:     m.EstimatedMinutes,
		ActualMinutes:        m.ActualMinutes,
		CompletionPercentage: m.CompletionPercentage,
		EfficiencyScore:      m.EfficiencyScore,
		AverageItemsPerOrder: m.AverageItemsPerOrder,
	}
}
