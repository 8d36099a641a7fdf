package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/wms-fulfillment/internal/domain/entity"
	"github.com/jhoicas/wms-fulfillment/internal/domain/fulfillment"
)

// StockKeyRequest identifica una fila de stock en el cuerpo de una petición.
type StockKeyRequest struct {
	ProductID   string `json:"product_id"`
	LocationID  string `json:"location_id"`
	Size        string `json:"size,omitempty"`
	BatchNumber string `json:"batch_number,omitempty"`
}

// Key convierte la petición en la llave de dominio.
func (r StockKeyRequest) Key() entity.StockKey {
	return entity.StockKey{ProductID: r.ProductID, LocationID: r.LocationID, Size: r.Size, BatchNumber: r.BatchNumber}
}

// ReservationRequest body para POST /api/stock/reserve y /api/stock/unreserve.
type ReservationRequest struct {
	StockKeyRequest
	Quantity int `json:"quantity"`
}

// UnreserveResponse indica si se liberó alguna reserva.
type UnreserveResponse struct {
	Released bool `json:"released"`
}

// MoveStockRequest body para POST /api/stock/move.
type MoveStockRequest struct {
	ProductID      string `json:"product_id"`
	FromLocationID string `json:"from_location_id"`
	ToLocationID   string `json:"to_location_id"`
	Size           string `json:"size,omitempty"`
	BatchNumber    string `json:"batch_number,omitempty"`
	Quantity       int    `json:"quantity"`
	Reference      string `json:"reference,omitempty"`
}

// AdjustStockRequest body para POST /api/stock/adjust. Quantity con signo.
type AdjustStockRequest struct {
	StockKeyRequest
	Quantity   int              `json:"quantity"`
	Reason     string           `json:"reason"`
	Reference  string           `json:"reference,omitempty"`
	UnitCost   *decimal.Decimal `json:"unit_cost,omitempty"`
	ExpiryDate *time.Time       `json:"expiry_date,omitempty"`
}

// StockDTO fila de stock en respuestas.
type StockDTO struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	WarehouseID      string          `json:"warehouse_id"`
	LocationID       string          `json:"location_id"`
	Size             string          `json:"size"`
	BatchNumber      string          `json:"batch_number"`
	Amount           int             `json:"amount"`
	ReservedQuantity int             `json:"reserved_quantity"`
	Available        int             `json:"available"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	ReceivedDate     time.Time       `json:"received_date"`
	ExpiryDate       *time.Time      `json:"expiry_date,omitempty"`
}

// NewStockDTO mapea la entidad. nil si la fila no existe.
func NewStockDTO(s *entity.Stock) *StockDTO {
	if s == nil {
		return nil
	}
	return &StockDTO{
		ID:               s.ID,
		ProductID:        s.ProductID,
		WarehouseID:      s.WarehouseID,
		LocationID:       s.LocationID,
		Size:             s.Size,
		BatchNumber:      s.BatchNumber,
		Amount:           s.Amount,
		ReservedQuantity: s.ReservedQuantity,
		Available:        s.Available(),
		UnitCost:         s.UnitCost,
		ReceivedDate:     s.ReceivedDate,
		ExpiryDate:       s.ExpiryDate,
	}
}

// TransactionDTO asiento del libro de inventario.
type TransactionDTO struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	WarehouseID string          `json:"warehouse_id"`
	LocationID  string          `json:"location_id"`
	ProductID   string          `json:"product_id"`
	Size        string          `json:"size"`
	BatchNumber string          `json:"batch_number"`
	Quantity    int             `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	Actor       string          `json:"actor"`
	Reference   string          `json:"reference"`
	Reason      string          `json:"reason,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// NewTransactionDTO mapea un asiento.
func NewTransactionDTO(t *entity.InventoryTransaction) *TransactionDTO {
	if t == nil {
		return nil
	}
	return &TransactionDTO{
		ID:          t.ID,
		Type:        string(t.Type),
		WarehouseID: t.WarehouseID,
		LocationID:  t.LocationID,
		ProductID:   t.ProductID,
		Size:        t.Size,
		BatchNumber: t.BatchNumber,
		Quantity:    t.Quantity,
		UnitCost:    t.UnitCost,
		TotalCost:   t.TotalCost,
		Actor:       t.Actor,
		Reference:   t.Reference,
		Reason:      t.Reason,
		CreatedAt:   t.CreatedAt,
	}
}

// NewTransactionDTOs mapea una lista de asientos.
func NewTransactionDTOs(list []*entity.InventoryTransaction) []*TransactionDTO {
	out := make([]*TransactionDTO, 0, len(list))
	for _, t := range list {
		out = append(out, NewTransactionDTO(t))
	}
	return out
}

// MoveStockResponse par de asientos del traslado.
type MoveStockResponse struct {
	Reference string          `json:"reference"`
	Out       *TransactionDTO `json:"out"`
	In        *TransactionDTO `json:"in"`
}

// AdjustStockResponse resultado del ajuste. Stock nulo cuando la fila quedó en cero y se eliminó.
type AdjustStockResponse struct {
	Stock       *StockDTO       `json:"stock,omitempty"`
	Deleted     bool            `json:"deleted"`
	Transaction *TransactionDTO `json:"transaction"`
}

// AllocateRequest body para POST /api/allocations.
type AllocateRequest struct {
	ProductID   string `json:"product_id"`
	Size        string `json:"size,omitempty"`
	Quantity    int    `json:"quantity"`
	Policy      string `json:"policy,omitempty"` // fifo (defecto) | lifo | fefo
	WarehouseID string `json:"warehouse_id,omitempty"`
}

// AllocationLineDTO porción del plan.
type AllocationLineDTO struct {
	StockID     string     `json:"stock_id"`
	WarehouseID string     `json:"warehouse_id"`
	LocationID  string     `json:"location_id"`
	ZoneType    string     `json:"zone_type"`
	Size        string     `json:"size"`
	BatchNumber string     `json:"batch_number"`
	Quantity    int        `json:"quantity"`
	ExpiryDate  *time.Time `json:"expiry_date,omitempty"`
}

// AllocationPlanDTO plan informativo; no reserva.
type AllocationPlanDTO struct {
	Lines             []AllocationLineDTO `json:"lines"`
	RequestedQuantity int                 `json:"requested_quantity"`
	AllocatedQuantity int                 `json:"allocated_quantity"`
	RemainingQuantity int                 `json:"remaining_quantity"`
	FullyAllocated    bool                `json:"fully_allocated"`
}

// NewAllocationPlanDTO mapea el plan de dominio.
func NewAllocationPlanDTO(p *fulfillment.AllocationPlan) *AllocationPlanDTO {
	out := &AllocationPlanDTO{
		Lines:             make([]AllocationLineDTO, 0, len(p.Lines)),
		RequestedQuantity: p.RequestedQuantity,
		AllocatedQuantity: p.AllocatedQuantity,
		RemainingQuantity: p.RemainingQuantity,
		FullyAllocated:    p.FullyAllocated,
	}
	for _, l := range p.Lines {
		out.Lines = append(out.Lines, AllocationLineDTO{
			StockID:     l.StockID,
			WarehouseID: l.WarehouseID,
			LocationID:  l.LocationID,
			ZoneType:    string(l.ZoneType),
			Size:        l.Size,
			BatchNumber: l.BatchNumber,
			Quantity:    l.Quantity,
			ExpiryDate:  l.ExpiryDate,
		})
	}
	return out
}
