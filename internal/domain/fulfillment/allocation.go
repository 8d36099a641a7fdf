package fulfillment

import (
	"sort"
	"time"

	"github.com/jhoicas/wms-fulfillment/internal/domain/entity"
)

// AllocationPolicy orden de consumo de lotes.
type AllocationPolicy string

// Políticas de asignación.
const (
	PolicyFIFO AllocationPolicy = "fifo"
	PolicyLIFO AllocationPolicy = "lifo"
	PolicyFEFO AllocationPolicy = "fefo"
)

// Valid indica si la política es conocida.
func (p AllocationPolicy) Valid() bool {
	return p == PolicyFIFO || p == PolicyLIFO || p == PolicyFEFO
}

// AllocationLine porción de la cantidad pedida tomada de una fila de stock.
type AllocationLine struct {
	StockID     string
	WarehouseID string
	LocationID  string
	ZoneType    entity.ZoneType
	Size        string
	BatchNumber string
	Quantity    int
	ExpiryDate  *time.Time
}

// AllocationPlan resultado del consumo voraz. Es informativo: no reserva nada.
type AllocationPlan struct {
	Lines             []AllocationLine
	RequestedQuantity int
	AllocatedQuantity int
	RemainingQuantity int
	FullyAllocated    bool
}

// SortLots ordena los lotes según la política (copia; no modifica la entrada).
//   - fifo: received_date asc, created_at asc
//   - lifo: received_date desc, created_at desc
//   - fefo: expiry_date asc (nulos al final), received_date asc
func SortLots(lots []*entity.LocatedStock, policy AllocationPolicy) []*entity.LocatedStock {
	out := make([]*entity.LocatedStock, len(lots))
	copy(out, lots)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch policy {
		case PolicyLIFO:
			if !a.ReceivedDate.Equal(b.ReceivedDate) {
				return a.ReceivedDate.After(b.ReceivedDate)
			}
			return a.CreatedAt.After(b.CreatedAt)
		case PolicyFEFO:
			if c := compareExpiry(a.ExpiryDate, b.ExpiryDate); c != 0 {
				return c < 0
			}
			return a.ReceivedDate.Before(b.ReceivedDate)
		default:
			if !a.ReceivedDate.Equal(b.ReceivedDate) {
				return a.ReceivedDate.Before(b.ReceivedDate)
			}
			return a.CreatedAt.Before(b.CreatedAt)
		}
	})
	return out
}

// SortForPicking orden del plan de picking: prioridad de zona, vencimiento asc (nulos al final), cantidad desc.
func SortForPicking(lots []*entity.LocatedStock) []*entity.LocatedStock {
	out := make([]*entity.LocatedStock, len(lots))
	copy(out, lots)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if pa, pb := a.ZoneType.Priority(), b.ZoneType.Priority(); pa != pb {
			return pa < pb
		}
		if c := compareExpiry(a.ExpiryDate, b.ExpiryDate); c != 0 {
			return c < 0
		}
		return a.Amount > b.Amount
	})
	return out
}

// Consume toma min(disponible, restante) de cada lote en el orden dado hasta cubrir qty.
func Consume(ordered []*entity.LocatedStock, qty int) AllocationPlan {
	plan := AllocationPlan{RequestedQuantity: qty}
	remaining := qty
	for _, lot := range ordered {
		if remaining <= 0 {
			break
		}
		avail := lot.Available()
		if avail <= 0 {
			continue
		}
		take := min(avail, remaining)
		plan.Lines = append(plan.Lines, AllocationLine{
			StockID:     lot.ID,
			WarehouseID: lot.WarehouseID,
			LocationID:  lot.LocationID,
			ZoneType:    lot.ZoneType,
			Size:        lot.Size,
			BatchNumber: lot.BatchNumber,
			Quantity:    take,
			ExpiryDate:  lot.ExpiryDate,
		})
		remaining -= take
	}
	plan.AllocatedQuantity = qty - remaining
	plan.RemainingQuantity = remaining
	plan.FullyAllocated = remaining == 0
	return plan
}

// PlanAllocation ordena por política y consume.
func PlanAllocation(lots []*entity.LocatedStock, qty int, policy AllocationPolicy) AllocationPlan {
	return Consume(SortLots(lots, policy), qty)
}

// PlanPick ordena por zona/vencimiento/cantidad y consume.
func PlanPick(lots []*entity.LocatedStock, qty int) AllocationPlan {
	return Consume(SortForPicking(lots), qty)
}

// compareExpiry compara vencimientos con nulos al final.
func compareExpiry(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case a.Before(*b):
		return -1
	case b.Before(*a):
		return 1
	}
	return 0
}
