package layout

import (
	"time"

	"github.com/jhoicas/wms-fulfillment/internal/domain/entity"
	"github.com/jhoicas/wms-fulfillment/internal/infrastructure/memory"
)

// Apply carga el layout en el almacén en memoria. now se usa cuando una fila no trae fecha de recepción.
func (l *Layout) Apply(store *memory.Store, now time.Time) {
	for _, w := range l.Warehouses {
		store.AddWarehouse(entity.Warehouse{ID: w.ID, Name: w.Name, Address: w.Address, IsMain: w.Main, CreatedAt: now, UpdatedAt: now})
		for _, z := range w.Zones {
			store.AddZone(entity.Zone{ID: z.ID, WarehouseID: w.ID, Name: z.Name, ZoneType: entity.ZoneType(z.zoneType())})
			for _, loc := range z.Locations {
				store.AddLocation(entity.Location{
					ID:          loc.ID,
					WarehouseID: w.ID,
					ZoneID:      z.ID,
					Code:        loc.Code,
					Aisle:       loc.Aisle,
					Bay:         loc.Bay,
					Level:       loc.Level,
					Position:    loc.Position,
					Active:      loc.active(),
				})
			}
		}
	}
	for i, s := range l.Stock {
		cost, _ := s.cost()
		received, expiry, _ := s.dates()
		if received.IsZero() {
			received = now
		}
		// created_at escalonado conserva el orden del archivo como desempate FIFO.
		created := now.Add(time.Duration(i) * time.Millisecond)
		store.AddStock(entity.Stock{
			ID:           s.id(),
			ProductID:    s.ProductID,
			WarehouseID:  l.locationWarehouse(s.LocationID),
			LocationID:   s.LocationID,
			Size:         s.Size,
			BatchNumber:  s.BatchNumber,
			Amount:       s.Amount,
			UnitCost:     cost,
			ReceivedDate: received,
			ExpiryDate:   expiry,
			CreatedAt:    created,
			UpdatedAt:    created,
		})
	}
	for i, o := range l.Orders {
		lines := make([]entity.OrderLine, 0, len(o.Lines))
		for _, ln := range o.Lines {
			lines = append(lines, entity.OrderLine{ProductID: ln.ProductID, Quantity: ln.Quantity, Size: ln.Size})
		}
		store.AddOrder(entity.Order{
			ID:                o.ID,
			WarehouseID:       o.WarehouseID,
			OrderType:         entity.OrderTypeFulfillment,
			Status:            o.status(),
			FulfillmentStatus: entity.FulfillmentStatusPending,
			Priority:          o.Priority,
			CreatedAt:         now.Add(time.Duration(i) * time.Millisecond),
			Lines:             lines,
		})
	}
}
