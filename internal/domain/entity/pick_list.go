package entity

import "time"

// PickListStatus estado de una lista de picking.
type PickListStatus string

// Estados de la lista de picking.
const (
	PickListPending    PickListStatus = "pending"
	PickListAssigned   PickListStatus = "assigned"
	PickListInProgress PickListStatus = "in_progress"
	PickListCompleted  PickListStatus = "completed"
	PickListCancelled  PickListStatus = "cancelled"
)

// Terminal indica si el estado ya no admite cambios.
func (s PickListStatus) Terminal() bool {
	return s == PickListCompleted || s == PickListCancelled
}

// PickItemStatus estado de un ítem de la lista.
type PickItemStatus string

// Estados del ítem. Unfulfilled: se registró 0 unidades y la reserva se liberó completa.
const (
	PickItemPending     PickItemStatus = "pending"
	PickItemPicked      PickItemStatus = "picked"
	PickItemShortPicked PickItemStatus = "short_picked"
	PickItemUnfulfilled PickItemStatus = "unfulfilled"
	PickItemCancelled   PickItemStatus = "cancelled"
)

// PickList lista ordenada de instrucciones ubicación→cantidad.
// OrderID vacío cuando la lista atiende varios pedidos de una ola.
type PickList struct {
	ID           string
	OrderID      string
	WarehouseID  string
	AdminID      string
	WaveID       *string
	Status       PickListStatus
	Priority     int
	TotalItems   int
	PickedItems  int
	CancelReason string
	StartedAt    *time.Time
	CompletedAt  *time.Time
	CancelledAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PickListItem instrucción de picking sobre una fila de stock exacta.
type PickListItem struct {
	ID                string
	PickListID        string
	OrderID           string
	ProductID         string
	LocationID        string
	Size              string
	BatchNumber       string
	QuantityRequested int
	QuantityPicked    int
	Sequence          int
	Status            PickItemStatus
	PickedBy          string
	PickedAt          *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// StockKey llave de la fila de stock reservada por el ítem.
func (i *PickListItem) StockKey() StockKey {
	return StockKey{
		ProductID:   i.ProductID,
		LocationID:  i.LocationID,
		Size:        i.Size,
		BatchNumber: i.BatchNumber,
	}
}

// Shortfall unidades solicitadas y no recogidas.
func (i *PickListItem) Shortfall() int {
	return i.QuantityRequested - i.QuantityPicked
}
