package entity

import "time"

// Tipos y estados de pedido relevantes para el picking.
const (
	OrderTypeFulfillment = "fulfillment"

	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"

	FulfillmentStatusPending = "pending"
	FulfillmentStatusPicked  = "picked"
)

// Order pedido externo. El núcleo solo escribe FulfillmentStatus y WaveID.
type Order struct {
	ID                string
	WarehouseID       string
	OrderType         string
	Status            string
	FulfillmentStatus string
	WaveID            *string
	Priority          int
	CreatedAt         time.Time
	Lines             []OrderLine
}

// OrderLine línea de pedido (OrderProduct).
type OrderLine struct {
	ProductID string
	Quantity  int
	Size      string
}

// IsFulfillment indica si el pedido requiere preparación en bodega.
func (o *Order) IsFulfillment() bool {
	return o.OrderType == OrderTypeFulfillment
}

// IsActive indica si el pedido está en un estado operativo.
func (o *Order) IsActive() bool {
	switch o.Status {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing:
		return true
	}
	return false
}

// ItemCount suma las cantidades de todas las líneas.
func (o *Order) ItemCount() int {
	total := 0
	for _, l := range o.Lines {
		total += l.Quantity
	}
	return total
}
