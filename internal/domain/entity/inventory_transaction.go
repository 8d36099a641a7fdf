package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType tipo de asiento del libro de inventario.
type TransactionType string

// Tipos de transacción de inventario.
const (
	TransactionPick          TransactionType = "pick"
	TransactionMove          TransactionType = "move"
	TransactionAdjustmentIn  TransactionType = "adjustment_in"
	TransactionAdjustmentOut TransactionType = "adjustment_out"
)

// InventoryTransaction asiento inmutable del libro de inventario. Solo se inserta.
type InventoryTransaction struct {
	ID          string
	WarehouseID string
	LocationID  string
	ProductID   string
	Type        TransactionType
	Quantity    int // con signo: positivo entrada, negativo salida
	UnitCost    decimal.Decimal
	TotalCost   decimal.Decimal
	Actor       string
	Reference   string
	Reason      string
	BatchNumber string
	Size        string
	CreatedAt   time.Time
}
