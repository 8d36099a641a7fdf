package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockKey identifica una fila de stock: producto + ubicación + talla + lote.
type StockKey struct {
	ProductID   string
	LocationID  string
	Size        string
	BatchNumber string
}

// Stock representa la cantidad de un producto en una ubicación/talla/lote.
// Invariante: 0 <= ReservedQuantity <= Amount.
type Stock struct {
	ID               string
	ProductID        string
	WarehouseID      string
	LocationID       string
	Size             string
	BatchNumber      string
	Amount           int
	ReservedQuantity int
	UnitCost         decimal.Decimal
	ReceivedDate     time.Time
	ExpiryDate       *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Key devuelve la llave de identidad de la fila.
func (s *Stock) Key() StockKey {
	return StockKey{
		ProductID:   s.ProductID,
		LocationID:  s.LocationID,
		Size:        s.Size,
		BatchNumber: s.BatchNumber,
	}
}

// Available cantidad libre (no reservada).
func (s *Stock) Available() int {
	return s.Amount - s.ReservedQuantity
}

// Valid verifica 0 <= reservado <= cantidad.
func (s *Stock) Valid() bool {
	return s.Amount >= 0 && s.ReservedQuantity >= 0 && s.ReservedQuantity <= s.Amount
}

// LocatedStock es una fila de stock junto con la zona de su ubicación (lectura para planificación).
type LocatedStock struct {
	Stock
	ZoneID   string
	ZoneType ZoneType
}
