package fulfillment

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/wms-fulfillment/internal/domain"
	"github.com/jhoicas/wms-fulfillment/internal/domain/entity"
	"github.com/jhoicas/wms-fulfillment/internal/domain/fulfillment"
	"github.com/jhoicas/wms-fulfillment/pkg/logger"
)

// ReservationManager concentra las cuatro primitivas que mutan stock (reserve/unreserve/move/adjust)
// más el consumo de picking. Cada una bloquea la fila (SELECT FOR UPDATE) dentro de una transacción.
type ReservationManager struct {
	txRunner TxRunner
	log      *logger.Logger
}

// NewReservationManager construye el caso de uso.
func NewReservationManager(txRunner TxRunner, log *logger.Logger) *ReservationManager {
	return &ReservationManager{txRunner: txRunner, log: log.Component("stock")}
}

// MoveInput traslado de unidades entre dos ubicaciones (misma llave producto/talla/lote).
type MoveInput struct {
	ProductID      string
	FromLocationID string
	ToLocationID   string
	Size           string
	BatchNumber    string
	Quantity       int
	Actor          string
	Reference      string
}

// MoveResult par de asientos generados por el traslado.
type MoveResult struct {
	Reference string
	Out       *entity.InventoryTransaction
	In        *entity.InventoryTransaction
}

// AdjustInput ajuste con signo sobre una fila. UnitCost y ExpiryDate se usan al crear la fila.
type AdjustInput struct {
	ProductID   string
	LocationID  string
	Size        string
	BatchNumber string
	Quantity    int
	Actor       string
	Reason      string
	Reference   string
	UnitCost    *decimal.Decimal
	ExpiryDate  *time.Time
}

// AdjustResult estado final de la fila; Stock es nil si la fila quedó en 0 y se eliminó.
type AdjustResult struct {
	Stock       *entity.Stock
	Deleted     bool
	Transaction *entity.InventoryTransaction
}

// Reserve incrementa reserved_quantity si disponible >= qty. No genera asiento.
func (m *ReservationManager) Reserve(ctx context.Context, key entity.StockKey, qty int) error {
	return m.txRunner.Run(ctx, func(repos Repos) error {
		return m.ReserveInTx(ctx, repos, key, qty)
	})
}

// ReserveInTx igual que Reserve usando los repositorios del caller (misma transacción).
func (m *ReservationManager) ReserveInTx(ctx context.Context, repos Repos, key entity.StockKey, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("reserve %d: %w", qty, domain.ErrInvalidQuantity)
	}
	stock, err := repos.Stock.GetForUpdate(ctx, key)
	if err != nil {
		return err
	}
	if stock == nil || stock.Available() < qty {
		return fmt.Errorf("reserve %d of %s at %s: %w", qty, key.ProductID, key.LocationID, domain.ErrInsufficientStock)
	}
	stock.ReservedQuantity += qty
	stock.UpdatedAt = time.Now()
	return repos.Stock.Update(ctx, stock)
}

// Unreserve libera min(qty, reservado). Pensado para compensación: devuelve false (sin error)
// si la fila no existe o qty <= 0; liberar sobre una fila sin reserva es un no-op exitoso.
// Solo retorna error ante fallas de almacenamiento.
func (m *ReservationManager) Unreserve(ctx context.Context, key entity.StockKey, qty int) (bool, error) {
	ok := false
	err := m.txRunner.Run(ctx, func(repos Repos) error {
		if qty <= 0 {
			return nil
		}
		stock, err := repos.Stock.GetForUpdate(ctx, key)
		if err != nil || stock == nil {
			return err
		}
		ok = true
		_, err = m.unreserveRow(ctx, repos, stock, qty)
		return err
	})
	if err != nil {
		return false, err
	}
	return ok, nil
}

// UnreserveInTx libera min(qty, reservado) dentro de la tx del caller y devuelve las unidades liberadas.
func (m *ReservationManager) UnreserveInTx(ctx context.Context, repos Repos, key entity.StockKey, qty int) (int, error) {
	if qty <= 0 {
		return 0, nil
	}
	stock, err := repos.Stock.GetForUpdate(ctx, key)
	if err != nil || stock == nil {
		return 0, err
	}
	return m.unreserveRow(ctx, repos, stock, qty)
}

func (m *ReservationManager) unreserveRow(ctx context.Context, repos Repos, stock *entity.Stock, qty int) (int, error) {
	release := min(qty, stock.ReservedQuantity)
	if release <= 0 {
		return 0, nil
	}
	stock.ReservedQuantity -= release
	stock.UpdatedAt = time.Now()
	if err := repos.Stock.Update(ctx, stock); err != nil {
		return 0, err
	}
	return release, nil
}

// Move traslada qty de una ubicación a otra. Resta (o elimina) el origen, suma (o crea) el destino
// conservando costo y vencimiento, y registra un par de asientos (-qty, +qty). Σ cantidad se conserva.
func (m *ReservationManager) Move(ctx context.Context, in MoveInput) (*MoveResult, error) {
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("move %d: %w", in.Quantity, domain.ErrInvalidQuantity)
	}
	if in.FromLocationID == "" || in.ToLocationID == "" {
		return nil, fmt.Errorf("move: origen y destino requeridos: %w", domain.ErrLocationNotFound)
	}
	if in.FromLocationID == in.ToLocationID {
		return nil, fmt.Errorf("move: origen igual a destino: %w", domain.ErrInvalidInput)
	}

	var res *MoveResult
	err := m.txRunner.Run(ctx, func(repos Repos) error {
		fromLoc, err := repos.Locations.GetByID(ctx, in.FromLocationID)
		if err != nil {
			return err
		}
		toLoc, err := repos.Locations.GetByID(ctx, in.ToLocationID)
		if err != nil {
			return err
		}
		if fromLoc == nil || toLoc == nil {
			return fmt.Errorf("move %s → %s: %w", in.FromLocationID, in.ToLocationID, domain.ErrLocationNotFound)
		}

		fromKey := entity.StockKey{ProductID: in.ProductID, LocationID: in.FromLocationID, Size: in.Size, BatchNumber: in.BatchNumber}
		toKey := fromKey
		toKey.LocationID = in.ToLocationID

		// Bloqueo en orden de ubicación para evitar interbloqueos entre traslados cruzados.
		locked, err := lockInOrder(ctx, repos, fromKey, toKey)
		if err != nil {
			return err
		}
		from, to := locked[fromKey], locked[toKey]
		if from == nil || from.Available() < in.Quantity {
			return fmt.Errorf("move %d of %s from %s: %w", in.Quantity, in.ProductID, in.FromLocationID, domain.ErrInsufficientStock)
		}

		now := time.Now()
		from.Amount -= in.Quantity
		from.UpdatedAt = now
		if from.Amount == 0 {
			if err := repos.Stock.Delete(ctx, from.ID); err != nil {
				return err
			}
		} else if err := repos.Stock.Update(ctx, from); err != nil {
			return err
		}

		if to == nil {
			to = &entity.Stock{
				ID:           uuid.New().String(),
				ProductID:    in.ProductID,
				WarehouseID:  toLoc.WarehouseID,
				LocationID:   in.ToLocationID,
				Size:         in.Size,
				BatchNumber:  in.BatchNumber,
				Amount:       in.Quantity,
				UnitCost:     from.UnitCost,
				ReceivedDate: from.ReceivedDate,
				ExpiryDate:   from.ExpiryDate,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := repos.Stock.Create(ctx, to); err != nil {
				return err
			}
		} else {
			to.UnitCost = fulfillment.WeightedCost(to.Amount, to.UnitCost, in.Quantity, from.UnitCost)
			to.Amount += in.Quantity
			if to.ExpiryDate == nil {
				to.ExpiryDate = from.ExpiryDate
			}
			to.UpdatedAt = now
			if err := repos.Stock.Update(ctx, to); err != nil {
				return err
			}
		}

		ref := in.Reference
		if ref == "" {
			ref = uuid.New().String()
		}
		out := newTransaction(entity.TransactionMove, fromLoc.WarehouseID, in.FromLocationID, fromKey, -in.Quantity, from.UnitCost, in.Actor, ref, "", now)
		inTx := newTransaction(entity.TransactionMove, toLoc.WarehouseID, in.ToLocationID, toKey, in.Quantity, from.UnitCost, in.Actor, ref, "", now)
		if err := repos.Transactions.Create(ctx, out); err != nil {
			return err
		}
		if err := repos.Transactions.Create(ctx, inTx); err != nil {
			return err
		}
		res = &MoveResult{Reference: ref, Out: out, In: inTx}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Adjust aplica un delta con signo. Resultado < 0 (o < reservado) → ErrInsufficientStock;
// resultado 0 → elimina la fila. Siempre registra un asiento adjustment_in/adjustment_out.
func (m *ReservationManager) Adjust(ctx context.Context, in AdjustInput) (*AdjustResult, error) {
	if in.Quantity == 0 {
		return nil, fmt.Errorf("adjust: %w", domain.ErrInvalidQuantity)
	}
	if in.LocationID == "" {
		return nil, fmt.Errorf("adjust: %w", domain.ErrLocationNotFound)
	}

	var res *AdjustResult
	err := m.txRunner.Run(ctx, func(repos Repos) error {
		loc, err := repos.Locations.GetByID(ctx, in.LocationID)
		if err != nil {
			return err
		}
		if loc == nil {
			return fmt.Errorf("adjust at %s: %w", in.LocationID, domain.ErrLocationNotFound)
		}
		key := entity.StockKey{ProductID: in.ProductID, LocationID: in.LocationID, Size: in.Size, BatchNumber: in.BatchNumber}
		stock, err := repos.Stock.GetForUpdate(ctx, key)
		if err != nil {
			return err
		}

		now := time.Now()
		res = &AdjustResult{}
		switch {
		case stock == nil && in.Quantity < 0:
			return fmt.Errorf("adjust %d of %s at %s: %w", in.Quantity, in.ProductID, in.LocationID, domain.ErrInsufficientStock)
		case stock == nil:
			stock = &entity.Stock{
				ID:           uuid.New().String(),
				ProductID:    in.ProductID,
				WarehouseID:  loc.WarehouseID,
				LocationID:   in.LocationID,
				Size:         in.Size,
				BatchNumber:  in.BatchNumber,
				Amount:       in.Quantity,
				UnitCost:     costOrZero(in.UnitCost),
				ReceivedDate: now,
				ExpiryDate:   in.ExpiryDate,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := repos.Stock.Create(ctx, stock); err != nil {
				return err
			}
			res.Stock = stock
		default:
			newAmount := stock.Amount + in.Quantity
			if newAmount < 0 || newAmount < stock.ReservedQuantity {
				return fmt.Errorf("adjust %d of %s at %s: %w", in.Quantity, in.ProductID, in.LocationID, domain.ErrInsufficientStock)
			}
			if in.Quantity > 0 && in.UnitCost != nil {
				stock.UnitCost = fulfillment.WeightedCost(stock.Amount, stock.UnitCost, in.Quantity, *in.UnitCost)
			}
			stock.Amount = newAmount
			stock.UpdatedAt = now
			if newAmount == 0 {
				if err := repos.Stock.Delete(ctx, stock.ID); err != nil {
					return err
				}
				res.Deleted = true
			} else {
				if err := repos.Stock.Update(ctx, stock); err != nil {
					return err
				}
				res.Stock = stock
			}
		}

		txType := entity.TransactionAdjustmentIn
		if in.Quantity < 0 {
			txType = entity.TransactionAdjustmentOut
		}
		ref := in.Reference
		if ref == "" {
			ref = uuid.New().String()
		}
		res.Transaction = newTransaction(txType, loc.WarehouseID, in.LocationID, key, in.Quantity, stock.UnitCost, in.Actor, ref, in.Reason, now)
		return repos.Transactions.Create(ctx, res.Transaction)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ConsumeInTx descuenta unidades recogidas de la fila reservada (reservado y cantidad),
// elimina la fila si llega a 0 y registra el asiento pick (-qty).
func (m *ReservationManager) ConsumeInTx(ctx context.Context, repos Repos, key entity.StockKey, qty int, actor, reference string) error {
	if qty <= 0 {
		return fmt.Errorf("consume %d: %w", qty, domain.ErrInvalidQuantity)
	}
	stock, err := repos.Stock.GetForUpdate(ctx, key)
	if err != nil {
		return err
	}
	if stock == nil || stock.ReservedQuantity < qty || stock.Amount < qty {
		return fmt.Errorf("consume %d of %s at %s: reserva inconsistente: %w", qty, key.ProductID, key.LocationID, domain.ErrInsufficientStock)
	}
	now := time.Now()
	stock.ReservedQuantity -= qty
	stock.Amount -= qty
	stock.UpdatedAt = now
	if stock.Amount == 0 {
		if err := repos.Stock.Delete(ctx, stock.ID); err != nil {
			return err
		}
	} else if err := repos.Stock.Update(ctx, stock); err != nil {
		return err
	}
	tx := newTransaction(entity.TransactionPick, stock.WarehouseID, key.LocationID, key, -qty, stock.UnitCost, actor, reference, "", now)
	return repos.Transactions.Create(ctx, tx)
}

// Ledger devuelve los asientos de una referencia (traslado, ajuste o lista de picking).
func (m *ReservationManager) Ledger(ctx context.Context, reference string) ([]*entity.InventoryTransaction, error) {
	var list []*entity.InventoryTransaction
	err := m.txRunner.Run(ctx, func(repos Repos) error {
		var err error
		list, err = repos.Transactions.ListByReference(ctx, reference)
		return err
	})
	return list, err
}

// History asientos de un producto, más recientes primero.
func (m *ReservationManager) History(ctx context.Context, productID string, limit, offset int) ([]*entity.InventoryTransaction, error) {
	if productID == "" {
		return nil, fmt.Errorf("history: %w", domain.ErrInvalidInput)
	}
	var list []*entity.InventoryTransaction
	err := m.txRunner.Run(ctx, func(repos Repos) error {
		var err error
		list, err = repos.Transactions.ListByProduct(ctx, productID, limit, offset)
		return err
	})
	return list, err
}

// Stock lee una fila de stock. ErrNotFound si no existe.
func (m *ReservationManager) Stock(ctx context.Context, key entity.StockKey) (*entity.Stock, error) {
	var stock *entity.Stock
	err := m.txRunner.Run(ctx, func(repos Repos) error {
		var err error
		stock, err = repos.Stock.Get(ctx, key)
		if err != nil {
			return err
		}
		if stock == nil {
			return fmt.Errorf("stock %s/%s: %w", key.ProductID, key.LocationID, domain.ErrNotFound)
		}
		return nil
	})
	return stock, err
}

func lockInOrder(ctx context.Context, repos Repos, keys ...entity.StockKey) (map[entity.StockKey]*entity.Stock, error) {
	sorted := append([]entity.StockKey(nil), keys...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LocationID < sorted[j].LocationID })
	out := make(map[entity.StockKey]*entity.Stock, len(sorted))
	for _, k := range sorted {
		s, err := repos.Stock.GetForUpdate(ctx, k)
		if err != nil {
			return nil, err
		}
		out[k] = s
	}
	return out, nil
}

func newTransaction(
	typ entity.TransactionType,
	warehouseID, locationID string,
	key entity.StockKey,
	qty int,
	unitCost decimal.Decimal,
	actor, reference, reason string,
	now time.Time,
) *entity.InventoryTransaction {
	return &entity.InventoryTransaction{
		ID:          uuid.New().String(),
		WarehouseID: warehouseID,
		LocationID:  locationID,
		ProductID:   key.ProductID,
		Type:        typ,
		Quantity:    qty,
		UnitCost:    unitCost,
		TotalCost:   decimal.NewFromInt(int64(qty)).Mul(unitCost),
		Actor:       actor,
		Reference:   reference,
		Reason:      reason,
		BatchNumber: key.BatchNumber,
		Size:        key.Size,
		CreatedAt:   now,
	}
}

func costOrZero(c *decimal.Decimal) decimal.Decimal {
	if c == nil {
		return decimal.Zero
	}
	return *c
}
