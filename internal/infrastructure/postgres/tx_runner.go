package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/wms-fulfillment/internal/application/fulfillment"
)

var _ fulfillment.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción READ COMMITTED, ejecuta fn con los repos atados a la tx y hace Commit o Rollback.
// Los bloqueos de fila (FOR UPDATE) de los repos se liberan al terminar la tx.
func (r *TxRunner) Run(ctx context.Context, fn func(repos fulfillment.Repos) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(reposFor(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func reposFor(q Querier) fulfillment.Repos {
	return fulfillment.Repos{
		Stock:        NewStockRepository(q),
		Transactions: NewInventoryTransactionRepository(q),
		Locations:    NewLocationRepository(q),
		Warehouses:   NewWarehouseRepository(q),
		Orders:       NewOrderRepository(q),
		PickLists:    NewPickListRepository(q),
		Waves:        NewWaveRepository(q),
	}
}
