package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repos agrupa los repositorios atados a una misma transacción.
type Repos struct {
	Items            *ItemRepo
	StorageLocations *StorageLocationRepo
	StockChanges     *StockChangeRepo
	Users            *UserRepo
}

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
// Los eventos realtime de la transacción se publican solo tras el Commit.
type TxRunner struct {
	pool   *pgxpool.Pool
	events *Emitter
}

// NewTxRunner construye el runner con el pool. events puede ser nil.
func NewTxRunner(pool *pgxpool.Pool, events *Emitter) *TxRunner {
	return &TxRunner{pool: pool, events: events}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	held := r.events.deferred()
	repos := Repos{
		Items:            NewItemRepository(tx, held),
		StorageLocations: NewStorageLocationRepository(tx, held),
		StockChanges:     NewStockChangeRepository(tx, held),
		Users:            NewUserRepository(tx, held),
	}

	if err := fn(repos); err != nil {
		held.discard()
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		held.discard()
		return fmt.Errorf("commit transaction: %w", err)
	}
	held.flush(ctx)
	return nil
}
