package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/taller-api/internal/application/ledger"
	"github.com/jhoicas/taller-api/internal/application/workorder"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

// Ensure TxRunner implements ledger.TxRunner and workorder.TxRunner.
var _ ledger.TxRunner = (*TxRunner)(nil)
var _ workorder.TxRunner = (*WorkOrderTxRunner)(nil)

// maxTxRetries reintentos ante fallo de serialización o deadlock antes de
// devolver el error al llamador.
const maxTxRetries = 3

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL con los
// repositorios del libro de inventario atados a la tx. Los SELECT FOR UPDATE
// de los repos serializan las escrituras por producto; ante 40001/40P01 se
// reintenta la transacción completa.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	entryRepo repository.LedgerEntryRepository,
	productRepo repository.ProductRepository,
) error) error {
	return runWithRetry(ctx, r.pool, func(tx Querier) error {
		return fn(NewLedgerEntryRepository(tx), NewProductRepository(tx))
	})
}

// WorkOrderTxRunner ejecuta callbacks con los repositorios de órdenes de
// trabajo y centros atados a la tx. La transición -> started bloquea la fila
// del centro dentro de esta transacción (guardia de doble ocupación).
type WorkOrderTxRunner struct {
	pool *pgxpool.Pool
}

// NewWorkOrderTxRunner construye el runner con el pool.
func NewWorkOrderTxRunner(pool *pgxpool.Pool) *WorkOrderTxRunner {
	return &WorkOrderTxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback.
func (r *WorkOrderTxRunner) Run(ctx context.Context, fn func(
	orderRepo repository.WorkOrderRepository,
	centerRepo repository.WorkCenterRepository,
) error) error {
	return runWithRetry(ctx, r.pool, func(tx Querier) error {
		return fn(NewWorkOrderRepository(tx), NewWorkCenterRepository(tx))
	})
}

// runWithRetry ejecuta fn en una transacción y reintenta hasta maxTxRetries
// veces ante fallos de serialización o deadlock. Cualquier otro error aborta
// de inmediato.
func runWithRetry(ctx context.Context, pool *pgxpool.Pool, fn func(tx Querier) error) error {
	var lastErr error
	for attempt := 0; attempt < maxTxRetries; attempt++ {
		err := runOnce(ctx, pool, fn)
		if err == nil {
			return nil
		}
		if !isSerializationFailure(err) {
			return err
		}
		lastErr = err
		log.Warn().Err(err).Int("attempt", attempt+1).Msg("reintentando transacción por fallo de serialización")
	}
	return lastErr
}

func runOnce(ctx context.Context, pool *pgxpool.Pool, fn func(tx Querier) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
