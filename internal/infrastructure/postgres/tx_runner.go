package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sethvargo/go-retry"

	"github.com/Fulbito99/Deposito-Unsa/internal/application/inventory"
	"github.com/Fulbito99/Deposito-Unsa/internal/domain"
	"github.com/Fulbito99/Deposito-Unsa/internal/domain/repository"
	"github.com/Fulbito99/Deposito-Unsa/pkg/logger"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

const (
	defaultMaxRetries = 5
	retryBase         = 50 * time.Millisecond
)

// TxRunner ejecuta callbacks dentro de una transacción SERIALIZABLE.
// Los fallos de serialización y deadlocks se reintentan con backoff exponencial;
// agotados los intentos se devuelve domain.ErrTransactionConflict.
type TxRunner struct {
	pool       *pgxpool.Pool
	maxRetries uint64
	onConflict func()
	log        *logger.Logger
}

// TxOption configura el runner.
type TxOption func(*TxRunner)

// WithMaxRetries reintentos tras el primer intento.
func WithMaxRetries(n int) TxOption {
	return func(r *TxRunner) {
		if n >= 0 {
			r.maxRetries = uint64(n)
		}
	}
}

// WithConflictHook se invoca en cada conflicto detectado (métricas).
func WithConflictHook(fn func()) TxOption {
	return func(r *TxRunner) { r.onConflict = fn }
}

// WithLogger logger para los reintentos.
func WithLogger(l *logger.Logger) TxOption {
	return func(r *TxRunner) { r.log = l }
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool, opts ...TxOption) *TxRunner {
	r := &TxRunner{pool: pool, maxRetries: defaultMaxRetries, log: logger.Nop()}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	return retryConflicts(ctx, r.maxRetries, r.conflictObserved, func(ctx context.Context) error {
		return r.runOnce(ctx, fn)
	})
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return domain.Storage("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, Bind(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Storage("commit transaction", err)
	}
	return nil
}

func (r *TxRunner) conflictObserved(attempt int, err error) {
	r.log.Debug().Err(err).Int("attempt", attempt).Msg("conflicto de serialización, reintentando")
	if r.onConflict != nil {
		r.onConflict()
	}
}

// retryConflicts reintenta fn mientras falle por conflicto de serialización.
func retryConflicts(ctx context.Context, maxRetries uint64, observe func(attempt int, err error), fn func(context.Context) error) error {
	backoff := retry.WithMaxRetries(maxRetries, retry.WithJitterPercent(20, retry.NewExponential(retryBase)))
	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := fn(ctx)
		if err != nil && isConflict(err) {
			if observe != nil {
				observe(attempt, err)
			}
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil && isConflict(err) {
		return fmt.Errorf("%w tras %d intentos: %v", domain.ErrTransactionConflict, attempt, err)
	}
	return err
}

// Bind devuelve los repositorios atados a q (pool o tx).
func Bind(q Querier) repository.Repositories {
	return repository.Repositories{
		Products:  NewProductRepository(q),
		Locales:   NewLocaleRepository(q),
		Transfers: NewTransferRepository(q),
		Stats:     NewStatsRepository(q),
	}
}
