// Package sqlite implementa el almacenamiento local persistente sobre un archivo SQLite.
//
// Todas las transacciones abren con BEGIN IMMEDIATE (_txlock=immediate) y el pool se limita
// a una conexión, por lo que las escrituras quedan serializadas dentro del proceso. Las marcas
// de tiempo se guardan como texto UTC de ancho fijo para que el orden lexicográfico sea cronológico.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/sethvargo/go-retry"

	"github.com/Fulbito99/Deposito-Unsa/internal/application/inventory"
	"github.com/Fulbito99/Deposito-Unsa/internal/domain"
	"github.com/Fulbito99/Deposito-Unsa/internal/domain/repository"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var _ inventory.TxRunner = (*Store)(nil)

const (
	tsLayout   = "2006-01-02T15:04:05.000000000Z"
	dateLayout = "2006-01-02"
	maxRetries = 3
)

// Store almacén SQLite.
type Store struct {
	db         *sql.DB
	onConflict func()
}

// Option configura el Store.
type Option func(*Store)

// WithConflictHook se invoca cuando la base está ocupada y la tx se reintenta.
func WithConflictHook(fn func()) Option {
	return func(s *Store) { s.onConflict = fn }
}

// Open abre (o crea) la base en path y aplica las migraciones. ":memory:" para tests.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("abrir sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	for _, o := range opts {
		o(s)
	}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func dsn(path string) string {
	params := "_foreign_keys=on&_busy_timeout=5000&_txlock=immediate"
	if path != ":memory:" {
		params += "&_journal_mode=WAL"
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + params
}

func (s *Store) migrate(ctx context.Context) error {
	fsys, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, s.db, fsys)
	if err != nil {
		return fmt.Errorf("goose: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("aplicar migraciones: %w", err)
	}
	return nil
}

// Close cierra la base.
func (s *Store) Close() error {
	return s.db.Close()
}

// Repositories repositorios sobre la base sin transacción.
func (s *Store) Repositories() repository.Repositories {
	return bind(s.db)
}

// Run ejecuta fn en una transacción. Si la base está bloqueada (SQLITE_BUSY) se reintenta.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	backoff := retry.WithMaxRetries(maxRetries, retry.NewExponential(20*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := s.runOnce(ctx, fn)
		if err != nil && isBusy(err) {
			if s.onConflict != nil {
				s.onConflict()
			}
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil && isBusy(err) {
		return fmt.Errorf("%w: %v", domain.ErrTransactionConflict, err)
	}
	return err
}

func (s *Store) runOnce(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Storage("begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(ctx, bind(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return domain.Storage("commit transaction", err)
	}
	return nil
}

// queryer abstrae *sql.DB y *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func bind(q queryer) repository.Repositories {
	return repository.Repositories{
		Products:  &ProductRepo{q: q},
		Locales:   &LocaleRepo{q: q},
		Transfers: &TransferRepo{q: q},
		Stats:     &StatsRepo{q: q},
	}
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique || se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

func isBusy(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.Code == sqlite3.ErrBusy || se.Code == sqlite3.ErrLocked
	}
	return false
}

func formatTS(t time.Time) string {
	return t.UTC().Format(tsLayout)
}

func parseTS(s string) (time.Time, error) {
	return time.Parse(tsLayout, s)
}
