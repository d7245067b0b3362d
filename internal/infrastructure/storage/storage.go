// Package storage elige el backend de persistencia según STORAGE_MODE.
package storage

import (
	"context"
	"fmt"

	"github.com/Fulbito99/Deposito-Unsa/internal/application/inventory"
	"github.com/Fulbito99/Deposito-Unsa/internal/domain/repository"
	"github.com/Fulbito99/Deposito-Unsa/internal/infrastructure/memory"
	"github.com/Fulbito99/Deposito-Unsa/internal/infrastructure/postgres"
	"github.com/Fulbito99/Deposito-Unsa/internal/infrastructure/sqlite"
	"github.com/Fulbito99/Deposito-Unsa/pkg/config"
	"github.com/Fulbito99/Deposito-Unsa/pkg/logger"
)

// Backend repositorios directos más el runner transaccional del mismo almacenamiento.
type Backend struct {
	Mode     string
	Repos    repository.Repositories
	TxRunner inventory.TxRunner
	close    func()
}

// Close libera las conexiones del backend.
func (b *Backend) Close() {
	if b != nil && b.close != nil {
		b.close()
	}
}

// Open abre el backend configurado. onConflict (opcional) se llama en cada reintento por conflicto.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger, onConflict func()) (*Backend, error) {
	if log == nil {
		log = logger.Nop()
	}
	switch cfg.Storage.Mode {
	case config.StorageLocal:
		store := memory.NewStore()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		return &Backend{Mode: cfg.Storage.Mode, Repos: store.Repositories(), TxRunner: store}, nil

	case config.StorageSQLite:
		store, err := sqlite.Open(ctx, cfg.Storage.SQLitePath, sqlite.WithConflictHook(onConflict))
		if err != nil {
			return nil, fmt.Errorf("sqlite %s: %w", cfg.Storage.SQLitePath, err)
		}
		log.Info().Str("path", cfg.Storage.SQLitePath).Msg("almacenamiento SQLite listo")
		return &Backend{
			Mode: cfg.Storage.Mode, Repos: store.Repositories(), TxRunner: store,
			close: func() { _ = store.Close() },
		}, nil

	case config.StorageCloud:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conectar a PostgreSQL: %w", err)
		}
		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Int("migrations", applied).Msg("conexión a PostgreSQL establecida")
		runner := postgres.NewTxRunner(pool,
			postgres.WithMaxRetries(cfg.DB.MaxRetries),
			postgres.WithConflictHook(onConflict),
			postgres.WithLogger(log.Named("postgres")),
		)
		return &Backend{Mode: cfg.Storage.Mode, Repos: postgres.Bind(pool), TxRunner: runner, close: pool.Close}, nil
	}
	return nil, fmt.Errorf("STORAGE_MODE inválido: %q", cfg.Storage.Mode)
}
