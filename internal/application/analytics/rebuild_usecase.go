package analytics

import (
	"context"

	"github.com/Fulbito99/Deposito-Unsa/internal/application/inventory"
	"github.com/Fulbito99/Deposito-Unsa/internal/domain/entity"
	domaininv "github.com/Fulbito99/Deposito-Unsa/internal/domain/inventory"
	"github.com/Fulbito99/Deposito-Unsa/internal/domain/repository"
	"github.com/Fulbito99/Deposito-Unsa/pkg/logger"
)

// RebuildStatsUseCase recalcula el resumen desde cero recorriendo todo el historial.
// Corrige la deriva del mantenimiento incremental (recortes del top, reversiones sin descuento).
type RebuildStatsUseCase struct {
	txRunner inventory.TxRunner
	cache    Cache
	log      *logger.Logger
}

// NewRebuildStatsUseCase construye el caso de uso. cache puede ser nil.
func NewRebuildStatsUseCase(txRunner inventory.TxRunner, cache Cache, log *logger.Logger) *RebuildStatsUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &RebuildStatsUseCase{txRunner: txRunner, cache: cache, log: log}
}

// Rebuild reemplaza el resumen persistido y devuelve el nuevo.
func (uc *RebuildStatsUseCase) Rebuild(ctx context.Context) (*entity.Stats, error) {
	var rebuilt *entity.Stats
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		transfers, err := repos.Transfers.List(ctx, repository.TransferFilter{})
		if err != nil {
			return err
		}
		// List entrega de la más reciente a la más antigua; se reproduce en orden cronológico.
		for i, j := 0, len(transfers)-1; i < j; i, j = i+1, j-1 {
			transfers[i], transfers[j] = transfers[j], transfers[i]
		}
		current, err := repos.Stats.Get(ctx)
		if err != nil {
			return err
		}
		rebuilt = domaininv.BuildStats(transfers)
		rebuilt.UpdatedAt = current.UpdatedAt
		if len(transfers) > 0 {
			rebuilt.UpdatedAt = transfers[len(transfers)-1].Timestamp
		}
		return repos.Stats.Save(ctx, rebuilt)
	})
	if err != nil {
		return nil, err
	}
	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx); err != nil {
			uc.log.Warn().Err(err).Msg("no se pudo invalidar la caché de estadísticas")
		}
	}
	uc.log.Info().
		Int("products", len(rebuilt.Distribution)).
		Int("destinations", len(rebuilt.Destinations)).
		Msg("estadísticas reconstruidas")
	return rebuilt, nil
}

// CacheInvalidator invalida la caché de estadísticas tras cada operación confirmada del motor.
type CacheInvalidator struct {
	cache Cache
	log   *logger.Logger
}

var _ inventory.Observer = (*CacheInvalidator)(nil)

// NewCacheInvalidator construye el observador.
func NewCacheInvalidator(cache Cache, log *logger.Logger) *CacheInvalidator {
	if log == nil {
		log = logger.Nop()
	}
	return &CacheInvalidator{cache: cache, log: log}
}

func (c *CacheInvalidator) Committed(ctx context.Context, op inventory.Operation, _ *entity.Transfer) {
	if err := c.cache.Invalidate(ctx); err != nil {
		// La operación ya está confirmada; la caché expira sola por TTL.
		c.log.Warn().Err(err).Str("op", string(op)).Msg("no se pudo invalidar la caché de estadísticas")
	}
}

func (c *CacheInvalidator) Failed(context.Context, inventory.Operation, error) {}
