// Package analytics contiene el lado de lectura de las estadísticas de transferencias
// y su reconstrucción a partir del historial.
package analytics

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/Fulbito99/Deposito-Unsa/internal/application/dto"
	"github.com/Fulbito99/Deposito-Unsa/internal/domain/entity"
	domaininv "github.com/Fulbito99/Deposito-Unsa/internal/domain/inventory"
	"github.com/Fulbito99/Deposito-Unsa/internal/domain/repository"
)

const dashboardCacheKey = "dashboard:stats"

// Cache caché de lectura versionada. Invalidate descarta todas las entradas vigentes.
type Cache interface {
	FetchJSON(ctx context.Context, key string, dest any, loader func(context.Context) (any, error)) error
	Invalidate(ctx context.Context) error
}

// DashboardUseCase arma el resumen de estadísticas para el tablero.
//
// Fuente de datos: el resumen incremental (StatsRepository) más totales de stock
// calculados sobre productos y locales. Con caché configurada se sirve desde Redis.
type DashboardUseCase struct {
	repos repository.Repositories
	cache Cache
}

// NewDashboardUseCase construye el caso de uso. cache puede ser nil.
func NewDashboardUseCase(repos repository.Repositories, cache Cache) *DashboardUseCase {
	return &DashboardUseCase{repos: repos, cache: cache}
}

// GetStats devuelve la distribución recortada al top de lectura, la comparación de destinos
// y los totales de stock.
func (uc *DashboardUseCase) GetStats(ctx context.Context) (*dto.DashboardStatsDTO, error) {
	if uc.cache == nil {
		return uc.load(ctx)
	}
	var out dto.DashboardStatsDTO
	err := uc.cache.FetchJSON(ctx, dashboardCacheKey, &out, func(ctx context.Context) (any, error) {
		return uc.load(ctx)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// load lanza las tres lecturas en paralelo.
func (uc *DashboardUseCase) load(ctx context.Context) (*dto.DashboardStatsDTO, error) {
	var (
		stats    *entity.Stats
		products []*entity.Product
		locales  []*entity.Locale
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats, err = uc.repos.Stats.Get(gctx)
		return err
	})
	g.Go(func() (err error) {
		products, err = uc.repos.Products.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		locales, err = uc.repos.Locales.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	top := domaininv.TopDistribution(stats, domaininv.DistributionReadLimit)
	out := &dto.DashboardStatsDTO{
		DistributionData:      make([]dto.DistributionItemDTO, 0, len(top.Distribution)),
		DestinationComparison: make([]dto.DestinationComparisonDTO, 0, len(top.Destinations)),
		Totals:                dto.StockTotalsDTO{Products: len(products), Locales: len(locales)},
	}
	for _, d := range top.Distribution {
		out.DistributionData = append(out.DistributionData, dto.DistributionItemDTO{Name: d.ProductName, Value: d.Total})
	}
	for _, d := range top.Destinations {
		out.DestinationComparison = append(out.DestinationComparison, dto.DestinationComparisonDTO{
			Destino: d.DestinationName, Total: d.Total, Movimientos: d.Count,
		})
	}
	for _, p := range products {
		out.Totals.DepositUnits += p.MasterStock
	}
	for _, l := range locales {
		for _, qty := range l.Inventory {
			out.Totals.LocaleUnits += qty
		}
	}
	if !top.UpdatedAt.IsZero() {
		ts := top.UpdatedAt
		out.LastUpdated = &ts
	}
	return out, nil
}
