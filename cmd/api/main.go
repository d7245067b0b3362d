package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/redis/go-redis/v9"

	appanalytics "github.com/Fulbito99/Deposito-Unsa/internal/application/analytics"
	"github.com/Fulbito99/Deposito-Unsa/internal/application/inventory"
	"github.com/Fulbito99/Deposito-Unsa/internal/application/usecase"
	domaininv "github.com/Fulbito99/Deposito-Unsa/internal/domain/inventory"
	"github.com/Fulbito99/Deposito-Unsa/internal/infrastructure/cache"
	"github.com/Fulbito99/Deposito-Unsa/internal/infrastructure/metrics"
	"github.com/Fulbito99/Deposito-Unsa/internal/infrastructure/storage"
	httpRouter "github.com/Fulbito99/Deposito-Unsa/internal/interfaces/http"
	"github.com/Fulbito99/Deposito-Unsa/pkg/config"
	"github.com/Fulbito99/Deposito-Unsa/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Mode).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	backend, err := storage.Open(ctx, cfg, log.Named("storage"), m.ConflictObserved)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer backend.Close()

	// Caché de estadísticas: opcional; sin Redis se lee siempre del almacenamiento.
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient, err = cache.New(ctx, cache.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis no disponible, caché de estadísticas desactivada")
		} else {
			defer func() { _ = redisClient.Close() }()
		}
	}
	statsCache := cache.NewStatsCache(redisClient, cfg.Redis.StatsTTL)

	policy := domaininv.NewExemptionPolicy(cfg.Inventory.ExemptLocales)
	observers := inventory.Observers{appanalytics.NewCacheInvalidator(statsCache, log.Named("cache"))}
	if m != nil {
		observers = append(observers, m)
	}
	settings := inventory.Settings{
		Policy:                 policy,
		DepositLabel:           cfg.Inventory.DepositLabel,
		RetractStatsOnReversal: cfg.Inventory.RetractStatsOnReversal,
		ChunkSize:              cfg.Inventory.HistoryChunkSize,
		Observer:               observers,
		Logger:                 log.Named("inventory"),
	}

	repos := backend.Repos
	transferUC := inventory.NewTransferUseCase(backend.TxRunner, repos.Transfers, settings)
	reversalUC := inventory.NewReversalUseCase(backend.TxRunner, repos.Transfers, settings)
	historyUC := inventory.NewHistoryUseCase(repos.Transfers)
	productUC := usecase.NewProductUseCase(backend.TxRunner, repos.Products)
	localeUC := usecase.NewLocaleUseCase(backend.TxRunner, repos.Locales, policy)
	dashboardUC := appanalytics.NewDashboardUseCase(repos, statsCache)
	rebuildUC := appanalytics.NewRebuildStatsUseCase(backend.TxRunner, statsCache, log.Named("analytics"))

	if cfg.App.SeedDemo {
		seeded, err := usecase.SeedDemo(ctx, productUC, localeUC)
		if err != nil {
			log.Fatal().Err(err).Msg("cargar datos de demostración")
		}
		if seeded {
			log.Info().Msg("catálogo de demostración cargado")
		}
	}

	app := httpRouter.NewApp(cfg.App.Name, log)

	// Swagger UI: http://localhost:<port>/docs
	if cfg.Swagger.Enabled {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.Swagger.FilePath,
			Path:     "docs",
			Title:    "Depósito API",
		}))
	}

	deps := httpRouter.RouterDeps{
		TransferUC:  transferUC,
		ReversalUC:  reversalUC,
		HistoryUC:   historyUC,
		ProductUC:   productUC,
		LocaleUC:    localeUC,
		DashboardUC: dashboardUC,
		RebuildUC:   rebuildUC,
		StorageMode: backend.Mode,
	}
	if m != nil {
		deps.Metrics = m.Handler()
	}
	httpRouter.Router(app, deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
