package http

import (
	nethttp "net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appanalytics "github.com/Fulbito99/Deposito-Unsa/internal/application/analytics"
	"github.com/Fulbito99/Deposito-Unsa/internal/application/inventory"
	"github.com/Fulbito99/Deposito-Unsa/internal/application/usecase"
	"github.com/Fulbito99/Deposito-Unsa/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	TransferUC  *inventory.TransferUseCase
	ReversalUC  *inventory.ReversalUseCase
	HistoryUC   *inventory.HistoryUseCase
	ProductUC   *usecase.ProductUseCase
	LocaleUC    *usecase.LocaleUseCase
	DashboardUC *appanalytics.DashboardUseCase
	RebuildUC   *appanalytics.RebuildStatsUseCase
	Metrics     nethttp.Handler // nil: sin /metrics
	Location    *time.Location  // límites de día de los filtros; nil usa time.Local
	StorageMode string
}

// NewApp crea la app Fiber con recover, log de peticiones y el manejador de errores del dominio.
func NewApp(appName string, log *logger.Logger) *fiber.App {
	if log == nil {
		log = logger.Nop()
	}
	app := fiber.New(fiber.Config{
		AppName:      appName,
		ErrorHandler: ErrorHandler,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(RequestLogger(log.Named("http")))
	app.Use(recover.New())
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "storage": deps.StorageMode})
	})
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	api := app.Group("/api")

	// Transferencias e historial
	transfers := api.Group("/transfers")
	transferHandler := NewTransferHandler(deps.TransferUC, deps.ReversalUC, deps.HistoryUC, deps.Location)
	transfers.Post("/", transferHandler.Create)
	transfers.Get("/", transferHandler.List)
	transfers.Delete("/", transferHandler.Clear)
	transfers.Get("/:id", transferHandler.GetByID)
	transfers.Put("/:id", transferHandler.Update)
	transfers.Delete("/:id", transferHandler.Undo)
	transfers.Post("/:id/repeat", transferHandler.Repeat)

	// Estadísticas
	stats := api.Group("/stats")
	statsHandler := NewStatsHandler(deps.DashboardUC, deps.RebuildUC)
	stats.Get("/", statsHandler.Get)
	stats.Post("/rebuild", statsHandler.Rebuild)

	// Catálogo
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/lookup", productHandler.Lookup)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Locales
	locales := api.Group("/locales")
	localeHandler := NewLocaleHandler(deps.LocaleUC)
	locales.Post("/", localeHandler.Create)
	locales.Get("/", localeHandler.List)
	locales.Get("/:id", localeHandler.GetByID)
	locales.Patch("/:id", localeHandler.Update)
	locales.Delete("/:id", localeHandler.Delete)
}
