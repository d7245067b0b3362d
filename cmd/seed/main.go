// seed carga el catálogo y los locales de demostración en el almacenamiento configurado
// (STORAGE_MODE) y opcionalmente reconstruye el resumen de estadísticas desde el historial.
//
// Uso: go run ./cmd/seed [rebuild-stats]
// No hace nada si el catálogo ya tiene productos.
package main

import (
	"context"
	"fmt"
	"os"

	appanalytics "github.com/Fulbito99/Deposito-Unsa/internal/application/analytics"
	"github.com/Fulbito99/Deposito-Unsa/internal/application/usecase"
	domaininv "github.com/Fulbito99/Deposito-Unsa/internal/domain/inventory"
	"github.com/Fulbito99/Deposito-Unsa/internal/infrastructure/storage"
	"github.com/Fulbito99/Deposito-Unsa/pkg/config"
	"github.com/Fulbito99/Deposito-Unsa/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	if cfg.Storage.Mode == config.StorageLocal {
		fmt.Fprintln(os.Stderr, "STORAGE_MODE=local no persiste datos; use sqlite o cloud")
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx := context.Background()
	backend, err := storage.Open(ctx, cfg, log, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir almacenamiento: %v\n", err)
		os.Exit(1)
	}
	defer backend.Close()

	policy := domaininv.NewExemptionPolicy(cfg.Inventory.ExemptLocales)
	products := usecase.NewProductUseCase(backend.TxRunner, backend.Repos.Products)
	locales := usecase.NewLocaleUseCase(backend.TxRunner, backend.Repos.Locales, policy)

	seeded, err := usecase.SeedDemo(ctx, products, locales)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Seed: %v\n", err)
		os.Exit(1)
	}
	if seeded {
		fmt.Printf("Cargados %d productos y %d locales\n", len(usecase.DemoProducts), len(usecase.DemoLocales))
	} else {
		fmt.Println("El catálogo ya tiene productos; no se cargó nada")
	}

	if len(os.Args) > 1 && os.Args[1] == "rebuild-stats" {
		stats, err := appanalytics.NewRebuildStatsUseCase(backend.TxRunner, nil, log).Rebuild(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Reconstruir estadísticas: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Estadísticas reconstruidas: %d productos, %d destinos\n", len(stats.Distribution), len(stats.Destinations))
	}
}
