package usecase

import (
	"context"
	"fmt"

	"github.com/Fulbito99/Deposito-Unsa/internal/application/dto"
)

// DemoProducts catálogo de demostración.
var DemoProducts = []dto.CreateProductRequest{
	{SKU: "LAP-001", Name: `Laptop Pro 14"`, Category: "Electrónica", MasterStock: 45},
	{SKU: "MOU-005", Name: "Mouse Ergonómico", Category: "Accesorios", MasterStock: 120},
	{SKU: "KEY-012", Name: "Teclado Mecánico RGB", Category: "Accesorios", MasterStock: 80},
	{SKU: "MON-088", Name: `Monitor 27" 4K`, Category: "Electrónica", MasterStock: 30},
	{SKU: "HEA-099", Name: "Auriculares Noise Cancelling", Category: "Audio", MasterStock: 60},
}

// DemoLocales locales de demostración.
var DemoLocales = []string{"El Punto", "La Central", "La Guardia"}

// SeedDemo carga el catálogo y los locales de demostración si no hay productos.
// Devuelve false si el almacenamiento ya tenía datos.
func SeedDemo(ctx context.Context, products *ProductUseCase, locales *LocaleUseCase) (bool, error) {
	existing, err := products.List(ctx)
	if err != nil {
		return false, err
	}
	if len(existing.Items) > 0 {
		return false, nil
	}
	for _, p := range DemoProducts {
		if _, err := products.Create(ctx, p); err != nil {
			return false, fmt.Errorf("crear producto %s: %w", p.SKU, err)
		}
	}
	for _, name := range DemoLocales {
		if _, err := locales.Create(ctx, dto.CreateLocaleRequest{Name: name}); err != nil {
			return false, fmt.Errorf("crear local %s: %w", name, err)
		}
	}
	return true, nil
}
