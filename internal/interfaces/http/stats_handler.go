package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/Fulbito99/Deposito-Unsa/internal/application/analytics"
	"github.com/Fulbito99/Deposito-Unsa/internal/application/dto"
)

// StatsHandler maneja los endpoints de estadísticas del tablero.
type StatsHandler struct {
	dashboard *appanalytics.DashboardUseCase
	rebuild   *appanalytics.RebuildStatsUseCase
}

// NewStatsHandler construye el handler.
func NewStatsHandler(dashboard *appanalytics.DashboardUseCase, rebuild *appanalytics.RebuildStatsUseCase) *StatsHandler {
	return &StatsHandler{dashboard: dashboard, rebuild: rebuild}
}

// Get devuelve la distribución (top 8), la comparación de destinos y los totales de stock.
// GET /api/stats
func (h *StatsHandler) Get(c *fiber.Ctx) error {
	out, err := h.dashboard.GetStats(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Rebuild recalcula el resumen recorriendo todo el historial.
// POST /api/stats/rebuild
func (h *StatsHandler) Rebuild(c *fiber.Ctx) error {
	s, err := h.rebuild.Rebuild(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	out := dto.DashboardStatsDTO{
		DistributionData:      make([]dto.DistributionItemDTO, 0, len(s.Distribution)),
		DestinationComparison: make([]dto.DestinationComparisonDTO, 0, len(s.Destinations)),
	}
	for _, d := range s.Distribution {
		out.DistributionData = append(out.DistributionData, dto.DistributionItemDTO{Name: d.ProductName, Value: d.Total})
	}
	for _, d := range s.Destinations {
		out.DestinationComparison = append(out.DestinationComparison, dto.DestinationComparisonDTO{
			Destino: d.DestinationName, Total: d.Total, Movimientos: d.Count,
		})
	}
	if !s.UpdatedAt.IsZero() {
		ts := s.UpdatedAt
		out.LastUpdated = &ts
	}
	return c.JSON(out)
}
