package dto

import "time"

// DistributionItemDTO cantidad transferida acumulada por producto.
type DistributionItemDTO struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// DestinationComparisonDTO acumulado por destino.
type DestinationComparisonDTO struct {
	Destino     string `json:"destino"`
	Total       int    `json:"total"`
	Movimientos int    `json:"movimientos"`
}

// StockTotalsDTO unidades en el depósito y en los locales.
type StockTotalsDTO struct {
	Products     int `json:"products"`
	Locales      int `json:"locales"`
	DepositUnits int `json:"deposit_units"`
	LocaleUnits  int `json:"locale_units"`
}

// DashboardStatsDTO respuesta de GET /api/stats.
// La distribución viene recortada al top de lectura; la comparación de destinos completa.
type DashboardStatsDTO struct {
	DistributionData      []DistributionItemDTO      `json:"distributionData"`
	DestinationComparison []DestinationComparisonDTO `json:"destinationComparison"`
	Totals                StockTotalsDTO             `json:"totals"`
	LastUpdated           *time.Time                 `json:"lastUpdated,omitempty"`
}
