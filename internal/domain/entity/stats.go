package entity

import "time"

// DistributionEntry cantidad acumulada transferida de un producto (por nombre).
type DistributionEntry struct {
	ProductName string `json:"name"`
	Total       int    `json:"value"`
}

// DestinationEntry acumulado por destino: cantidad total y número de transferencias.
type DestinationEntry struct {
	DestinationName string `json:"destino"`
	Total           int    `json:"total"`
	Count           int    `json:"movimientos"`
}

// Stats resumen agregado mantenido de forma incremental. No es autoritativo:
// se puede reconstruir a partir del historial.
type Stats struct {
	Distribution []DistributionEntry `json:"distributionData"`
	Destinations []DestinationEntry  `json:"destinationComparison"`
	UpdatedAt    time.Time           `json:"lastUpdated"`
}

// Clone devuelve una copia independiente.
func (s *Stats) Clone() *Stats {
	if s == nil {
		return &Stats{}
	}
	return &Stats{
		Distribution: append([]DistributionEntry(nil), s.Distribution...),
		Destinations: append([]DestinationEntry(nil), s.Destinations...),
		UpdatedAt:    s.UpdatedAt,
	}
}
