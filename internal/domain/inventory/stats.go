package inventory

import (
	"sort"

	"github.com/Fulbito99/Deposito-Unsa/internal/domain/entity"
)

const (
	// DistributionWriteLimit entradas de distribución que se conservan al escribir.
	DistributionWriteLimit = 15
	// DistributionReadLimit entradas de distribución que se muestran al leer.
	DistributionReadLimit = 8
)

// RecordTransfer suma una transferencia confirmada al resumen: incrementa (o crea) la entrada del
// producto y la del destino, reordena de mayor a menor y recorta la distribución al límite de escritura.
// No deduplica: cada llamada representa una transferencia real.
func RecordTransfer(s *entity.Stats, productName, destinationName string, qty int) {
	i := distributionIndex(s, productName)
	if i >= 0 {
		s.Distribution[i].Total += qty
	} else {
		s.Distribution = append(s.Distribution, entity.DistributionEntry{ProductName: productName, Total: qty})
	}
	sortDistribution(s)
	if len(s.Distribution) > DistributionWriteLimit {
		s.Distribution = s.Distribution[:DistributionWriteLimit]
	}

	j := destinationIndex(s, destinationName)
	if j >= 0 {
		s.Destinations[j].Total += qty
		s.Destinations[j].Count++
	} else {
		s.Destinations = append(s.Destinations, entity.DestinationEntry{DestinationName: destinationName, Total: qty, Count: 1})
	}
	sortDestinations(s)
}

// RetractTransfer descuenta una transferencia revertida. Las entradas que llegan a cero se eliminan;
// un producto que ya había quedado fuera del top no se toca.
func RetractTransfer(s *entity.Stats, productName, destinationName string, qty int) {
	if i := distributionIndex(s, productName); i >= 0 {
		s.Distribution[i].Total -= qty
		if s.Distribution[i].Total <= 0 {
			s.Distribution = append(s.Distribution[:i], s.Distribution[i+1:]...)
		}
		sortDistribution(s)
	}
	if j := destinationIndex(s, destinationName); j >= 0 {
		d := &s.Destinations[j]
		d.Total -= qty
		d.Count--
		if d.Total < 0 {
			d.Total = 0
		}
		if d.Count <= 0 {
			s.Destinations = append(s.Destinations[:j], s.Destinations[j+1:]...)
		}
		sortDestinations(s)
	}
}

// TopDistribution devuelve una copia del resumen con la distribución recortada a n entradas.
func TopDistribution(s *entity.Stats, n int) *entity.Stats {
	out := s.Clone()
	if n >= 0 && len(out.Distribution) > n {
		out.Distribution = out.Distribution[:n]
	}
	return out
}

// BuildStats recalcula el resumen completo a partir del historial (en orden cronológico).
// Suma todo antes de recortar, por lo que corrige cualquier deriva del mantenimiento incremental.
func BuildStats(transfers []*entity.Transfer) *entity.Stats {
	s := &entity.Stats{}
	for _, t := range transfers {
		if i := distributionIndex(s, t.ProductName); i >= 0 {
			s.Distribution[i].Total += t.Quantity
		} else {
			s.Distribution = append(s.Distribution, entity.DistributionEntry{ProductName: t.ProductName, Total: t.Quantity})
		}
		if j := destinationIndex(s, t.DestinationName); j >= 0 {
			s.Destinations[j].Total += t.Quantity
			s.Destinations[j].Count++
		} else {
			s.Destinations = append(s.Destinations, entity.DestinationEntry{DestinationName: t.DestinationName, Total: t.Quantity, Count: 1})
		}
	}
	sortDistribution(s)
	sortDestinations(s)
	if len(s.Distribution) > DistributionWriteLimit {
		s.Distribution = s.Distribution[:DistributionWriteLimit]
	}
	return s
}

func distributionIndex(s *entity.Stats, name string) int {
	for i, d := range s.Distribution {
		if d.ProductName == name {
			return i
		}
	}
	return -1
}

func destinationIndex(s *entity.Stats, name string) int {
	for i, d := range s.Destinations {
		if d.DestinationName == name {
			return i
		}
	}
	return -1
}

// Orden estable: los empates conservan el orden de inserción.
func sortDistribution(s *entity.Stats) {
	sort.SliceStable(s.Distribution, func(a, b int) bool {
		return s.Distribution[a].Total > s.Distribution[b].Total
	})
}

func sortDestinations(s *entity.Stats) {
	sort.SliceStable(s.Destinations, func(a, b int) bool {
		return s.Destinations[a].Total > s.Destinations[b].Total
	})
}
