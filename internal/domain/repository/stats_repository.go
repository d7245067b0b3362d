package repository

import (
	"context"

	"github.com/Fulbito99/Deposito-Unsa/internal/domain/entity"
)

// StatsRepository persiste el resumen agregado (documento único). Get devuelve un resumen vacío si no existe.
type StatsRepository interface {
	Get(ctx context.Context) (*entity.Stats, error)
	Save(ctx context.Context, stats *entity.Stats) error
}

// Repositories agrupa los repositorios de un mismo almacenamiento; dentro de una transacción
// todos quedan atados a ella.
type Repositories struct {
	Products  ProductRepository
	Locales   LocaleRepository
	Transfers TransferRepository
	Stats     StatsRepository
}
