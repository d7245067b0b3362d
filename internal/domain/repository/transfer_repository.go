package repository

import (
	"context"
	"time"

	"github.com/Fulbito99/Deposito-Unsa/internal/domain/entity"
)

// TransferFilter criterios del historial. Limit 0 devuelve todos los registros.
type TransferFilter struct {
	From          *time.Time // inclusive
	To            *time.Time // inclusive
	DestinationID string
	ProductName   string // subcadena, sin distinguir mayúsculas
	Limit         int
	Offset        int
}

// TransferRepository define el puerto de persistencia del historial de transferencias.
// List ordena por Timestamp descendente.
type TransferRepository interface {
	Create(ctx context.Context, transfer *entity.Transfer) error
	GetByID(ctx context.Context, id string) (*entity.Transfer, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter TransferFilter) ([]*entity.Transfer, error)
}
