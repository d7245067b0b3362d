package repository

import (
	"context"

	"github.com/Fulbito99/Deposito-Unsa/internal/domain/entity"
)

// LocaleRepository define el puerto de persistencia para Locale, incluido su inventario.
// Update reemplaza nombre, flag de exención e inventario completo.
type LocaleRepository interface {
	Create(ctx context.Context, locale *entity.Locale) error
	GetByID(ctx context.Context, id string) (*entity.Locale, error)
	Update(ctx context.Context, locale *entity.Locale) error
	List(ctx context.Context) ([]*entity.Locale, error)
	Delete(ctx context.Context, id string) error
}
