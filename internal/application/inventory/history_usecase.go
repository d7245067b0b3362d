package inventory

import (
	"context"

	"github.com/Fulbito99/Deposito-Unsa/internal/domain"
	"github.com/Fulbito99/Deposito-Unsa/internal/domain/entity"
	"github.com/Fulbito99/Deposito-Unsa/internal/domain/repository"
)

const (
	DefaultHistoryLimit = 30
	MaxHistoryLimit     = 500
)

// HistoryPage una página del historial; HasMore indica si quedan registros ("cargar más").
type HistoryPage struct {
	Items   []*entity.Transfer
	Limit   int
	Offset  int
	HasMore bool
}

// HistoryUseCase consultas de solo lectura sobre el historial de transferencias.
type HistoryUseCase struct {
	transfers repository.TransferRepository
}

// NewHistoryUseCase construye el caso de uso.
func NewHistoryUseCase(transfers repository.TransferRepository) *HistoryUseCase {
	return &HistoryUseCase{transfers: transfers}
}

// List devuelve una página del historial, de la más reciente a la más antigua.
func (uc *HistoryUseCase) List(ctx context.Context, filter repository.TransferFilter) (*HistoryPage, error) {
	if filter.Offset < 0 {
		return nil, domain.InvalidInput("offset negativo")
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, domain.InvalidInput("la fecha inicial es posterior a la final")
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	// Pedir uno extra para saber si hay más.
	filter.Limit = limit + 1
	items, err := uc.transfers.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	page := &HistoryPage{Limit: limit, Offset: filter.Offset}
	if len(items) > limit {
		items = items[:limit]
		page.HasMore = true
	}
	page.Items = items
	return page, nil
}

// Get obtiene una transferencia por ID.
func (uc *HistoryUseCase) Get(ctx context.Context, id string) (*entity.Transfer, error) {
	t, err := uc.transfers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.NotFound("transferencia", id)
	}
	return t, nil
}
