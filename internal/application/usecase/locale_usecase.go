package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Fulbito99/Deposito-Unsa/internal/application/dto"
	"github.com/Fulbito99/Deposito-Unsa/internal/application/inventory"
	"github.com/Fulbito99/Deposito-Unsa/internal/domain"
	"github.com/Fulbito99/Deposito-Unsa/internal/domain/entity"
	domaininv "github.com/Fulbito99/Deposito-Unsa/internal/domain/inventory"
	"github.com/Fulbito99/Deposito-Unsa/internal/domain/repository"
)

// LocaleUseCase casos de uso CRUD para locales. El inventario de cada local solo lo modifican
// las transferencias; aquí se gestionan nombre y exención.
type LocaleUseCase struct {
	txRunner inventory.TxRunner
	repo     repository.LocaleRepository
	policy   *domaininv.ExemptionPolicy
	now      func() time.Time
}

// NewLocaleUseCase construye el caso de uso. Sin política se usan los locales exentos por defecto.
func NewLocaleUseCase(txRunner inventory.TxRunner, repo repository.LocaleRepository, policy *domaininv.ExemptionPolicy) *LocaleUseCase {
	if policy == nil {
		policy = domaininv.NewExemptionPolicy(domaininv.DefaultExemptLocales)
	}
	return &LocaleUseCase{txRunner: txRunner, repo: repo, policy: policy, now: time.Now}
}

// Create crea un nuevo local con inventario vacío.
func (uc *LocaleUseCase) Create(ctx context.Context, in dto.CreateLocaleRequest) (*dto.LocaleResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	locale := &entity.Locale{
		ID:        "locale-" + uuid.New().String(),
		Name:      name,
		Exempt:    in.Exempt,
		Inventory: map[string]int{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, locale); err != nil {
		return nil, err
	}
	return uc.toResponse(locale), nil
}

// GetByID obtiene un local por ID.
func (uc *LocaleUseCase) GetByID(ctx context.Context, id string) (*dto.LocaleResponse, error) {
	locale, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if locale == nil {
		return nil, domain.NotFound("local", id)
	}
	return uc.toResponse(locale), nil
}

// Update renombra el local o cambia su flag de exención, sin tocar el inventario.
func (uc *LocaleUseCase) Update(ctx context.Context, id string, in dto.UpdateLocaleRequest) (*dto.LocaleResponse, error) {
	var updated *entity.Locale
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		locale, err := repos.Locales.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if locale == nil {
			return domain.NotFound("local", id)
		}
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return domain.ErrInvalidInput
			}
			locale.Name = name
		}
		if in.Exempt != nil {
			locale.Exempt = *in.Exempt
		}
		locale.UpdatedAt = uc.now()
		if err := repos.Locales.Update(ctx, locale); err != nil {
			return err
		}
		updated = locale
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.toResponse(updated), nil
}

// List lista los locales ordenados por nombre.
func (uc *LocaleUseCase) List(ctx context.Context) (*dto.LocaleListResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LocaleResponse, 0, len(list))
	for _, l := range list {
		items = append(items, *uc.toResponse(l))
	}
	return &dto.LocaleListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: len(items), Total: len(items)},
	}, nil
}

// Delete elimina un local. Las transferencias que lo referencian se conservan con el nombre copiado.
func (uc *LocaleUseCase) Delete(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		locale, err := repos.Locales.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if locale == nil {
			return domain.NotFound("local", id)
		}
		return repos.Locales.Delete(ctx, id)
	})
}

func (uc *LocaleUseCase) toResponse(l *entity.Locale) *dto.LocaleResponse {
	items := make([]dto.InventoryItemResponse, 0, len(l.Inventory))
	for pid, stock := range l.Inventory {
		items = append(items, dto.InventoryItemResponse{ProductID: pid, Stock: stock})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })
	return &dto.LocaleResponse{
		ID:         l.ID,
		Name:       l.Name,
		Exempt:     uc.policy.IsExempt(l),
		ExemptFlag: l.Exempt,
		Inventory:  items,
		CreatedAt:  l.CreatedAt,
		UpdatedAt:  l.UpdatedAt,
	}
}
