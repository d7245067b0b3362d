package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Fulbito99/Deposito-Unsa/internal/application/dto"
	"github.com/Fulbito99/Deposito-Unsa/internal/application/inventory"
	"github.com/Fulbito99/Deposito-Unsa/internal/domain"
	"github.com/Fulbito99/Deposito-Unsa/internal/domain/entity"
	"github.com/Fulbito99/Deposito-Unsa/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// ProductUseCase casos de uso del catálogo de productos. MasterStock solo se fija al crear;
// después lo manejan las transferencias. Las escrituras van en transacción para no pisar
// saldos confirmados en paralelo.
type ProductUseCase struct {
	txRunner inventory.TxRunner
	repo     repository.ProductRepository
	now      func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(txRunner inventory.TxRunner, repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{txRunner: txRunner, repo: repo, now: time.Now}
}

// Create crea un nuevo producto.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	sku := normalizeSKU(in.SKU)
	if sku == "" || strings.TrimSpace(in.Name) == "" || in.MasterStock < 0 || in.MasterStock > entity.MaxStock {
		return nil, domain.ErrInvalidInput
	}
	extras, err := normalizeAdditionalSKUs(sku, in.AdditionalSKUs)
	if err != nil {
		return nil, err
	}
	exp, err := parseDate(in.ExpirationDate)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	product := &entity.Product{
		ID:             uuid.New().String(),
		SKU:            sku,
		Name:           strings.TrimSpace(in.Name),
		Category:       strings.TrimSpace(in.Category),
		ExpirationDate: exp,
		AdditionalSKUs: extras,
		MasterStock:    in.MasterStock,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	err = uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if err := ensureCodesFree(ctx, repos.Products, product); err != nil {
			return err
		}
		return repos.Products.Create(ctx, product)
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NotFound("producto", id)
	}
	return toProductResponse(product), nil
}

// Lookup busca el producto cuyo SKU principal o alguno de los adicionales coincide con el código escaneado.
func (uc *ProductUseCase) Lookup(ctx context.Context, code string) (*dto.ProductResponse, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		if p.MatchesCode(code) {
			return toProductResponse(p), nil
		}
	}
	return nil, domain.NotFound("producto", code)
}

// Update actualiza un producto. No permite modificar MasterStock.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	var updated *entity.Product
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		product, err := repos.Products.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.NotFound("producto", id)
		}
		if in.SKU != nil {
			product.SKU = normalizeSKU(*in.SKU)
			if product.SKU == "" {
				return domain.ErrInvalidInput
			}
		}
		if in.Name != nil {
			if strings.TrimSpace(*in.Name) == "" {
				return domain.ErrInvalidInput
			}
			product.Name = strings.TrimSpace(*in.Name)
		}
		if in.Category != nil {
			product.Category = strings.TrimSpace(*in.Category)
		}
		if in.ExpirationDate != nil {
			if product.ExpirationDate, err = parseDate(*in.ExpirationDate); err != nil {
				return err
			}
		}
		extras := product.AdditionalSKUs
		if in.AdditionalSKUs != nil {
			extras = *in.AdditionalSKUs
		}
		if product.AdditionalSKUs, err = normalizeAdditionalSKUs(product.SKU, extras); err != nil {
			return err
		}
		if err := ensureCodesFree(ctx, repos.Products, product); err != nil {
			return err
		}
		product.UpdatedAt = uc.now()
		if err := repos.Products.Update(ctx, product); err != nil {
			return err
		}
		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(updated), nil
}

// List lista todos los productos ordenados por nombre.
func (uc *ProductUseCase) List(ctx context.Context) (*dto.ProductListResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: len(items), Total: len(items)},
	}, nil
}

// Delete elimina un producto. El historial conserva el nombre copiado en cada transferencia.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		product, err := repos.Products.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.NotFound("producto", id)
		}
		return repos.Products.Delete(ctx, id)
	})
}

func normalizeSKU(s string) string {
	return cases.Upper(language.Und).String(strings.TrimSpace(s))
}

// normalizeAdditionalSKUs pasa a mayúsculas, descarta vacíos y rechaza colisiones con el SKU
// principal o entre sí.
func normalizeAdditionalSKUs(primary string, raw []string) ([]string, error) {
	seen := map[string]struct{}{primary: {}}
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		code := normalizeSKU(r)
		if code == "" {
			continue
		}
		if _, dup := seen[code]; dup {
			return nil, domain.InvalidInput("código adicional repetido: " + code)
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out, nil
}

// ensureCodesFree verifica que ningún código del producto pertenezca a otro producto del catálogo.
func ensureCodesFree(ctx context.Context, repo repository.ProductRepository, product *entity.Product) error {
	others, err := repo.List(ctx)
	if err != nil {
		return err
	}
	for _, other := range others {
		if other.ID == product.ID {
			continue
		}
		for _, code := range product.Codes() {
			if other.MatchesCode(code) {
				return domain.ErrDuplicate
			}
		}
	}
	return nil
}

func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, domain.InvalidInput("fecha inválida, se espera YYYY-MM-DD")
	}
	return &d, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	out := &dto.ProductResponse{
		ID:             p.ID,
		SKU:            p.SKU,
		Name:           p.Name,
		Category:       p.Category,
		AdditionalSKUs: append([]string{}, p.AdditionalSKUs...),
		MasterStock:    p.MasterStock,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if p.ExpirationDate != nil {
		out.ExpirationDate = p.ExpirationDate.Format(dateLayout)
	}
	return out
}
