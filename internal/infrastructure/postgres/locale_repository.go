package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/Fulbito99/Deposito-Unsa/internal/domain"
	"github.com/Fulbito99/Deposito-Unsa/internal/domain/entity"
	"github.com/Fulbito99/Deposito-Unsa/internal/domain/repository"
)

var _ repository.LocaleRepository = (*LocaleRepo)(nil)

// LocaleRepo persiste locales y su inventario (tabla locale_stock, una fila por producto).
type LocaleRepo struct {
	q Querier
}

// NewLocaleRepository construye el adaptador. Pasar pool o tx.
func NewLocaleRepository(q Querier) *LocaleRepo {
	return &LocaleRepo{q: q}
}

// Create inserta el local y sus entradas de inventario.
func (r *LocaleRepo) Create(ctx context.Context, l *entity.Locale) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO locales (id, name, exempt, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		l.ID, l.Name, l.Exempt, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return domain.Storage("insert locale", err)
	}
	return r.insertInventory(ctx, l)
}

// GetByID devuelve el local con su inventario. (nil, nil) si no existe.
func (r *LocaleRepo) GetByID(ctx context.Context, id string) (*entity.Locale, error) {
	var l entity.Locale
	err := r.q.QueryRow(ctx,
		`SELECT id, name, exempt, created_at, updated_at FROM locales WHERE id = $1`, id,
	).Scan(&l.ID, &l.Name, &l.Exempt, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.Storage("get locale", err)
	}

	rows, err := r.q.Query(ctx, `SELECT product_id, quantity FROM locale_stock WHERE locale_id = $1`, id)
	if err != nil {
		return nil, domain.Storage("get locale stock", err)
	}
	defer rows.Close()
	l.Inventory = make(map[string]int)
	for rows.Next() {
		var productID string
		var qty int
		if err := rows.Scan(&productID, &qty); err != nil {
			return nil, domain.Storage("scan locale stock", err)
		}
		l.Inventory[productID] = qty
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Storage("get locale stock", err)
	}
	return &l, nil
}

// Update reemplaza nombre, exención e inventario completo.
func (r *LocaleRepo) Update(ctx context.Context, l *entity.Locale) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE locales SET name = $2, exempt = $3, updated_at = $4 WHERE id = $1`,
		l.ID, l.Name, l.Exempt, l.UpdatedAt,
	)
	if err != nil {
		return domain.Storage("update locale", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("local", l.ID)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM locale_stock WHERE locale_id = $1`, l.ID); err != nil {
		return domain.Storage("reset locale stock", err)
	}
	return r.insertInventory(ctx, l)
}

// List devuelve todos los locales ordenados por nombre, con inventario.
func (r *LocaleRepo) List(ctx context.Context) ([]*entity.Locale, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, exempt, created_at, updated_at FROM locales ORDER BY name, id`)
	if err != nil {
		return nil, domain.Storage("list locales", err)
	}
	out := make([]*entity.Locale, 0)
	byID := make(map[string]*entity.Locale)
	for rows.Next() {
		l := &entity.Locale{Inventory: make(map[string]int)}
		if err := rows.Scan(&l.ID, &l.Name, &l.Exempt, &l.CreatedAt, &l.UpdatedAt); err != nil {
			rows.Close()
			return nil, domain.Storage("scan locale", err)
		}
		out = append(out, l)
		byID[l.ID] = l
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, domain.Storage("list locales", err)
	}

	stock, err := r.q.Query(ctx, `SELECT locale_id, product_id, quantity FROM locale_stock`)
	if err != nil {
		return nil, domain.Storage("list locale stock", err)
	}
	defer stock.Close()
	for stock.Next() {
		var localeID, productID string
		var qty int
		if err := stock.Scan(&localeID, &productID, &qty); err != nil {
			return nil, domain.Storage("scan locale stock", err)
		}
		if l, ok := byID[localeID]; ok {
			l.Inventory[productID] = qty
		}
	}
	if err := stock.Err(); err != nil {
		return nil, domain.Storage("list locale stock", err)
	}
	return out, nil
}

// Delete elimina el local; su inventario cae por ON DELETE CASCADE.
func (r *LocaleRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM locales WHERE id = $1`, id); err != nil {
		return domain.Storage("delete locale", err)
	}
	return nil
}

func (r *LocaleRepo) insertInventory(ctx context.Context, l *entity.Locale) error {
	if len(l.Inventory) == 0 {
		return nil
	}
	productIDs := make([]string, 0, len(l.Inventory))
	quantities := make([]int64, 0, len(l.Inventory))
	for id, qty := range l.Inventory {
		productIDs = append(productIDs, id)
		quantities = append(quantities, int64(qty))
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO locale_stock (locale_id, product_id, quantity)
		SELECT $1, u.product_id, u.quantity
		FROM unnest($2::text[], $3::bigint[]) AS u(product_id, quantity)`,
		l.ID, productIDs, quantities,
	)
	if err != nil {
		return domain.Storage("insert locale stock", err)
	}
	return nil
}
