package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Fulbito99/Deposito-Unsa/internal/domain"
	"github.com/Fulbito99/Deposito-Unsa/internal/domain/entity"
	"github.com/Fulbito99/Deposito-Unsa/internal/domain/repository"
)

// ── Productos ────────────────────────────────────────────────────────────────

// ProductRepo ProductRepository sobre SQLite. Los SKU adicionales se guardan como arreglo JSON.
type ProductRepo struct{ q queryer }

const productColumns = `id, sku, name, category, expiration_date, additional_skus, master_stock, created_at, updated_at`

func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	args, err := productArgs(p)
	if err != nil {
		return err
	}
	_, err = r.q.ExecContext(ctx, `INSERT INTO products (`+productColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return domain.Storage("insert product", err)
	}
	return nil
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
}

func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE upper(sku) = upper(?)`, sku)
}

func (r *ProductRepo) getOne(ctx context.Context, query string, arg any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.Storage("get product", err)
	}
	return p, nil
}

func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	args, err := productArgs(p)
	if err != nil {
		return err
	}
	// args sigue el orden de productColumns.
	res, err := r.q.ExecContext(ctx, `
		UPDATE products
		SET sku = ?, name = ?, category = ?, expiration_date = ?, additional_skus = ?, master_stock = ?, updated_at = ?
		WHERE id = ?`,
		args[1], args[2], args[3], args[4], args[5], args[6], args[8], args[0],
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return domain.Storage("update product", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFound("producto", p.ID)
	}
	return nil
}

func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+productColumns+` FROM products ORDER BY name, id`)
	if err != nil {
		return nil, domain.Storage("list products", err)
	}
	defer rows.Close()
	out := make([]*entity.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, domain.Storage("scan product", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Storage("list products", err)
	}
	return out, nil
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id); err != nil {
		return domain.Storage("delete product", err)
	}
	return nil
}

func productArgs(p *entity.Product) ([]any, error) {
	codes := p.AdditionalSKUs
	if codes == nil {
		codes = []string{}
	}
	raw, err := json.Marshal(codes)
	if err != nil {
		return nil, domain.Storage("encode additional skus", err)
	}
	var exp any
	if p.ExpirationDate != nil {
		exp = p.ExpirationDate.Format(dateLayout)
	}
	return []any{p.ID, p.SKU, p.Name, p.Category, exp, string(raw), p.MasterStock, formatTS(p.CreatedAt), formatTS(p.UpdatedAt)}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*entity.Product, error) {
	var (
		p                    entity.Product
		exp                  sql.NullString
		codes                string
		createdAt, updatedAt string
	)
	if err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Category, &exp, &codes, &p.MasterStock, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if exp.Valid {
		d, err := time.Parse(dateLayout, exp.String)
		if err != nil {
			return nil, fmt.Errorf("vencimiento de %s: %w", p.ID, err)
		}
		p.ExpirationDate = &d
	}
	if err := json.Unmarshal([]byte(codes), &p.AdditionalSKUs); err != nil {
		return nil, fmt.Errorf("skus adicionales de %s: %w", p.ID, err)
	}
	var err error
	if p.CreatedAt, err = parseTS(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTS(updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// ── Locales ──────────────────────────────────────────────────────────────────

// LocaleRepo LocaleRepository sobre SQLite; el inventario vive en locale_stock.
type LocaleRepo struct{ q queryer }

func (r *LocaleRepo) Create(ctx context.Context, l *entity.Locale) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO locales (id, name, exempt, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		l.ID, l.Name, l.Exempt, formatTS(l.CreatedAt), formatTS(l.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return domain.Storage("insert locale", err)
	}
	return r.insertInventory(ctx, l)
}

func (r *LocaleRepo) GetByID(ctx context.Context, id string) (*entity.Locale, error) {
	l, err := scanLocale(r.q.QueryRowContext(ctx,
		`SELECT id, name, exempt, created_at, updated_at FROM locales WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.Storage("get locale", err)
	}
	if err := r.loadInventory(ctx, map[string]*entity.Locale{l.ID: l}, `WHERE locale_id = ?`, id); err != nil {
		return nil, err
	}
	return l, nil
}

func (r *LocaleRepo) Update(ctx context.Context, l *entity.Locale) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE locales SET name = ?, exempt = ?, updated_at = ? WHERE id = ?`,
		l.Name, l.Exempt, formatTS(l.UpdatedAt), l.ID,
	)
	if err != nil {
		return domain.Storage("update locale", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFound("local", l.ID)
	}
	if _, err := r.q.ExecContext(ctx, `DELETE FROM locale_stock WHERE locale_id = ?`, l.ID); err != nil {
		return domain.Storage("reset locale stock", err)
	}
	return r.insertInventory(ctx, l)
}

func (r *LocaleRepo) List(ctx context.Context) ([]*entity.Locale, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id, name, exempt, created_at, updated_at FROM locales ORDER BY name, id`)
	if err != nil {
		return nil, domain.Storage("list locales", err)
	}
	out := make([]*entity.Locale, 0)
	byID := make(map[string]*entity.Locale)
	for rows.Next() {
		l, err := scanLocale(rows)
		if err != nil {
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
	if err := r.loadInventory(ctx, byID, ""); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *LocaleRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM locales WHERE id = ?`, id); err != nil {
		return domain.Storage("delete locale", err)
	}
	return nil
}

func (r *LocaleRepo) insertInventory(ctx context.Context, l *entity.Locale) error {
	for productID, qty := range l.Inventory {
		if _, err := r.q.ExecContext(ctx,
			`INSERT INTO locale_stock (locale_id, product_id, quantity) VALUES (?, ?, ?)`,
			l.ID, productID, qty,
		); err != nil {
			return domain.Storage("insert locale stock", err)
		}
	}
	return nil
}

func (r *LocaleRepo) loadInventory(ctx context.Context, byID map[string]*entity.Locale, where string, args ...any) error {
	rows, err := r.q.QueryContext(ctx, `SELECT locale_id, product_id, quantity FROM locale_stock `+where, args...)
	if err != nil {
		return domain.Storage("get locale stock", err)
	}
	defer rows.Close()
	for rows.Next() {
		var localeID, productID string
		var qty int
		if err := rows.Scan(&localeID, &productID, &qty); err != nil {
			return domain.Storage("scan locale stock", err)
		}
		if l, ok := byID[localeID]; ok {
			l.Inventory[productID] = qty
		}
	}
	if err := rows.Err(); err != nil {
		return domain.Storage("get locale stock", err)
	}
	return nil
}

func scanLocale(row rowScanner) (*entity.Locale, error) {
	var (
		l                    = &entity.Locale{Inventory: make(map[string]int)}
		createdAt, updatedAt string
	)
	if err := row.Scan(&l.ID, &l.Name, &l.Exempt, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	if l.CreatedAt, err = parseTS(createdAt); err != nil {
		return nil, err
	}
	if l.UpdatedAt, err = parseTS(updatedAt); err != nil {
		return nil, err
	}
	return l, nil
}

// ── Transferencias ───────────────────────────────────────────────────────────

// TransferRepo TransferRepository sobre SQLite.
type TransferRepo struct{ q queryer }

const transferColumns = `id, date_label, ts, product_id, product_name, quantity, source, source_name, destination, destination_name`

func (r *TransferRepo) Create(ctx context.Context, t *entity.Transfer) error {
	_, err := r.q.ExecContext(ctx, `INSERT INTO transfers (`+transferColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Date, formatTS(t.Timestamp), t.ProductID, t.ProductName, t.Quantity,
		t.Source.String(), t.SourceName, t.Destination.String(), t.DestinationName,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return domain.Storage("insert transfer", err)
	}
	return nil
}

func (r *TransferRepo) GetByID(ctx context.Context, id string) (*entity.Transfer, error) {
	t, err := scanTransfer(r.q.QueryRowContext(ctx, `SELECT `+transferColumns+` FROM transfers WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.Storage("get transfer", err)
	}
	return t, nil
}

func (r *TransferRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM transfers WHERE id = ?`, id); err != nil {
		return domain.Storage("delete transfer", err)
	}
	return nil
}

func (r *TransferRepo) List(ctx context.Context, f repository.TransferFilter) ([]*entity.Transfer, error) {
	var (
		where []string
		args  []any
	)
	if f.From != nil {
		where, args = append(where, "ts >= ?"), append(args, formatTS(*f.From))
	}
	if f.To != nil {
		where, args = append(where, "ts <= ?"), append(args, formatTS(*f.To))
	}
	if f.DestinationID != "" {
		where, args = append(where, "destination = ?"), append(args, f.DestinationID)
	}
	if f.ProductName != "" {
		where, args = append(where, "instr(lower(product_name), lower(?)) > 0"), append(args, f.ProductName)
	}
	query := `SELECT ` + transferColumns + ` FROM transfers`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY ts DESC, id DESC"
	if f.Limit > 0 || f.Offset > 0 {
		limit := f.Limit
		if limit <= 0 {
			limit = -1
		}
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, f.Offset)
	}

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.Storage("list transfers", err)
	}
	defer rows.Close()
	out := make([]*entity.Transfer, 0)
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, domain.Storage("scan transfer", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Storage("list transfers", err)
	}
	return out, nil
}

func scanTransfer(row rowScanner) (*entity.Transfer, error) {
	var (
		t                       entity.Transfer
		ts, source, destination string
	)
	if err := row.Scan(&t.ID, &t.Date, &ts, &t.ProductID, &t.ProductName, &t.Quantity,
		&source, &t.SourceName, &destination, &t.DestinationName); err != nil {
		return nil, err
	}
	var err error
	if t.Timestamp, err = parseTS(ts); err != nil {
		return nil, err
	}
	if t.Source, err = entity.ParseHolder(source); err != nil {
		return nil, fmt.Errorf("origen de %s: %w", t.ID, err)
	}
	if t.Destination, err = entity.ParseHolder(destination); err != nil {
		return nil, fmt.Errorf("destino de %s: %w", t.ID, err)
	}
	return &t, nil
}

// ── Estadísticas ─────────────────────────────────────────────────────────────

// StatsRepo documento único serializado como JSON.
type StatsRepo struct{ q queryer }

func (r *StatsRepo) Get(ctx context.Context) (*entity.Stats, error) {
	var raw string
	err := r.q.QueryRowContext(ctx, `SELECT data FROM transfer_stats WHERE id = 1`).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &entity.Stats{}, nil
		}
		return nil, domain.Storage("get stats", err)
	}
	var s entity.Stats
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, domain.Storage("decode stats", err)
	}
	return &s, nil
}

func (r *StatsRepo) Save(ctx context.Context, s *entity.Stats) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return domain.Storage("encode stats", err)
	}
	_, err = r.q.ExecContext(ctx, `
		INSERT INTO transfer_stats (id, data, updated_at) VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		string(raw), formatTS(s.UpdatedAt),
	)
	if err != nil {
		return domain.Storage("save stats", err)
	}
	return nil
}
