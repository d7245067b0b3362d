package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/Fulbito99/Deposito-Unsa/internal/domain"
	"github.com/Fulbito99/Deposito-Unsa/internal/domain/entity"
	"github.com/Fulbito99/Deposito-Unsa/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo historial de transferencias sobre PostgreSQL. Los holders se guardan en su forma textual.
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx.
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

const transferColumns = `id, date_label, ts, product_id, product_name, quantity, source, source_name, destination, destination_name`

// Create inserta el registro.
func (r *TransferRepo) Create(ctx context.Context, t *entity.Transfer) error {
	_, err := r.q.Exec(ctx, `INSERT INTO transfers (`+transferColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		t.ID, t.Date, t.Timestamp, t.ProductID, t.ProductName, t.Quantity,
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

// GetByID (nil, nil) si no existe.
func (r *TransferRepo) GetByID(ctx context.Context, id string) (*entity.Transfer, error) {
	t, err := scanTransfer(r.q.QueryRow(ctx, `SELECT `+transferColumns+` FROM transfers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.Storage("get transfer", err)
	}
	return t, nil
}

// Delete elimina el registro (sin efecto si no existe).
func (r *TransferRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM transfers WHERE id = $1`, id); err != nil {
		return domain.Storage("delete transfer", err)
	}
	return nil
}

// List filtra y pagina el historial, de la más reciente a la más antigua.
func (r *TransferRepo) List(ctx context.Context, f repository.TransferFilter) ([]*entity.Transfer, error) {
	query, args := buildTransferQuery(f)
	rows, err := r.q.Query(ctx, query, args...)
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

// buildTransferQuery arma el SELECT con placeholders numerados según los filtros presentes.
func buildTransferQuery(f repository.TransferFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.From != nil {
		add("ts >= $%d", *f.From)
	}
	if f.To != nil {
		add("ts <= $%d", *f.To)
	}
	if f.DestinationID != "" {
		add("destination = $%d", f.DestinationID)
	}
	if f.ProductName != "" {
		add("strpos(lower(product_name), lower($%d)) > 0", f.ProductName)
	}

	var b strings.Builder
	b.WriteString(`SELECT ` + transferColumns + ` FROM transfers`)
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY ts DESC, id DESC")
	if f.Limit > 0 {
		args = append(args, f.Limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		fmt.Fprintf(&b, " OFFSET $%d", len(args))
	}
	return b.String(), args
}

func scanTransfer(row pgx.Row) (*entity.Transfer, error) {
	var (
		t                   entity.Transfer
		source, destination string
	)
	err := row.Scan(&t.ID, &t.Date, &t.Timestamp, &t.ProductID, &t.ProductName, &t.Quantity,
		&source, &t.SourceName, &destination, &t.DestinationName)
	if err != nil {
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
