package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/Fulbito99/Deposito-Unsa/internal/domain"
	"github.com/Fulbito99/Deposito-Unsa/internal/domain/entity"
	"github.com/Fulbito99/Deposito-Unsa/internal/domain/repository"
)

var _ repository.StatsRepository = (*StatsRepo)(nil)

// StatsRepo guarda el resumen como documento JSONB en una única fila.
type StatsRepo struct {
	q Querier
}

// NewStatsRepository construye el adaptador. Pasar pool o tx.
func NewStatsRepository(q Querier) *StatsRepo {
	return &StatsRepo{q: q}
}

func (r *StatsRepo) Get(ctx context.Context) (*entity.Stats, error) {
	var raw []byte
	err := r.q.QueryRow(ctx, `SELECT data FROM transfer_stats WHERE id = 1`).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.Stats{}, nil
		}
		return nil, domain.Storage("get stats", err)
	}
	var s entity.Stats
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, domain.Storage("decode stats", err)
	}
	return &s, nil
}

func (r *StatsRepo) Save(ctx context.Context, s *entity.Stats) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return domain.Storage("encode stats", err)
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO transfer_stats (id, data, updated_at) VALUES (1, $1, $2)
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
		raw, s.UpdatedAt,
	)
	if err != nil {
		return domain.Storage("save stats", err)
	}
	return nil
}
