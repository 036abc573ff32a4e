package postgres

import (
	"context"

	"github.com/cwrk-planet/practice-service/internal/domain"
	"github.com/cwrk-planet/practice-service/internal/repository/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type TechniqueRepo struct {
	q querier
}

func NewTechniqueRepo(q querier) *TechniqueRepo {
	return &TechniqueRepo{q: q}
}

func (r *TechniqueRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Technique, error) {
	return scanTechnique(r.q.QueryRow(ctx, queries.QueryGetTechnique, id))
}

func (r *TechniqueRepo) GetMany(ctx context.Context, ids ...uuid.UUID) (map[uuid.UUID]domain.Technique, error) {
	out := make(map[uuid.UUID]domain.Technique, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	list, err := r.query(ctx, queries.QueryGetTechniques, ids)
	if err != nil {
		return nil, err
	}
	for _, t := range list {
		out[t.ID] = t
	}
	return out, nil
}

func (r *TechniqueRepo) List(ctx context.Context, name string) ([]domain.Technique, error) {
	return r.query(ctx, queries.QueryListTechniques, name)
}

func (r *TechniqueRepo) query(ctx context.Context, sql string, args ...any) ([]domain.Technique, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	out := make([]domain.Technique, 0, 8)
	for rows.Next() {
		t, err := scanTechnique(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func scanTechnique(row pgx.Row) (*domain.Technique, error) {
	var t domain.Technique
	// parameters: jsonb, pgx раскладывает его в []TechniqueParam сам
	if err := row.Scan(&t.ID, &t.Name, &t.Description, &t.Parameters); err != nil {
		return nil, mapPgError(err)
	}
	return &t, nil
}
