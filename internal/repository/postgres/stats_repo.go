package postgres

import (
	"context"

	"github.com/cwrk-planet/practice-service/internal/domain"
	"github.com/cwrk-planet/practice-service/internal/repository/queries"
)

type StatsRepo struct {
	q querier
}

func NewStatsRepo(q querier) *StatsRepo {
	return &StatsRepo{q: q}
}

func (r *StatsRepo) SessionTotals(ctx context.Context, userID domain.UserID) (*domain.SessionTotals, error) {
	var t domain.SessionTotals
	err := r.q.QueryRow(ctx, queries.QuerySessionTotals, userID).Scan(
		&t.Total,
		&t.Completed,
		&t.TotalMinutes,
		&t.AverageMinutes,
	)
	if err != nil {
		return nil, mapPgError(err)
	}

	rows, err := r.q.Query(ctx, queries.QuerySessionsByTechnique, userID)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	t.ByTechnique = make([]domain.TechniqueStats, 0, 8)
	for rows.Next() {
		var ts domain.TechniqueStats
		if err := rows.Scan(&ts.Technique, &ts.Sessions, &ts.Minutes); err != nil {
			return nil, err
		}
		t.ByTechnique = append(t.ByTechnique, ts)
	}
	return &t, rows.Err()
}
