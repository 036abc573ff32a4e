package postgres

import (
	"context"

	"github.com/cwrk-planet/practice-service/internal/domain"
	"github.com/cwrk-planet/practice-service/internal/repository"
	"github.com/cwrk-planet/practice-service/internal/repository/queries"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repos struct {
	q querier
}

func (r repos) Rooms() repository.RoomRepository           { return NewRoomRepo(r.q) }
func (r repos) Members() repository.MemberRepository       { return NewMemberRepo(r.q) }
func (r repos) Sessions() repository.SessionRepository     { return NewSessionRepo(r.q) }
func (r repos) Techniques() repository.TechniqueRepository { return NewTechniqueRepo(r.q) }
func (r repos) Stats() repository.StatsRepository          { return NewStatsRepo(r.q) }

// Store: хранилище поверх пула; составные операции идут через RunInTx.
type Store struct {
	repos
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{repos: repos{q: pool}, pool: pool}
}

// RunInTx открывает транзакцию, коммитит при nil от fn и откатывает при любой ошибке.
func (s *Store) RunInTx(ctx context.Context, fn func(tx repository.Repos) error) error {
	return pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		return fn(repos{q: tx})
	})
}

// SeedTechniques загружает каталог техник из конфига (upsert по id).
func (s *Store) SeedTechniques(ctx context.Context, items []domain.Technique) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		for _, t := range items {
			params := t.Parameters
			if params == nil {
				params = []domain.TechniqueParam{}
			}
			if _, err := tx.Exec(ctx, queries.QueryUpsertTechnique, t.ID, t.Name, t.Description, params); err != nil {
				return mapPgError(err)
			}
		}
		return nil
	})
}
