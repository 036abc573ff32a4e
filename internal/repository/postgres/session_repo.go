package postgres

import (
	"context"

	"github.com/cwrk-planet/practice-service/internal/domain"
	"github.com/cwrk-planet/practice-service/internal/repository"
	"github.com/cwrk-planet/practice-service/internal/repository/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type SessionRepo struct {
	q querier
}

func NewSessionRepo(q querier) *SessionRepo {
	return &SessionRepo{q: q}
}

// Create: вторая сессия EnEjecucion упирается в частичный уникальный индекс
// sessions_one_running_per_user и возвращается как ErrAlreadyExists.
func (r *SessionRepo) Create(ctx context.Context, s *domain.Session) error {
	_, err := r.q.Exec(ctx, queries.QueryCreateSession,
		s.ID,
		s.UserID,
		s.TechniqueID,
		s.Start,
		s.End,
		s.DurationMinutes,
		s.IsGroup,
		s.State,
	)
	if err != nil {
		return mapPgError(err)
	}
	return nil
}

func (r *SessionRepo) Get(ctx context.Context, userID domain.UserID, id uuid.UUID) (*domain.Session, error) {
	return scanSession(r.q.QueryRow(ctx, queries.QueryGetSession, id, userID))
}

func (r *SessionRepo) GetForUpdate(ctx context.Context, userID domain.UserID, id uuid.UUID) (*domain.Session, error) {
	return scanSession(r.q.QueryRow(ctx, queries.QueryGetSessionForUpdate, id, userID))
}

func (r *SessionRepo) HasRunning(ctx context.Context, userID domain.UserID) (bool, error) {
	var exists bool
	if err := r.q.QueryRow(ctx, queries.QueryHasRunningSession, userID).Scan(&exists); err != nil {
		return false, mapPgError(err)
	}
	return exists, nil
}

func (r *SessionRepo) List(ctx context.Context, userID domain.UserID, f domain.SessionFilter) ([]domain.Session, error) {
	sql := queries.QueryListSessionsBase
	args := []any{userID}
	add := func(cond string, v any) {
		args = append(args, v)
		sql += " AND " + cond + " $" + itoa(len(args))
	}

	if f.TechniqueID != nil {
		add("technique_id =", *f.TechniqueID)
	}
	if f.State != nil {
		add("state =", *f.State)
	}
	if f.IsGroup != nil {
		add("is_group =", *f.IsGroup)
	}
	if f.From != nil {
		add("started_at >=", *f.From)
	}
	if f.To != nil {
		add("started_at <", *f.To)
	}
	sql += " ORDER BY started_at DESC, id;"

	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	out := make([]domain.Session, 0, 16)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func (r *SessionRepo) Update(ctx context.Context, s *domain.Session) error {
	tag, err := r.q.Exec(ctx, queries.QueryUpdateSession, s.ID, s.End, s.DurationMinutes, s.State)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *SessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.q.Exec(ctx, queries.QueryDeleteSession, id)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *SessionRepo) AddParameters(ctx context.Context, sessionID uuid.UUID, params []domain.ParameterInput) error {
	if len(params) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, p := range params {
		batch.Queue(queries.QueryInsertParameter, sessionID, p.Code, p.Quantity)
	}
	if err := r.q.SendBatch(ctx, batch).Close(); err != nil {
		return mapPgError(err)
	}
	return nil
}

func (r *SessionRepo) DeleteParameters(ctx context.Context, sessionID uuid.UUID) error {
	if _, err := r.q.Exec(ctx, queries.QueryDeleteParameters, sessionID); err != nil {
		return mapPgError(err)
	}
	return nil
}

func (r *SessionRepo) Parameters(ctx context.Context, sessionIDs ...uuid.UUID) (map[uuid.UUID][]domain.Parameter, error) {
	out := make(map[uuid.UUID][]domain.Parameter, len(sessionIDs))
	if len(sessionIDs) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx, queries.QueryListParameters, sessionIDs)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.Parameter
		if err := rows.Scan(&p.SessionID, &p.Code, &p.Quantity); err != nil {
			return nil, err
		}
		out[p.SessionID] = append(out[p.SessionID], p)
	}
	return out, rows.Err()
}

func (r *SessionRepo) AddRoomLink(ctx context.Context, sessionID, roomID uuid.UUID) error {
	if _, err := r.q.Exec(ctx, queries.QueryInsertRoomLink, sessionID, roomID); err != nil {
		return mapPgError(err)
	}
	return nil
}

func (r *SessionRepo) DeleteRoomLinks(ctx context.Context, sessionID uuid.UUID) error {
	if _, err := r.q.Exec(ctx, queries.QueryDeleteRoomLinks, sessionID); err != nil {
		return mapPgError(err)
	}
	return nil
}

func (r *SessionRepo) LinkedRooms(ctx context.Context, sessionID uuid.UUID) ([]domain.Room, error) {
	return queryRooms(ctx, r.q, queries.QueryLinkedRooms, sessionID)
}

func scanSession(row pgx.Row) (*domain.Session, error) {
	var s domain.Session
	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.TechniqueID,
		&s.Start,
		&s.End,
		&s.DurationMinutes,
		&s.IsGroup,
		&s.State,
	)
	if err != nil {
		return nil, mapPgError(err)
	}
	return &s, nil
}
