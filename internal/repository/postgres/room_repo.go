package postgres

import (
	"context"

	"github.com/cwrk-planet/practice-service/internal/domain"
	"github.com/cwrk-planet/practice-service/internal/repository"
	"github.com/cwrk-planet/practice-service/internal/repository/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type RoomRepo struct {
	q querier
}

func NewRoomRepo(q querier) *RoomRepo {
	return &RoomRepo{q: q}
}

func (r *RoomRepo) Create(ctx context.Context, room *domain.Room) error {
	err := r.q.QueryRow(ctx, queries.QueryCreateRoom,
		room.ID,
		room.Name,
		room.Description,
		room.MaxParticipants,
		room.IsPrivate,
		room.AccessCode,
	).Scan(&room.CreatedAt)
	if err != nil {
		return mapPgError(err)
	}
	return nil
}

func (r *RoomRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Room, error) {
	return scanRoom(r.q.QueryRow(ctx, queries.QueryGetRoom, id))
}

func (r *RoomRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Room, error) {
	return scanRoom(r.q.QueryRow(ctx, queries.QueryGetRoomForUpdate, id))
}

func (r *RoomRepo) Update(ctx context.Context, room *domain.Room) error {
	tag, err := r.q.Exec(ctx, queries.QueryUpdateRoom,
		room.ID,
		room.Name,
		room.Description,
		room.MaxParticipants,
		room.IsPrivate,
		room.AccessCode,
	)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *RoomRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.q.Exec(ctx, queries.QueryDeleteRoom, id)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *RoomRepo) ListByMember(ctx context.Context, userID domain.UserID) ([]domain.Room, error) {
	return queryRooms(ctx, r.q, queries.QueryListRoomsByMember, userID)
}

func (r *RoomRepo) ListPublic(ctx context.Context) ([]domain.Room, error) {
	return queryRooms(ctx, r.q, queries.QueryListPublicRooms)
}

func scanRoom(row pgx.Row) (*domain.Room, error) {
	var rm domain.Room
	err := row.Scan(
		&rm.ID,
		&rm.Name,
		&rm.Description,
		&rm.MaxParticipants,
		&rm.IsPrivate,
		&rm.AccessCode,
		&rm.CreatedAt,
	)
	if err != nil {
		return nil, mapPgError(err)
	}
	return &rm, nil
}

func queryRooms(ctx context.Context, q querier, sql string, args ...any) ([]domain.Room, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	rooms := make([]domain.Room, 0, 8)
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, *rm)
	}
	return rooms, rows.Err()
}
