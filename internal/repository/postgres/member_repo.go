package postgres

import (
	"context"

	"github.com/cwrk-planet/practice-service/internal/domain"
	"github.com/cwrk-planet/practice-service/internal/repository"
	"github.com/cwrk-planet/practice-service/internal/repository/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type MemberRepo struct {
	q querier
}

func NewMemberRepo(q querier) *MemberRepo {
	return &MemberRepo{q: q}
}

func (r *MemberRepo) Get(ctx context.Context, roomID uuid.UUID, userID domain.UserID) (*domain.Member, error) {
	return scanMember(r.q.QueryRow(ctx, queries.QueryGetMember, roomID, userID))
}

func (r *MemberRepo) Add(ctx context.Context, m *domain.Member) error {
	err := r.q.QueryRow(ctx, queries.QueryAddMember, m.RoomID, m.UserID, m.Role, m.Active).Scan(&m.JoinedAt)
	if err != nil {
		return mapPgError(err)
	}
	return nil
}

func (r *MemberRepo) SetActive(ctx context.Context, roomID uuid.UUID, userID domain.UserID, active bool) error {
	return r.execOne(ctx, queries.QuerySetMemberActive, roomID, userID, active)
}

func (r *MemberRepo) SetRole(ctx context.Context, roomID uuid.UUID, userID domain.UserID, role domain.Role) error {
	return r.execOne(ctx, queries.QuerySetMemberRole, roomID, userID, role)
}

func (r *MemberRepo) DeactivateAll(ctx context.Context, roomID uuid.UUID) error {
	if _, err := r.q.Exec(ctx, queries.QueryDeactivateMembers, roomID); err != nil {
		return mapPgError(err)
	}
	return nil
}

func (r *MemberRepo) CountActive(ctx context.Context, roomID uuid.UUID) (int, error) {
	var count int
	if err := r.q.QueryRow(ctx, queries.QueryCountActiveMembers, roomID).Scan(&count); err != nil {
		return 0, mapPgError(err)
	}
	return count, nil
}

func (r *MemberRepo) CountActiveLeaders(ctx context.Context, roomID uuid.UUID, exclude domain.UserID) (int, error) {
	var count int
	if err := r.q.QueryRow(ctx, queries.QueryCountActiveLeaders, roomID, exclude).Scan(&count); err != nil {
		return 0, mapPgError(err)
	}
	return count, nil
}

func (r *MemberRepo) FirstActiveGuest(ctx context.Context, roomID uuid.UUID) (*domain.Member, error) {
	return scanMember(r.q.QueryRow(ctx, queries.QueryFirstActiveGuest, roomID))
}

func (r *MemberRepo) ListActive(ctx context.Context, roomID uuid.UUID) ([]domain.Participant, error) {
	rows, err := r.q.Query(ctx, queries.QueryListActiveParticipants, roomID)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	out := make([]domain.Participant, 0, 16)
	for rows.Next() {
		var p domain.Participant
		if err := rows.Scan(
			&p.UserID,
			&p.DisplayName,
			&p.AvatarURL,
			&p.Role,
			&p.JoinedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	return out, rows.Err()
}

func (r *MemberRepo) execOne(ctx context.Context, sql string, args ...any) error {
	tag, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanMember(row pgx.Row) (*domain.Member, error) {
	var m domain.Member
	if err := row.Scan(&m.RoomID, &m.UserID, &m.Role, &m.Active, &m.JoinedAt); err != nil {
		return nil, mapPgError(err)
	}
	return &m, nil
}
