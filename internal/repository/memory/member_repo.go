package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/cwrk-planet/practice-service/internal/domain"
	"github.com/cwrk-planet/practice-service/internal/repository"

	"github.com/google/uuid"
)

type memberRepo repos

func (r memberRepo) Get(_ context.Context, roomID uuid.UUID, userID domain.UserID) (*domain.Member, error) {
	defer repos(r).lock()()

	m, ok := r.s.st.members[memberKey{roomID, userID}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &m, nil
}

func (r memberRepo) Add(_ context.Context, m *domain.Member) error {
	defer repos(r).lock()()
	st := r.s.st

	if _, ok := st.rooms[m.RoomID]; !ok {
		return repository.ErrConflict
	}
	if !m.Role.Valid() {
		return repository.ErrConflict
	}
	k := memberKey{m.RoomID, m.UserID}
	if _, ok := st.members[k]; ok {
		return repository.ErrAlreadyExists
	}
	m.JoinedAt = r.s.tick()
	st.members[k] = *m
	return nil
}

func (r memberRepo) SetActive(_ context.Context, roomID uuid.UUID, userID domain.UserID, active bool) error {
	return r.update(roomID, userID, func(m *domain.Member) { m.Active = active })
}

func (r memberRepo) SetRole(_ context.Context, roomID uuid.UUID, userID domain.UserID, role domain.Role) error {
	if !role.Valid() {
		return repository.ErrConflict
	}
	return r.update(roomID, userID, func(m *domain.Member) { m.Role = role })
}

func (r memberRepo) update(roomID uuid.UUID, userID domain.UserID, fn func(m *domain.Member)) error {
	defer repos(r).lock()()
	st := r.s.st

	k := memberKey{roomID, userID}
	m, ok := st.members[k]
	if !ok {
		return repository.ErrNotFound
	}
	fn(&m)
	st.members[k] = m
	return nil
}

func (r memberRepo) DeactivateAll(_ context.Context, roomID uuid.UUID) error {
	defer repos(r).lock()()
	st := r.s.st

	for k, m := range st.members {
		if k.room == roomID {
			m.Active = false
			st.members[k] = m
		}
	}
	return nil
}

func (r memberRepo) CountActive(_ context.Context, roomID uuid.UUID) (int, error) {
	defer repos(r).lock()()

	return len(r.active(roomID)), nil
}

func (r memberRepo) CountActiveLeaders(_ context.Context, roomID uuid.UUID, exclude domain.UserID) (int, error) {
	defer repos(r).lock()()

	n := 0
	for _, m := range r.active(roomID) {
		if m.Role == domain.RoleLeader && m.UserID != exclude {
			n++
		}
	}
	return n, nil
}

func (r memberRepo) FirstActiveGuest(_ context.Context, roomID uuid.UUID) (*domain.Member, error) {
	defer repos(r).lock()()

	for _, m := range r.active(roomID) {
		if m.Role == domain.RoleGuest {
			return &m, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memberRepo) ListActive(_ context.Context, roomID uuid.UUID) ([]domain.Participant, error) {
	defer repos(r).lock()()
	st := r.s.st

	active := r.active(roomID)
	out := make([]domain.Participant, 0, len(active))
	for _, m := range active {
		u := st.users[m.UserID]
		out = append(out, domain.Participant{
			UserID:      m.UserID,
			DisplayName: u.displayName,
			AvatarURL:   u.avatarURL,
			Role:        m.Role,
			JoinedAt:    m.JoinedAt,
		})
	}
	return out, nil
}

// активные члены комнаты по joined_at, user_id; вызывать под мьютексом
func (r memberRepo) active(roomID uuid.UUID) []domain.Member {
	out := make([]domain.Member, 0)
	for k, m := range r.s.st.members {
		if k.room == roomID && m.Active {
			out = append(out, m)
		}
	}
	slices.SortFunc(out, func(a, b domain.Member) int {
		if c := a.JoinedAt.Compare(b.JoinedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.UserID, b.UserID)
	})
	return out
}
