package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/cwrk-planet/practice-service/internal/domain"
	"github.com/cwrk-planet/practice-service/internal/repository"

	"github.com/google/uuid"
)

type roomRepo repos

func (r roomRepo) Create(_ context.Context, room *domain.Room) error {
	defer repos(r).lock()()
	st := r.s.st

	if _, ok := st.rooms[room.ID]; ok {
		return repository.ErrAlreadyExists
	}
	if room.IsPrivate != (room.AccessCode != nil) {
		return repository.ErrConflict
	}
	room.CreatedAt = r.s.tick()
	st.rooms[room.ID] = *room
	return nil
}

func (r roomRepo) Get(_ context.Context, id uuid.UUID) (*domain.Room, error) {
	defer repos(r).lock()()

	room, ok := r.s.st.rooms[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &room, nil
}

// блокировку строки заменяет мьютекс транзакции
func (r roomRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Room, error) {
	return r.Get(ctx, id)
}

func (r roomRepo) Update(_ context.Context, room *domain.Room) error {
	defer repos(r).lock()()
	st := r.s.st

	cur, ok := st.rooms[room.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if room.IsPrivate != (room.AccessCode != nil) {
		return repository.ErrConflict
	}
	upd := *room
	upd.CreatedAt = cur.CreatedAt
	st.rooms[room.ID] = upd
	return nil
}

// Delete каскадно убирает членства и привязки сессий, как ON DELETE CASCADE.
func (r roomRepo) Delete(_ context.Context, id uuid.UUID) error {
	defer repos(r).lock()()
	st := r.s.st

	if _, ok := st.rooms[id]; !ok {
		return repository.ErrNotFound
	}
	delete(st.rooms, id)
	for k := range st.members {
		if k.room == id {
			delete(st.members, k)
		}
	}
	for sid, rooms := range st.links {
		st.links[sid] = slices.DeleteFunc(rooms, func(rid uuid.UUID) bool { return rid == id })
	}
	return nil
}

func (r roomRepo) ListByMember(_ context.Context, userID domain.UserID) ([]domain.Room, error) {
	defer repos(r).lock()()
	st := r.s.st

	out := make([]domain.Room, 0)
	for k, m := range st.members {
		if k.user != userID || !m.Active {
			continue
		}
		if room, ok := st.rooms[k.room]; ok {
			out = append(out, room)
		}
	}
	sortRooms(out)
	return out, nil
}

func (r roomRepo) ListPublic(_ context.Context) ([]domain.Room, error) {
	defer repos(r).lock()()

	out := make([]domain.Room, 0)
	for _, room := range r.s.st.rooms {
		if !room.IsPrivate {
			out = append(out, room)
		}
	}
	sortRooms(out)
	return out, nil
}

// created_at DESC, id
func sortRooms(rooms []domain.Room) {
	slices.SortFunc(rooms, func(a, b domain.Room) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
}
