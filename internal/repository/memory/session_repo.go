package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/cwrk-planet/practice-service/internal/domain"
	"github.com/cwrk-planet/practice-service/internal/repository"

	"github.com/google/uuid"
)

type sessionRepo repos

func (r sessionRepo) Create(_ context.Context, s *domain.Session) error {
	defer repos(r).lock()()
	st := r.s.st

	if _, ok := st.sessions[s.ID]; ok {
		return repository.ErrAlreadyExists
	}
	if _, ok := st.techniques[s.TechniqueID]; !ok {
		return repository.ErrConflict
	}
	if err := r.check(s); err != nil {
		return err
	}
	st.sessions[s.ID] = *s
	return nil
}

func (r sessionRepo) Get(_ context.Context, userID domain.UserID, id uuid.UUID) (*domain.Session, error) {
	defer repos(r).lock()()

	s, ok := r.s.st.sessions[id]
	if !ok || s.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (r sessionRepo) GetForUpdate(ctx context.Context, userID domain.UserID, id uuid.UUID) (*domain.Session, error) {
	return r.Get(ctx, userID, id)
}

func (r sessionRepo) HasRunning(_ context.Context, userID domain.UserID) (bool, error) {
	defer repos(r).lock()()

	return r.running(userID, uuid.Nil), nil
}

func (r sessionRepo) List(_ context.Context, userID domain.UserID, f domain.SessionFilter) ([]domain.Session, error) {
	defer repos(r).lock()()

	out := make([]domain.Session, 0)
	for _, s := range r.s.st.sessions {
		if s.UserID == userID && matches(s, f) {
			out = append(out, s)
		}
	}
	slices.SortFunc(out, func(a, b domain.Session) int {
		if c := b.Start.Compare(a.Start); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return out, nil
}

func matches(s domain.Session, f domain.SessionFilter) bool {
	switch {
	case f.TechniqueID != nil && s.TechniqueID != *f.TechniqueID:
		return false
	case f.State != nil && s.State != *f.State:
		return false
	case f.IsGroup != nil && s.IsGroup != *f.IsGroup:
		return false
	case f.From != nil && s.Start.Before(*f.From):
		return false
	case f.To != nil && !s.Start.Before(*f.To):
		return false
	}
	return true
}

func (r sessionRepo) Update(_ context.Context, s *domain.Session) error {
	defer repos(r).lock()()
	st := r.s.st

	cur, ok := st.sessions[s.ID]
	if !ok {
		return repository.ErrNotFound
	}
	cur.End = s.End
	cur.DurationMinutes = s.DurationMinutes
	cur.State = s.State
	if err := r.check(&cur); err != nil {
		return err
	}
	st.sessions[s.ID] = cur
	return nil
}

// Delete каскадно убирает параметры и привязки к комнатам.
func (r sessionRepo) Delete(_ context.Context, id uuid.UUID) error {
	defer repos(r).lock()()
	st := r.s.st

	if _, ok := st.sessions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(st.sessions, id)
	delete(st.links, id)
	st.params = slices.DeleteFunc(st.params, func(p domain.Parameter) bool { return p.SessionID == id })
	return nil
}

func (r sessionRepo) AddParameters(_ context.Context, sessionID uuid.UUID, params []domain.ParameterInput) error {
	defer repos(r).lock()()
	st := r.s.st

	if _, ok := st.sessions[sessionID]; !ok {
		return repository.ErrConflict
	}
	for _, p := range params {
		st.params = append(st.params, domain.Parameter{SessionID: sessionID, Code: p.Code, Quantity: p.Quantity})
	}
	return nil
}

func (r sessionRepo) DeleteParameters(_ context.Context, sessionID uuid.UUID) error {
	defer repos(r).lock()()
	st := r.s.st

	st.params = slices.DeleteFunc(st.params, func(p domain.Parameter) bool { return p.SessionID == sessionID })
	return nil
}

func (r sessionRepo) Parameters(_ context.Context, sessionIDs ...uuid.UUID) (map[uuid.UUID][]domain.Parameter, error) {
	defer repos(r).lock()()

	out := make(map[uuid.UUID][]domain.Parameter, len(sessionIDs))
	for _, p := range r.s.st.params {
		if slices.Contains(sessionIDs, p.SessionID) {
			out[p.SessionID] = append(out[p.SessionID], p)
		}
	}
	return out, nil
}

func (r sessionRepo) AddRoomLink(_ context.Context, sessionID, roomID uuid.UUID) error {
	defer repos(r).lock()()
	st := r.s.st

	if _, ok := st.sessions[sessionID]; !ok {
		return repository.ErrConflict
	}
	if _, ok := st.rooms[roomID]; !ok {
		return repository.ErrConflict
	}
	if !slices.Contains(st.links[sessionID], roomID) {
		st.links[sessionID] = append(st.links[sessionID], roomID)
	}
	return nil
}

func (r sessionRepo) DeleteRoomLinks(_ context.Context, sessionID uuid.UUID) error {
	defer repos(r).lock()()

	delete(r.s.st.links, sessionID)
	return nil
}

func (r sessionRepo) LinkedRooms(_ context.Context, sessionID uuid.UUID) ([]domain.Room, error) {
	defer repos(r).lock()()
	st := r.s.st

	out := make([]domain.Room, 0, len(st.links[sessionID]))
	for _, id := range st.links[sessionID] {
		if room, ok := st.rooms[id]; ok {
			out = append(out, room)
		}
	}
	slices.SortFunc(out, func(a, b domain.Room) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

// те же ограничения, что CHECK и уникальный индекс в схеме
func (r sessionRepo) check(s *domain.Session) error {
	if (s.End == nil) != (s.DurationMinutes == nil) {
		return repository.ErrConflict
	}
	if s.End != nil && !s.End.After(s.Start) {
		return repository.ErrConflict
	}
	if _, ok := domain.ParseSessionState(string(s.State)); !ok {
		return repository.ErrConflict
	}
	if s.State == domain.StateRunning && r.running(s.UserID, s.ID) {
		return repository.ErrAlreadyExists
	}
	return nil
}

func (r sessionRepo) running(userID domain.UserID, except uuid.UUID) bool {
	for id, s := range r.s.st.sessions {
		if id != except && s.UserID == userID && s.State == domain.StateRunning {
			return true
		}
	}
	return false
}
