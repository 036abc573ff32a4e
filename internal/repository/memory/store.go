// Package memory: хранилище в памяти процесса для локального запуска и тестов.
// Повторяет гарантии postgres-реализации: транзакции, каскады, уникальность
// запущенной сессии.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/cwrk-planet/practice-service/internal/domain"
	"github.com/cwrk-planet/practice-service/internal/repository"

	"github.com/google/uuid"
)

type memberKey struct {
	room uuid.UUID
	user domain.UserID
}

type user struct {
	displayName *string
	avatarURL   *string
}

type state struct {
	rooms      map[uuid.UUID]domain.Room
	members    map[memberKey]domain.Member
	users      map[domain.UserID]user
	techniques map[uuid.UUID]domain.Technique
	sessions   map[uuid.UUID]domain.Session
	params     []domain.Parameter
	links      map[uuid.UUID][]uuid.UUID
}

func newState() *state {
	return &state{
		rooms:      make(map[uuid.UUID]domain.Room),
		members:    make(map[memberKey]domain.Member),
		users:      make(map[domain.UserID]user),
		techniques: make(map[uuid.UUID]domain.Technique),
		sessions:   make(map[uuid.UUID]domain.Session),
		links:      make(map[uuid.UUID][]uuid.UUID),
	}
}

// строки хранятся по значению, поэтому для отката хватает копии контейнеров
func (st *state) clone() *state {
	links := make(map[uuid.UUID][]uuid.UUID, len(st.links))
	for k, v := range st.links {
		links[k] = slices.Clone(v)
	}
	return &state{
		rooms:      maps.Clone(st.rooms),
		members:    maps.Clone(st.members),
		users:      maps.Clone(st.users),
		techniques: maps.Clone(st.techniques),
		sessions:   maps.Clone(st.sessions),
		params:     slices.Clone(st.params),
		links:      links,
	}
}

type Store struct {
	repos

	mu   sync.Mutex
	st   *state
	now  func() time.Time
	last time.Time
}

func NewStore() *Store {
	s := &Store{st: newState(), now: time.Now}
	s.repos = repos{s: s}
	return s
}

// RunInTx держит мьютекс всю транзакцию; при ошибке состояние
// возвращается к снимку, сделанному до fn.
func (s *Store) RunInTx(ctx context.Context, fn func(tx repository.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	if err := fn(repos{s: s, inTx: true}); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

// SeedTechniques добавляет или заменяет техники по id.
func (s *Store) SeedTechniques(_ context.Context, items []domain.Technique) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range items {
		t.Parameters = slices.Clone(t.Parameters)
		s.st.techniques[t.ID] = t
	}
	return nil
}

// PutUser задаёт отображаемые данные пользователя для списка участников.
func (s *Store) PutUser(id domain.UserID, displayName, avatarURL *string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.st.users[id] = user{displayName: displayName, avatarURL: avatarURL}
}

// строго возрастающее время, чтобы порядок вставки совпадал с порядком joined_at
func (s *Store) tick() time.Time {
	t := s.now().UTC()
	if !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}
	s.last = t
	return t
}

type repos struct {
	s    *Store
	inTx bool
}

// lock берёт мьютекс для одиночного вызова; внутри RunInTx он уже взят.
func (r repos) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r repos) Rooms() repository.RoomRepository           { return roomRepo(r) }
func (r repos) Members() repository.MemberRepository       { return memberRepo(r) }
func (r repos) Sessions() repository.SessionRepository     { return sessionRepo(r) }
func (r repos) Techniques() repository.TechniqueRepository { return techniqueRepo(r) }
func (r repos) Stats() repository.StatsRepository          { return statsRepo(r) }
