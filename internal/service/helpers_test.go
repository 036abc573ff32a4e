package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cwrk-planet/practice-service/internal/domain"
	"github.com/cwrk-planet/practice-service/internal/errs"
	"github.com/cwrk-planet/practice-service/internal/repository/memory"

	"github.com/google/uuid"
)

type testEnv struct {
	store     *memory.Store
	rooms     *RoomService
	members   *MemberService
	sessions  *SessionService
	stats     *StatsService
	technique domain.Technique
	clock     *fakeClock
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.NewStore()
	tech := domain.Technique{
		ID:   uuid.New(),
		Name: "Pomodoro",
		Parameters: []domain.TechniqueParam{
			{Code: "cycles", Name: "Cycles"},
		},
	}
	if err := store.SeedTechniques(context.Background(), []domain.Technique{tech}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	clock := &fakeClock{t: time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC)}
	sessions := NewSessionService(store)
	sessions.now = clock.Now
	sessions.SetLocation(time.UTC)

	return &testEnv{
		store:     store,
		rooms:     NewRoomService(store),
		members:   NewMemberService(store),
		sessions:  sessions,
		stats:     NewStatsService(store),
		technique: tech,
		clock:     clock,
	}
}

func assertKind(t *testing.T, err, kind error) {
	t.Helper()
	if !errors.Is(err, kind) {
		t.Fatalf("expected %v, got %v", kind, err)
	}
}

func assertErr(t *testing.T, err, want error) {
	t.Helper()
	if !errors.Is(err, want) {
		t.Fatalf("expected %q, got %v", want, err)
	}
}

var (
	kindInvalid   = errs.ErrInvalidInput
	kindForbidden = errs.ErrForbidden
	kindNotFound  = errs.ErrNotFound
)

func ptr[T any](v T) *T { return &v }
