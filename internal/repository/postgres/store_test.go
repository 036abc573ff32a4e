package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cwrk-planet/practice-service/internal/domain"
	"github.com/cwrk-planet/practice-service/internal/repository"

	"github.com/google/uuid"
)

func newRoom(name string) *domain.Room {
	return &domain.Room{ID: uuid.New(), Name: name}
}

func seedTechnique(t *testing.T, s *Store, name string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	if err := s.SeedTechniques(context.Background(), []domain.Technique{{ID: id, Name: name}}); err != nil {
		t.Fatalf("seed %s: %v", name, err)
	}
	return id
}

func TestRunInTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	boom := errors.New("boom")

	room := newRoom("study")
	err := s.RunInTx(ctx, func(tx repository.Repos) error {
		if err := tx.Rooms().Create(ctx, room); err != nil {
			return err
		}
		if err := tx.Members().Add(ctx, &domain.Member{RoomID: room.ID, UserID: 1, Role: domain.RoleLeader, Active: true}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	if _, err := s.Rooms().Get(ctx, room.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("room must be rolled back, got %v", err)
	}
	if _, err := s.Members().Get(ctx, room.ID, 1); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("member must be rolled back, got %v", err)
	}
}

func TestRoomCreate_RejectsCodeWithoutPrivacy(t *testing.T) {
	s := newTestStore(t)
	code := "ABC123"
	room := newRoom("x")
	room.AccessCode = &code

	if err := s.Rooms().Create(context.Background(), room); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestRoomDelete_CascadesMembersAndLinks(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	techID := seedTechnique(t, s, "Pomodoro")

	room := newRoom("study")
	if err := s.Rooms().Create(ctx, room); err != nil {
		t.Fatal(err)
	}
	if room.CreatedAt.IsZero() {
		t.Fatal("created_at must be returned")
	}
	if err := s.Members().Add(ctx, &domain.Member{RoomID: room.ID, UserID: 1, Role: domain.RoleLeader, Active: true}); err != nil {
		t.Fatal(err)
	}
	sess := &domain.Session{ID: uuid.New(), UserID: 1, TechniqueID: techID, Start: time.Now(), State: domain.StatePaused}
	if err := s.Sessions().Create(ctx, sess); err != nil {
		t.Fatal(err)
	}
	if err := s.Sessions().AddRoomLink(ctx, sess.ID, room.ID); err != nil {
		t.Fatal(err)
	}

	if err := s.Rooms().Delete(ctx, room.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Members().Get(ctx, room.ID, 1); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("member row must be gone, got %v", err)
	}
	rooms, err := s.Sessions().LinkedRooms(ctx, sess.ID)
	if err != nil || len(rooms) != 0 {
		t.Fatalf("links must be gone, got %d (%v)", len(rooms), err)
	}
}

func TestFirstActiveGuest_InsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	room := newRoom("study")
	if err := s.Rooms().Create(ctx, room); err != nil {
		t.Fatal(err)
	}
	for _, uid := range []domain.UserID{9, 3, 5} {
		role := domain.RoleGuest
		if uid == 9 {
			role = domain.RoleLeader
		}
		if err := s.Members().Add(ctx, &domain.Member{RoomID: room.ID, UserID: uid, Role: role, Active: true}); err != nil {
			t.Fatal(err)
		}
	}

	g, err := s.Members().FirstActiveGuest(ctx, room.ID)
	if err != nil {
		t.Fatalf("FirstActiveGuest: %v", err)
	}
	if g.UserID != 3 {
		t.Fatalf("expected earliest guest 3, got %d", g.UserID)
	}

	n, _ := s.Members().CountActiveLeaders(ctx, room.ID, 9)
	if n != 0 {
		t.Fatalf("expected no other leaders, got %d", n)
	}
	if err := s.Members().Add(ctx, &domain.Member{RoomID: room.ID, UserID: 3, Role: domain.RoleGuest, Active: true}); !errors.Is(err, repository.ErrAlreadyExists) {
		t.Fatalf("duplicate membership: expected ErrAlreadyExists, got %v", err)
	}
}

func TestSessionCreate_SingleRunningPerUser(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	techID := seedTechnique(t, s, "Pomodoro")

	first := &domain.Session{ID: uuid.New(), UserID: 1, TechniqueID: techID, Start: time.Now(), State: domain.StateRunning}
	if err := s.Sessions().Create(ctx, first); err != nil {
		t.Fatal(err)
	}

	second := &domain.Session{ID: uuid.New(), UserID: 1, TechniqueID: techID, Start: time.Now(), State: domain.StateRunning}
	if err := s.Sessions().Create(ctx, second); !errors.Is(err, repository.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	other := &domain.Session{ID: uuid.New(), UserID: 2, TechniqueID: techID, Start: time.Now(), State: domain.StateRunning}
	if err := s.Sessions().Create(ctx, other); err != nil {
		t.Fatalf("other user may run a session: %v", err)
	}

	running, err := s.Sessions().HasRunning(ctx, 1)
	if err != nil || !running {
		t.Fatalf("HasRunning = %v, %v", running, err)
	}
}

func TestSessionCreate_UnknownTechnique(t *testing.T) {
	s := newTestStore(t)
	sess := &domain.Session{ID: uuid.New(), UserID: 1, TechniqueID: uuid.New(), Start: time.Now(), State: domain.StateCompleted}
	if err := s.Sessions().Create(context.Background(), sess); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestSessionList_FiltersAndOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	a := seedTechnique(t, s, "A")
	b := seedTechnique(t, s, "B")

	base := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	for i, tech := range []uuid.UUID{a, b, a} {
		sess := &domain.Session{
			ID:          uuid.New(),
			UserID:      1,
			TechniqueID: tech,
			Start:       base.Add(time.Duration(i) * 24 * time.Hour),
			State:       domain.StateCompleted,
		}
		if err := s.Sessions().Create(ctx, sess); err != nil {
			t.Fatal(err)
		}
	}

	all, err := s.Sessions().List(ctx, 1, domain.SessionFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 || !all[0].Start.After(all[1].Start) || !all[1].Start.After(all[2].Start) {
		t.Fatalf("expected 3 sessions newest first, got %+v", all)
	}

	onlyA, _ := s.Sessions().List(ctx, 1, domain.SessionFilter{TechniqueID: &a})
	if len(onlyA) != 2 {
		t.Fatalf("technique filter: want 2, got %d", len(onlyA))
	}

	completed := domain.StateCompleted
	group := false
	from := base.Add(24 * time.Hour)
	to := base.Add(48 * time.Hour)
	window, err := s.Sessions().List(ctx, 1, domain.SessionFilter{State: &completed, IsGroup: &group, From: &from, To: &to})
	if err != nil {
		t.Fatal(err)
	}
	if len(window) != 1 || window[0].TechniqueID != b {
		t.Fatalf("date window: got %+v", window)
	}

	none, _ := s.Sessions().List(ctx, 2, domain.SessionFilter{})
	if len(none) != 0 {
		t.Fatalf("other user must see nothing, got %d", len(none))
	}
}

func TestSessionParameters_ManySessions(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	techID := seedTechnique(t, s, "Pomodoro")

	ids := make([]uuid.UUID, 0, 2)
	for i := range 2 {
		sess := &domain.Session{ID: uuid.New(), UserID: 1, TechniqueID: techID, Start: time.Now(), State: domain.StateCompleted}
		if err := s.Sessions().Create(ctx, sess); err != nil {
			t.Fatal(err)
		}
		params := []domain.ParameterInput{{Code: "reps", Quantity: "3"}}
		if i == 1 {
			params = append(params, domain.ParameterInput{Code: "sets", Quantity: "2"})
		}
		if err := s.Sessions().AddParameters(ctx, sess.ID, params); err != nil {
			t.Fatal(err)
		}
		ids = append(ids, sess.ID)
	}

	got, err := s.Sessions().Parameters(ctx, ids...)
	if err != nil {
		t.Fatalf("Parameters: %v", err)
	}
	if len(got[ids[0]]) != 1 || len(got[ids[1]]) != 2 {
		t.Fatalf("parameters by session = %+v", got)
	}
}

func TestSessionDelete_CascadesParameters(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	techID := seedTechnique(t, s, "Pomodoro")

	sess := &domain.Session{ID: uuid.New(), UserID: 1, TechniqueID: techID, Start: time.Now(), State: domain.StateCompleted}
	if err := s.Sessions().Create(ctx, sess); err != nil {
		t.Fatal(err)
	}
	if err := s.Sessions().AddParameters(ctx, sess.ID, []domain.ParameterInput{{Code: "reps", Quantity: "3"}}); err != nil {
		t.Fatal(err)
	}

	if err := s.Sessions().Delete(ctx, sess.ID); err != nil {
		t.Fatal(err)
	}
	params, err := s.Sessions().Parameters(ctx, sess.ID)
	if err != nil || len(params[sess.ID]) != 0 {
		t.Fatalf("parameters must be gone, got %v (%v)", params, err)
	}
	if err := s.Sessions().Delete(ctx, sess.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestSessionTotals(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	b := seedTechnique(t, s, "Breathing")
	a := seedTechnique(t, s, "Alpha")

	start := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	mk := func(tech uuid.UUID, minutes int, st domain.SessionState) {
		sess := &domain.Session{ID: uuid.New(), UserID: 1, TechniqueID: tech, Start: start, State: st}
		end := start.Add(time.Duration(minutes) * time.Minute)
		sess.SetEnd(&end)
		if err := s.Sessions().Create(ctx, sess); err != nil {
			t.Fatal(err)
		}
	}
	mk(a, 30, domain.StateCompleted)
	mk(a, 45, domain.StateCompleted)
	mk(b, 10, domain.StateCancelled)

	got, err := s.Stats().SessionTotals(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got.Total != 3 || got.Completed != 2 || got.TotalMinutes != 75 || got.AverageMinutes != 37.5 {
		t.Fatalf("totals mismatch: %+v", got)
	}
	if len(got.ByTechnique) != 2 || got.ByTechnique[0].Technique != "Alpha" || got.ByTechnique[1].Minutes != 10 {
		t.Fatalf("breakdown mismatch: %+v", got.ByTechnique)
	}

	empty, err := s.Stats().SessionTotals(ctx, 42)
	if err != nil {
		t.Fatal(err)
	}
	if empty.Total != 0 || empty.AverageMinutes != 0 || empty.ByTechnique == nil {
		t.Fatalf("empty totals mismatch: %+v", empty)
	}
}

func TestTechniques_ParametersAndSearch(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	desc := "25/5"
	pomodoro := domain.Technique{
		ID:          uuid.New(),
		Name:        "Pomodoro",
		Description: &desc,
		Parameters: []domain.TechniqueParam{
			{Code: "cycles", Name: "Cycles"},
			{Code: "break", Name: "Break", Unit: "min"},
		},
	}
	focus := domain.Technique{ID: uuid.New(), Name: "100% focus"}
	if err := s.SeedTechniques(ctx, []domain.Technique{pomodoro, focus}); err != nil {
		t.Fatal(err)
	}

	got, err := s.Techniques().Get(ctx, pomodoro.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Parameters) != 2 || got.Parameters[1].Unit != "min" || got.Description == nil || *got.Description != desc {
		t.Fatalf("technique round trip = %+v", got)
	}

	many, err := s.Techniques().GetMany(ctx, pomodoro.ID, focus.ID, uuid.New())
	if err != nil || len(many) != 2 {
		t.Fatalf("GetMany = %+v, %v", many, err)
	}

	cases := []struct {
		query string
		want  int
	}{
		{"", 2},
		{"POMO", 1},
		{"%", 1},
		{"_", 0},
	}
	for _, tc := range cases {
		list, err := s.Techniques().List(ctx, tc.query)
		if err != nil {
			t.Fatalf("List(%q): %v", tc.query, err)
		}
		if len(list) != tc.want {
			t.Fatalf("List(%q) = %d techniques, want %d", tc.query, len(list), tc.want)
		}
	}

	// повторный сид обновляет запись по id
	pomodoro.Name = "Pomodoro classic"
	pomodoro.Parameters = nil
	if err := s.SeedTechniques(ctx, []domain.Technique{pomodoro}); err != nil {
		t.Fatal(err)
	}
	got, _ = s.Techniques().Get(ctx, pomodoro.ID)
	if got.Name != "Pomodoro classic" || len(got.Parameters) != 0 {
		t.Fatalf("upsert = %+v", got)
	}
}
