package postgres

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/cwrk-planet/practice-service/internal/domain"
	"github.com/cwrk-planet/practice-service/internal/service"
)

// Блокировка строки комнаты сериализует входы: лимит не превышается.
func TestJoin_ConcurrentAtCapacity(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	limit := int64(3)
	room := newRoom("study")
	room.MaxParticipants = &limit
	if err := s.Rooms().Create(ctx, room); err != nil {
		t.Fatal(err)
	}
	if err := s.Members().Add(ctx, &domain.Member{RoomID: room.ID, UserID: 1, Role: domain.RoleLeader, Active: true}); err != nil {
		t.Fatal(err)
	}

	members := service.NewMemberService(s)
	const joiners = 8
	errs := make([]error, joiners)
	var wg sync.WaitGroup
	for i := range joiners {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = members.Join(ctx, domain.UserID(100+i), room.ID, "")
		}()
	}
	wg.Wait()

	joined := 0
	for _, err := range errs {
		switch {
		case err == nil:
			joined++
		case errors.Is(err, domain.ErrRoomFull):
		default:
			t.Fatalf("unexpected join error: %v", err)
		}
	}
	if joined != 2 {
		t.Fatalf("expected 2 successful joins, got %d", joined)
	}

	n, err := s.Members().CountActive(ctx, room.ID)
	if err != nil || n != int(limit) {
		t.Fatalf("active members = %d (%v), want %d", n, err, limit)
	}
}

// Параллельные Start одного пользователя: проходит ровно один.
func TestStart_ConcurrentSingleRunning(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	techID := seedTechnique(t, s, "Pomodoro")

	sessions := service.NewSessionService(s)
	const starters = 6
	errs := make([]error, starters)
	var wg sync.WaitGroup
	for i := range starters {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = sessions.Start(ctx, 1, service.StartSessionInput{TechniqueID: techID.String()})
		}()
	}
	wg.Wait()

	started := 0
	for _, err := range errs {
		switch {
		case err == nil:
			started++
		case errors.Is(err, domain.ErrSessionAlreadyRunning):
		default:
			t.Fatalf("unexpected start error: %v", err)
		}
	}
	if started != 1 {
		t.Fatalf("expected exactly one running session, got %d", started)
	}

	running := domain.StateRunning
	list, err := s.Sessions().List(ctx, 1, domain.SessionFilter{State: &running})
	if err != nil || len(list) != 1 {
		t.Fatalf("running sessions = %d (%v)", len(list), err)
	}
}
