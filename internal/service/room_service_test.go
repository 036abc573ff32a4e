package service

import (
	"context"
	"testing"

	"github.com/cwrk-planet/practice-service/internal/domain"
	"github.com/cwrk-planet/practice-service/internal/security"

	"github.com/google/uuid"
)

func TestRoomCreate_PrivateGetsCodePublicDoesNot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	priv, err := env.rooms.Create(ctx, 1, CreateRoomInput{Name: "Study", IsPrivate: true})
	if err != nil {
		t.Fatalf("Create private: %v", err)
	}
	if priv.AccessCode == nil || !security.IsAccessCode(*priv.AccessCode) {
		t.Fatalf("private room must get a 6-char code, got %v", priv.AccessCode)
	}

	pub, err := env.rooms.Create(ctx, 1, CreateRoomInput{Name: "Open"})
	if err != nil {
		t.Fatalf("Create public: %v", err)
	}
	if pub.AccessCode != nil {
		t.Fatalf("public room must not have a code, got %q", *pub.AccessCode)
	}
}

func TestRoomCreate_CreatorIsLeader(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	room, err := env.rooms.Create(ctx, 7, CreateRoomInput{Name: "Study"})
	if err != nil {
		t.Fatal(err)
	}
	m, err := env.store.Members().Get(ctx, room.ID, 7)
	if err != nil {
		t.Fatalf("creator membership: %v", err)
	}
	if m.Role != domain.RoleLeader || !m.Active {
		t.Fatalf("creator must be active leader, got %+v", m)
	}

	mine, _ := env.rooms.ListMine(ctx, 7)
	if len(mine) != 1 || mine[0].ID != room.ID {
		t.Fatalf("ListMine = %+v", mine)
	}
}

func TestRoomCreate_Validation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.rooms.Create(context.Background(), 1, CreateRoomInput{Name: "   "})
	assertErr(t, err, domain.ErrRoomNameRequired)

	_, err = env.rooms.Create(context.Background(), 1, CreateRoomInput{Name: "x", MaxParticipants: ptr(int64(-1))})
	assertKind(t, err, kindInvalid)
}

func TestRoomGet_PrivateRequiresMembership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	room, _ := env.rooms.Create(ctx, 1, CreateRoomInput{Name: "Secret", IsPrivate: true})

	_, err := env.rooms.Get(ctx, 2, room.ID)
	assertKind(t, err, kindForbidden)

	d, err := env.rooms.Get(ctx, 1, room.ID)
	if err != nil {
		t.Fatalf("member Get: %v", err)
	}
	if d.TotalParticipants != 1 || d.Participants[0].UserID != 1 {
		t.Fatalf("participants = %+v", d.Participants)
	}

	_, err = env.rooms.Get(ctx, 1, uuid.New())
	assertKind(t, err, kindNotFound)
}

func TestRoomListPublic(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, _ = env.rooms.Create(ctx, 1, CreateRoomInput{Name: "Secret", IsPrivate: true})
	pub, _ := env.rooms.Create(ctx, 2, CreateRoomInput{Name: "Open"})

	list, err := env.rooms.ListPublic(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != pub.ID {
		t.Fatalf("ListPublic = %+v", list)
	}
}

func TestRoomUpdate_LeaderOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	room, _ := env.rooms.Create(ctx, 1, CreateRoomInput{Name: "Study"})
	if err := env.members.Join(ctx, 2, room.ID, ""); err != nil {
		t.Fatal(err)
	}

	_, err := env.rooms.Update(ctx, 2, room.ID, UpdateRoomInput{Name: ptr("Hacked")})
	assertKind(t, err, kindForbidden)

	_, err = env.rooms.Update(ctx, 1, room.ID, UpdateRoomInput{Name: ptr("")})
	assertErr(t, err, domain.ErrRoomNameRequired)

	upd, err := env.rooms.Update(ctx, 1, room.ID, UpdateRoomInput{
		Name:            ptr("Renamed"),
		Description:     domain.Some("quiet"),
		MaxParticipants: domain.Some(int64(4)),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if upd.Name != "Renamed" || *upd.Description != "quiet" || *upd.MaxParticipants != 4 {
		t.Fatalf("update not applied: %+v", upd)
	}

	cleared, err := env.rooms.Update(ctx, 1, room.ID, UpdateRoomInput{Description: domain.Null[string]()})
	if err != nil {
		t.Fatal(err)
	}
	if cleared.Description != nil || cleared.Name != "Renamed" {
		t.Fatalf("explicit null must clear only description: %+v", cleared)
	}
}

func TestRoomUpdate_PrivacyToggle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	room, _ := env.rooms.Create(ctx, 1, CreateRoomInput{Name: "Study"})

	priv, err := env.rooms.Update(ctx, 1, room.ID, UpdateRoomInput{IsPrivate: ptr(true)})
	if err != nil {
		t.Fatal(err)
	}
	if priv.AccessCode == nil || !security.IsAccessCode(*priv.AccessCode) {
		t.Fatalf("code must be generated, got %v", priv.AccessCode)
	}
	code := *priv.AccessCode

	again, _ := env.rooms.Update(ctx, 1, room.ID, UpdateRoomInput{IsPrivate: ptr(true)})
	if *again.AccessCode != code {
		t.Fatalf("existing code must be kept: %q vs %q", *again.AccessCode, code)
	}

	pub, _ := env.rooms.Update(ctx, 1, room.ID, UpdateRoomInput{IsPrivate: ptr(false)})
	if pub.AccessCode != nil {
		t.Fatalf("code must be cleared, got %q", *pub.AccessCode)
	}
}

func TestRoomDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	room, _ := env.rooms.Create(ctx, 1, CreateRoomInput{Name: "Study"})
	_ = env.members.Join(ctx, 2, room.ID, "")

	assertKind(t, env.rooms.Delete(ctx, 2, room.ID), kindForbidden)

	if err := env.rooms.Delete(ctx, 1, room.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	_, err := env.rooms.Get(ctx, 1, room.ID)
	assertKind(t, err, kindNotFound)

	mine, _ := env.rooms.ListMine(ctx, 2)
	if len(mine) != 0 {
		t.Fatalf("guest must not see deleted room, got %+v", mine)
	}

	// лидерство проверяется раньше существования
	assertKind(t, env.rooms.Delete(ctx, 1, uuid.New()), kindForbidden)
}
