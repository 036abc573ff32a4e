package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cwrk-planet/practice-service/internal/domain"
	"github.com/cwrk-planet/practice-service/internal/repository"
	"github.com/cwrk-planet/practice-service/internal/security"

	"github.com/google/uuid"
)

type RoomService struct {
	store   repository.Store
	newCode func() string
}

func NewRoomService(store repository.Store) *RoomService {
	return &RoomService{store: store, newCode: security.NewAccessCode}
}

type CreateRoomInput struct {
	Name            string
	Description     *string
	MaxParticipants *int64
	IsPrivate       bool
}

// UpdateRoomInput: частичное обновление: nil/не заданные поля не трогаются.
type UpdateRoomInput struct {
	Name            *string
	Description     domain.Optional[string]
	MaxParticipants domain.Optional[int64]
	IsPrivate       *bool
}

// ListMine возвращает комнаты, где у пользователя активное членство.
func (s *RoomService) ListMine(ctx context.Context, userID domain.UserID) ([]domain.Room, error) {
	rooms, err := s.store.Rooms().ListByMember(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("roomRepo.ListByMember: %w", err)
	}
	return rooms, nil
}

func (s *RoomService) ListPublic(ctx context.Context) ([]domain.Room, error) {
	rooms, err := s.store.Rooms().ListPublic(ctx)
	if err != nil {
		return nil, fmt.Errorf("roomRepo.ListPublic: %w", err)
	}
	return rooms, nil
}

// Get отдаёт комнату с активными участниками. В приватную пускает только участников.
func (s *RoomService) Get(ctx context.Context, userID domain.UserID, id uuid.UUID) (*domain.RoomDetails, error) {
	room, err := s.store.Rooms().Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrRoomNotFound
		}
		return nil, fmt.Errorf("roomRepo.Get: %w", err)
	}

	if room.IsPrivate {
		ok, err := activeMember(ctx, s.store, id, userID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrRoomAccessDenied
		}
	}

	participants, err := s.store.Members().ListActive(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("memberRepo.ListActive: %w", err)
	}

	return &domain.RoomDetails{
		Room:              *room,
		Participants:      participants,
		TotalParticipants: len(participants),
	}, nil
}

// Create создаёт комнату и делает создателя её лидером в одной транзакции.
func (s *RoomService) Create(ctx context.Context, userID domain.UserID, in CreateRoomInput) (*domain.Room, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrRoomNameRequired
	}
	if in.MaxParticipants != nil && *in.MaxParticipants < 0 {
		return nil, domain.ErrInvalidCapacity
	}

	room := &domain.Room{
		ID:              uuid.New(),
		Name:            name,
		Description:     in.Description,
		MaxParticipants: in.MaxParticipants,
		IsPrivate:       in.IsPrivate,
	}
	if room.IsPrivate {
		code := s.newCode()
		room.AccessCode = &code
	}

	err := s.store.RunInTx(ctx, func(tx repository.Repos) error {
		if err := tx.Rooms().Create(ctx, room); err != nil {
			return fmt.Errorf("roomRepo.Create: %w", err)
		}
		leader := &domain.Member{
			RoomID: room.ID,
			UserID: userID,
			Role:   domain.RoleLeader,
			Active: true,
		}
		if err := tx.Members().Add(ctx, leader); err != nil {
			return fmt.Errorf("memberRepo.Add: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

// Update меняет поля комнаты. Доступно только активному лидеру.
func (s *RoomService) Update(ctx context.Context, userID domain.UserID, id uuid.UUID, in UpdateRoomInput) (*domain.Room, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, domain.ErrRoomNameRequired
	}
	if v := in.MaxParticipants.Value; v != nil && *v < 0 {
		return nil, domain.ErrInvalidCapacity
	}

	var room *domain.Room
	err := s.store.RunInTx(ctx, func(tx repository.Repos) error {
		if err := requireLeader(ctx, tx, id, userID); err != nil {
			return err
		}

		var err error
		room, err = tx.Rooms().GetForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.ErrRoomNotFound
			}
			return fmt.Errorf("roomRepo.GetForUpdate: %w", err)
		}

		if in.Name != nil {
			room.Name = strings.TrimSpace(*in.Name)
		}
		if in.Description.Set {
			room.Description = in.Description.Value
		}
		if in.MaxParticipants.Set {
			room.MaxParticipants = in.MaxParticipants.Value
		}
		if in.IsPrivate != nil {
			room.IsPrivate = *in.IsPrivate
			switch {
			case room.IsPrivate && room.AccessCode == nil:
				code := s.newCode()
				room.AccessCode = &code
			case !room.IsPrivate:
				room.AccessCode = nil
			}
		}

		if err := tx.Rooms().Update(ctx, room); err != nil {
			return fmt.Errorf("roomRepo.Update: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

// Delete деактивирует все членства и удаляет комнату. Доступно только лидеру.
func (s *RoomService) Delete(ctx context.Context, userID domain.UserID, id uuid.UUID) error {
	return s.store.RunInTx(ctx, func(tx repository.Repos) error {
		if err := requireLeader(ctx, tx, id, userID); err != nil {
			return err
		}
		if _, err := tx.Rooms().GetForUpdate(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.ErrRoomNotFound
			}
			return fmt.Errorf("roomRepo.GetForUpdate: %w", err)
		}

		if err := tx.Members().DeactivateAll(ctx, id); err != nil {
			return fmt.Errorf("memberRepo.DeactivateAll: %w", err)
		}
		if err := tx.Rooms().Delete(ctx, id); err != nil {
			return fmt.Errorf("roomRepo.Delete: %w", err)
		}
		return nil
	})
}

func requireLeader(ctx context.Context, r repository.Repos, roomID uuid.UUID, userID domain.UserID) error {
	m, err := r.Members().Get(ctx, roomID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrNotRoomLeader
		}
		return fmt.Errorf("memberRepo.Get: %w", err)
	}
	if !m.Active || m.Role != domain.RoleLeader {
		return domain.ErrNotRoomLeader
	}
	return nil
}

func activeMember(ctx context.Context, r repository.Repos, roomID uuid.UUID, userID domain.UserID) (bool, error) {
	m, err := r.Members().Get(ctx, roomID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("memberRepo.Get: %w", err)
	}
	return m.Active, nil
}
