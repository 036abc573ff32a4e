package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cwrk-planet/practice-service/internal/domain"
	"github.com/cwrk-planet/practice-service/internal/repository"

	"github.com/google/uuid"
)

type MemberService struct {
	store repository.Store
}

func NewMemberService(store repository.Store) *MemberService {
	return &MemberService{store: store}
}

// Join добавляет пользователя в комнату гостем или реактивирует прежнее членство
// с сохранённой ролью. Строка комнаты блокируется, чтобы проверка лимита
// и вставка не гонялись с параллельными входами.
func (s *MemberService) Join(ctx context.Context, userID domain.UserID, roomID uuid.UUID, accessCode string) error {
	if roomID == uuid.Nil {
		return domain.ErrRoomIDRequired
	}

	return s.store.RunInTx(ctx, func(tx repository.Repos) error {
		room, err := tx.Rooms().GetForUpdate(ctx, roomID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.ErrRoomNotFound
			}
			return fmt.Errorf("roomRepo.GetForUpdate: %w", err)
		}

		if room.IsPrivate && (room.AccessCode == nil || *room.AccessCode != accessCode) {
			return domain.ErrWrongAccessCode
		}

		m, err := tx.Members().Get(ctx, roomID, userID)
		switch {
		case err == nil:
			if m.Active {
				return domain.ErrAlreadyJoined
			}
			// роль не сбрасываем: бывший лидер возвращается лидером
			if err := tx.Members().SetActive(ctx, roomID, userID, true); err != nil {
				return fmt.Errorf("memberRepo.SetActive: %w", err)
			}
			return nil
		case !errors.Is(err, repository.ErrNotFound):
			return fmt.Errorf("memberRepo.Get: %w", err)
		}

		if room.HasCapacityLimit() {
			n, err := tx.Members().CountActive(ctx, roomID)
			if err != nil {
				return fmt.Errorf("memberRepo.CountActive: %w", err)
			}
			if int64(n) >= *room.MaxParticipants {
				return domain.ErrRoomFull
			}
		}

		guest := &domain.Member{
			RoomID: roomID,
			UserID: userID,
			Role:   domain.RoleGuest,
			Active: true,
		}
		if err := tx.Members().Add(ctx, guest); err != nil {
			return fmt.Errorf("memberRepo.Add: %w", err)
		}
		return nil
	})
}

// Leave деактивирует членство. Если уходит последний лидер, лидерство
// переходит к самому раннему активному гостю, а без гостей комната удаляется.
func (s *MemberService) Leave(ctx context.Context, userID domain.UserID, roomID uuid.UUID) error {
	return s.store.RunInTx(ctx, func(tx repository.Repos) error {
		if _, err := tx.Rooms().GetForUpdate(ctx, roomID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.ErrNotInRoom
			}
			return fmt.Errorf("roomRepo.GetForUpdate: %w", err)
		}

		m, err := tx.Members().Get(ctx, roomID, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.ErrNotInRoom
			}
			return fmt.Errorf("memberRepo.Get: %w", err)
		}
		if !m.Active {
			return domain.ErrNotInRoom
		}

		if m.Role == domain.RoleLeader {
			others, err := tx.Members().CountActiveLeaders(ctx, roomID, userID)
			if err != nil {
				return fmt.Errorf("memberRepo.CountActiveLeaders: %w", err)
			}
			if others == 0 {
				next, err := tx.Members().FirstActiveGuest(ctx, roomID)
				switch {
				case err == nil:
					if err := tx.Members().SetRole(ctx, roomID, next.UserID, domain.RoleLeader); err != nil {
						return fmt.Errorf("memberRepo.SetRole: %w", err)
					}
					slog.Info("room leadership transferred",
						slog.String("room_id", roomID.String()),
						slog.Int64("from", int64(userID)),
						slog.Int64("to", int64(next.UserID)),
					)
				case errors.Is(err, repository.ErrNotFound):
					// больше никого нет: комната уходит вместе со всеми членствами
					if err := tx.Rooms().Delete(ctx, roomID); err != nil {
						return fmt.Errorf("roomRepo.Delete: %w", err)
					}
					slog.Info("empty room deleted", slog.String("room_id", roomID.String()))
					return nil
				default:
					return fmt.Errorf("memberRepo.FirstActiveGuest: %w", err)
				}
			}
		}

		if err := tx.Members().SetActive(ctx, roomID, userID, false); err != nil {
			return fmt.Errorf("memberRepo.SetActive: %w", err)
		}
		return nil
	})
}
