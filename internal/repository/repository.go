package repository

import (
	"context"

	"github.com/cwrk-planet/practice-service/internal/domain"

	"github.com/google/uuid"
)

type RoomRepository interface {
	Create(ctx context.Context, r *domain.Room) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Room, error)
	// Берёт комнату с блокировкой строки до конца транзакции
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Room, error)
	Update(ctx context.Context, r *domain.Room) error
	Delete(ctx context.Context, id uuid.UUID) error
	// Комнаты, где у пользователя активное членство
	ListByMember(ctx context.Context, userID domain.UserID) ([]domain.Room, error)
	ListPublic(ctx context.Context) ([]domain.Room, error)
}

type MemberRepository interface {
	// Возвращает строку членства независимо от флага active
	Get(ctx context.Context, roomID uuid.UUID, userID domain.UserID) (*domain.Member, error)
	Add(ctx context.Context, m *domain.Member) error
	SetActive(ctx context.Context, roomID uuid.UUID, userID domain.UserID, active bool) error
	SetRole(ctx context.Context, roomID uuid.UUID, userID domain.UserID, role domain.Role) error
	DeactivateAll(ctx context.Context, roomID uuid.UUID) error
	CountActive(ctx context.Context, roomID uuid.UUID) (int, error)
	// Активные лидеры комнаты, кроме exclude
	CountActiveLeaders(ctx context.Context, roomID uuid.UUID, exclude domain.UserID) (int, error)
	// Самый ранний по joined_at активный гость
	FirstActiveGuest(ctx context.Context, roomID uuid.UUID) (*domain.Member, error)
	ListActive(ctx context.Context, roomID uuid.UUID) ([]domain.Participant, error)
}

type SessionRepository interface {
	// ErrAlreadyExists, если у пользователя уже есть сессия EnEjecucion
	Create(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, userID domain.UserID, id uuid.UUID) (*domain.Session, error)
	GetForUpdate(ctx context.Context, userID domain.UserID, id uuid.UUID) (*domain.Session, error)
	HasRunning(ctx context.Context, userID domain.UserID) (bool, error)
	// Сортировка по началу, новые первыми
	List(ctx context.Context, userID domain.UserID, f domain.SessionFilter) ([]domain.Session, error)
	Update(ctx context.Context, s *domain.Session) error
	Delete(ctx context.Context, id uuid.UUID) error

	AddParameters(ctx context.Context, sessionID uuid.UUID, params []domain.ParameterInput) error
	DeleteParameters(ctx context.Context, sessionID uuid.UUID) error
	Parameters(ctx context.Context, sessionIDs ...uuid.UUID) (map[uuid.UUID][]domain.Parameter, error)

	AddRoomLink(ctx context.Context, sessionID, roomID uuid.UUID) error
	DeleteRoomLinks(ctx context.Context, sessionID uuid.UUID) error
	LinkedRooms(ctx context.Context, sessionID uuid.UUID) ([]domain.Room, error)
}

type TechniqueRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Technique, error)
	GetMany(ctx context.Context, ids ...uuid.UUID) (map[uuid.UUID]domain.Technique, error)
	// Поиск по подстроке имени без учёта регистра; пустая строка: все техники
	List(ctx context.Context, name string) ([]domain.Technique, error)
}

type StatsRepository interface {
	SessionTotals(ctx context.Context, userID domain.UserID) (*domain.SessionTotals, error)
}

// Repos: набор репозиториев поверх одного соединения или одной транзакции.
type Repos interface {
	Rooms() RoomRepository
	Members() MemberRepository
	Sessions() SessionRepository
	Techniques() TechniqueRepository
	Stats() StatsRepository
}

// Store: точка входа в хранилище. RunInTx выполняет fn атомарно:
// любая ошибка из fn откатывает все изменения.
type Store interface {
	Repos
	RunInTx(ctx context.Context, fn func(tx Repos) error) error
}
