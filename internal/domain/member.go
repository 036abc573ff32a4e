package domain

import (
	"time"

	"github.com/google/uuid"
)

type UserID int64

type Role string

const (
	RoleLeader Role = "leader"
	RoleGuest  Role = "guest"
)

func (r Role) Valid() bool {
	return r == RoleLeader || r == RoleGuest
}

// Member: членство пользователя в комнате. Строка одна на пару (room, user):
// при выходе она деактивируется, при повторном входе активируется с прежней ролью.
type Member struct {
	RoomID   uuid.UUID `db:"room_id"`
	UserID   UserID    `db:"user_id"`
	Role     Role      `db:"role"`
	Active   bool      `db:"active"`
	JoinedAt time.Time `db:"joined_at"`
}

type Participant struct {
	UserID      UserID
	DisplayName *string
	AvatarURL   *string
	Role        Role
	JoinedAt    time.Time
}
