package domain

import (
	"time"

	"github.com/google/uuid"
)

type Room struct {
	ID              uuid.UUID `db:"id"`
	Name            string    `db:"name"`
	Description     *string   `db:"description"`
	MaxParticipants *int64    `db:"max_participants"`
	IsPrivate       bool      `db:"is_private"`
	AccessCode      *string   `db:"access_code"`
	CreatedAt       time.Time `db:"created_at"`
}

// HasCapacityLimit: лимит участников задан (0 и NULL считаются «без лимита»).
func (r *Room) HasCapacityLimit() bool {
	return r.MaxParticipants != nil && *r.MaxParticipants > 0
}

// RoomDetails: комната вместе с активными участниками.
type RoomDetails struct {
	Room
	Participants      []Participant
	TotalParticipants int
}
