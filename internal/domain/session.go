package domain

import (
	"time"

	"github.com/google/uuid"
)

type SessionState string

const (
	StateRunning   SessionState = "EnEjecucion"
	StateCompleted SessionState = "Completado"
	StateCancelled SessionState = "Cancelado"
	StatePaused    SessionState = "EnPausa"
)

// ParseSessionState принимает только четыре известных состояния.
func ParseSessionState(s string) (SessionState, bool) {
	switch st := SessionState(s); st {
	case StateRunning, StateCompleted, StateCancelled, StatePaused:
		return st, true
	}
	return "", false
}

type Session struct {
	ID              uuid.UUID    `db:"id"`
	UserID          UserID       `db:"user_id"`
	TechniqueID     uuid.UUID    `db:"technique_id"`
	Start           time.Time    `db:"started_at"`
	End             *time.Time   `db:"ended_at"`
	DurationMinutes *int64       `db:"duration_minutes"`
	IsGroup         bool         `db:"is_group"`
	State           SessionState `db:"state"`
}

// SetEnd проставляет конец и длительность в целых минутах (с округлением вниз).
// nil сбрасывает оба поля.
func (s *Session) SetEnd(end *time.Time) {
	if end == nil {
		s.End = nil
		s.DurationMinutes = nil
		return
	}
	e := *end
	d := DurationMinutes(s.Start, e)
	s.End = &e
	s.DurationMinutes = &d
}

// DurationMinutes считает через Unix-секунды: time.Sub упирается
// в предел time.Duration (~292 года) и молча обрезает длинные интервалы.
func DurationMinutes(start, end time.Time) int64 {
	secs := end.Unix() - start.Unix()
	if end.Nanosecond() < start.Nanosecond() {
		secs--
	}
	m := secs / 60
	if secs < 0 && secs%60 != 0 {
		m--
	}
	return m
}

type Parameter struct {
	SessionID uuid.UUID `db:"session_id"`
	Code      string    `db:"code"`
	Quantity  string    `db:"quantity"`
}

// ParameterInput: параметр из запроса; неполные записи отбрасываются.
type ParameterInput struct {
	Code     string
	Quantity string
}

func (p ParameterInput) Complete() bool {
	return p.Code != "" && p.Quantity != ""
}

// SessionFilter: фильтры списка сессий. To является исключающей границей.
type SessionFilter struct {
	TechniqueID *uuid.UUID
	State       *SessionState
	IsGroup     *bool
	From        *time.Time
	To          *time.Time
}

type SessionDetails struct {
	Session
	Technique  *Technique
	Parameters []Parameter
	Rooms      []Room
}
