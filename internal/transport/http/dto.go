package http

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/cwrk-planet/practice-service/internal/domain"
)

// --- rooms ---

type CreateRoomRequest struct {
	Name            string  `json:"name"`
	Description     *string `json:"description"`
	MaxParticipants *int64  `json:"max_participants"`
	IsPrivate       bool    `json:"is_private"`
}

type UpdateRoomRequest struct {
	Name            *string                 `json:"name"`
	Description     domain.Optional[string] `json:"description"`
	MaxParticipants domain.Optional[int64]  `json:"max_participants"`
	IsPrivate       *bool                   `json:"is_private"`
}

type JoinRoomRequest struct {
	RoomID     string `json:"room_id"`
	AccessCode string `json:"access_code"`
}

type RoomItem struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     *string   `json:"description"`
	MaxParticipants *int64    `json:"max_participants"`
	IsPrivate       bool      `json:"is_private"`
	AccessCode      *string   `json:"access_code"`
	CreatedAt       time.Time `json:"created_at"`
}

type ParticipantItem struct {
	UserID      int64     `json:"user_id"`
	DisplayName *string   `json:"display_name"`
	AvatarURL   *string   `json:"avatar_url"`
	Role        string    `json:"role"`
	JoinedAt    time.Time `json:"joined_at"`
}

type RoomDetailsResponse struct {
	RoomItem
	Participants      []ParticipantItem `json:"participants"`
	TotalParticipants int               `json:"total_participants"`
}

// RoomSummary: комната, привязанная к групповой сессии.
type RoomSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsPrivate bool   `json:"is_private"`
}

func roomItem(r *domain.Room) RoomItem {
	return RoomItem{
		ID:              r.ID.String(),
		Name:            r.Name,
		Description:     r.Description,
		MaxParticipants: r.MaxParticipants,
		IsPrivate:       r.IsPrivate,
		AccessCode:      r.AccessCode,
		CreatedAt:       r.CreatedAt,
	}
}

func roomItems(rooms []domain.Room) []RoomItem {
	out := make([]RoomItem, 0, len(rooms))
	for i := range rooms {
		out = append(out, roomItem(&rooms[i]))
	}
	return out
}

func roomDetails(d *domain.RoomDetails) RoomDetailsResponse {
	resp := RoomDetailsResponse{
		RoomItem:          roomItem(&d.Room),
		Participants:      make([]ParticipantItem, 0, len(d.Participants)),
		TotalParticipants: d.TotalParticipants,
	}
	for _, p := range d.Participants {
		resp.Participants = append(resp.Participants, ParticipantItem{
			UserID:      int64(p.UserID),
			DisplayName: p.DisplayName,
			AvatarURL:   p.AvatarURL,
			Role:        string(p.Role),
			JoinedAt:    p.JoinedAt,
		})
	}
	return resp
}

// --- sessions ---

// ParameterRequest: quantity приходит строкой или числом и хранится текстом.
type ParameterRequest struct {
	Code     string          `json:"code"`
	Quantity json.RawMessage `json:"quantity"`
}

type CreateSessionRequest struct {
	TechniqueID string             `json:"technique_id"`
	Start       *string            `json:"start"`
	End         *string            `json:"end"`
	IsGroup     bool               `json:"is_group"`
	State       *string            `json:"state"`
	Parameters  []ParameterRequest `json:"parameters"`
	RoomIDs     []string           `json:"room_ids"`
}

type StartSessionRequest struct {
	TechniqueID string             `json:"technique_id"`
	IsGroup     bool               `json:"is_group"`
	Parameters  []ParameterRequest `json:"parameters"`
	RoomIDs     []string           `json:"room_ids"`
}

type UpdateSessionRequest struct {
	State      *string                             `json:"state"`
	End        domain.Optional[string]             `json:"end"`
	Parameters domain.Optional[[]ParameterRequest] `json:"parameters"`
}

type SessionItem struct {
	ID              string     `json:"id"`
	UserID          int64      `json:"user_id"`
	TechniqueID     string     `json:"technique_id"`
	Start           time.Time  `json:"start"`
	End             *time.Time `json:"end"`
	DurationMinutes *int64     `json:"duration_minutes"`
	IsGroup         bool       `json:"is_group"`
	State           string     `json:"state"`
}

type ParameterItem struct {
	Code     string `json:"code"`
	Quantity string `json:"quantity"`
}

type SessionDetailsResponse struct {
	SessionItem
	Technique  *TechniqueItem  `json:"technique"`
	Parameters []ParameterItem `json:"parameters"`
	Rooms      []RoomSummary   `json:"rooms,omitempty"`
}

type FinishSessionResponse struct {
	Message string      `json:"message"`
	Session SessionItem `json:"session"`
}

type TechniqueStatsItem struct {
	Technique string `json:"technique"`
	Sessions  int64  `json:"sessions"`
	Minutes   int64  `json:"minutes"`
}

type StatsResponse struct {
	TotalSessions     int64                `json:"total_sessions"`
	CompletedSessions int64                `json:"completed_sessions"`
	TotalMinutes      int64                `json:"total_minutes"`
	TotalHours        float64              `json:"total_hours"`
	AverageMinutes    float64              `json:"average_minutes"`
	ByTechnique       []TechniqueStatsItem `json:"by_technique"`
}

func sessionItem(s *domain.Session) SessionItem {
	return SessionItem{
		ID:              s.ID.String(),
		UserID:          int64(s.UserID),
		TechniqueID:     s.TechniqueID.String(),
		Start:           s.Start,
		End:             s.End,
		DurationMinutes: s.DurationMinutes,
		IsGroup:         s.IsGroup,
		State:           string(s.State),
	}
}

func sessionDetails(d *domain.SessionDetails) SessionDetailsResponse {
	resp := SessionDetailsResponse{
		SessionItem: sessionItem(&d.Session),
		Parameters:  make([]ParameterItem, 0, len(d.Parameters)),
	}
	if d.Technique != nil {
		t := techniqueItem(d.Technique)
		resp.Technique = &t
	}
	for _, p := range d.Parameters {
		resp.Parameters = append(resp.Parameters, ParameterItem{Code: p.Code, Quantity: p.Quantity})
	}
	// связанные комнаты грузит только Get групповой сессии
	if d.Rooms != nil {
		resp.Rooms = make([]RoomSummary, 0, len(d.Rooms))
		for _, r := range d.Rooms {
			resp.Rooms = append(resp.Rooms, RoomSummary{ID: r.ID.String(), Name: r.Name, IsPrivate: r.IsPrivate})
		}
	}
	return resp
}

func statsResponse(st *domain.Stats) StatsResponse {
	resp := StatsResponse{
		TotalSessions:     st.TotalSessions,
		CompletedSessions: st.CompletedSessions,
		TotalMinutes:      st.TotalMinutes,
		TotalHours:        st.TotalHours,
		AverageMinutes:    st.AverageMinutes,
		ByTechnique:       make([]TechniqueStatsItem, 0, len(st.ByTechnique)),
	}
	for _, t := range st.ByTechnique {
		resp.ByTechnique = append(resp.ByTechnique, TechniqueStatsItem{
			Technique: t.Technique,
			Sessions:  t.Sessions,
			Minutes:   t.Minutes,
		})
	}
	return resp
}

// parameterInputs переводит параметры запроса во входные данные сервиса.
// Пустые значения (null, "", 0, false, [] и {}) становятся пустой строкой,
// и сервис такие записи отбрасывает.
func parameterInputs(in []ParameterRequest) []domain.ParameterInput {
	out := make([]domain.ParameterInput, 0, len(in))
	for _, p := range in {
		out = append(out, domain.ParameterInput{Code: p.Code, Quantity: quantityText(p.Quantity)})
	}
	return out
}

func quantityText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case 'n', 'f':
		return ""
	case 't':
		return "true"
	case '[', '{':
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil || buf.Len() == 2 {
			return ""
		}
		return buf.String()
	}
	if f, err := strconv.ParseFloat(string(raw), 64); err != nil || f == 0 {
		return ""
	}
	return string(raw)
}

// --- techniques ---

type TechniqueItem struct {
	ID          string                  `json:"id"`
	Name        string                  `json:"name"`
	Description *string                 `json:"description"`
	Parameters  []domain.TechniqueParam `json:"parameters"`
}

func techniqueItem(t *domain.Technique) TechniqueItem {
	params := t.Parameters
	if params == nil {
		params = []domain.TechniqueParam{}
	}
	return TechniqueItem{
		ID:          t.ID.String(),
		Name:        t.Name,
		Description: t.Description,
		Parameters:  params,
	}
}
