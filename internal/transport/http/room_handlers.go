package http

import (
	"net/http"
	"strings"

	"github.com/cwrk-planet/practice-service/internal/domain"
	"github.com/cwrk-planet/practice-service/internal/service"
	"github.com/cwrk-planet/practice-service/internal/transport/http/httputil"

	"github.com/google/uuid"
)

// GET /rooms
func (h *Handler) ListMyRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.rooms.ListMine(r.Context(), userID(r))
	if err != nil {
		httputil.Error(r.Context(), w, "handler.ListMyRooms", err)
		return
	}
	httputil.OK(w, roomItems(rooms))
}

// GET /rooms/public
func (h *Handler) ListPublicRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.rooms.ListPublic(r.Context())
	if err != nil {
		httputil.Error(r.Context(), w, "handler.ListPublicRooms", err)
		return
	}
	httputil.OK(w, roomItems(rooms))
}

// GET /rooms/{id}
func (h *Handler) GetRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httputil.Error(r.Context(), w, "handler.GetRoom", domain.ErrRoomNotFound)
		return
	}
	d, err := h.rooms.Get(r.Context(), userID(r), id)
	if err != nil {
		httputil.Error(r.Context(), w, "handler.GetRoom", err)
		return
	}
	httputil.OK(w, roomDetails(d))
}

// POST /rooms
func (h *Handler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req CreateRoomRequest
	if !decode(w, r, &req) {
		return
	}
	room, err := h.rooms.Create(r.Context(), userID(r), service.CreateRoomInput{
		Name:            req.Name,
		Description:     req.Description,
		MaxParticipants: req.MaxParticipants,
		IsPrivate:       req.IsPrivate,
	})
	if err != nil {
		httputil.Error(r.Context(), w, "handler.CreateRoom", err)
		return
	}
	httputil.JSON(w, http.StatusCreated, roomItem(room))
}

// PUT /rooms/{id}
func (h *Handler) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httputil.Error(r.Context(), w, "handler.UpdateRoom", domain.ErrRoomNotFound)
		return
	}
	var req UpdateRoomRequest
	if !decode(w, r, &req) {
		return
	}
	room, err := h.rooms.Update(r.Context(), userID(r), id, service.UpdateRoomInput{
		Name:            req.Name,
		Description:     req.Description,
		MaxParticipants: req.MaxParticipants,
		IsPrivate:       req.IsPrivate,
	})
	if err != nil {
		httputil.Error(r.Context(), w, "handler.UpdateRoom", err)
		return
	}
	httputil.OK(w, roomItem(room))
}

// DELETE /rooms/{id}
func (h *Handler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httputil.Error(r.Context(), w, "handler.DeleteRoom", domain.ErrRoomNotFound)
		return
	}
	if err := h.rooms.Delete(r.Context(), userID(r), id); err != nil {
		httputil.Error(r.Context(), w, "handler.DeleteRoom", err)
		return
	}
	httputil.Message(w, "room deleted")
}

// POST /rooms/join: комната указывается в теле.
func (h *Handler) JoinRoomByBody(w http.ResponseWriter, r *http.Request) {
	var req JoinRoomRequest
	if !decode(w, r, &req) {
		return
	}
	var roomID uuid.UUID
	if raw := strings.TrimSpace(req.RoomID); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httputil.Error(r.Context(), w, "handler.JoinRoom", domain.ErrInvalidRoomID)
			return
		}
		roomID = id
	}
	h.join(w, r, roomID, req.AccessCode)
}

// POST /rooms/{id}/join
func (h *Handler) JoinRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httputil.Error(r.Context(), w, "handler.JoinRoom", domain.ErrRoomNotFound)
		return
	}
	var req JoinRoomRequest
	if !decode(w, r, &req) {
		return
	}
	h.join(w, r, id, req.AccessCode)
}

func (h *Handler) join(w http.ResponseWriter, r *http.Request, roomID uuid.UUID, code string) {
	if err := h.members.Join(r.Context(), userID(r), roomID, code); err != nil {
		httputil.Error(r.Context(), w, "handler.JoinRoom", err)
		return
	}
	httputil.Message(w, "joined room")
}

// POST /rooms/{id}/leave
func (h *Handler) LeaveRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httputil.Error(r.Context(), w, "handler.LeaveRoom", domain.ErrRoomNotFound)
		return
	}
	if err := h.members.Leave(r.Context(), userID(r), id); err != nil {
		httputil.Error(r.Context(), w, "handler.LeaveRoom", err)
		return
	}
	httputil.Message(w, "left room")
}
