package http

import (
	"net/http"

	"github.com/cwrk-planet/practice-service/internal/domain"
	"github.com/cwrk-planet/practice-service/internal/service"
	"github.com/cwrk-planet/practice-service/internal/transport/http/httputil"
)

// GET /sessions?technique_id=&state=&is_group=&from=&to=
func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := h.sessions.List(r.Context(), userID(r), service.ListSessionsInput{
		TechniqueID: q.Get("technique_id"),
		State:       q.Get("state"),
		IsGroup:     q.Get("is_group"),
		From:        q.Get("from"),
		To:          q.Get("to"),
	})
	if err != nil {
		httputil.Error(r.Context(), w, "handler.ListSessions", err)
		return
	}
	out := make([]SessionDetailsResponse, 0, len(list))
	for i := range list {
		out = append(out, sessionDetails(&list[i]))
	}
	httputil.OK(w, out)
}

// GET /sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httputil.Error(r.Context(), w, "handler.GetSession", domain.ErrSessionNotFound)
		return
	}
	d, err := h.sessions.Get(r.Context(), userID(r), id)
	if err != nil {
		httputil.Error(r.Context(), w, "handler.GetSession", err)
		return
	}
	httputil.OK(w, sessionDetails(d))
}

// POST /sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if !decode(w, r, &req) {
		return
	}
	ss, err := h.sessions.Create(r.Context(), userID(r), service.CreateSessionInput{
		TechniqueID: req.TechniqueID,
		Start:       req.Start,
		End:         req.End,
		IsGroup:     req.IsGroup,
		State:       req.State,
		Parameters:  parameterInputs(req.Parameters),
		RoomIDs:     req.RoomIDs,
	})
	if err != nil {
		httputil.Error(r.Context(), w, "handler.CreateSession", err)
		return
	}
	httputil.JSON(w, http.StatusCreated, sessionItem(ss))
}

// POST /sessions/start
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req StartSessionRequest
	if !decode(w, r, &req) {
		return
	}
	ss, err := h.sessions.Start(r.Context(), userID(r), service.StartSessionInput{
		TechniqueID: req.TechniqueID,
		IsGroup:     req.IsGroup,
		Parameters:  parameterInputs(req.Parameters),
		RoomIDs:     req.RoomIDs,
	})
	if err != nil {
		httputil.Error(r.Context(), w, "handler.StartSession", err)
		return
	}
	httputil.JSON(w, http.StatusCreated, sessionItem(ss))
}

// PATCH /sessions/{id}/finish
func (h *Handler) FinishSession(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httputil.Error(r.Context(), w, "handler.FinishSession", domain.ErrRunningSessionNotFound)
		return
	}
	ss, err := h.sessions.Finish(r.Context(), userID(r), id)
	if err != nil {
		httputil.Error(r.Context(), w, "handler.FinishSession", err)
		return
	}
	httputil.OK(w, FinishSessionResponse{Message: "session finished", Session: sessionItem(ss)})
}

// PUT /sessions/{id}
func (h *Handler) UpdateSession(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httputil.Error(r.Context(), w, "handler.UpdateSession", domain.ErrSessionNotFound)
		return
	}
	var req UpdateSessionRequest
	if !decode(w, r, &req) {
		return
	}
	in := service.UpdateSessionInput{State: req.State, End: req.End}
	if req.Parameters.Set {
		in.Parameters.Set = true
		if req.Parameters.Value != nil {
			params := parameterInputs(*req.Parameters.Value)
			in.Parameters.Value = &params
		}
	}
	ss, err := h.sessions.Update(r.Context(), userID(r), id, in)
	if err != nil {
		httputil.Error(r.Context(), w, "handler.UpdateSession", err)
		return
	}
	httputil.OK(w, sessionItem(ss))
}

// DELETE /sessions/{id}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httputil.Error(r.Context(), w, "handler.DeleteSession", domain.ErrSessionNotFound)
		return
	}
	if err := h.sessions.Delete(r.Context(), userID(r), id); err != nil {
		httputil.Error(r.Context(), w, "handler.DeleteSession", err)
		return
	}
	httputil.Message(w, "session deleted")
}

// GET /sessions/stats
func (h *Handler) SessionStats(w http.ResponseWriter, r *http.Request) {
	st, err := h.stats.Get(r.Context(), userID(r))
	if err != nil {
		httputil.Error(r.Context(), w, "handler.SessionStats", err)
		return
	}
	httputil.OK(w, statsResponse(st))
}
