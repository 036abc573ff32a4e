package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/cwrk-planet/practice-service/internal/domain"
	"github.com/cwrk-planet/practice-service/internal/service"
	httpmw "github.com/cwrk-planet/practice-service/internal/transport/http/middleware"
	"github.com/cwrk-planet/practice-service/internal/transport/http/httputil"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	rooms      *service.RoomService
	members    *service.MemberService
	sessions   *service.SessionService
	stats      *service.StatsService
	techniques *service.TechniqueService
}

type Services struct {
	Rooms      *service.RoomService
	Members    *service.MemberService
	Sessions   *service.SessionService
	Stats      *service.StatsService
	Techniques *service.TechniqueService
}

func NewHandler(s Services) *Handler {
	return &Handler{
		rooms:      s.Rooms,
		members:    s.Members,
		sessions:   s.Sessions,
		stats:      s.Stats,
		techniques: s.Techniques,
	}
}

// decode читает JSON-тело. Пустое тело не ошибка: поля остаются нулевыми.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	httputil.ErrorMsg(w, http.StatusBadRequest, "invalid JSON")
	return false
}

// pathID разбирает {id}; кривой id означает, что такой сущности нет.
func pathID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}

func userID(r *http.Request) domain.UserID {
	return httpmw.UserIDFromCtx(r.Context())
}
