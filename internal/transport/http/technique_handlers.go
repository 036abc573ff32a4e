package http

import (
	"net/http"

	"github.com/cwrk-planet/practice-service/internal/domain"
	"github.com/cwrk-planet/practice-service/internal/transport/http/httputil"
)

// GET /techniques?name=
func (h *Handler) ListTechniques(w http.ResponseWriter, r *http.Request) {
	list, err := h.techniques.List(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		httputil.Error(r.Context(), w, "handler.ListTechniques", err)
		return
	}
	out := make([]TechniqueItem, 0, len(list))
	for i := range list {
		out = append(out, techniqueItem(&list[i]))
	}
	httputil.OK(w, out)
}

// GET /techniques/{id}
func (h *Handler) GetTechnique(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httputil.Error(r.Context(), w, "handler.GetTechnique", domain.ErrTechniqueNotFound)
		return
	}
	t, err := h.techniques.Get(r.Context(), id)
	if err != nil {
		httputil.Error(r.Context(), w, "handler.GetTechnique", err)
		return
	}
	httputil.OK(w, techniqueItem(t))
}
