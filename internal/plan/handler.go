// AngelaMos | 2026
// handler.go

package plan

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/WhoisDhiya/Recruitments-sub000/internal/core"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the catalog on r. The routes never depend on the
// payment gateway being configured.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/packs", h.List)
	r.Get("/packs/{packID}", h.Get)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	plans, err := h.service.List(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, plans)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "packID"), 10, 64)
	if err != nil {
		core.BadRequest(w, "invalid pack id")
		return
	}

	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "pack")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, p)
}
