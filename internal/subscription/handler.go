// AngelaMos | 2026
// handler.go

package subscription

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/WhoisDhiya/Recruitments-sub000/internal/core"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/subscription/{recruiterID}", h.Status)
}

// Status reports whether a recruiter currently has an active
// subscription. Expired and missing subscriptions look the same.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "recruiterID"), 10, 64)
	if err != nil || id <= 0 {
		core.BadRequest(w, "invalid recruiter id")
		return
	}

	sub, err := h.repo.CheckActive(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNoActiveSubscription) {
			core.JSON(w, http.StatusOK, StatusResponse{HasActiveSubscription: false})
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.JSON(w, http.StatusOK, StatusResponse{
		HasActiveSubscription: true,
		Data:                  sub,
	})
}
