// AngelaMos | 2026
// handler.go

package recruiter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/WhoisDhiya/Recruitments-sub000/internal/core"
	"github.com/WhoisDhiya/Recruitments-sub000/internal/middleware"
)

type UpdateProfileRequest struct {
	CompanyName    string `json:"company_name"    validate:"required,max=255"`
	Industry       string `json:"industry"        validate:"max=255"`
	Description    string `json:"description"     validate:"max=5000"`
	CompanyEmail   string `json:"company_email"   validate:"omitempty,email,max=255"`
	CompanyAddress string `json:"company_address" validate:"max=500"`
}

type Handler struct {
	repo      Repository
	validator *validator.Validate
}

func NewHandler(repo Repository) *Handler {
	return &Handler{
		repo:      repo,
		validator: core.NewValidator(),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/recruiters", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Use(middleware.RequireRole(middleware.RoleRecruiter, middleware.RoleAdmin))
			r.Get("/me", h.GetMine)
			r.Put("/me", h.UpdateMine)
		})

		r.Get("/{recruiterID}", h.Get)
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "recruiterID"), 10, 64)
	if err != nil || id <= 0 {
		core.BadRequest(w, "invalid recruiter id")
		return
	}

	rec, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "recruiter")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, rec)
}

func (h *Handler) GetMine(w http.ResponseWriter, r *http.Request) {
	rec, err := h.repo.GetByUserID(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "recruiter")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, rec)
}

func (h *Handler) UpdateMine(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	current, err := h.repo.GetByUserID(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "recruiter")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	rec, err := h.repo.UpdateProfile(r.Context(), current.ID, Profile(req))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, rec)
}
