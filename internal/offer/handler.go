// AngelaMos | 2026
// handler.go

package offer

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

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/offers", func(r chi.Router) {
		r.Get("/", h.List)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Use(middleware.RequireRole(middleware.RoleRecruiter, middleware.RoleAdmin))

			r.Post("/", h.Create)
			r.Get("/mine", h.ListMine)
			r.Delete("/{offerID}", h.Delete)
		})

		r.Get("/{offerID}", h.Get)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := ListParams{
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", 20),
		Search:   r.URL.Query().Get("search"),
	}
	params.Normalize()

	offers, total, err := h.service.ListPublic(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(w, offers, params.Page, params.PageSize, total)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseOfferID(w, r)
	if !ok {
		return
	}

	o, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "offer")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, o)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	o, err := h.service.Create(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Created(w, o)
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	offers, err := h.service.ListMine(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, offers)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseOfferID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), middleware.GetUserID(r.Context()), id); err != nil {
		writeError(w, err)
		return
	}

	core.NoContent(w)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrOfferLimitReached):
		core.JSONError(w, core.NewAppError(err, "offer limit reached for the current pack",
			http.StatusForbidden, "OFFER_LIMIT_REACHED"))
	case errors.Is(err, ErrSubscriptionRequired):
		core.JSONError(w, core.NewAppError(err, "an active subscription is required",
			http.StatusForbidden, "SUBSCRIPTION_REQUIRED"))
	case errors.Is(err, ErrNotRecruiter):
		core.Forbidden(w, "recruiter profile required")
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "offer")
	default:
		core.InternalServerError(w, err)
	}
}

func parseOfferID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "offerID"), 10, 64)
	if err != nil || id <= 0 {
		core.BadRequest(w, "invalid offer id")
		return 0, false
	}
	return id, true
}

func parseIntQuery(r *http.Request, key string, fallback int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return fallback
	}
	return v
}
