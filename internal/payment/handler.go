// AngelaMos | 2026
// handler.go

package payment

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/WhoisDhiya/Recruitments-sub000/internal/core"
	"github.com/WhoisDhiya/Recruitments-sub000/internal/gateway"
	"github.com/WhoisDhiya/Recruitments-sub000/internal/middleware"
	"github.com/WhoisDhiya/Recruitments-sub000/internal/pending"
)

const (
	maxWebhookBody  = 64 << 10
	signatureHeader = "Stripe-Signature"
)

type Handler struct {
	service   *Service
	pending   *pending.Service
	validator *validator.Validate
	logger    *slog.Logger
}

func NewHandler(service *Service, pendingSvc *pending.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		service:   service,
		pending:   pendingSvc,
		validator: core.NewValidator(),
		logger:    logger.With("component", "payment"),
	}
}

// RegisterRoutes mounts the payment endpoints on r. limiter guards the
// write endpoints; optionalAuth lets a signed-in caller stand in for the
// user of an inline recruiter payload.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	optionalAuth, limiter func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(limiter)

		r.Post("/pending-recruiters", h.RegisterPending)
		r.With(optionalAuth).Post("/create-checkout-session", h.CreateCheckoutSession)
		r.Post("/payment-success", h.PaymentSuccess)
	})

	r.Post("/webhook", h.Webhook)
}

func (h *Handler) RegisterPending(w http.ResponseWriter, r *http.Request) {
	var req pending.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	id, err := h.pending.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, pending.ErrMissingFields) {
			core.JSONError(w, core.NewAppError(
				err,
				err.Error(),
				http.StatusServiceUnavailable,
				"MISSING_FIELDS",
			))
			return
		}
		if errors.Is(err, pending.ErrInvalidRegistration) {
			core.BadRequest(w, err.Error())
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.JSON(w, http.StatusCreated, pending.RegisterResponse{PendingID: id})
}

func (h *Handler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	if !h.service.Enabled() {
		h.unavailable(w)
		return
	}

	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	url, err := h.service.CreateCheckout(r.Context(), req, middleware.GetUserID(r.Context()))
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.JSON(w, http.StatusOK, CheckoutResponse{URL: url})
}

func (h *Handler) PaymentSuccess(w http.ResponseWriter, r *http.Request) {
	if !h.service.Enabled() {
		h.unavailable(w)
		return
	}

	var req ConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	resp, err := h.service.ConfirmPayment(r.Context(), req.SessionID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.JSON(w, http.StatusOK, resp)
}

func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	if !h.service.Enabled() {
		h.unavailable(w)
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		core.BadRequest(w, "unreadable webhook body")
		return
	}

	if err := h.service.HandleWebhook(r.Context(), payload, r.Header.Get(signatureHeader)); err != nil {
		if errors.Is(err, gateway.ErrInvalidEvent) {
			h.logger.Warn("webhook rejected", "error", err)
		}
		h.writeError(w, err)
		return
	}

	core.JSON(w, http.StatusOK, WebhookResponse{Received: true})
}

func (h *Handler) unavailable(w http.ResponseWriter) {
	core.JSON(w, http.StatusServiceUnavailable, UnavailableResponse{
		Status:  "UNAVAILABLE",
		Message: "payments are currently unavailable",
	})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, gateway.ErrUnavailable):
		h.unavailable(w)
	case errors.Is(err, ErrPaymentNotPaid):
		core.JSONError(w, core.NewAppError(err, "payment has not been completed",
			http.StatusBadRequest, "PAYMENT_NOT_PAID"))
	case errors.Is(err, ErrPlanNotFound):
		core.JSONError(w, core.NewAppError(err, "pack not found",
			http.StatusBadRequest, "NOT_FOUND"))
	case errors.Is(err, ErrRecruiterNotFound):
		core.JSONError(w, core.NewAppError(err, "recruiter not found",
			http.StatusBadRequest, "NOT_FOUND"))
	case errors.Is(err, ErrPendingNotFound):
		core.JSONError(w, core.NewAppError(err, "pending registration not found",
			http.StatusBadRequest, "NOT_FOUND"))
	case errors.Is(err, ErrUserNotFound):
		core.JSONError(w, core.NewAppError(err, "user not found",
			http.StatusBadRequest, "NOT_FOUND"))
	case errors.Is(err, ErrUnresolvedRecruiter):
		core.JSONError(w, core.NewAppError(err, "checkout session does not name a recruiter",
			http.StatusBadRequest, "UNRESOLVED_RECRUITER"))
	case errors.Is(err, gateway.ErrProvider):
		h.logger.Error("payment provider call failed", "error", err)
		core.JSONError(w, core.NewAppError(err, "payment provider error",
			http.StatusInternalServerError, "GATEWAY_ERROR"))
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, err.Error())
	default:
		core.InternalServerError(w, err)
	}
}
