// AngelaMos | 2026
// gateway.go

// Package gateway adapts the external payment provider. New is the only
// place that decides whether payments are live; every other component sees
// a Gateway and asks it.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/WhoisDhiya/Recruitments-sub000/internal/config"
	"github.com/WhoisDhiya/Recruitments-sub000/internal/core"
	"github.com/WhoisDhiya/Recruitments-sub000/internal/plan"
)

var (
	ErrUnavailable     = fmt.Errorf("payment gateway: %w", core.ErrUnavailable)
	ErrProvider        = errors.New("payment provider error")
	ErrInvalidMetadata = fmt.Errorf("session metadata: %w", core.ErrInvalidInput)
	ErrInvalidEvent    = fmt.Errorf("webhook event: %w", core.ErrInvalidInput)
)

const PaymentStatusPaid = "paid"

const EventCheckoutCompleted = "checkout.session.completed"

type Gateway interface {
	Enabled() bool
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (string, error)
	RetrieveSession(ctx context.Context, sessionID string) (*Session, error)
	VerifyWebhook(payload []byte, signature string) (*WebhookEvent, error)
}

type CheckoutRequest struct {
	Plan          plan.Plan
	Owner         Owner
	CustomerEmail string
}

// Session is the provider's view of a checkout. AmountTotal is in minor
// currency units.
type Session struct {
	ID            string
	PaymentStatus string
	AmountTotal   int64
	Currency      string
	TransactionID string
	CustomerEmail string
	Metadata      Metadata
}

func (s *Session) Paid() bool {
	return s.PaymentStatus == PaymentStatusPaid
}

// Amount returns AmountTotal in major currency units.
func (s *Session) Amount() float64 {
	return float64(s.AmountTotal) / 100
}

type WebhookEvent struct {
	ID        string
	Type      string
	SessionID string
}

// New returns the Stripe adapter when cfg enables payments and the
// disabled adapter otherwise.
func New(cfg config.PaymentsConfig, logger *slog.Logger) Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "gateway")

	if !cfg.Enabled() {
		logger.Warn("payments disabled: gateway calls will report unavailable",
			"explicitly_disabled", cfg.Disabled,
		)
		return Disabled{}
	}

	return NewStripe(cfg, nil, logger)
}

// Disabled is the gateway used when payments are switched off.
type Disabled struct{}

func (Disabled) Enabled() bool { return false }

func (Disabled) CreateCheckoutSession(context.Context, CheckoutRequest) (string, error) {
	return "", ErrUnavailable
}

func (Disabled) RetrieveSession(context.Context, string) (*Session, error) {
	return nil, ErrUnavailable
}

func (Disabled) VerifyWebhook([]byte, string) (*WebhookEvent, error) {
	return nil, ErrUnavailable
}
