// AngelaMos | 2026
// stripe.go

package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/WhoisDhiya/Recruitments-sub000/internal/config"
)

type Stripe struct {
	api    *client.API
	cfg    config.PaymentsConfig
	logger *slog.Logger
}

// NewStripe builds the Stripe adapter. backends is nil in production;
// tests point it at a local server.
func NewStripe(
	cfg config.PaymentsConfig,
	backends *stripe.Backends,
	logger *slog.Logger,
) *Stripe {
	if logger == nil {
		logger = slog.Default()
	}
	return &Stripe{
		api:    client.New(cfg.SecretKey, backends),
		cfg:    cfg,
		logger: logger,
	}
}

func (s *Stripe) Enabled() bool { return true }

func (s *Stripe) CreateCheckoutSession(
	ctx context.Context,
	req CheckoutRequest,
) (string, error) {
	md, err := Metadata{PackID: req.Plan.ID, Owner: req.Owner}.Encode()
	if err != nil {
		return "", err
	}

	product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
		Name: stripe.String(req.Plan.Name),
	}
	if req.Plan.Description != "" {
		product.Description = stripe.String(req.Plan.Description)
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:    stripe.String(s.cfg.Currency),
					UnitAmount:  stripe.Int64(req.Plan.MinorUnits()),
					ProductData: product,
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(s.cfg.SuccessURL),
		CancelURL:  stripe.String(s.cfg.CancelURL),
	}
	params.Context = ctx
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	for k, v := range md {
		params.AddMetadata(k, v)
	}

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return "", providerError("create checkout session", err)
	}

	s.logger.Info("checkout session created",
		"session_id", sess.ID,
		"pack_id", req.Plan.ID,
		"amount", req.Plan.MinorUnits(),
	)

	return sess.URL, nil
}

func (s *Stripe) RetrieveSession(ctx context.Context, sessionID string) (*Session, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	sess, err := s.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return nil, providerError("retrieve checkout session", err)
	}

	return toSession(sess)
}

// VerifyWebhook checks the Stripe-Signature header against the configured
// endpoint secret.
func (s *Stripe) VerifyWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	if s.cfg.WebhookSecret == "" {
		return nil, ErrUnavailable
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		signature,
		s.cfg.WebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		return nil, fmt.Errorf("verify signature: %v: %w", err, ErrInvalidEvent)
	}

	out := &WebhookEvent{ID: event.ID, Type: string(event.Type)}

	if event.Type == EventCheckoutCompleted && event.Data != nil {
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("decode checkout session: %v: %w", err, ErrInvalidEvent)
		}
		out.SessionID = sess.ID
	}

	return out, nil
}

func toSession(sess *stripe.CheckoutSession) (*Session, error) {
	md, err := DecodeMetadata(sess.Metadata)
	if err != nil {
		return nil, err
	}

	out := &Session{
		ID:            sess.ID,
		PaymentStatus: string(sess.PaymentStatus),
		AmountTotal:   sess.AmountTotal,
		Currency:      string(sess.Currency),
		TransactionID: sess.ID,
		CustomerEmail: sess.CustomerEmail,
		Metadata:      md,
	}

	if sess.PaymentIntent != nil && sess.PaymentIntent.ID != "" {
		out.TransactionID = sess.PaymentIntent.ID
	}
	if sess.CustomerDetails != nil && sess.CustomerDetails.Email != "" {
		out.CustomerEmail = sess.CustomerDetails.Email
	}

	return out, nil
}

func providerError(op string, err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return fmt.Errorf("%s: %s (%s): %w", op, stripeErr.Msg, stripeErr.Code, ErrProvider)
	}
	return fmt.Errorf("%s: %v: %w", op, err, ErrProvider)
}
