// AngelaMos | 2026
// service.go

// Package payment turns a paid checkout session into an active
// subscription, creating the recruiter account first when the session was
// opened for a pending registration.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"

	"github.com/WhoisDhiya/Recruitments-sub000/internal/auth"
	"github.com/WhoisDhiya/Recruitments-sub000/internal/core"
	"github.com/WhoisDhiya/Recruitments-sub000/internal/gateway"
	"github.com/WhoisDhiya/Recruitments-sub000/internal/pending"
	"github.com/WhoisDhiya/Recruitments-sub000/internal/plan"
	"github.com/WhoisDhiya/Recruitments-sub000/internal/recruiter"
	"github.com/WhoisDhiya/Recruitments-sub000/internal/subscription"
	"github.com/WhoisDhiya/Recruitments-sub000/internal/user"
)

var (
	ErrInvalidOwner        = fmt.Errorf("checkout owner: %w", core.ErrInvalidInput)
	ErrPlanNotFound        = fmt.Errorf("pack: %w", core.ErrNotFound)
	ErrRecruiterNotFound   = fmt.Errorf("recruiter: %w", core.ErrNotFound)
	ErrPendingNotFound     = fmt.Errorf("pending registration: %w", core.ErrNotFound)
	ErrUserNotFound        = fmt.Errorf("user: %w", core.ErrNotFound)
	ErrPaymentNotPaid      = fmt.Errorf("payment not completed: %w", core.ErrInvalidInput)
	ErrUnresolvedRecruiter = fmt.Errorf("session has no recruiter: %w", core.ErrInvalidInput)
)

type PlanLookup interface {
	Get(ctx context.Context, id int64) (*plan.Plan, error)
}

type TokenIssuer interface {
	CreateAccessToken(claims auth.AccessTokenClaims) (string, error)
}

type ServiceConfig struct {
	Gateway gateway.Gateway
	Plans   PlanLookup
	Ledger  subscription.Repository
	Stores  Stores
	// UnitOfWork wraps pending promotion. Nil runs it on Stores directly.
	UnitOfWork UnitOfWork
	Tokens     TokenIssuer
	Logger     *slog.Logger
	Now        func() time.Time
}

type Service struct {
	gateway   gateway.Gateway
	plans     PlanLookup
	ledger    subscription.Repository
	stores    Stores
	uow       UnitOfWork
	tokens    TokenIssuer
	logger    *slog.Logger
	now       func() time.Time
	validator *validator.Validate
}

func NewService(cfg ServiceConfig) *Service {
	s := &Service{
		gateway:   cfg.Gateway,
		plans:     cfg.Plans,
		ledger:    cfg.Ledger,
		stores:    cfg.Stores,
		uow:       cfg.UnitOfWork,
		tokens:    cfg.Tokens,
		logger:    cfg.Logger,
		now:       cfg.Now,
		validator: core.NewValidator(),
	}
	if s.gateway == nil {
		s.gateway = gateway.Disabled{}
	}
	if s.uow == nil {
		s.uow = directUnitOfWork{stores: cfg.Stores}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With("component", "payment")
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *Service) Enabled() bool {
	return s.gateway.Enabled()
}

// CreateCheckout opens a hosted checkout for one pack. callerID is the
// authenticated user, or zero, and fills in an inline payload that names
// no user.
func (s *Service) CreateCheckout(
	ctx context.Context,
	req CheckoutRequest,
	callerID int64,
) (string, error) {
	if !s.gateway.Enabled() {
		checkoutSessionsTotal.WithLabelValues(outcomeUnavailable).Inc()
		return "", gateway.ErrUnavailable
	}

	url, err := s.createCheckout(ctx, req, callerID)
	if err != nil {
		checkoutSessionsTotal.WithLabelValues(outcomeFor(err)).Inc()
		return "", err
	}

	checkoutSessionsTotal.WithLabelValues(outcomeCreated).Inc()
	return url, nil
}

func (s *Service) createCheckout(
	ctx context.Context,
	req CheckoutRequest,
	callerID int64,
) (string, error) {
	if err := s.validator.Struct(req); err != nil {
		return "", fmt.Errorf("%s: %w", core.FormatValidationError(err), ErrInvalidOwner)
	}

	owner, err := ownerOf(req, callerID)
	if err != nil {
		return "", err
	}

	p, err := s.plans.Get(ctx, req.PackID)
	if err != nil {
		if errors.Is(err, plan.ErrNotFound) {
			return "", ErrPlanNotFound
		}
		return "", fmt.Errorf("load pack: %w", err)
	}

	email, err := s.ownerEmail(ctx, owner)
	if err != nil {
		return "", err
	}

	url, err := s.gateway.CreateCheckoutSession(ctx, gateway.CheckoutRequest{
		Plan:          *p,
		Owner:         owner,
		CustomerEmail: email,
	})
	if err != nil {
		return "", err
	}

	s.logger.Info("checkout session requested",
		"pack_id", p.ID,
		"owner", fmt.Sprintf("%T", owner),
	)

	return url, nil
}

func ownerOf(req CheckoutRequest, callerID int64) (gateway.Owner, error) {
	var owners []gateway.Owner

	if req.RecruiterID > 0 {
		owners = append(owners, gateway.ExistingRecruiter{RecruiterID: req.RecruiterID})
	}
	if req.PendingID > 0 {
		owners = append(owners, gateway.PendingRegistration{PendingID: req.PendingID})
	}
	if req.RecruiterPayload != nil {
		payload := *req.RecruiterPayload
		if payload.UserID <= 0 {
			payload.UserID = callerID
		}
		if payload.UserID <= 0 {
			return nil, fmt.Errorf("recruiter_payload needs a user_id or a signed-in user: %w", ErrInvalidOwner)
		}
		owners = append(owners, gateway.InlinePayload{Payload: payload})
	}

	if len(owners) != 1 {
		return nil, fmt.Errorf(
			"exactly one of recruiter_id, pending_id or recruiter_payload is required: %w",
			ErrInvalidOwner,
		)
	}

	return owners[0], nil
}

// ownerEmail checks the owner exists and returns the email to prefill at
// checkout, if one is known.
func (s *Service) ownerEmail(ctx context.Context, owner gateway.Owner) (string, error) {
	switch o := owner.(type) {
	case gateway.ExistingRecruiter:
		if _, err := s.stores.Recruiters.GetByID(ctx, o.RecruiterID); err != nil {
			if errors.Is(err, core.ErrNotFound) {
				return "", ErrRecruiterNotFound
			}
			return "", fmt.Errorf("load recruiter: %w", err)
		}
		return "", nil

	case gateway.PendingRegistration:
		reg, err := s.stores.Pending.FindByID(ctx, o.PendingID)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				return "", ErrPendingNotFound
			}
			return "", fmt.Errorf("load pending registration: %w", err)
		}
		return reg.Email, nil

	case gateway.InlinePayload:
		u, err := s.stores.Users.GetByID(ctx, o.Payload.UserID)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				return "", ErrUserNotFound
			}
			return "", fmt.Errorf("load user: %w", err)
		}
		return u.Email, nil
	}

	return "", ErrInvalidOwner
}

// ConfirmPayment records the purchase behind a paid checkout session. It
// is safe to call repeatedly for one session: every call after the first
// returns the recorded subscription without writing.
func (s *Service) ConfirmPayment(ctx context.Context, sessionID string) (*ConfirmResponse, error) {
	return s.confirm(ctx, sessionID, "callback")
}

func (s *Service) confirm(
	ctx context.Context,
	sessionID, source string,
) (*ConfirmResponse, error) {
	ctx, span := core.StartSpan(ctx, "payment.confirm",
		attribute.String("payment.session_id", sessionID),
		attribute.String("payment.source", source),
	)
	defer span.End()

	resp, err := s.runConfirm(ctx, strings.TrimSpace(sessionID))
	if err != nil {
		core.SetSpanError(ctx, err)
		activationsTotal.WithLabelValues(source, outcomeFor(err)).Inc()
		return nil, err
	}

	outcome := outcomeActivated
	if resp.Duplicate {
		outcome = outcomeDuplicate
	}
	activationsTotal.WithLabelValues(source, outcome).Inc()

	return resp, nil
}

func (s *Service) runConfirm(ctx context.Context, sessionID string) (*ConfirmResponse, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session_id is required: %w", core.ErrInvalidInput)
	}

	sess, err := s.gateway.RetrieveSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	core.AddSpanEvent(ctx, "session_retrieved",
		attribute.String("payment.status", sess.PaymentStatus),
	)

	if !sess.Paid() {
		s.logger.Warn("session not paid",
			"session_id", sess.ID,
			"payment_status", sess.PaymentStatus,
		)
		return nil, ErrPaymentNotPaid
	}
	core.AddSpanEvent(ctx, "paid_check_passed")

	recruiterID, err := s.resolveRecruiter(ctx, sess)
	if err != nil {
		return nil, err
	}
	core.AddSpanEvent(ctx, "identity_resolved",
		attribute.Int64("payment.recruiter_id", recruiterID),
	)

	if existing, err := s.ledger.FindPaymentByTransaction(ctx, sess.TransactionID); err == nil {
		core.AddSpanEvent(ctx, "duplicate_detected")
		return s.duplicate(ctx, existing, recruiterID)
	} else if !errors.Is(err, subscription.ErrNotFound) {
		return nil, fmt.Errorf("duplicate check: %w", err)
	}

	p, err := s.plans.Get(ctx, sess.Metadata.PackID)
	if err != nil {
		if errors.Is(err, plan.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("load pack: %w", err)
	}

	sub, err := s.ledger.RecordPurchase(ctx, subscription.Purchase{
		RecruiterID:    recruiterID,
		PackID:         p.ID,
		VisibilityDays: p.VisibilityDays,
		Amount:         sess.Amount(),
		PaymentMethod:  subscription.PaymentMethodCard,
		TransactionID:  sess.TransactionID,
		PaidAt:         s.now(),
	})
	if errors.Is(err, subscription.ErrDuplicatePayment) {
		core.AddSpanEvent(ctx, "duplicate_detected")
		existing, findErr := s.ledger.FindPaymentByTransaction(ctx, sess.TransactionID)
		if findErr != nil && !errors.Is(findErr, subscription.ErrNotFound) {
			return nil, fmt.Errorf("load duplicate payment: %w", findErr)
		}
		return s.duplicate(ctx, existing, recruiterID)
	}
	if err != nil {
		return nil, err
	}
	core.AddSpanEvent(ctx, "ledger_written",
		attribute.Int64("payment.subscription_id", sub.ID),
	)

	resp, err := s.issue(ctx, recruiterID, sub)
	if err != nil {
		return nil, err
	}
	core.AddSpanEvent(ctx, "token_issued")

	s.logger.Info("subscription activated",
		"session_id", sess.ID,
		"transaction_id", sess.TransactionID,
		"recruiter_id", recruiterID,
		"subscription_id", sub.ID,
		"pack_id", p.ID,
	)

	return resp, nil
}

func (s *Service) resolveRecruiter(ctx context.Context, sess *gateway.Session) (int64, error) {
	switch o := sess.Metadata.Owner.(type) {
	case gateway.ExistingRecruiter:
		return o.RecruiterID, nil
	case gateway.PendingRegistration:
		return s.promotePending(ctx, o.PendingID, sess)
	case gateway.InlinePayload:
		return s.attachPayload(ctx, o.Payload)
	}

	return 0, ErrUnresolvedRecruiter
}

// promotePending turns a pending registration into a user and recruiter
// and deletes it. When the registration is already gone the recruiter
// recorded for the transaction is used instead, and failing that the
// recruiter behind the session's customer email, which checkout prefilled
// from the registration.
func (s *Service) promotePending(
	ctx context.Context,
	pendingID int64,
	sess *gateway.Session,
) (int64, error) {
	var recruiterID int64

	err := s.uow.Do(ctx, func(st Stores) error {
		reg, err := st.Pending.FindByID(ctx, pendingID)
		if err != nil {
			return err
		}

		u, created, err := st.Users.FindOrCreateByEmail(ctx, user.NewAccount{
			LastName:     reg.LastName,
			FirstName:    reg.FirstName,
			Email:        reg.Email,
			PasswordHash: reg.HashedPassword,
			Role:         user.RoleRecruiter,
		})
		if err != nil {
			return err
		}
		if !created {
			if err := st.Users.PromoteToRecruiter(ctx, u.ID); err != nil {
				return err
			}
		}

		rec, _, err := st.Recruiters.EnsureForUser(ctx, u.ID, profileOf(reg))
		if err != nil {
			return err
		}

		if err := st.Pending.Delete(ctx, reg.ID); err != nil {
			return err
		}

		recruiterID = rec.ID
		return nil
	})
	if err == nil {
		return recruiterID, nil
	}
	if !errors.Is(err, pending.ErrNotFound) {
		return 0, fmt.Errorf("promote pending registration: %w", err)
	}

	payment, err := s.ledger.FindPaymentByTransaction(ctx, sess.TransactionID)
	if err == nil {
		return payment.RecruiterID, nil
	}
	if !errors.Is(err, subscription.ErrNotFound) {
		return 0, fmt.Errorf("find payment: %w", err)
	}

	return s.recruiterByEmail(ctx, sess)
}

// recruiterByEmail finds the recruiter promoted for a paid session whose
// ledger write never landed.
func (s *Service) recruiterByEmail(ctx context.Context, sess *gateway.Session) (int64, error) {
	email := strings.ToLower(strings.TrimSpace(sess.CustomerEmail))
	if email == "" {
		return 0, ErrUnresolvedRecruiter
	}

	u, err := s.stores.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return 0, ErrUnresolvedRecruiter
		}
		return 0, fmt.Errorf("load user by email: %w", err)
	}

	rec, err := s.stores.Recruiters.GetByUserID(ctx, u.ID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return 0, ErrUnresolvedRecruiter
		}
		return 0, fmt.Errorf("load recruiter: %w", err)
	}

	s.logger.Info("recruiter resolved from customer email",
		"transaction_id", sess.TransactionID,
		"recruiter_id", rec.ID,
	)

	return rec.ID, nil
}

func (s *Service) attachPayload(ctx context.Context, payload gateway.RecruiterPayload) (int64, error) {
	var recruiterID int64

	err := s.uow.Do(ctx, func(st Stores) error {
		u, err := st.Users.GetByID(ctx, payload.UserID)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		if err := st.Users.PromoteToRecruiter(ctx, u.ID); err != nil {
			return err
		}

		rec, _, err := st.Recruiters.EnsureForUser(ctx, u.ID, recruiter.Profile{
			CompanyName:    payload.CompanyName,
			Industry:       payload.Industry,
			Description:    payload.Description,
			CompanyEmail:   payload.CompanyEmail,
			CompanyAddress: payload.CompanyAddress,
		})
		if err != nil {
			return err
		}

		recruiterID = rec.ID
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return 0, err
		}
		return 0, fmt.Errorf("attach recruiter payload: %w", err)
	}

	return recruiterID, nil
}

// duplicate answers a session that was already recorded with the
// subscription its payment opened. Payments that predate the link, or a
// payment not yet visible, fall back to the recruiter's active
// subscription.
func (s *Service) duplicate(
	ctx context.Context,
	existing *subscription.Payment,
	recruiterID int64,
) (*ConfirmResponse, error) {
	resp := &ConfirmResponse{
		Success:   true,
		Message:   MessageDuplicate,
		Duplicate: true,
	}

	var sub *subscription.Subscription
	if existing != nil && existing.SubscriptionID != nil {
		opened, err := s.ledger.GetSubscription(ctx, *existing.SubscriptionID)
		if err != nil && !errors.Is(err, subscription.ErrSubscriptionNotFound) {
			return nil, fmt.Errorf("load paid subscription: %w", err)
		}
		sub = opened
	}

	if sub == nil {
		active, err := s.ledger.CheckActive(ctx, recruiterID)
		if err != nil && !errors.Is(err, subscription.ErrNoActiveSubscription) {
			return nil, fmt.Errorf("load active subscription: %w", err)
		}
		sub = active
	}

	if sub != nil {
		resp.SubscriptionID = sub.ID
		resp.Data = sub
	}

	return resp, nil
}

func (s *Service) issue(
	ctx context.Context,
	recruiterID int64,
	sub *subscription.Subscription,
) (*ConfirmResponse, error) {
	rec, err := s.stores.Recruiters.GetByID(ctx, recruiterID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrRecruiterNotFound
		}
		return nil, fmt.Errorf("load recruiter: %w", err)
	}

	u, err := s.stores.Users.GetByID(ctx, rec.UserID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	token, err := s.tokens.CreateAccessToken(auth.AccessTokenClaims{
		UserID:       u.ID,
		Email:        u.Email,
		Role:         u.Role,
		TokenVersion: u.TokenVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &ConfirmResponse{
		Success:        true,
		Message:        MessageActivated,
		SubscriptionID: sub.ID,
		Token:          token,
		User: &UserSummary{
			ID:        u.ID,
			LastName:  u.LastName,
			FirstName: u.FirstName,
			Email:     u.Email,
			Role:      u.Role,
		},
		Recruiter: rec,
		Data:      sub,
	}, nil
}

// HandleWebhook confirms the session behind a verified
// checkout.session.completed event. Other events and sessions still
// awaiting payment are acknowledged without action.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.gateway.VerifyWebhook(payload, signature)
	if err != nil {
		return err
	}

	if event.Type != gateway.EventCheckoutCompleted {
		s.logger.Debug("webhook event ignored", "event_id", event.ID, "type", event.Type)
		return nil
	}

	_, err = s.confirm(ctx, event.SessionID, "webhook")
	if errors.Is(err, ErrPaymentNotPaid) {
		s.logger.Info("webhook for unpaid session acknowledged",
			"event_id", event.ID,
			"session_id", event.SessionID,
		)
		return nil
	}

	return err
}

func profileOf(reg *pending.Registration) recruiter.Profile {
	return recruiter.Profile{
		CompanyName:    reg.CompanyName,
		Industry:       reg.Industry,
		Description:    reg.Description,
		CompanyEmail:   reg.CompanyEmail,
		CompanyAddress: reg.CompanyAddress,
	}
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, gateway.ErrUnavailable):
		return outcomeUnavailable
	case errors.Is(err, ErrPaymentNotPaid):
		return outcomeNotPaid
	case errors.Is(err, core.ErrInvalidInput), errors.Is(err, core.ErrNotFound):
		return outcomeRejected
	default:
		return outcomeFailed
	}
}
