// AngelaMos | 2026
// service.go

package offer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/WhoisDhiya/Recruitments-sub000/internal/core"
	"github.com/WhoisDhiya/Recruitments-sub000/internal/plan"
	"github.com/WhoisDhiya/Recruitments-sub000/internal/recruiter"
	"github.com/WhoisDhiya/Recruitments-sub000/internal/subscription"
)

var (
	ErrNotRecruiter         = fmt.Errorf("no recruiter profile: %w", core.ErrForbidden)
	ErrSubscriptionRequired = fmt.Errorf("active subscription required: %w", core.ErrForbidden)
	ErrOfferLimitReached    = fmt.Errorf("offer limit reached: %w", core.ErrForbidden)
	errSubscriptionPackGone = errors.New("subscription pack missing")
)

type RecruiterLookup interface {
	GetByUserID(ctx context.Context, userID int64) (*recruiter.Recruiter, error)
}

type SubscriptionChecker interface {
	CheckActive(ctx context.Context, recruiterID int64) (*subscription.Subscription, error)
}

type PlanLookup interface {
	Get(ctx context.Context, id int64) (*plan.Plan, error)
}

type Service struct {
	repo          Repository
	recruiters    RecruiterLookup
	subscriptions SubscriptionChecker
	plans         PlanLookup
	logger        *slog.Logger
	now           func() time.Time
}

func NewService(
	repo Repository,
	recruiters RecruiterLookup,
	subscriptions SubscriptionChecker,
	plans PlanLookup,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:          repo,
		recruiters:    recruiters,
		subscriptions: subscriptions,
		plans:         plans,
		logger:        logger.With("component", "offer"),
		now:           time.Now,
	}
}

// Create publishes an offer for the recruiter owning userID. The recruiter
// needs an active subscription and stays within its pack's job limit for
// the current window. The offer stays visible for the pack's visibility
// days.
func (s *Service) Create(ctx context.Context, userID int64, req CreateOfferRequest) (*Offer, error) {
	rec, err := s.recruiterFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	sub, err := s.subscriptions.CheckActive(ctx, rec.ID)
	if err != nil {
		if errors.Is(err, subscription.ErrNoActiveSubscription) {
			return nil, ErrSubscriptionRequired
		}
		return nil, fmt.Errorf("check subscription: %w", err)
	}

	p, err := s.plans.Get(ctx, sub.PackID)
	if err != nil {
		if errors.Is(err, plan.ErrNotFound) {
			return nil, fmt.Errorf("pack %d: %w", sub.PackID, errSubscriptionPackGone)
		}
		return nil, fmt.Errorf("load pack: %w", err)
	}

	used, err := s.repo.CountSince(ctx, rec.ID, sub.StartDate)
	if err != nil {
		return nil, err
	}
	if used >= p.JobLimit {
		return nil, ErrOfferLimitReached
	}

	now := s.now()
	o := &Offer{
		RecruiterID:  rec.ID,
		Title:        strings.TrimSpace(req.Title),
		Description:  strings.TrimSpace(req.Description),
		Location:     strings.TrimSpace(req.Location),
		ContractType: strings.TrimSpace(req.ContractType),
		Salary:       strings.TrimSpace(req.Salary),
		Status:       StatusOpen,
		ExpiresAt:    now.AddDate(0, 0, p.VisibilityDays),
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	s.logger.Info("offer published",
		"offer_id", o.ID,
		"recruiter_id", rec.ID,
		"used", used+1,
		"job_limit", p.JobLimit,
	)

	return o, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Offer, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListPublic(ctx context.Context, params ListParams) ([]Offer, int, error) {
	return s.repo.ListPublic(ctx, params)
}

func (s *Service) ListMine(ctx context.Context, userID int64) ([]Offer, error) {
	rec, err := s.recruiterFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByRecruiter(ctx, rec.ID)
}

func (s *Service) Delete(ctx context.Context, userID, offerID int64) error {
	rec, err := s.recruiterFor(ctx, userID)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, offerID, rec.ID)
}

func (s *Service) recruiterFor(ctx context.Context, userID int64) (*recruiter.Recruiter, error) {
	rec, err := s.recruiters.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, recruiter.ErrNotFound) {
			return nil, ErrNotRecruiter
		}
		return nil, fmt.Errorf("load recruiter: %w", err)
	}
	return rec, nil
}
