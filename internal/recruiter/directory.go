// AngelaMos | 2026
// directory.go

package recruiter

import (
	"context"
	"errors"
	"fmt"

	"github.com/WhoisDhiya/Recruitments-sub000/internal/auth"
	"github.com/WhoisDhiya/Recruitments-sub000/internal/subscription"
)

type SubscriptionChecker interface {
	CheckActive(ctx context.Context, recruiterID int64) (*subscription.Subscription, error)
}

// Directory answers auth's question of who stands behind a recruiter
// user and whether their pack is still running.
type Directory struct {
	repo          Repository
	subscriptions SubscriptionChecker
}

func NewDirectory(repo Repository, subscriptions SubscriptionChecker) *Directory {
	return &Directory{repo: repo, subscriptions: subscriptions}
}

func (d *Directory) Summary(ctx context.Context, userID int64) (*auth.RecruiterSummary, error) {
	rec, err := d.repo.GetByUserID(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	summary := &auth.RecruiterSummary{
		ID:          rec.ID,
		CompanyName: rec.CompanyName,
	}

	sub, err := d.subscriptions.CheckActive(ctx, rec.ID)
	switch {
	case errors.Is(err, subscription.ErrNoActiveSubscription):
	case err != nil:
		return nil, fmt.Errorf("recruiter %d subscription: %w", rec.ID, err)
	default:
		summary.HasActiveSubscription = true
		end := sub.EndDate
		summary.SubscriptionEndsAt = &end
	}

	return summary, nil
}
