// AngelaMos | 2026
// repository.go

package subscription

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/WhoisDhiya/Recruitments-sub000/internal/core"
)

var (
	ErrNotFound             = fmt.Errorf("payment: %w", core.ErrNotFound)
	ErrNoActiveSubscription = fmt.Errorf("active subscription: %w", core.ErrNotFound)
	ErrSubscriptionNotFound = fmt.Errorf("subscription: %w", core.ErrNotFound)
	ErrDuplicatePayment     = fmt.Errorf("payment transaction: %w", core.ErrDuplicateKey)
	ErrInvalidPurchase      = fmt.Errorf("purchase: %w", core.ErrInvalidInput)
)

type Repository interface {
	FindPaymentByTransaction(ctx context.Context, transactionID string) (*Payment, error)
	RecordPurchase(ctx context.Context, p Purchase) (*Subscription, error)
	GetSubscription(ctx context.Context, id int64) (*Subscription, error)
	CheckActive(ctx context.Context, recruiterID int64) (*Subscription, error)
	ListForRecruiter(ctx context.Context, recruiterID int64) ([]Subscription, error)
	Totals(ctx context.Context) (*Totals, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const (
	paymentColumns = `id, recruiter_id, offer_id, subscription_id, amount,
		       payment_method, transaction_id, status, created_at`
	subscriptionColumns = `id, recruiter_id, pack_id, start_date, end_date,
		       status, created_at`
)

func (r *repository) FindPaymentByTransaction(
	ctx context.Context,
	transactionID string,
) (*Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE transaction_id = $1`

	var p Payment
	err := r.db.GetContext(ctx, &p, query, transactionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find payment: %w", err)
	}

	return &p, nil
}

// RecordPurchase writes the payment and the subscription it opens in one
// transaction. A second purchase with the same transaction id fails with
// ErrDuplicatePayment and writes nothing.
func (r *repository) RecordPurchase(ctx context.Context, p Purchase) (*Subscription, error) {
	if p.RecruiterID <= 0 || p.PackID <= 0 || strings.TrimSpace(p.TransactionID) == "" {
		return nil, ErrInvalidPurchase
	}
	if p.VisibilityDays <= 0 {
		return nil, fmt.Errorf("visibility days must be positive: %w", ErrInvalidPurchase)
	}

	method := p.PaymentMethod
	if method == "" {
		method = PaymentMethodCard
	}

	var sub Subscription
	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		subQuery := `
			INSERT INTO recruiter_subscriptions (
				recruiter_id, pack_id, start_date, end_date, status
			) VALUES ($1, $2, $3, $4, $5)
			RETURNING ` + subscriptionColumns

		err := tx.GetContext(ctx, &sub, subQuery,
			p.RecruiterID,
			p.PackID,
			p.PaidAt,
			p.EndDate(),
			StatusActive,
		)
		if err != nil {
			return fmt.Errorf("insert subscription: %w", err)
		}

		paymentQuery := `
			INSERT INTO payments (
				recruiter_id, subscription_id, amount, payment_method,
				transaction_id, status, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7)`

		_, err = tx.ExecContext(ctx, paymentQuery,
			p.RecruiterID,
			sub.ID,
			p.Amount,
			method,
			p.TransactionID,
			PaymentStatusCompleted,
			p.PaidAt,
		)
		if err != nil {
			if core.IsDuplicateKeyError(err) {
				return ErrDuplicatePayment
			}
			return fmt.Errorf("insert payment: %w", err)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrDuplicatePayment) {
			return nil, ErrDuplicatePayment
		}
		return nil, fmt.Errorf("record purchase: %w", err)
	}

	return &sub, nil
}

func (r *repository) GetSubscription(ctx context.Context, id int64) (*Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM recruiter_subscriptions WHERE id = $1`

	var sub Subscription
	err := r.db.GetContext(ctx, &sub, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get subscription: %w", err)
	}

	return &sub, nil
}

// CheckActive returns the recruiter's latest subscription when its end date
// has not passed on the database clock. A recruiter with no subscription
// and one whose latest subscription expired both get
// ErrNoActiveSubscription.
func (r *repository) CheckActive(ctx context.Context, recruiterID int64) (*Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM (
			SELECT ` + subscriptionColumns + `
			FROM recruiter_subscriptions
			WHERE recruiter_id = $1
			ORDER BY start_date DESC, id DESC
			LIMIT 1
		) latest
		WHERE end_date::date >= CURRENT_DATE`

	var sub Subscription
	err := r.db.GetContext(ctx, &sub, query, recruiterID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoActiveSubscription
	}
	if err != nil {
		return nil, fmt.Errorf("check active subscription: %w", err)
	}

	return &sub, nil
}

func (r *repository) ListForRecruiter(
	ctx context.Context,
	recruiterID int64,
) ([]Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM recruiter_subscriptions
		WHERE recruiter_id = $1
		ORDER BY start_date DESC, id DESC`

	subs := []Subscription{}
	if err := r.db.SelectContext(ctx, &subs, query, recruiterID); err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}

	return subs, nil
}

func (r *repository) Totals(ctx context.Context) (*Totals, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM payments) AS payments,
			(SELECT COALESCE(SUM(amount), 0) FROM payments) AS revenue,
			(SELECT COUNT(DISTINCT recruiter_id)
			 FROM recruiter_subscriptions
			 WHERE end_date::date >= CURRENT_DATE) AS active_subscriptions`

	var t Totals
	if err := r.db.GetContext(ctx, &t, query); err != nil {
		return nil, fmt.Errorf("ledger totals: %w", err)
	}

	return &t, nil
}
