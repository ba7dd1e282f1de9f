// AngelaMos | 2026
// entity.go

package subscription

import (
	"time"
)

const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusCancelled = "cancelled"
	StatusExpired   = "expired"
)

const (
	PaymentStatusCompleted = "completed"
	PaymentMethodCard      = "card"
)

// Payment is one completed purchase. TransactionID is the gateway's
// identifier for the charge and is unique across the table.
// SubscriptionID is the subscription the purchase opened; rows written
// before the link existed have none.
type Payment struct {
	ID             int64     `db:"id"              json:"id"`
	RecruiterID    int64     `db:"recruiter_id"    json:"recruiter_id"`
	OfferID        *int64    `db:"offer_id"        json:"offer_id,omitempty"`
	SubscriptionID *int64    `db:"subscription_id" json:"subscription_id,omitempty"`
	Amount         float64   `db:"amount"          json:"amount"`
	PaymentMethod  string    `db:"payment_method"  json:"payment_method"`
	TransactionID  string    `db:"transaction_id"  json:"transaction_id"`
	Status         string    `db:"status"          json:"status"`
	CreatedAt      time.Time `db:"created_at"      json:"created_at"`
}

type Subscription struct {
	ID          int64     `db:"id"           json:"id"`
	RecruiterID int64     `db:"recruiter_id" json:"recruiter_id"`
	PackID      int64     `db:"pack_id"      json:"pack_id"`
	StartDate   time.Time `db:"start_date"   json:"start_date"`
	EndDate     time.Time `db:"end_date"     json:"end_date"`
	Status      string    `db:"status"       json:"status"`
	CreatedAt   time.Time `db:"created_at"   json:"created_at"`
}

// Purchase is everything the ledger needs to record a paid checkout.
type Purchase struct {
	RecruiterID    int64
	PackID         int64
	VisibilityDays int
	Amount         float64
	PaymentMethod  string
	TransactionID  string
	PaidAt         time.Time
}

// EndDate is the last day of the window the purchase opens.
func (p Purchase) EndDate() time.Time {
	return p.PaidAt.AddDate(0, 0, p.VisibilityDays)
}

type Totals struct {
	Payments            int64   `db:"payments"             json:"payments"`
	Revenue             float64 `db:"revenue"              json:"revenue"`
	ActiveSubscriptions int64   `db:"active_subscriptions" json:"active_subscriptions"`
}

// StatusResponse is the body of the subscription status endpoint.
type StatusResponse struct {
	HasActiveSubscription bool          `json:"hasActiveSubscription"`
	Data                  *Subscription `json:"data,omitempty"`
}
