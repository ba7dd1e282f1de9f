// AngelaMos | 2026
// dto.go

package payment

import (
	"github.com/WhoisDhiya/Recruitments-sub000/internal/gateway"
	"github.com/WhoisDhiya/Recruitments-sub000/internal/recruiter"
	"github.com/WhoisDhiya/Recruitments-sub000/internal/subscription"
)

const (
	MessageActivated = "Paiement confirmé, abonnement activé"
	MessageDuplicate = "Paiement déjà enregistré"
)

// CheckoutRequest names the pack and exactly one owner for the session.
type CheckoutRequest struct {
	PackID           int64                     `json:"pack_id"           validate:"required,gt=0"`
	RecruiterID      int64                     `json:"recruiter_id"      validate:"omitempty,gt=0"`
	PendingID        int64                     `json:"pending_id"        validate:"omitempty,gt=0"`
	RecruiterPayload *gateway.RecruiterPayload `json:"recruiter_payload"`
}

type CheckoutResponse struct {
	URL string `json:"url"`
}

type ConfirmRequest struct {
	SessionID string `json:"session_id" validate:"required,max=255"`
}

type UserSummary struct {
	ID        int64  `json:"id"`
	LastName  string `json:"last_name"`
	FirstName string `json:"first_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// ConfirmResponse is returned both for a fresh activation and for a
// session that was already recorded. Only the former carries a token.
type ConfirmResponse struct {
	Success        bool                       `json:"success"`
	Message        string                     `json:"message"`
	SubscriptionID int64                      `json:"subscriptionId,omitempty"`
	Token          string                     `json:"token,omitempty"`
	User           *UserSummary               `json:"user,omitempty"`
	Recruiter      *recruiter.Recruiter       `json:"recruiter,omitempty"`
	Data           *subscription.Subscription `json:"data,omitempty"`
	Duplicate      bool                       `json:"-"`
}

type UnavailableResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type WebhookResponse struct {
	Received bool `json:"received"`
}
