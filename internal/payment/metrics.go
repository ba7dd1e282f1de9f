// AngelaMos | 2026
// metrics.go

package payment

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeCreated     = "created"
	outcomeActivated   = "activated"
	outcomeDuplicate   = "duplicate"
	outcomeNotPaid     = "not_paid"
	outcomeRejected    = "rejected"
	outcomeUnavailable = "unavailable"
	outcomeFailed      = "failed"
)

var (
	checkoutSessionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_checkout_sessions_total",
			Help: "Checkout session requests by outcome",
		},
		[]string{"outcome"},
	)

	activationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_activations_total",
			Help: "Payment confirmations by outcome",
		},
		[]string{"source", "outcome"},
	)
)
