// Package stripe interprets the checkout session fields the storefront
// backend relays from Stripe.
package stripe

import (
	"github.com/stripe/stripe-go/v81"
)

type SessionOutcome int

const (
	// SessionOpen covers every state that may still change: unpaid,
	// processing, or a status the client does not know about.
	SessionOpen SessionOutcome = iota
	SessionPaid
	SessionExpired
)

func (o SessionOutcome) String() string {
	switch o {
	case SessionPaid:
		return "paid"
	case SessionExpired:
		return "expired"
	default:
		return "open"
	}
}

// ClassifySession maps a checkout session's payment_status and status to
// an outcome. A paid session wins over any status.
func ClassifySession(paymentStatus, status string) SessionOutcome {
	if stripe.CheckoutSessionPaymentStatus(paymentStatus) == stripe.CheckoutSessionPaymentStatusPaid {
		return SessionPaid
	}

	if stripe.CheckoutSessionStatus(status) == stripe.CheckoutSessionStatusExpired {
		return SessionExpired
	}

	return SessionOpen
}
