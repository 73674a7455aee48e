package models

// PaymentSessionStatus is the backend's view of a hosted checkout session.
type PaymentSessionStatus struct {
	PaymentStatus string `json:"payment_status"`
	Status        string `json:"status"`
}
