package domain

import "time"

type Customer struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

type CartSnapshotItem struct {
	ProduceID int64   `json:"produce_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal"`
}

// CartSnapshot is the cart state captured at checkout time. It is never
// mutated after capture, so the total shown while the payment is pending
// matches what was charged even if the live cart keeps changing.
type CartSnapshot struct {
	Items       []CartSnapshotItem `json:"items"`
	TotalAmount float64            `json:"total_amount"`
	Currency    string             `json:"currency"`
	CapturedAt  time.Time          `json:"captured_at"`
}

// CheckoutRequest is a submitted cart snapshot plus customer details.
type CheckoutRequest struct {
	Snapshot CartSnapshot
	Customer Customer
}
