package payment

import (
	"context"
	"fmt"
)

// InitiateItem is one snapshot line sent to the payment backend.
type InitiateItem struct {
	ProduceID int64   `json:"produce_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type InitiateCustomer struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

type InitiateRequest struct {
	Customer   InitiateCustomer `json:"customer"`
	Items      []InitiateItem   `json:"items"`
	TotalPrice float64          `json:"total_price"`
}

// InitiateResponse correlates the STK push: CheckoutRequestID drives all
// subsequent status checks, OrderID is surfaced to the user on success.
type InitiateResponse struct {
	CheckoutRequestID string
	OrderID           string
}

// StatusResult is the provider's result payload. ResultCode stays a string
// and success is the exact string "0". Coercing to a number would accept
// codes like "00" as success.
type StatusResult struct {
	ResultCode        string
	ResultDescription string
}

// Gateway is the boundary to the payment initiation and status-check
// service. CheckStatus returns (nil, nil) while the payment is still
// pending.
type Gateway interface {
	InitiatePayment(ctx context.Context, req InitiateRequest) (*InitiateResponse, error)
	CheckStatus(ctx context.Context, checkoutRequestID string) (*StatusResult, error)
}

// RejectionError is a business rejection reported by the gateway, as
// opposed to a transport failure. Reason is user-facing.
type RejectionError struct {
	Reason string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("payment rejected: %s", e.Reason)
}
