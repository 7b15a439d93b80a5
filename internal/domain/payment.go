package domain

type PaymentState string

const (
	PaymentStateIdle                 PaymentState = "IDLE"
	PaymentStateSubmitting           PaymentState = "SUBMITTING"
	PaymentStateAwaitingConfirmation PaymentState = "AWAITING_CONFIRMATION"
	PaymentStateConfirmed            PaymentState = "CONFIRMED"
	PaymentStateFailed               PaymentState = "FAILED"
	PaymentStateTimedOut             PaymentState = "TIMED_OUT"
)

func (s PaymentState) IsTerminal() bool {
	return s == PaymentStateConfirmed || s == PaymentStateFailed || s == PaymentStateTimedOut
}

// String representation (for logging)
func (s PaymentState) String() string {
	return string(s)
}

var paymentTransitions = map[PaymentState][]PaymentState{
	PaymentStateIdle:       {PaymentStateSubmitting},
	PaymentStateSubmitting: {PaymentStateAwaitingConfirmation, PaymentStateFailed},
	PaymentStateAwaitingConfirmation: {
		PaymentStateConfirmed,
		PaymentStateFailed,
		PaymentStateTimedOut,
	},
}

// CanTransitionTo reports whether from -> to is a legal payment transition.
// Terminal states have no outgoing transitions.
func CanTransitionTo(from, to PaymentState) bool {
	for _, next := range paymentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// StateChange is what the payment coordinator emits to the presentation
// layer. Detail fields are populated depending on the state: OrderID and
// TotalPrice on success, ErrorMessage on failure or timeout.
type StateChange struct {
	State        PaymentState `json:"state"`
	OrderID      string       `json:"order_id,omitempty"`
	TotalPrice   float64      `json:"total_price,omitempty"`
	ErrorMessage string       `json:"error_message,omitempty"`
}
