// Package payment drives a checkout attempt from submission to a terminal
// outcome: it initiates an STK push through the Gateway, then polls the
// status endpoint until the payment is confirmed, rejected, or the attempt
// budget runs out.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Tony-Omondi/wamugunda-farm/internal/domain"
)

const (
	DefaultMaxAttempts  = 10
	DefaultPollInterval = 3 * time.Second
)

var (
	// ErrGatewayUnavailable means InitiatePayment failed at the transport
	// level. No session was created; the caller may submit again freely.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")

	// ErrAlreadySubmitted means Submit was called twice on one coordinator.
	// A coordinator owns exactly one checkout attempt.
	ErrAlreadySubmitted = errors.New("checkout already submitted")

	// ErrClosed means Submit was called on a coordinator that was already
	// torn down.
	ErrClosed = errors.New("checkout coordinator closed")
)

const (
	msgGatewayUnavailable = "Payment service is unavailable. Please try again later."
	msgTimedOut           = "Payment confirmation timed out. Please check your order status before retrying."
	msgGenericFailure     = "Payment failed. Please try again."
)

type Config struct {
	MaxAttempts  int
	PollInterval time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	return c
}

// StateListener receives every state change the coordinator emits. It is
// called synchronously with the coordinator lock held and must not call
// back into the coordinator.
type StateListener func(change domain.StateChange)

// Coordinator owns a single checkout attempt. The polling loop runs in one
// goroutine, so status checks are strictly serialized: no check is issued
// while a previous one is outstanding.
type Coordinator struct {
	gateway  Gateway
	cfg      Config
	listener StateListener

	mu     sync.Mutex
	state  domain.PaymentState
	closed bool
	cancel context.CancelFunc
	done   chan struct{}

	// Session fields, set once initiation succeeds.
	requestID string
	orderID   string
	total     float64
	attempts  int
}

func NewCoordinator(gateway Gateway, cfg Config, listener StateListener) *Coordinator {
	return &Coordinator{
		gateway:  gateway,
		cfg:      cfg.withDefaults(),
		listener: listener,
		state:    domain.PaymentStateIdle,
		done:     make(chan struct{}),
	}
}

// State returns the coordinator's current state.
func (c *Coordinator) State() domain.PaymentState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Submit validates the request, initiates the payment, and on success
// starts the confirmation polling loop before returning. InitiatePayment
// is called exactly once per Submit; nothing here re-initiates.
func (c *Coordinator) Submit(ctx context.Context, req domain.CheckoutRequest) error {
	if err := ValidateCheckout(req); err != nil {
		return err
	}

	if !c.transition(domain.PaymentStateSubmitting, domain.StateChange{
		State:      domain.PaymentStateSubmitting,
		TotalPrice: req.Snapshot.TotalAmount,
	}) {
		if c.isClosed() {
			return ErrClosed
		}
		return ErrAlreadySubmitted
	}

	c.mu.Lock()
	c.total = req.Snapshot.TotalAmount
	c.mu.Unlock()

	resp, err := c.gateway.InitiatePayment(ctx, buildInitiateRequest(req))
	if err != nil {
		var rej *RejectionError
		if errors.As(err, &rej) {
			c.fail(rej.Reason)
			return err
		}
		c.fail(msgGatewayUnavailable)
		return fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.requestID = resp.CheckoutRequestID
	c.orderID = resp.OrderID
	pollCtx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.mu.Unlock()

	if !c.transition(domain.PaymentStateAwaitingConfirmation, domain.StateChange{
		State:      domain.PaymentStateAwaitingConfirmation,
		OrderID:    resp.OrderID,
		TotalPrice: req.Snapshot.TotalAmount,
	}) {
		cancel()
		return nil
	}

	go c.poll(pollCtx)
	return nil
}

// Close tears the coordinator down. Any scheduled check is cancelled and
// no further state changes are emitted, even if a status response for this
// session arrives afterwards.
func (c *Coordinator) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	cancel := c.cancel
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

func (c *Coordinator) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Done is closed when the polling loop has exited. Only valid after a
// Submit that reached AwaitingConfirmation.
func (c *Coordinator) Done() <-chan struct{} {
	return c.done
}

func (c *Coordinator) poll(ctx context.Context) {
	defer close(c.done)

	for {
		if err := waitOrCancel(ctx, c.cfg.PollInterval); err != nil {
			return
		}

		status, err := c.gateway.CheckStatus(ctx, c.requestID)
		if ctx.Err() != nil {
			// Torn down while the check was in flight; drop the result.
			return
		}

		switch {
		case err == nil && status != nil && status.ResultCode == "0":
			// Success wins over any failure indicator in the same payload.
			c.transition(domain.PaymentStateConfirmed, domain.StateChange{
				State:      domain.PaymentStateConfirmed,
				OrderID:    c.orderID,
				TotalPrice: c.total,
			})
			return

		case err == nil && status != nil && status.ResultCode != "":
			msg := msgGenericFailure
			if status.ResultDescription != "" {
				msg = "Payment failed: " + status.ResultDescription
			}
			c.transition(domain.PaymentStateFailed, domain.StateChange{
				State:        domain.PaymentStateFailed,
				TotalPrice:   c.total,
				ErrorMessage: msg,
			})
			return

		default:
			// Still pending. A transport failure on the status check is
			// treated the same way and consumes one attempt, keeping the
			// overall confirmation window bounded.
			if err != nil {
				log.Printf("status check for %s failed: %v", c.requestID, err)
			}
			c.mu.Lock()
			c.attempts++
			reached := c.attempts >= c.cfg.MaxAttempts
			c.mu.Unlock()
			if reached {
				c.transition(domain.PaymentStateTimedOut, domain.StateChange{
					State:        domain.PaymentStateTimedOut,
					TotalPrice:   c.total,
					ErrorMessage: msgTimedOut,
				})
				return
			}
		}
	}
}

func (c *Coordinator) fail(message string) {
	c.transition(domain.PaymentStateFailed, domain.StateChange{
		State:        domain.PaymentStateFailed,
		ErrorMessage: message,
	})
}

// transition moves the state machine if the move is legal and the
// coordinator has not been torn down. The listener is notified under the
// lock so no emission can follow a Close.
func (c *Coordinator) transition(to domain.PaymentState, change domain.StateChange) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || !domain.CanTransitionTo(c.state, to) {
		return false
	}
	c.state = to
	if to.IsTerminal() && c.cancel != nil {
		c.cancel()
	}
	if c.listener != nil {
		c.listener(change)
	}
	return true
}

func buildInitiateRequest(req domain.CheckoutRequest) InitiateRequest {
	phone := req.Customer.PhoneNumber
	if normalized, ok := NormalizePhone(phone); ok {
		phone = normalized
	}

	items := make([]InitiateItem, 0, len(req.Snapshot.Items))
	for _, item := range req.Snapshot.Items {
		items = append(items, InitiateItem{
			ProduceID: item.ProduceID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	return InitiateRequest{
		Customer: InitiateCustomer{
			Name:        req.Customer.Name,
			Email:       req.Customer.Email,
			PhoneNumber: phone,
		},
		Items:      items,
		TotalPrice: req.Snapshot.TotalAmount,
	}
}

// waitOrCancel blocks for d or until ctx is done, returning ctx.Err() in
// the latter case.
func waitOrCancel(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
