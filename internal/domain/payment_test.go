package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaymentStateIsTerminal(t *testing.T) {
	assert.False(t, PaymentStateIdle.IsTerminal())
	assert.False(t, PaymentStateSubmitting.IsTerminal())
	assert.False(t, PaymentStateAwaitingConfirmation.IsTerminal())
	assert.True(t, PaymentStateConfirmed.IsTerminal())
	assert.True(t, PaymentStateFailed.IsTerminal())
	assert.True(t, PaymentStateTimedOut.IsTerminal())
}

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to PaymentState
		want     bool
	}{
		{PaymentStateIdle, PaymentStateSubmitting, true},
		{PaymentStateSubmitting, PaymentStateAwaitingConfirmation, true},
		{PaymentStateSubmitting, PaymentStateFailed, true},
		{PaymentStateAwaitingConfirmation, PaymentStateConfirmed, true},
		{PaymentStateAwaitingConfirmation, PaymentStateFailed, true},
		{PaymentStateAwaitingConfirmation, PaymentStateTimedOut, true},

		{PaymentStateIdle, PaymentStateConfirmed, false},
		{PaymentStateSubmitting, PaymentStateConfirmed, false},
		{PaymentStateSubmitting, PaymentStateTimedOut, false},

		// Terminal states have no outgoing transitions.
		{PaymentStateConfirmed, PaymentStateFailed, false},
		{PaymentStateFailed, PaymentStateConfirmed, false},
		{PaymentStateTimedOut, PaymentStateAwaitingConfirmation, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransitionTo(tt.from, tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}
