package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Tony-Omondi/wamugunda-farm/internal/cart"
	"github.com/Tony-Omondi/wamugunda-farm/internal/domain"
	"github.com/Tony-Omondi/wamugunda-farm/internal/payment"
)

type CheckoutHandler struct {
	cart     *cart.Service
	gateway  payment.Gateway
	registry *payment.Registry
	cfg      payment.Config
}

func NewCheckoutHandler(cartSvc *cart.Service, gateway payment.Gateway, registry *payment.Registry, cfg payment.Config) *CheckoutHandler {
	return &CheckoutHandler{
		cart:     cartSvc,
		gateway:  gateway,
		registry: registry,
		cfg:      cfg,
	}
}

type checkoutRequestDTO struct {
	Customer domain.Customer `json:"customer"`
}

type checkoutResponseDTO struct {
	CheckoutID   string  `json:"checkout_id"`
	State        string  `json:"state"`
	OrderID      string  `json:"order_id,omitempty"`
	TotalPrice   float64 `json:"total_price,omitempty"`
	ErrorMessage string  `json:"error_message,omitempty"`
}

// POST /api/v1/checkout
//
// Snapshots the session cart, submits the payment, and returns the
// checkout id the client polls for confirmation.
func (h *CheckoutHandler) InitiateCheckout(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionFromContext(r.Context())

	var req checkoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	liveCart, err := h.cart.Get(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_error", "failed to load cart")
		return
	}

	snapshot, err := h.cart.BuildSnapshot(liveCart)
	if err != nil {
		if errors.Is(err, cart.ErrEmptyCart) {
			respondError(w, http.StatusBadRequest, "validation_error", "cart is empty")
			return
		}
		respondError(w, http.StatusInternalServerError, "cart_error", "failed to snapshot cart")
		return
	}

	checkoutReq := domain.CheckoutRequest{
		Snapshot: *snapshot,
		Customer: req.Customer,
	}

	var checkoutID string
	coordinator := payment.NewCoordinator(h.gateway, h.cfg, func(change domain.StateChange) {
		h.registry.Record(checkoutID, change)
		if change.State == domain.PaymentStateConfirmed {
			go h.clearFulfilledCart(sessionID)
		}
	})
	checkoutID = h.registry.Register(coordinator)

	if err := coordinator.Submit(r.Context(), checkoutReq); err != nil {
		var validationErr *payment.ValidationError
		var rejection *payment.RejectionError
		switch {
		case errors.As(err, &validationErr):
			respondError(w, http.StatusBadRequest, "validation_error", validationErr.Error())
		case errors.As(err, &rejection):
			respondError(w, http.StatusUnprocessableEntity, "payment_rejected", rejection.Reason)
		case errors.Is(err, payment.ErrGatewayUnavailable):
			respondError(w, http.StatusBadGateway, "gateway_unavailable",
				"Payment service is unavailable. Please try again later.")
		default:
			respondError(w, http.StatusInternalServerError, "internal_error", "something went wrong")
		}
		return
	}

	respondJSON(w, http.StatusCreated, checkoutResponseDTO{
		CheckoutID: checkoutID,
		State:      coordinator.State().String(),
		TotalPrice: snapshot.TotalAmount,
	})
}

// GET /api/v1/checkout/{id}
func (h *CheckoutHandler) GetCheckoutStatus(w http.ResponseWriter, r *http.Request) {
	checkoutID := chi.URLParam(r, "id")

	change, ok := h.registry.Latest(checkoutID)
	if !ok {
		respondError(w, http.StatusNotFound, "not_found", "unknown checkout id")
		return
	}

	respondJSON(w, http.StatusOK, checkoutResponseDTO{
		CheckoutID:   checkoutID,
		State:        change.State.String(),
		OrderID:      change.OrderID,
		TotalPrice:   change.TotalPrice,
		ErrorMessage: change.ErrorMessage,
	})
}

// clearFulfilledCart empties the cart tied to a confirmed order.
func (h *CheckoutHandler) clearFulfilledCart(sessionID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := h.cart.Clear(ctx, sessionID); err != nil {
		log.Printf("failed to clear cart for session %s: %v", sessionID, err)
	}
}
