package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Tony-Omondi/wamugunda-farm/internal/cart"
	"github.com/Tony-Omondi/wamugunda-farm/internal/catalog"
)

type CartHandler struct {
	cart    *cart.Service
	catalog *catalog.Service
}

func NewCartHandler(cartSvc *cart.Service, catalogSvc *catalog.Service) *CartHandler {
	return &CartHandler{cart: cartSvc, catalog: catalogSvc}
}

type addItemRequestDTO struct {
	ProduceID int64 `json:"produce_id"`
	Quantity  int   `json:"quantity"`
}

type updateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

// GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionFromContext(r.Context())
	c, err := h.cart.Get(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_error", "failed to load cart")
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionFromContext(r.Context())

	var req addItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProduceID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_request", "produce_id is required")
		return
	}

	produce, err := h.catalog.ProduceDetail(r.Context(), req.ProduceID)
	if err != nil {
		handleCatalogError(w, err)
		return
	}

	c, err := h.cart.AddItem(r.Context(), sessionID, produce, req.Quantity)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_error", "failed to add item")
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// PUT /api/v1/cart/items/{produce_id}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionFromContext(r.Context())

	produceID, err := strconv.ParseInt(chi.URLParam(r, "produce_id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_id", "produce_id must be a number")
		return
	}

	var req updateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	c, err := h.cart.UpdateQuantity(r.Context(), sessionID, produceID, req.Quantity)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_error", "failed to update item")
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// DELETE /api/v1/cart/items/{produce_id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionFromContext(r.Context())

	produceID, err := strconv.ParseInt(chi.URLParam(r, "produce_id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_id", "produce_id must be a number")
		return
	}

	c, err := h.cart.RemoveItem(r.Context(), sessionID, produceID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_error", "failed to remove item")
		return
	}
	respondJSON(w, http.StatusOK, c)
}
