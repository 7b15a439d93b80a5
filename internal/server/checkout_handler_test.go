package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tony-Omondi/wamugunda-farm/internal/cart"
	"github.com/Tony-Omondi/wamugunda-farm/internal/domain"
	"github.com/Tony-Omondi/wamugunda-farm/internal/payment"
)

type memStore struct {
	mu   sync.Mutex
	data map[string]*domain.Cart
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]*domain.Cart)}
}

func (m *memStore) Get(_ context.Context, sessionID string) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.data[sessionID]
	if !ok {
		return nil, cart.ErrCartNotFound
	}
	copied := *c
	copied.Items = append([]domain.CartItem(nil), c.Items...)
	return &copied, nil
}

func (m *memStore) Set(_ context.Context, sessionID string, c *domain.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[sessionID] = c
	return nil
}

func (m *memStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[sessionID]; !ok {
		return cart.ErrCartNotFound
	}
	delete(m.data, sessionID)
	return nil
}

func (m *memStore) has(sessionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[sessionID]
	return ok
}

type scriptedGateway struct {
	mu           sync.Mutex
	initiateResp *payment.InitiateResponse
	initiateErr  error
	statuses     []*payment.StatusResult
	statusCalls  int
}

func (g *scriptedGateway) InitiatePayment(context.Context, payment.InitiateRequest) (*payment.InitiateResponse, error) {
	return g.initiateResp, g.initiateErr
}

func (g *scriptedGateway) CheckStatus(context.Context, string) (*payment.StatusResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	call := g.statusCalls
	g.statusCalls++
	if call < len(g.statuses) {
		return g.statuses[call], nil
	}
	return nil, nil
}

func (g *scriptedGateway) statusCallCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.statusCalls
}

func newCheckoutTestServer(t *testing.T, gw payment.Gateway, store cart.Store) *httptest.Server {
	t.Helper()
	h := NewCheckoutHandler(cart.NewService(store), gw, payment.NewRegistry(),
		payment.Config{MaxAttempts: 10, PollInterval: 2 * time.Millisecond})

	r := chi.NewRouter()
	r.Use(CartSessionMiddleware)
	r.Post("/api/v1/checkout", h.InitiateCheckout)
	r.Get("/api/v1/checkout/{id}", h.GetCheckoutStatus)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func seedCart(t *testing.T, store cart.Store, sessionID string) {
	t.Helper()
	err := store.Set(context.Background(), sessionID, &domain.Cart{
		SessionID: sessionID,
		Items: []domain.CartItem{
			{ProduceID: 1, Name: "Sukuma Wiki", UnitPrice: 250, Quantity: 2},
		},
	})
	require.NoError(t, err)
}

func postCheckout(t *testing.T, srv *httptest.Server, sessionID, body string) (*http.Response, checkoutResponseDTO, errorResponse) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/checkout", strings.NewReader(body))
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: sessionID})

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var ok checkoutResponseDTO
	var fail errorResponse
	var raw json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	if resp.StatusCode < 400 {
		require.NoError(t, json.Unmarshal(raw, &ok))
	} else {
		require.NoError(t, json.Unmarshal(raw, &fail))
	}
	return resp, ok, fail
}

func getCheckout(t *testing.T, srv *httptest.Server, id string) (int, checkoutResponseDTO) {
	t.Helper()
	resp, err := http.Get(srv.URL + "/api/v1/checkout/" + id)
	require.NoError(t, err)
	defer resp.Body.Close()

	var dto checkoutResponseDTO
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&dto))
	}
	return resp.StatusCode, dto
}

const validCheckoutBody = `{"customer": {"name": "Wanjiku Kamau", "email": "wanjiku@example.com", "phone_number": "0712345678"}}`

func TestInitiateCheckout_ConfirmedFlow(t *testing.T) {
	store := newMemStore()
	seedCart(t, store, "sess-1")

	gw := &scriptedGateway{
		initiateResp: &payment.InitiateResponse{CheckoutRequestID: "ws_CO_42", OrderID: "123"},
		statuses: []*payment.StatusResult{
			nil,
			{ResultCode: "0"},
		},
	}
	srv := newCheckoutTestServer(t, gw, store)

	resp, dto, _ := postCheckout(t, srv, "sess-1", validCheckoutBody)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, dto.CheckoutID)
	assert.Equal(t, 500.0, dto.TotalPrice)

	require.Eventually(t, func() bool {
		status, got := getCheckout(t, srv, dto.CheckoutID)
		return status == http.StatusOK && got.State == "CONFIRMED"
	}, 2*time.Second, 5*time.Millisecond)

	_, got := getCheckout(t, srv, dto.CheckoutID)
	assert.Equal(t, "123", got.OrderID)
	assert.Equal(t, 500.0, got.TotalPrice)

	// A confirmed payment clears the cart tied to the fulfilled order.
	require.Eventually(t, func() bool { return !store.has("sess-1") },
		2*time.Second, 5*time.Millisecond)
}

func TestInitiateCheckout_EmptyCart(t *testing.T) {
	gw := &scriptedGateway{}
	srv := newCheckoutTestServer(t, gw, newMemStore())

	resp, _, fail := postCheckout(t, srv, "sess-1", validCheckoutBody)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "validation_error", fail.Error)
	assert.Equal(t, 0, gw.statusCallCount())
}

func TestInitiateCheckout_InvalidPhone(t *testing.T) {
	store := newMemStore()
	seedCart(t, store, "sess-1")
	gw := &scriptedGateway{}
	srv := newCheckoutTestServer(t, gw, store)

	body := `{"customer": {"name": "Wanjiku", "email": "w@example.com", "phone_number": "12345"}}`
	resp, _, fail := postCheckout(t, srv, "sess-1", body)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "validation_error", fail.Error)
	assert.Contains(t, fail.Message, "phone_number")
}

func TestInitiateCheckout_Rejected(t *testing.T) {
	store := newMemStore()
	seedCart(t, store, "sess-1")

	gw := &scriptedGateway{initiateErr: &payment.RejectionError{Reason: "insufficient funds"}}
	srv := newCheckoutTestServer(t, gw, store)

	resp, _, fail := postCheckout(t, srv, "sess-1", validCheckoutBody)

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "payment_rejected", fail.Error)
	assert.Equal(t, "insufficient funds", fail.Message)
	assert.Equal(t, 0, gw.statusCallCount())
}

func TestInitiateCheckout_GatewayDown(t *testing.T) {
	store := newMemStore()
	seedCart(t, store, "sess-1")

	gw := &scriptedGateway{initiateErr: errors.New("connection refused")}
	srv := newCheckoutTestServer(t, gw, store)

	resp, _, fail := postCheckout(t, srv, "sess-1", validCheckoutBody)

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "gateway_unavailable", fail.Error)
}

func TestGetCheckoutStatus_UnknownID(t *testing.T) {
	srv := newCheckoutTestServer(t, &scriptedGateway{}, newMemStore())

	status, _ := getCheckout(t, srv, "nope")
	assert.Equal(t, http.StatusNotFound, status)
}
