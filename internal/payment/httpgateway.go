package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPGateway talks to the M-Pesa checkout endpoints of the order backend.
// Initiation is never retried here: retrying a charge is not the
// transport's call to make.
type HTTPGateway struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPGateway(baseURL string) *HTTPGateway {
	return &HTTPGateway{
		baseURL:    strings.TrimSuffix(baseURL, "/") + "/",
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type initiatePayload struct {
	CheckoutRequestID string `json:"checkout_request_id"`
	OrderID           string `json:"order_id"`
	Error             string `json:"error"`
}

type statusPayload struct {
	Status *struct {
		ResultCode string `json:"ResultCode"`
		ResultDesc string `json:"ResultDesc"`
	} `json:"status"`
}

func (g *HTTPGateway) InitiatePayment(ctx context.Context, req InitiateRequest) (*InitiateResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal checkout request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"mpesa/checkout/", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("initiate payment: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("initiate payment: read response: %w", err)
	}

	var payload initiatePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("initiate payment: decode response (%d): %w", resp.StatusCode, err)
	}

	// A non-empty error field signals rejection regardless of the HTTP
	// status the backend chose.
	if payload.Error != "" {
		return nil, &RejectionError{Reason: payload.Error}
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("initiate payment: backend returned %d", resp.StatusCode)
	}
	if payload.CheckoutRequestID == "" {
		return nil, &RejectionError{Reason: "Failed to initiate payment."}
	}

	return &InitiateResponse{
		CheckoutRequestID: payload.CheckoutRequestID,
		OrderID:           payload.OrderID,
	}, nil
}

func (g *HTTPGateway) CheckStatus(ctx context.Context, checkoutRequestID string) (*StatusResult, error) {
	endpoint := g.baseURL + "mpesa/status/" + url.PathEscape(checkoutRequestID) + "/"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("check status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("check status: backend returned %d", resp.StatusCode)
	}

	var payload statusPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("check status: decode response: %w", err)
	}

	if payload.Status == nil {
		return nil, nil // still pending
	}
	return &StatusResult{
		ResultCode:        payload.Status.ResultCode,
		ResultDescription: payload.Status.ResultDesc,
	}, nil
}
