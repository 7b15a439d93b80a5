package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/Tony-Omondi/wamugunda-farm/internal/domain"
)

// ErrUpstream is returned when the produce API cannot serve a read after
// retries, or while the circuit breaker is open.
var ErrUpstream = errors.New("produce api unavailable")

const (
	requestTimeout = 5 * time.Second
	maxRetries     = 2 // fixed retry budget for 5xx/transport failures on reads
	placeholderImg = "https://via.placeholder.com/80"
)

// Client reads the produce catalog from the upstream API. All reads go
// through a shared retry wrapper (fixed 2 retries, 1 second apart) and a
// circuit breaker; responses are normalized before they leave the package.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	retryDelay time.Duration
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/") + "/",
		httpClient: &http.Client{Timeout: requestTimeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name: "produce-api",
		}),
		retryDelay: time.Second,
	}
}

func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	if err := c.getJSON(ctx, "categories/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ProduceList(ctx context.Context) ([]domain.Produce, error) {
	var out []domain.Produce
	if err := c.getJSON(ctx, "produce/", &out); err != nil {
		return nil, err
	}
	for i := range out {
		normalizeProduce(&out[i])
	}
	return out, nil
}

func (c *Client) ProduceDetail(ctx context.Context, id int64) (*domain.Produce, error) {
	var out domain.Produce
	if err := c.getJSON(ctx, "produce/"+strconv.FormatInt(id, 10)+"/", &out); err != nil {
		return nil, err
	}
	normalizeProduce(&out)
	return &out, nil
}

func (c *Client) Testimonials(ctx context.Context) ([]domain.Testimonial, error) {
	var out []domain.Testimonial
	if err := c.getJSON(ctx, "testimonials/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Media(ctx context.Context) ([]domain.Media, error) {
	var out []domain.Media
	if err := c.getJSON(ctx, "media/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	body, err := c.breaker.Execute(func() (interface{}, error) {
		return c.getWithRetry(ctx, c.baseURL+path)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%w: circuit open", ErrUpstream)
		}
		return err
	}

	if err := json.Unmarshal(body.([]byte), out); err != nil {
		return fmt.Errorf("decode %s failed: %w", path, err)
	}
	return nil
}

// getWithRetry performs a GET, retrying on transport errors and 5xx
// responses. 4xx responses are not retried. POSTs never come through here;
// only catalog reads share this policy.
func (c *Client) getWithRetry(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}

		body, retryable, err := c.getOnce(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: %v", ErrUpstream, lastErr)
}

func (c *Client) getOnce(ctx context.Context, url string) (body []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, err
	}

	switch {
	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("upstream returned %d", resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, false, fmt.Errorf("upstream returned %d", resp.StatusCode)
	}
	return data, false, nil
}

// normalizeProduce fills the defaults the UI relies on: unnamed products
// get a placeholder name and the image falls back through the gallery.
func normalizeProduce(p *domain.Produce) {
	if p.Name == "" {
		p.Name = "Unnamed Product"
	}
	if p.Image == "" {
		if len(p.Images) > 0 && p.Images[0].Image != "" {
			p.Image = p.Images[0].Image
		} else {
			p.Image = placeholderImg
		}
	}
	if p.Price == "" {
		p.Price = "0"
	}
}
