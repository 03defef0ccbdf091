package orderapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"
)

// Client talks to the remote restaurant API. It never retries; callers
// decide what a failure means for the user.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name:        "order-api",
			MaxRequests: 1,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			// 4xx answers mean the backend is alive
			IsSuccessful: func(err error) bool {
				if err == nil {
					return true
				}
				var apiErr *APIError
				return errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.WithFields(log.Fields{
					"breaker": name,
					"from":    from.String(),
					"to":      to.String(),
				}).Warn("[ORDER API] circuit breaker state changed")
			},
		}),
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// --------------------------------------------------
// GET /api/menu/qr/{qr}/menu/
// --------------------------------------------------
func (c *Client) MenuByQR(ctx context.Context, qrCode string) (*MenuPayload, error) {
	if strings.TrimSpace(qrCode) == "" {
		return nil, ErrQRRequired
	}

	path := "/api/menu/qr/" + url.PathEscape(qrCode) + "/menu/"
	raw, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var payload MenuPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, errors.Wrap(err, "decode qr menu")
	}
	payload.Raw = raw

	return &payload, nil
}

// RestaurantCategories returns the raw category list of one restaurant.
func (c *Client) RestaurantCategories(ctx context.Context, restaurantID string) ([]byte, error) {
	if strings.TrimSpace(restaurantID) == "" {
		return nil, errors.New("restaurant id is required")
	}
	path := "/api/menu/restaurants/" + url.PathEscape(restaurantID) + "/categories/"
	return c.do(ctx, http.MethodGet, path, nil, nil)
}

// Categories returns the raw global category list.
func (c *Client) Categories(ctx context.Context) ([]byte, error) {
	return c.do(ctx, http.MethodGet, "/api/menu/categories/", nil, nil)
}

// --------------------------------------------------
// POST /api/orders/
// --------------------------------------------------
func (c *Client) CreateOrder(
	ctx context.Context,
	req CreateOrderRequest,
	idempotencyKey string,
) (*Order, error) {

	if len(req.Items) == 0 {
		return nil, ErrNoOrderItems
	}
	if req.Table == "" {
		return nil, ErrNoTable
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "encode order")
	}

	headers := map[string]string{"Content-Type": "application/json"}
	if idempotencyKey != "" {
		headers["Idempotency-Key"] = idempotencyKey
	}

	raw, err := c.do(ctx, http.MethodPost, "/api/orders/", body, headers)
	if err != nil {
		return nil, err
	}

	var order Order
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, errors.Wrap(err, "decode created order")
	}
	return &order, nil
}

// --------------------------------------------------
// GET /api/orders/?restaurant=&status=
// --------------------------------------------------
func (c *Client) ListOrders(ctx context.Context, restaurantID, status string) ([]Order, error) {
	params := url.Values{}
	if restaurantID != "" {
		params.Set("restaurant", restaurantID)
	}
	if status != "" {
		params.Set("status", status)
	}

	path := "/api/orders/"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	raw, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var orders []Order
	if err := json.Unmarshal(raw, &orders); err != nil {
		return nil, errors.Wrap(err, "decode orders")
	}
	return orders, nil
}

func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	body []byte,
	headers map[string]string,
) ([]byte, error) {

	raw, err := c.breaker.Execute(func() ([]byte, error) {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return nil, errors.Wrap(err, "build request")
		}
		req.Header.Set("Accept", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, errors.Wrapf(err, "%s %s", method, path)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, errors.Wrap(err, "read response")
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			msg := strings.TrimSpace(string(data))
			if msg == "" {
				msg = resp.Status
			}
			return nil, &APIError{Status: resp.StatusCode, Message: msg}
		}

		return data, nil
	})

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, ErrCircuitOpen
	}
	return raw, err
}
