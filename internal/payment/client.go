package payment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/localhandler/marketplace/internal/config"
)

// Gateway creates checkout orders with the payment provider.
type Gateway interface {
	CreateOrder(amount float64, currency string) (*CheckoutOrder, error)
	KeyID() string
}

// CheckoutOrder is the gateway's order object handed to the frontend.
type CheckoutOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// Client talks to a Razorpay-compatible orders API over HTTP with
// basic auth.
type Client struct {
	cfg        config.PaymentConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new payment gateway client
func NewClient(cfg config.PaymentConfig, logger *zap.Logger) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

type createOrderRequest struct {
	Amount   int64  `json:"amount"` // smallest currency unit
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// CreateOrder creates a gateway order for the given amount (major
// currency units).
func (c *Client) CreateOrder(amount float64, currency string) (*CheckoutOrder, error) {
	url := fmt.Sprintf("%s/v1/orders", c.cfg.BaseURL)

	reqBody := createOrderRequest{
		Amount:   int64(math.Round(amount)),
		Currency: currency,
		Receipt:  fmt.Sprintf("receipt_order_%d", time.Now().UnixMilli()),
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.cfg.KeyID, c.cfg.KeySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("payment gateway error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var order CheckoutOrder
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return &order, nil
}

// KeyID exposes the public key id the frontend embeds in its checkout
// widget.
func (c *Client) KeyID() string {
	return c.cfg.KeyID
}
