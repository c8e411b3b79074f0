// Package payment implements the client for the external payment
// gateway. The gateway is authoritative: an order is marked paid only
// when its verify endpoint reports a successful transaction.
package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/example/storefront/pkg/config"
)

type Client struct {
	baseURL   string
	secretKey string
	http      *http.Client
}

func NewClient(cfg *config.PaymentConfig) *Client {
	return &Client{
		baseURL:   cfg.BaseURL,
		secretKey: cfg.SecretKey,
		http: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type VerifyResponse struct {
	Status  bool       `json:"status"`
	Message string     `json:"message"`
	Data    VerifyData `json:"data"`
}

type VerifyData struct {
	Status    string   `json:"status"`
	Reference string   `json:"reference"`
	Amount    int64    `json:"amount"`
	PaidAt    string   `json:"paid_at"`
	Metadata  Metadata `json:"metadata"`
}

type Metadata struct {
	OrderID string `json:"order_id"`
}

// Succeeded reports whether the gateway confirmed the transaction.
func (r *VerifyResponse) Succeeded() bool {
	return r.Status && r.Data.Status == "success"
}

// Verify fetches the transaction status for reference. The context
// bounds the call; a slow gateway no longer stalls the whole request.
func (c *Client) Verify(ctx context.Context, reference string) (*VerifyResponse, error) {
	endpoint := fmt.Sprintf("%s/transaction/verify/%s", c.baseURL, url.PathEscape(reference))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build verify request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call payment gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("payment gateway returned status %d", resp.StatusCode)
	}

	var verified VerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&verified); err != nil {
		return nil, fmt.Errorf("decode verify response: %w", err)
	}
	return &verified, nil
}
