package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/urbanthreads/storefront-service/internal/apperrors"
	"github.com/urbanthreads/storefront-service/internal/config"
	"github.com/urbanthreads/storefront-service/internal/logging"
)

// PayPalClient talks to the PayPal Orders v2 API. Payment is a two-phase
// protocol: CreateOrder registers an intent for the order total and returns a
// provider order id; CaptureOrder finalizes it after buyer approval. Only a
// COMPLETED capture is treated as payment.
type PayPalClient struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	logger       *logging.Logger

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewPayPalClient creates a PayPal client from configuration.
func NewPayPalClient(cfg config.PayPalConfig, logger *logging.Logger) *PayPalClient {
	return &PayPalClient{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// CaptureResult is the provider's confirmation of a captured payment.
type CaptureResult struct {
	ID         string
	Status     string
	PayerEmail string
}

// Completed reports whether the provider confirmed the capture.
func (r *CaptureResult) Completed() bool {
	return r.Status == "COMPLETED"
}

// CreateOrder registers a payment intent for the given amount and returns the
// provider's order id.
func (c *PayPalClient) CreateOrder(ctx context.Context, amount float64, currency string) (string, error) {
	c.logger.Debug("Creating PayPal order", logging.Fields{
		"amount":   amount,
		"currency": currency,
	})

	payload := map[string]interface{}{
		"intent": "CAPTURE",
		"purchase_units": []map[string]interface{}{
			{
				"amount": map[string]string{
					"currency_code": currency,
					"value":         strconv.FormatFloat(amount, 'f', 2, 64),
				},
			},
		},
	}

	var result struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := c.post(ctx, "/v2/checkout/orders", payload, &result); err != nil {
		return "", apperrors.NewExternalError("paypal", err)
	}

	c.logger.Info("PayPal order created", logging.Fields{
		"provider_order_id": result.ID,
		"status":            result.Status,
	})
	return result.ID, nil
}

// CaptureOrder finalizes a buyer-approved payment.
func (c *PayPalClient) CaptureOrder(ctx context.Context, providerOrderID string) (*CaptureResult, error) {
	c.logger.Debug("Capturing PayPal order", logging.Fields{
		"provider_order_id": providerOrderID,
	})

	var result struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Payer  struct {
			EmailAddress string `json:"email_address"`
		} `json:"payer"`
	}
	path := fmt.Sprintf("/v2/checkout/orders/%s/capture", url.PathEscape(providerOrderID))
	if err := c.post(ctx, path, struct{}{}, &result); err != nil {
		return nil, apperrors.NewExternalError("paypal", err)
	}

	c.logger.Info("PayPal capture response", logging.Fields{
		"provider_order_id": providerOrderID,
		"status":            result.Status,
	})

	return &CaptureResult{
		ID:         result.ID,
		Status:     result.Status,
		PayerEmail: result.Payer.EmailAddress,
	}, nil
}

func (c *PayPalClient) post(ctx context.Context, path string, payload, out interface{}) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("paypal returned status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// token returns a cached OAuth access token, refreshing it when it is within
// a minute of expiry.
func (c *PayPalClient) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Add(time.Minute).Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("paypal token endpoint returned status %d", resp.StatusCode)
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", err
	}

	c.accessToken = tokenResp.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)
	return c.accessToken, nil
}
