package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/urbanthreads/storefront-service/internal/apperrors"
	"github.com/urbanthreads/storefront-service/internal/config"
	"github.com/urbanthreads/storefront-service/internal/logging"
)

// SendEmailRequest is a message to the notification service. Recipient is a
// user id, not an address: the notification service owns the user directory
// and resolves ids to email addresses on its side, so order events never
// have to carry personal data.
type SendEmailRequest struct {
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

// HTTPNotificationClient sends email notifications through the notification
// service. Callers treat delivery as fire-and-forget: a send failure is
// logged and never blocks the state transition it is attached to.
type HTTPNotificationClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewHTTPNotificationClient creates a new HTTP-based notification client.
func NewHTTPNotificationClient(cfg config.ServiceConfig, logger *logging.Logger) *HTTPNotificationClient {
	return &HTTPNotificationClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// Send delivers one email notification.
func (c *HTTPNotificationClient) Send(ctx context.Context, req *SendEmailRequest) error {
	c.logger.Debug("Sending notification", logging.Fields{
		"recipient": req.Recipient,
		"subject":   req.Subject,
	})

	body, err := json.Marshal(req)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/notifications/email", bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return apperrors.NewExternalError("notification", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return apperrors.NewExternalError("notification",
			fmt.Errorf("notification service returned status %d", resp.StatusCode))
	}

	return nil
}
