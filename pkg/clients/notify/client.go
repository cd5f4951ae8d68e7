package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/the3rafas/cr7system/internal/domain/models"
)

// Client delivers daily summaries to an external webhook.
type Client interface {
	SendSummary(ctx context.Context, summary models.DailySummary) error
}

// WebhookClient is a resty-backed implementation of Client.
type WebhookClient struct {
	httpClient *resty.Client
}

// NewClient builds a webhook client targeting the provided URL.
func NewClient(webhookURL string) *WebhookClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(webhookURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &WebhookClient{httpClient: restyClient}
}

// SendSummary POSTs the summary as JSON to the webhook.
func (c *WebhookClient) SendSummary(ctx context.Context, summary models.DailySummary) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(summary).
		Post("")
	if err != nil {
		return fmt.Errorf("send summary webhook: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("summary webhook error: status=%d, body=%s", resp.StatusCode(), resp.String())
	}

	return nil
}
