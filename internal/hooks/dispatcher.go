package hooks

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pulsecrm/backend/internal/domain"
	"github.com/pulsecrm/backend/internal/security"
)

const maxResponseBody = 4096

// Dispatcher performs individual webhook delivery attempts. Every attempt
// records the outcome on the delivery row, success or not.
type Dispatcher struct {
	webhooks domain.WebhookRepository
	client   *http.Client
	logger   zerolog.Logger
}

// NewDispatcher creates a dispatcher with a bounded delivery timeout.
func NewDispatcher(webhooks domain.WebhookRepository, timeout time.Duration, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		webhooks: webhooks,
		client:   &http.Client{Timeout: timeout},
		logger:   logger.With().Str("component", "webhook_dispatcher").Logger(),
	}
}

// Attempt signs and posts one delivery to its endpoint, then records the
// result. A non-2xx response or transport error returns an error so callers
// can schedule a retry.
func (d *Dispatcher) Attempt(ctx context.Context, endpoint *domain.WebhookEndpoint, delivery *domain.WebhookDelivery) error {
	signature := security.SignPayload(delivery.Payload, endpoint.Secret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.URL, bytes.NewReader(delivery.Payload))
	if err != nil {
		d.record(ctx, delivery.ID, domain.DeliveryStatusFailed, 0, err.Error())
		return fmt.Errorf("failed to build webhook request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Webhook-Event", delivery.Event)
	req.Header.Set("X-Webhook-Signature", signature)
	req.Header.Set("X-Webhook-Delivery", delivery.ID.String())

	resp, err := d.client.Do(req)
	if err != nil {
		d.record(ctx, delivery.ID, domain.DeliveryStatusFailed, 0, err.Error())
		return fmt.Errorf("webhook delivery to %s failed: %w", endpoint.URL, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		d.record(ctx, delivery.ID, domain.DeliveryStatusSuccess, resp.StatusCode, string(body))
		return nil
	}

	d.record(ctx, delivery.ID, domain.DeliveryStatusFailed, resp.StatusCode, string(body))
	return fmt.Errorf("webhook endpoint %s returned %d", endpoint.ID, resp.StatusCode)
}

func (d *Dispatcher) record(ctx context.Context, deliveryID uuid.UUID, status string, responseStatus int, responseBody string) {
	if err := d.webhooks.RecordAttempt(ctx, deliveryID, status, responseStatus, responseBody); err != nil {
		d.logger.Error().Err(err).Str("delivery_id", deliveryID.String()).Msg("failed to record delivery attempt")
	}
}
