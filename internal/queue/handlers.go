package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/pulsecrm/backend/internal/domain"
)

// Dispatcher performs one webhook delivery attempt. Satisfied by
// hooks.Dispatcher.
type Dispatcher interface {
	Attempt(ctx context.Context, endpoint *domain.WebhookEndpoint, delivery *domain.WebhookDelivery) error
}

// Handlers holds the worker-side task handlers. All of them are idempotent:
// a task retried after a crash repeats no visible work.
type Handlers struct {
	webhooks   domain.WebhookRepository
	campaigns  domain.CampaignRepository
	loyalty    domain.LoyaltyRepository
	dispatcher Dispatcher
	logger     zerolog.Logger
}

func NewHandlers(
	webhooks domain.WebhookRepository,
	campaigns domain.CampaignRepository,
	loyalty domain.LoyaltyRepository,
	dispatcher Dispatcher,
	logger zerolog.Logger,
) *Handlers {
	return &Handlers{
		webhooks:   webhooks,
		campaigns:  campaigns,
		loyalty:    loyalty,
		dispatcher: dispatcher,
		logger:     logger.With().Str("component", "worker").Logger(),
	}
}

// Mux returns the asynq mux with every handler registered.
func (h *Handlers) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeWebhookDeliver, h.HandleWebhookDeliver)
	mux.HandleFunc(TypeCampaignAdvance, h.HandleCampaignAdvance)
	mux.HandleFunc(TypeLoyaltyRetier, h.HandleLoyaltyRetier)
	return mux
}

// HandleWebhookDeliver re-attempts a failed delivery. A delivery whose
// endpoint has since been deleted or deactivated is dropped without error.
func (h *Handlers) HandleWebhookDeliver(ctx context.Context, task *asynq.Task) error {
	var payload WebhookDeliverPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	deliveryID, err := uuid.Parse(payload.DeliveryID)
	if err != nil {
		return fmt.Errorf("invalid delivery id %q: %w", payload.DeliveryID, asynq.SkipRetry)
	}
	endpointID, err := uuid.Parse(payload.EndpointID)
	if err != nil {
		return fmt.Errorf("invalid endpoint id %q: %w", payload.EndpointID, asynq.SkipRetry)
	}

	endpoint, err := h.webhooks.GetWithSecret(ctx, endpointID)
	if err != nil {
		return err
	}
	if endpoint == nil || !endpoint.IsActive {
		h.logger.Info().Str("endpoint_id", payload.EndpointID).Msg("skipping delivery for inactive endpoint")
		return nil
	}

	delivery, err := h.webhooks.GetDeliveryForDispatch(ctx, deliveryID)
	if err != nil {
		return err
	}
	if delivery == nil {
		return nil
	}
	if delivery.Status == domain.DeliveryStatusSuccess {
		return nil
	}

	return h.dispatcher.Attempt(ctx, endpoint, delivery)
}

// HandleCampaignAdvance finishes sending campaigns whose recipients are all
// in a terminal state.
func (h *Handlers) HandleCampaignAdvance(ctx context.Context, task *asynq.Task) error {
	n, err := h.campaigns.FinishSentCampaigns(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		h.logger.Info().Int("campaigns", n).Msg("marked campaigns as sent")
	}
	return nil
}

// HandleLoyaltyRetier reconciles member tiers with their point balances.
func (h *Handlers) HandleLoyaltyRetier(ctx context.Context, task *asynq.Task) error {
	n, err := h.loyalty.RecalculateAllTiers(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		h.logger.Info().Int("members", n).Msg("recalculated loyalty tiers")
	}
	return nil
}
