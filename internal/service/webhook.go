package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pulsecrm/backend/internal/domain"
	"github.com/pulsecrm/backend/internal/security"
)

type redeliverer interface {
	Redeliver(deliveryID, endpointID uuid.UUID)
}

// WebhookService handles webhook endpoint management. Endpoint secrets are
// returned exactly once, on create and on rotation.
type WebhookService struct {
	webhookRepo domain.WebhookRepository
	redeliver   redeliverer
	hooks       Hooks
}

// NewWebhookService creates a new webhook service
func NewWebhookService(webhookRepo domain.WebhookRepository, redeliver redeliverer, hooks Hooks) *WebhookService {
	return &WebhookService{webhookRepo: webhookRepo, redeliver: redeliver, hooks: hooks}
}

// List retrieves endpoints for the tenant's workspace. Secrets are omitted.
func (s *WebhookService) List(ctx context.Context, tenant domain.TenantContext, params domain.ListParams) (*domain.Page[domain.WebhookEndpoint], error) {
	params = params.Normalize()

	endpoints, total, err := s.webhookRepo.List(ctx, tenant.WorkspaceID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list endpoints: %w", err)
	}

	return domain.NewPage(endpoints, total, params), nil
}

// Get retrieves one endpoint without its secret
func (s *WebhookService) Get(ctx context.Context, tenant domain.TenantContext, id uuid.UUID) (*domain.WebhookEndpoint, error) {
	endpoint, err := s.webhookRepo.Get(ctx, tenant.WorkspaceID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get endpoint: %w", err)
	}
	if endpoint == nil {
		return nil, domain.ErrNotFound
	}

	return endpoint, nil
}

// Create registers an endpoint and generates its secret. The returned
// endpoint carries the secret; no later read will.
func (s *WebhookService) Create(ctx context.Context, tenant domain.TenantContext, input domain.WebhookEndpointCreate) (*domain.WebhookEndpoint, error) {
	secret, err := security.GenerateWebhookSecret()
	if err != nil {
		return nil, fmt.Errorf("failed to generate secret: %w", err)
	}

	now := time.Now()
	endpoint := &domain.WebhookEndpoint{
		ID:          uuid.New(),
		WorkspaceID: tenant.WorkspaceID,
		URL:         input.URL,
		Events:      input.Events,
		Secret:      secret,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.webhookRepo.Create(ctx, endpoint); err != nil {
		return nil, fmt.Errorf("failed to create endpoint: %w", err)
	}

	s.hooks.LogActivity(ctx, &domain.Activity{
		WorkspaceID:  tenant.WorkspaceID,
		UserID:       &tenant.UserID,
		EntityType:   "webhook_endpoint",
		EntityID:     endpoint.ID,
		ActivityType: "webhook.created",
		Title:        fmt.Sprintf("Webhook endpoint %s registered", endpoint.URL),
	})

	return endpoint, nil
}

// Update applies a partial update
func (s *WebhookService) Update(ctx context.Context, tenant domain.TenantContext, id uuid.UUID, input domain.WebhookEndpointUpdate) (*domain.WebhookEndpoint, error) {
	if _, err := s.Get(ctx, tenant, id); err != nil {
		return nil, err
	}

	if err := s.webhookRepo.Update(ctx, tenant.WorkspaceID, id, input); err != nil {
		return nil, fmt.Errorf("failed to update endpoint: %w", err)
	}

	return s.Get(ctx, tenant, id)
}

// Delete removes an endpoint. Idempotent.
func (s *WebhookService) Delete(ctx context.Context, tenant domain.TenantContext, id uuid.UUID) error {
	endpoint, err := s.webhookRepo.Get(ctx, tenant.WorkspaceID, id)
	if err != nil {
		return fmt.Errorf("failed to get endpoint: %w", err)
	}
	if endpoint == nil {
		return nil
	}

	if err := s.webhookRepo.Delete(ctx, tenant.WorkspaceID, id); err != nil {
		return fmt.Errorf("failed to delete endpoint: %w", err)
	}

	s.hooks.LogActivity(ctx, &domain.Activity{
		WorkspaceID:  tenant.WorkspaceID,
		UserID:       &tenant.UserID,
		EntityType:   "webhook_endpoint",
		EntityID:     id,
		ActivityType: "webhook.deleted",
		Title:        fmt.Sprintf("Webhook endpoint %s removed", endpoint.URL),
	})

	return nil
}

// RotateSecret replaces an endpoint's secret and returns the new one. The
// old secret stops validating immediately.
func (s *WebhookService) RotateSecret(ctx context.Context, tenant domain.TenantContext, id uuid.UUID) (*domain.WebhookEndpoint, error) {
	endpoint, err := s.Get(ctx, tenant, id)
	if err != nil {
		return nil, err
	}

	secret, err := security.GenerateWebhookSecret()
	if err != nil {
		return nil, fmt.Errorf("failed to generate secret: %w", err)
	}

	if err := s.webhookRepo.RotateSecret(ctx, tenant.WorkspaceID, id, secret); err != nil {
		return nil, fmt.Errorf("failed to rotate secret: %w", err)
	}

	endpoint.Secret = secret

	s.hooks.LogActivity(ctx, &domain.Activity{
		WorkspaceID:  tenant.WorkspaceID,
		UserID:       &tenant.UserID,
		EntityType:   "webhook_endpoint",
		EntityID:     id,
		ActivityType: "webhook.secret_rotated",
		Title:        fmt.Sprintf("Webhook endpoint %s secret rotated", endpoint.URL),
	})

	return endpoint, nil
}

// Test fires a ping event at one endpoint
func (s *WebhookService) Test(ctx context.Context, tenant domain.TenantContext, id uuid.UUID) error {
	endpoint, err := s.Get(ctx, tenant, id)
	if err != nil {
		return err
	}

	s.hooks.FireTo(ctx, endpoint.ID, "ping", map[string]any{
		"endpoint_id": endpoint.ID,
		"message":     "pulsecrm webhook test",
	})

	return nil
}

// ListDeliveries lists delivery records for an endpoint
func (s *WebhookService) ListDeliveries(ctx context.Context, tenant domain.TenantContext, id uuid.UUID, params domain.ListParams) (*domain.Page[domain.WebhookDelivery], error) {
	if _, err := s.Get(ctx, tenant, id); err != nil {
		return nil, err
	}

	params = params.Normalize()

	deliveries, total, err := s.webhookRepo.ListDeliveries(ctx, tenant.WorkspaceID, id, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list deliveries: %w", err)
	}

	return domain.NewPage(deliveries, total, params), nil
}

// RedeliverDelivery schedules a fresh attempt of an existing delivery on the
// worker queue.
func (s *WebhookService) RedeliverDelivery(ctx context.Context, tenant domain.TenantContext, deliveryID uuid.UUID) error {
	delivery, err := s.webhookRepo.GetDelivery(ctx, tenant.WorkspaceID, deliveryID)
	if err != nil {
		return fmt.Errorf("failed to get delivery: %w", err)
	}
	if delivery == nil {
		return domain.ErrNotFound
	}

	s.redeliver.Redeliver(delivery.ID, delivery.EndpointID)

	return nil
}
