package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Delivery statuses
const (
	DeliveryStatusSuccess = "success"
	DeliveryStatusFailed  = "failed"
)

// WebhookEndpoint represents a webhook subscription. Secret is returned only
// on creation and rotation, never on reads.
type WebhookEndpoint struct {
	ID          uuid.UUID `json:"id"`
	WorkspaceID uuid.UUID `json:"workspace_id"`
	URL         string    `json:"url"`
	Events      []string  `json:"events"`
	Secret      string    `json:"secret,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// WebhookEndpointCreate represents endpoint creation data
type WebhookEndpointCreate struct {
	URL    string   `json:"url" validate:"required,url,max=2048"`
	Events []string `json:"events" validate:"required,min=1"`
}

// WebhookEndpointUpdate represents partial endpoint update data
type WebhookEndpointUpdate struct {
	URL      *string  `json:"url,omitempty" validate:"omitempty,url,max=2048"`
	Events   []string `json:"events,omitempty"`
	IsActive *bool    `json:"is_active,omitempty"`
}

// WebhookDelivery records one delivery attempt against an endpoint
type WebhookDelivery struct {
	ID             uuid.UUID `json:"id"`
	EndpointID     uuid.UUID `json:"endpoint_id"`
	Event          string    `json:"event"`
	Payload        []byte    `json:"payload"`
	Status         string    `json:"status"`
	ResponseStatus int       `json:"response_status"`
	ResponseBody   string    `json:"response_body,omitempty"`
	AttemptCount   int       `json:"attempt_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// WebhookRepository defines the interface for webhook storage
type WebhookRepository interface {
	Create(ctx context.Context, endpoint *WebhookEndpoint) error
	Get(ctx context.Context, workspaceID, id uuid.UUID) (*WebhookEndpoint, error)
	// GetWithSecret is for delivery only; handlers never expose the result.
	GetWithSecret(ctx context.Context, id uuid.UUID) (*WebhookEndpoint, error)
	List(ctx context.Context, workspaceID uuid.UUID, params ListParams) ([]WebhookEndpoint, int, error)
	ListSubscribed(ctx context.Context, workspaceID uuid.UUID, event string) ([]WebhookEndpoint, error)
	Update(ctx context.Context, workspaceID, id uuid.UUID, update WebhookEndpointUpdate) error
	RotateSecret(ctx context.Context, workspaceID, id uuid.UUID, secret string) error
	Delete(ctx context.Context, workspaceID, id uuid.UUID) error

	CreateDelivery(ctx context.Context, delivery *WebhookDelivery) error
	GetDelivery(ctx context.Context, workspaceID, deliveryID uuid.UUID) (*WebhookDelivery, error)
	// GetDeliveryForDispatch is unscoped; only the delivery worker uses it.
	GetDeliveryForDispatch(ctx context.Context, deliveryID uuid.UUID) (*WebhookDelivery, error)
	ListDeliveries(ctx context.Context, workspaceID, endpointID uuid.UUID, params ListParams) ([]WebhookDelivery, int, error)
	RecordAttempt(ctx context.Context, deliveryID uuid.UUID, status string, responseStatus int, responseBody string) error
}
