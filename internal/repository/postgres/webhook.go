package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pulsecrm/backend/internal/domain"
	"github.com/pulsecrm/backend/internal/security"
)

// WebhookRepository handles webhook endpoint and delivery data access.
// Endpoint secrets are AES-GCM encrypted at rest.
type WebhookRepository struct {
	db        *DB
	encryptor *security.Encryptor
}

// NewWebhookRepository creates a new webhook repository
func NewWebhookRepository(db *DB, encryptor *security.Encryptor) *WebhookRepository {
	return &WebhookRepository{db: db, encryptor: encryptor}
}

// Create creates a new webhook endpoint
func (r *WebhookRepository) Create(ctx context.Context, endpoint *domain.WebhookEndpoint) error {
	secret, err := r.encryptor.EncryptString(endpoint.Secret)
	if err != nil {
		return fmt.Errorf("failed to encrypt secret: %w", err)
	}

	query := `
		INSERT INTO webhook_endpoints (id, workspace_id, url, events, secret, is_active,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = r.db.Pool.Exec(ctx, query,
		endpoint.ID,
		endpoint.WorkspaceID,
		endpoint.URL,
		encodeJSON(endpoint.Events),
		secret,
		endpoint.IsActive,
		endpoint.CreatedAt,
		endpoint.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create webhook endpoint: %w", err)
	}

	return nil
}

// Get retrieves an endpoint scoped to a workspace. The secret is not loaded.
func (r *WebhookRepository) Get(ctx context.Context, workspaceID, id uuid.UUID) (*domain.WebhookEndpoint, error) {
	query := `
		SELECT id, workspace_id, url, events, is_active, created_at, updated_at
		FROM webhook_endpoints
		WHERE id = $1 AND workspace_id = $2
	`

	var ep domain.WebhookEndpoint
	var eventsJSON []byte

	err := r.db.Pool.QueryRow(ctx, query, id, workspaceID).Scan(
		&ep.ID, &ep.WorkspaceID, &ep.URL, &eventsJSON, &ep.IsActive, &ep.CreatedAt, &ep.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get webhook endpoint: %w", err)
	}

	ep.Events = decodeJSONStrings(eventsJSON)

	return &ep, nil
}

// GetWithSecret retrieves an endpoint including its decrypted secret. Used
// only by the delivery path; handlers never expose the result.
func (r *WebhookRepository) GetWithSecret(ctx context.Context, id uuid.UUID) (*domain.WebhookEndpoint, error) {
	query := `
		SELECT id, workspace_id, url, events, secret, is_active, created_at, updated_at
		FROM webhook_endpoints
		WHERE id = $1
	`

	var ep domain.WebhookEndpoint
	var eventsJSON []byte
	var encSecret string

	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&ep.ID, &ep.WorkspaceID, &ep.URL, &eventsJSON, &encSecret,
		&ep.IsActive, &ep.CreatedAt, &ep.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get webhook endpoint: %w", err)
	}

	secret, err := r.encryptor.DecryptString(encSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt secret: %w", err)
	}

	ep.Events = decodeJSONStrings(eventsJSON)
	ep.Secret = secret

	return &ep, nil
}

// List retrieves endpoints for a workspace
func (r *WebhookRepository) List(ctx context.Context, workspaceID uuid.UUID, params domain.ListParams) ([]domain.WebhookEndpoint, int, error) {
	var total int
	if err := r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM webhook_endpoints WHERE workspace_id = $1`, workspaceID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count webhook endpoints: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, workspace_id, url, events, is_active, created_at, updated_at
		FROM webhook_endpoints
		WHERE workspace_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, workspaceID, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list webhook endpoints: %w", err)
	}
	defer rows.Close()

	var endpoints []domain.WebhookEndpoint
	for rows.Next() {
		var ep domain.WebhookEndpoint
		var eventsJSON []byte
		if err := rows.Scan(&ep.ID, &ep.WorkspaceID, &ep.URL, &eventsJSON,
			&ep.IsActive, &ep.CreatedAt, &ep.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan webhook endpoint: %w", err)
		}
		ep.Events = decodeJSONStrings(eventsJSON)
		endpoints = append(endpoints, ep)
	}

	return endpoints, total, nil
}

// ListSubscribed retrieves active endpoints subscribed to an event or to "*"
func (r *WebhookRepository) ListSubscribed(ctx context.Context, workspaceID uuid.UUID, event string) ([]domain.WebhookEndpoint, error) {
	query := `
		SELECT id, workspace_id, url, events, is_active, created_at, updated_at
		FROM webhook_endpoints
		WHERE workspace_id = $1
		  AND is_active = true
		  AND (events @> $2::jsonb OR events @> '["*"]'::jsonb)
	`

	rows, err := r.db.Pool.Query(ctx, query, workspaceID, fmt.Sprintf(`["%s"]`, event))
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribed endpoints: %w", err)
	}
	defer rows.Close()

	var endpoints []domain.WebhookEndpoint
	for rows.Next() {
		var ep domain.WebhookEndpoint
		var eventsJSON []byte
		if err := rows.Scan(&ep.ID, &ep.WorkspaceID, &ep.URL, &eventsJSON,
			&ep.IsActive, &ep.CreatedAt, &ep.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan webhook endpoint: %w", err)
		}
		ep.Events = decodeJSONStrings(eventsJSON)
		endpoints = append(endpoints, ep)
	}

	return endpoints, nil
}

// Update applies a partial update; nil fields keep their stored values
func (r *WebhookRepository) Update(ctx context.Context, workspaceID, id uuid.UUID, update domain.WebhookEndpointUpdate) error {
	var events []byte
	if update.Events != nil {
		events = encodeJSON(update.Events)
	}

	query := `
		UPDATE webhook_endpoints
		SET url = COALESCE($3, url),
		    events = COALESCE($4, events),
		    is_active = COALESCE($5, is_active),
		    updated_at = NOW()
		WHERE id = $1 AND workspace_id = $2
	`

	_, err := r.db.Pool.Exec(ctx, query, id, workspaceID, update.URL, events, update.IsActive)
	if err != nil {
		return fmt.Errorf("failed to update webhook endpoint: %w", err)
	}

	return nil
}

// RotateSecret replaces the stored secret
func (r *WebhookRepository) RotateSecret(ctx context.Context, workspaceID, id uuid.UUID, secret string) error {
	enc, err := r.encryptor.EncryptString(secret)
	if err != nil {
		return fmt.Errorf("failed to encrypt secret: %w", err)
	}

	query := `
		UPDATE webhook_endpoints
		SET secret = $3, updated_at = NOW()
		WHERE id = $1 AND workspace_id = $2
	`

	_, err = r.db.Pool.Exec(ctx, query, id, workspaceID, enc)
	if err != nil {
		return fmt.Errorf("failed to rotate secret: %w", err)
	}

	return nil
}

// Delete removes an endpoint; its deliveries cascade
func (r *WebhookRepository) Delete(ctx context.Context, workspaceID, id uuid.UUID) error {
	query := `DELETE FROM webhook_endpoints WHERE id = $1 AND workspace_id = $2`

	_, err := r.db.Pool.Exec(ctx, query, id, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to delete webhook endpoint: %w", err)
	}

	return nil
}

// CreateDelivery inserts a delivery record
func (r *WebhookRepository) CreateDelivery(ctx context.Context, delivery *domain.WebhookDelivery) error {
	query := `
		INSERT INTO webhook_deliveries (id, endpoint_id, event, payload, status,
			response_status, response_body, attempt_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		delivery.ID,
		delivery.EndpointID,
		delivery.Event,
		delivery.Payload,
		delivery.Status,
		delivery.ResponseStatus,
		delivery.ResponseBody,
		delivery.AttemptCount,
		delivery.CreatedAt,
		delivery.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create delivery: %w", err)
	}

	return nil
}

// GetDelivery retrieves a delivery record tenant-checked via its endpoint
func (r *WebhookRepository) GetDelivery(ctx context.Context, workspaceID, deliveryID uuid.UUID) (*domain.WebhookDelivery, error) {
	query := `
		SELECT d.id, d.endpoint_id, d.event, d.payload, d.status, d.response_status,
		       d.response_body, d.attempt_count, d.created_at, d.updated_at
		FROM webhook_deliveries d
		INNER JOIN webhook_endpoints e ON d.endpoint_id = e.id
		WHERE d.id = $1 AND e.workspace_id = $2
	`

	var d domain.WebhookDelivery
	err := r.db.Pool.QueryRow(ctx, query, deliveryID, workspaceID).Scan(
		&d.ID, &d.EndpointID, &d.Event, &d.Payload, &d.Status, &d.ResponseStatus,
		&d.ResponseBody, &d.AttemptCount, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get delivery: %w", err)
	}

	return &d, nil
}

// GetDeliveryForDispatch retrieves a delivery without tenant scoping. The
// delivery worker is the only caller.
func (r *WebhookRepository) GetDeliveryForDispatch(ctx context.Context, deliveryID uuid.UUID) (*domain.WebhookDelivery, error) {
	query := `
		SELECT id, endpoint_id, event, payload, status, response_status,
		       response_body, attempt_count, created_at, updated_at
		FROM webhook_deliveries
		WHERE id = $1
	`

	var d domain.WebhookDelivery
	err := r.db.Pool.QueryRow(ctx, query, deliveryID).Scan(
		&d.ID, &d.EndpointID, &d.Event, &d.Payload, &d.Status, &d.ResponseStatus,
		&d.ResponseBody, &d.AttemptCount, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get delivery: %w", err)
	}

	return &d, nil
}

// ListDeliveries lists delivery records for an endpoint
func (r *WebhookRepository) ListDeliveries(ctx context.Context, workspaceID, endpointID uuid.UUID, params domain.ListParams) ([]domain.WebhookDelivery, int, error) {
	var total int
	if err := r.db.Pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM webhook_deliveries d
		INNER JOIN webhook_endpoints e ON d.endpoint_id = e.id
		WHERE d.endpoint_id = $1 AND e.workspace_id = $2
	`, endpointID, workspaceID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count deliveries: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT d.id, d.endpoint_id, d.event, d.payload, d.status, d.response_status,
		       d.response_body, d.attempt_count, d.created_at, d.updated_at
		FROM webhook_deliveries d
		INNER JOIN webhook_endpoints e ON d.endpoint_id = e.id
		WHERE d.endpoint_id = $1 AND e.workspace_id = $2
		ORDER BY d.created_at DESC
		LIMIT $3 OFFSET $4
	`, endpointID, workspaceID, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list deliveries: %w", err)
	}
	defer rows.Close()

	var deliveries []domain.WebhookDelivery
	for rows.Next() {
		var d domain.WebhookDelivery
		if err := rows.Scan(&d.ID, &d.EndpointID, &d.Event, &d.Payload, &d.Status,
			&d.ResponseStatus, &d.ResponseBody, &d.AttemptCount, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan delivery: %w", err)
		}
		deliveries = append(deliveries, d)
	}

	return deliveries, total, nil
}

// RecordAttempt updates a delivery record after a transport attempt
func (r *WebhookRepository) RecordAttempt(ctx context.Context, deliveryID uuid.UUID, status string, responseStatus int, responseBody string) error {
	query := `
		UPDATE webhook_deliveries
		SET status = $2,
		    response_status = $3,
		    response_body = $4,
		    attempt_count = attempt_count + 1,
		    updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.db.Pool.Exec(ctx, query, deliveryID, status, responseStatus, responseBody)
	if err != nil {
		return fmt.Errorf("failed to record attempt: %w", err)
	}

	return nil
}
