package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Activity represents an activity log entry written after a mutation
type Activity struct {
	ID           uuid.UUID      `json:"id"`
	WorkspaceID  uuid.UUID      `json:"workspace_id"`
	UserID       *uuid.UUID     `json:"user_id,omitempty"`
	EntityType   string         `json:"entity_type"`
	EntityID     uuid.UUID      `json:"entity_id"`
	ActivityType string         `json:"activity_type"`
	Title        string         `json:"title"`
	Changes      map[string]any `json:"changes,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// ActivityFilter represents list filters
type ActivityFilter struct {
	EntityType   string
	ActivityType string
	From         *time.Time
	To           *time.Time
}

// ActivityRepository defines the interface for activity storage
type ActivityRepository interface {
	Create(ctx context.Context, activity *Activity) error
	List(ctx context.Context, workspaceID uuid.UUID, filter ActivityFilter, params ListParams) ([]Activity, int, error)
}
