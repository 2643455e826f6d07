package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/pulsecrm/backend/internal/domain"
)

// Hooks are the side effects fired after successful mutations. Satisfied by
// hooks.Recorder; mocked in tests.
type Hooks interface {
	LogActivity(ctx context.Context, activity *domain.Activity) uuid.UUID
	Notify(ctx context.Context, workspaceID, userID uuid.UUID, templateType string, vars map[string]any)
	FireWebhook(ctx context.Context, workspaceID uuid.UUID, event string, data any)
	FireTo(ctx context.Context, endpointID uuid.UUID, event string, data any)
}
