package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Notification channels
const (
	ChannelInApp = "in_app"
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

// Notification represents an in-app notification for a user
type Notification struct {
	ID           uuid.UUID      `json:"id"`
	WorkspaceID  uuid.UUID      `json:"workspace_id"`
	UserID       uuid.UUID      `json:"user_id"`
	TemplateType string         `json:"template_type"`
	Title        string         `json:"title"`
	Body         string         `json:"body"`
	Variables    map[string]any `json:"variables,omitempty"`
	ReadAt       *time.Time     `json:"read_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// NotificationTemplate resolves a template type to rendered title/body text
type NotificationTemplate struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// ChannelPreference holds a user's channel toggles for one template type
type ChannelPreference struct {
	UserID       uuid.UUID `json:"user_id"`
	TemplateType string    `json:"template_type"`
	InApp        bool      `json:"in_app"`
	Email        bool      `json:"email"`
	SMS          bool      `json:"sms"`
}

// AllDisabled reports whether every channel is off.
func (p ChannelPreference) AllDisabled() bool {
	return !p.InApp && !p.Email && !p.SMS
}

// ChannelPreferenceUpdate represents partial preference update data
type ChannelPreferenceUpdate struct {
	TemplateType string `json:"template_type" validate:"required,max=100"`
	InApp        *bool  `json:"in_app,omitempty"`
	Email        *bool  `json:"email,omitempty"`
	SMS          *bool  `json:"sms,omitempty"`
}

// NotificationRepository defines the interface for notification storage
type NotificationRepository interface {
	Create(ctx context.Context, notification *Notification) error
	ListByUser(ctx context.Context, workspaceID, userID uuid.UUID, unreadOnly bool, params ListParams) ([]Notification, int, error)
	MarkRead(ctx context.Context, workspaceID, userID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, workspaceID, userID uuid.UUID) (int, error)
	GetPreference(ctx context.Context, userID uuid.UUID, templateType string) (*ChannelPreference, error)
	UpsertPreference(ctx context.Context, pref *ChannelPreference) error
	ListPreferences(ctx context.Context, userID uuid.UUID) ([]ChannelPreference, error)
}
