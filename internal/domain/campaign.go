package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Campaign statuses. Empty or unknown status on create/update coerces to
// draft rather than persisting an invalid value.
const (
	CampaignStatusDraft     = "draft"
	CampaignStatusScheduled = "scheduled"
	CampaignStatusSending   = "sending"
	CampaignStatusSent      = "sent"
	CampaignStatusPaused    = "paused"
)

// Campaign represents an email campaign
type Campaign struct {
	ID             uuid.UUID      `json:"id"`
	WorkspaceID    uuid.UUID      `json:"workspace_id"`
	Name           string         `json:"name"`
	Subject        string         `json:"subject"`
	Body           string         `json:"body"`
	Status         string         `json:"status"`
	Settings       map[string]any `json:"settings,omitempty"`
	RecipientCount int            `json:"recipient_count"`
	SentCount      int            `json:"sent_count"`
	ScheduledAt    *time.Time     `json:"scheduled_at,omitempty"`
	SentAt         *time.Time     `json:"sent_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// CampaignCreate represents campaign creation data
type CampaignCreate struct {
	Name        string         `json:"name" validate:"required,max=255"`
	Subject     string         `json:"subject" validate:"max=500"`
	Body        string         `json:"body"`
	Status      string         `json:"status"`
	Settings    map[string]any `json:"settings,omitempty"`
	ScheduledAt *time.Time     `json:"scheduled_at,omitempty"`
}

// CampaignUpdate represents partial campaign update data. Nil fields are
// left untouched.
type CampaignUpdate struct {
	Name        *string        `json:"name,omitempty" validate:"omitempty,max=255"`
	Subject     *string        `json:"subject,omitempty" validate:"omitempty,max=500"`
	Body        *string        `json:"body,omitempty"`
	Status      *string        `json:"status,omitempty"`
	Settings    map[string]any `json:"settings,omitempty"`
	ScheduledAt *time.Time     `json:"scheduled_at,omitempty"`
}

// CampaignFilter represents list filters from the query string
type CampaignFilter struct {
	Status string
	Search string
	From   *time.Time
	To     *time.Time
}

// NormalizeCampaignStatus coerces empty or unknown statuses to draft.
func NormalizeCampaignStatus(status string) string {
	switch status {
	case CampaignStatusDraft, CampaignStatusScheduled, CampaignStatusSending,
		CampaignStatusSent, CampaignStatusPaused:
		return status
	default:
		return CampaignStatusDraft
	}
}

// Recipient statuses
const (
	RecipientStatusPending = "pending"
	RecipientStatusQueued  = "queued"
	RecipientStatusSent    = "sent"
	RecipientStatusFailed  = "failed"
)

// Recipient represents a campaign recipient
type Recipient struct {
	ID         uuid.UUID  `json:"id"`
	CampaignID uuid.UUID  `json:"campaign_id"`
	Email      string     `json:"email"`
	Name       string     `json:"name"`
	Status     string     `json:"status"`
	SentAt     *time.Time `json:"sent_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// RecipientCreate represents one recipient in a bulk add payload
type RecipientCreate struct {
	Email string `json:"email" validate:"required,email,max=255"`
	Name  string `json:"name" validate:"max=255"`
}

// RecipientStats aggregates recipient counts by status for one campaign
type RecipientStats struct {
	Total   int `json:"total"`
	Pending int `json:"pending"`
	Queued  int `json:"queued"`
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
}

// CampaignRepository defines the interface for campaign storage
type CampaignRepository interface {
	Create(ctx context.Context, campaign *Campaign) error
	Get(ctx context.Context, workspaceID, id uuid.UUID) (*Campaign, error)
	List(ctx context.Context, workspaceID uuid.UUID, filter CampaignFilter, params ListParams) ([]Campaign, int, error)
	Update(ctx context.Context, workspaceID, id uuid.UUID, update CampaignUpdate) error
	Delete(ctx context.Context, workspaceID, id uuid.UUID) error
	MarkSending(ctx context.Context, workspaceID, id uuid.UUID) error
	// FinishSentCampaigns moves sending campaigns with no pending or queued
	// recipients to sent. Safe to run concurrently.
	FinishSentCampaigns(ctx context.Context) (int, error)
	AddRecipients(ctx context.Context, campaignID uuid.UUID, recipients []Recipient) error
	ListRecipients(ctx context.Context, campaignID uuid.UUID, params ListParams) ([]Recipient, int, error)
	RecipientStats(ctx context.Context, campaignID uuid.UUID) (*RecipientStats, error)
}
