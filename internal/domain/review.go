package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Review statuses
const (
	ReviewStatusPending = "pending"
	ReviewStatusReplied = "replied"
)

// Review represents a customer review imported from an external platform
type Review struct {
	ID             uuid.UUID  `json:"id"`
	WorkspaceID    uuid.UUID  `json:"workspace_id"`
	Platform       string     `json:"platform"`
	Author         string     `json:"author"`
	Rating         int        `json:"rating"`
	Content        string     `json:"content"`
	Status         string     `json:"status"`
	Reply          string     `json:"reply,omitempty"`
	RepliedAt      *time.Time `json:"replied_at,omitempty"`
	SentimentLabel string     `json:"sentiment_label,omitempty"`
	SentimentScore float64    `json:"sentiment_score,omitempty"`
	ReviewedAt     time.Time  `json:"reviewed_at"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ReviewCreate represents review ingestion data
type ReviewCreate struct {
	Platform   string     `json:"platform" validate:"required,max=50"`
	Author     string     `json:"author" validate:"max=255"`
	Rating     int        `json:"rating" validate:"min=1,max=5"`
	Content    string     `json:"content"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
}

// ReviewReply represents a reply to a review
type ReviewReply struct {
	Reply string `json:"reply" validate:"required"`
}

// ReviewFilter represents list filters
type ReviewFilter struct {
	Platform string
	Status   string
	Rating   int
	From     *time.Time
	To       *time.Time
}

// ReviewRepository defines the interface for review storage
type ReviewRepository interface {
	Create(ctx context.Context, review *Review) error
	Get(ctx context.Context, workspaceID, id uuid.UUID) (*Review, error)
	List(ctx context.Context, workspaceID uuid.UUID, filter ReviewFilter, params ListParams) ([]Review, int, error)
	SetReply(ctx context.Context, workspaceID, id uuid.UUID, reply string) error
	SetSentiment(ctx context.Context, workspaceID, id uuid.UUID, label string, score float64) error
	Delete(ctx context.Context, workspaceID, id uuid.UUID) error
}
