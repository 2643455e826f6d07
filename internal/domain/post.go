package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Post statuses
const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
)

// Post represents a blog post. The JSON field names are camelCase because the
// blog frontend predates the snake_case convention used elsewhere.
type Post struct {
	ID          uuid.UUID  `json:"id"`
	WorkspaceID uuid.UUID  `json:"workspaceId"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Content     string     `json:"content"`
	Excerpt     string     `json:"excerpt"`
	Status      string     `json:"status"`
	Tags        []string   `json:"tags"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// PostCreate represents post creation data
type PostCreate struct {
	Title   string   `json:"title" validate:"required,max=255"`
	Slug    string   `json:"slug" validate:"max=255"`
	Content string   `json:"content"`
	Excerpt string   `json:"excerpt" validate:"max=500"`
	Tags    []string `json:"tags"`
}

// PostUpdate represents partial post update data
type PostUpdate struct {
	Title   *string  `json:"title,omitempty" validate:"omitempty,max=255"`
	Slug    *string  `json:"slug,omitempty" validate:"omitempty,max=255"`
	Content *string  `json:"content,omitempty"`
	Excerpt *string  `json:"excerpt,omitempty" validate:"omitempty,max=500"`
	Tags    []string `json:"tags,omitempty"`
}

// PostFilter represents list filters
type PostFilter struct {
	Status string
	Tag    string
	Search string
}

// PostRepository defines the interface for post storage
type PostRepository interface {
	Create(ctx context.Context, post *Post) error
	Get(ctx context.Context, workspaceID, id uuid.UUID) (*Post, error)
	List(ctx context.Context, workspaceID uuid.UUID, filter PostFilter, params ListParams) ([]Post, int, error)
	Update(ctx context.Context, workspaceID, id uuid.UUID, update PostUpdate) error
	SetStatus(ctx context.Context, workspaceID, id uuid.UUID, status string, publishedAt *time.Time) error
	Delete(ctx context.Context, workspaceID, id uuid.UUID) error
}
