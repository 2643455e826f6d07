package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pulsecrm/backend/internal/domain"
	"github.com/pulsecrm/backend/internal/hooks"
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// PostService handles blog post operations
type PostService struct {
	postRepo domain.PostRepository
	hooks    Hooks
}

// NewPostService creates a new post service
func NewPostService(postRepo domain.PostRepository, hooks Hooks) *PostService {
	return &PostService{postRepo: postRepo, hooks: hooks}
}

// List retrieves posts for the tenant's workspace
func (s *PostService) List(ctx context.Context, tenant domain.TenantContext, filter domain.PostFilter, params domain.ListParams) (*domain.Page[domain.Post], error) {
	params = params.Normalize()

	posts, total, err := s.postRepo.List(ctx, tenant.WorkspaceID, filter, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	return domain.NewPage(posts, total, params), nil
}

// Get retrieves one post
func (s *PostService) Get(ctx context.Context, tenant domain.TenantContext, id uuid.UUID) (*domain.Post, error) {
	post, err := s.postRepo.Get(ctx, tenant.WorkspaceID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	if post == nil {
		return nil, domain.ErrNotFound
	}

	return post, nil
}

// Create creates a draft post. A missing slug is derived from the title.
func (s *PostService) Create(ctx context.Context, tenant domain.TenantContext, input domain.PostCreate) (*domain.Post, error) {
	slug := input.Slug
	if slug == "" {
		slug = Slugify(input.Title)
	}

	now := time.Now()
	post := &domain.Post{
		ID:          uuid.New(),
		WorkspaceID: tenant.WorkspaceID,
		Title:       input.Title,
		Slug:        slug,
		Content:     input.Content,
		Excerpt:     input.Excerpt,
		Status:      domain.PostStatusDraft,
		Tags:        input.Tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	s.recordMutation(ctx, tenant, post, "created")

	return post, nil
}

// Update applies a partial update
func (s *PostService) Update(ctx context.Context, tenant domain.TenantContext, id uuid.UUID, input domain.PostUpdate) (*domain.Post, error) {
	if _, err := s.Get(ctx, tenant, id); err != nil {
		return nil, err
	}

	if err := s.postRepo.Update(ctx, tenant.WorkspaceID, id, input); err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	post, err := s.Get(ctx, tenant, id)
	if err != nil {
		return nil, err
	}

	s.recordMutation(ctx, tenant, post, "updated")

	return post, nil
}

// Delete removes a post. Idempotent.
func (s *PostService) Delete(ctx context.Context, tenant domain.TenantContext, id uuid.UUID) error {
	post, err := s.postRepo.Get(ctx, tenant.WorkspaceID, id)
	if err != nil {
		return fmt.Errorf("failed to get post: %w", err)
	}
	if post == nil {
		return nil
	}

	if err := s.postRepo.Delete(ctx, tenant.WorkspaceID, id); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	s.recordMutation(ctx, tenant, post, "deleted")

	return nil
}

// Publish makes a draft post live
func (s *PostService) Publish(ctx context.Context, tenant domain.TenantContext, id uuid.UUID) (*domain.Post, error) {
	post, err := s.Get(ctx, tenant, id)
	if err != nil {
		return nil, err
	}

	if post.Status == domain.PostStatusPublished {
		return nil, &domain.IllegalTransitionError{Entity: "post", From: post.Status, Action: "publish"}
	}

	now := time.Now()
	if err := s.postRepo.SetStatus(ctx, tenant.WorkspaceID, id, domain.PostStatusPublished, &now); err != nil {
		return nil, fmt.Errorf("failed to publish post: %w", err)
	}

	post.Status = domain.PostStatusPublished
	post.PublishedAt = &now

	s.recordMutation(ctx, tenant, post, "published")
	s.hooks.Notify(ctx, tenant.WorkspaceID, tenant.UserID, hooks.TemplatePostPublished, map[string]any{
		"title": post.Title,
	})

	return post, nil
}

// Unpublish takes a published post back to draft
func (s *PostService) Unpublish(ctx context.Context, tenant domain.TenantContext, id uuid.UUID) (*domain.Post, error) {
	post, err := s.Get(ctx, tenant, id)
	if err != nil {
		return nil, err
	}

	if post.Status != domain.PostStatusPublished {
		return nil, &domain.IllegalTransitionError{Entity: "post", From: post.Status, Action: "unpublish"}
	}

	if err := s.postRepo.SetStatus(ctx, tenant.WorkspaceID, id, domain.PostStatusDraft, nil); err != nil {
		return nil, fmt.Errorf("failed to unpublish post: %w", err)
	}

	post.Status = domain.PostStatusDraft
	post.PublishedAt = nil

	s.recordMutation(ctx, tenant, post, "unpublished")

	return post, nil
}

// Slugify derives a URL slug from a title.
func Slugify(title string) string {
	slug := strings.ToLower(title)
	slug = slugPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

func (s *PostService) recordMutation(ctx context.Context, tenant domain.TenantContext, post *domain.Post, action string) {
	s.hooks.LogActivity(ctx, &domain.Activity{
		WorkspaceID:  tenant.WorkspaceID,
		UserID:       &tenant.UserID,
		EntityType:   "post",
		EntityID:     post.ID,
		ActivityType: "post." + action,
		Title:        fmt.Sprintf("Post %q %s", post.Title, action),
	})
	s.hooks.FireWebhook(ctx, tenant.WorkspaceID, "post."+action, post)
}
