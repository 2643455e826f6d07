package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pulsecrm/backend/internal/domain"
	"github.com/pulsecrm/backend/internal/hooks"
	"github.com/pulsecrm/backend/internal/sentiment"
)

// ReviewService handles customer review operations
type ReviewService struct {
	reviewRepo domain.ReviewRepository
	engine     sentiment.Engine
	hooks      Hooks
}

// NewReviewService creates a new review service
func NewReviewService(reviewRepo domain.ReviewRepository, engine sentiment.Engine, hooks Hooks) *ReviewService {
	return &ReviewService{reviewRepo: reviewRepo, engine: engine, hooks: hooks}
}

// List retrieves reviews for the tenant's workspace
func (s *ReviewService) List(ctx context.Context, tenant domain.TenantContext, filter domain.ReviewFilter, params domain.ListParams) (*domain.Page[domain.Review], error) {
	params = params.Normalize()

	reviews, total, err := s.reviewRepo.List(ctx, tenant.WorkspaceID, filter, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	return domain.NewPage(reviews, total, params), nil
}

// Get retrieves one review
func (s *ReviewService) Get(ctx context.Context, tenant domain.TenantContext, id uuid.UUID) (*domain.Review, error) {
	review, err := s.reviewRepo.Get(ctx, tenant.WorkspaceID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	if review == nil {
		return nil, domain.ErrNotFound
	}

	return review, nil
}

// Create ingests a review from an external platform
func (s *ReviewService) Create(ctx context.Context, tenant domain.TenantContext, input domain.ReviewCreate) (*domain.Review, error) {
	now := time.Now()
	reviewedAt := now
	if input.ReviewedAt != nil {
		reviewedAt = *input.ReviewedAt
	}

	review := &domain.Review{
		ID:          uuid.New(),
		WorkspaceID: tenant.WorkspaceID,
		Platform:    input.Platform,
		Author:      input.Author,
		Rating:      input.Rating,
		Content:     input.Content,
		Status:      domain.ReviewStatusPending,
		ReviewedAt:  reviewedAt,
		CreatedAt:   now,
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	s.recordMutation(ctx, tenant, review, "received")
	s.hooks.Notify(ctx, tenant.WorkspaceID, tenant.UserID, hooks.TemplateReviewReceived, map[string]any{
		"rating":   review.Rating,
		"platform": review.Platform,
	})

	return review, nil
}

// Reply posts a reply to a pending review
func (s *ReviewService) Reply(ctx context.Context, tenant domain.TenantContext, id uuid.UUID, input domain.ReviewReply) (*domain.Review, error) {
	review, err := s.Get(ctx, tenant, id)
	if err != nil {
		return nil, err
	}

	if review.Status != domain.ReviewStatusPending {
		return nil, &domain.IllegalTransitionError{Entity: "review", From: review.Status, Action: "reply"}
	}

	if err := s.reviewRepo.SetReply(ctx, tenant.WorkspaceID, id, input.Reply); err != nil {
		return nil, fmt.Errorf("failed to set reply: %w", err)
	}

	review, err = s.Get(ctx, tenant, id)
	if err != nil {
		return nil, err
	}

	s.recordMutation(ctx, tenant, review, "replied")

	return review, nil
}

// Analyze runs the sentiment engine over a review's content and stores the
// label and score.
func (s *ReviewService) Analyze(ctx context.Context, tenant domain.TenantContext, id uuid.UUID) (*domain.Review, error) {
	review, err := s.Get(ctx, tenant, id)
	if err != nil {
		return nil, err
	}

	result, err := s.engine.Analyze(ctx, review.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze review: %w", err)
	}

	if err := s.reviewRepo.SetSentiment(ctx, tenant.WorkspaceID, id, result.Label, result.Score); err != nil {
		return nil, fmt.Errorf("failed to store sentiment: %w", err)
	}

	review.SentimentLabel = result.Label
	review.SentimentScore = result.Score

	s.recordMutation(ctx, tenant, review, "analyzed")

	return review, nil
}

// Delete removes a review. Idempotent.
func (s *ReviewService) Delete(ctx context.Context, tenant domain.TenantContext, id uuid.UUID) error {
	review, err := s.reviewRepo.Get(ctx, tenant.WorkspaceID, id)
	if err != nil {
		return fmt.Errorf("failed to get review: %w", err)
	}
	if review == nil {
		return nil
	}

	if err := s.reviewRepo.Delete(ctx, tenant.WorkspaceID, id); err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	s.recordMutation(ctx, tenant, review, "deleted")

	return nil
}

func (s *ReviewService) recordMutation(ctx context.Context, tenant domain.TenantContext, review *domain.Review, action string) {
	s.hooks.LogActivity(ctx, &domain.Activity{
		WorkspaceID:  tenant.WorkspaceID,
		UserID:       &tenant.UserID,
		EntityType:   "review",
		EntityID:     review.ID,
		ActivityType: "review." + action,
		Title:        fmt.Sprintf("Review on %s %s", review.Platform, action),
	})
	s.hooks.FireWebhook(ctx, tenant.WorkspaceID, "review."+action, review)
}
