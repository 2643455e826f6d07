package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pulsecrm/backend/internal/domain"
	"github.com/pulsecrm/backend/internal/sentiment"
)

func TestReviewService_Create(t *testing.T) {
	ctx := context.Background()
	tenant := testTenant()

	t.Run("starts pending", func(t *testing.T) {
		repo := new(MockReviewRepository)
		hooks := new(MockHooks)
		svc := NewReviewService(repo, sentiment.NewKeywordEngine(), hooks)

		repo.On("Create", ctx, mock.AnythingOfType("*domain.Review")).Return(nil)
		hooks.On("LogActivity", ctx, mock.Anything).Return(uuid.New())
		hooks.On("FireWebhook", ctx, tenant.WorkspaceID, "review.received", mock.Anything).Return()
		hooks.On("Notify", ctx, tenant.WorkspaceID, tenant.UserID, "review_received", mock.Anything).Return()

		review, err := svc.Create(ctx, tenant, domain.ReviewCreate{Platform: "google", Rating: 4, Content: "good"})
		assert.NoError(t, err)
		assert.Equal(t, domain.ReviewStatusPending, review.Status)
		assert.False(t, review.ReviewedAt.IsZero())
	})

	t.Run("keeps supplied review time", func(t *testing.T) {
		repo := new(MockReviewRepository)
		svc := NewReviewService(repo, sentiment.NewKeywordEngine(), noopHooks{})

		repo.On("Create", ctx, mock.AnythingOfType("*domain.Review")).Return(nil)

		reviewedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		review, err := svc.Create(ctx, tenant, domain.ReviewCreate{Platform: "yelp", Rating: 2, ReviewedAt: &reviewedAt})
		assert.NoError(t, err)
		assert.Equal(t, reviewedAt, review.ReviewedAt)
	})
}

func TestReviewService_Reply(t *testing.T) {
	ctx := context.Background()
	tenant := testTenant()
	id := uuid.New()

	t.Run("pending review accepts reply", func(t *testing.T) {
		repo := new(MockReviewRepository)
		hooks := new(MockHooks)
		svc := NewReviewService(repo, sentiment.NewKeywordEngine(), hooks)

		pending := &domain.Review{ID: id, WorkspaceID: tenant.WorkspaceID, Platform: "google", Status: domain.ReviewStatusPending}
		replied := &domain.Review{ID: id, WorkspaceID: tenant.WorkspaceID, Platform: "google", Status: domain.ReviewStatusReplied, Reply: "thanks!"}

		repo.On("Get", ctx, tenant.WorkspaceID, id).Return(pending, nil).Once()
		repo.On("SetReply", ctx, tenant.WorkspaceID, id, "thanks!").Return(nil)
		repo.On("Get", ctx, tenant.WorkspaceID, id).Return(replied, nil).Once()
		hooks.On("LogActivity", ctx, mock.Anything).Return(uuid.New())
		hooks.On("FireWebhook", ctx, tenant.WorkspaceID, "review.replied", mock.Anything).Return()

		review, err := svc.Reply(ctx, tenant, id, domain.ReviewReply{Reply: "thanks!"})
		assert.NoError(t, err)
		assert.Equal(t, domain.ReviewStatusReplied, review.Status)
	})

	t.Run("replied review rejects second reply", func(t *testing.T) {
		repo := new(MockReviewRepository)
		svc := NewReviewService(repo, sentiment.NewKeywordEngine(), noopHooks{})

		replied := &domain.Review{ID: id, WorkspaceID: tenant.WorkspaceID, Status: domain.ReviewStatusReplied}
		repo.On("Get", ctx, tenant.WorkspaceID, id).Return(replied, nil)

		_, err := svc.Reply(ctx, tenant, id, domain.ReviewReply{Reply: "again"})

		var transitionErr *domain.IllegalTransitionError
		assert.ErrorAs(t, err, &transitionErr)
		repo.AssertNotCalled(t, "SetReply", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestReviewService_Analyze(t *testing.T) {
	ctx := context.Background()
	tenant := testTenant()
	id := uuid.New()

	repo := new(MockReviewRepository)
	engine := new(MockSentimentEngine)
	hooks := new(MockHooks)
	svc := NewReviewService(repo, engine, hooks)

	review := &domain.Review{ID: id, WorkspaceID: tenant.WorkspaceID, Platform: "google", Content: "great service"}
	repo.On("Get", ctx, tenant.WorkspaceID, id).Return(review, nil)
	engine.On("Analyze", ctx, "great service").Return(sentiment.Result{Label: sentiment.LabelPositive, Score: 1.0}, nil)
	repo.On("SetSentiment", ctx, tenant.WorkspaceID, id, sentiment.LabelPositive, 1.0).Return(nil)
	hooks.On("LogActivity", ctx, mock.Anything).Return(uuid.New())
	hooks.On("FireWebhook", ctx, tenant.WorkspaceID, "review.analyzed", mock.Anything).Return()

	analyzed, err := svc.Analyze(ctx, tenant, id)
	assert.NoError(t, err)
	assert.Equal(t, sentiment.LabelPositive, analyzed.SentimentLabel)
	assert.Equal(t, 1.0, analyzed.SentimentScore)
	repo.AssertExpectations(t)
	engine.AssertExpectations(t)
}

func TestReviewService_Delete(t *testing.T) {
	ctx := context.Background()
	tenant := testTenant()
	id := uuid.New()

	repo := new(MockReviewRepository)
	svc := NewReviewService(repo, sentiment.NewKeywordEngine(), noopHooks{})

	repo.On("Get", ctx, tenant.WorkspaceID, id).Return(nil, nil)

	err := svc.Delete(ctx, tenant, id)
	assert.NoError(t, err)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}
