package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pulsecrm/backend/internal/domain"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"  Spaces  everywhere  ", "spaces-everywhere"},
		{"Already-slugged", "already-slugged"},
		{"Q4 2025: What's Next?", "q4-2025-what-s-next"},
		{"___", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.title), "title %q", tt.title)
	}
}

func TestPostService_Create(t *testing.T) {
	ctx := context.Background()
	tenant := testTenant()

	t.Run("derives slug from title", func(t *testing.T) {
		repo := new(MockPostRepository)
		svc := NewPostService(repo, noopHooks{})

		repo.On("Create", ctx, mock.AnythingOfType("*domain.Post")).Return(nil)

		post, err := svc.Create(ctx, tenant, domain.PostCreate{Title: "New Feature Launch"})
		assert.NoError(t, err)
		assert.Equal(t, "new-feature-launch", post.Slug)
		assert.Equal(t, domain.PostStatusDraft, post.Status)
	})

	t.Run("explicit slug wins", func(t *testing.T) {
		repo := new(MockPostRepository)
		svc := NewPostService(repo, noopHooks{})

		repo.On("Create", ctx, mock.AnythingOfType("*domain.Post")).Return(nil)

		post, err := svc.Create(ctx, tenant, domain.PostCreate{Title: "New Feature Launch", Slug: "launch"})
		assert.NoError(t, err)
		assert.Equal(t, "launch", post.Slug)
	})
}

func TestPostService_Publish(t *testing.T) {
	ctx := context.Background()
	tenant := testTenant()
	id := uuid.New()

	t.Run("draft publishes", func(t *testing.T) {
		repo := new(MockPostRepository)
		hooks := new(MockHooks)
		svc := NewPostService(repo, hooks)

		draft := &domain.Post{ID: id, WorkspaceID: tenant.WorkspaceID, Title: "T", Status: domain.PostStatusDraft}
		repo.On("Get", ctx, tenant.WorkspaceID, id).Return(draft, nil)
		repo.On("SetStatus", ctx, tenant.WorkspaceID, id, domain.PostStatusPublished, mock.AnythingOfType("*time.Time")).Return(nil)
		hooks.On("LogActivity", ctx, mock.Anything).Return(uuid.New())
		hooks.On("FireWebhook", ctx, tenant.WorkspaceID, "post.published", mock.Anything).Return()
		hooks.On("Notify", ctx, tenant.WorkspaceID, tenant.UserID, "post_published", mock.Anything).Return()

		post, err := svc.Publish(ctx, tenant, id)
		assert.NoError(t, err)
		assert.Equal(t, domain.PostStatusPublished, post.Status)
		assert.NotNil(t, post.PublishedAt)
	})

	t.Run("published post rejects publish", func(t *testing.T) {
		repo := new(MockPostRepository)
		svc := NewPostService(repo, noopHooks{})

		published := &domain.Post{ID: id, WorkspaceID: tenant.WorkspaceID, Status: domain.PostStatusPublished}
		repo.On("Get", ctx, tenant.WorkspaceID, id).Return(published, nil)

		_, err := svc.Publish(ctx, tenant, id)

		var transitionErr *domain.IllegalTransitionError
		assert.ErrorAs(t, err, &transitionErr)
		repo.AssertNotCalled(t, "SetStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestPostService_Unpublish(t *testing.T) {
	ctx := context.Background()
	tenant := testTenant()
	id := uuid.New()

	t.Run("published post unpublishes", func(t *testing.T) {
		repo := new(MockPostRepository)
		hooks := new(MockHooks)
		svc := NewPostService(repo, hooks)

		published := &domain.Post{ID: id, WorkspaceID: tenant.WorkspaceID, Status: domain.PostStatusPublished}
		repo.On("Get", ctx, tenant.WorkspaceID, id).Return(published, nil)
		repo.On("SetStatus", ctx, tenant.WorkspaceID, id, domain.PostStatusDraft, (*time.Time)(nil)).Return(nil)
		hooks.On("LogActivity", ctx, mock.Anything).Return(uuid.New())
		hooks.On("FireWebhook", ctx, tenant.WorkspaceID, "post.unpublished", mock.Anything).Return()

		post, err := svc.Unpublish(ctx, tenant, id)
		assert.NoError(t, err)
		assert.Equal(t, domain.PostStatusDraft, post.Status)
		assert.Nil(t, post.PublishedAt)
	})

	t.Run("draft post rejects unpublish", func(t *testing.T) {
		repo := new(MockPostRepository)
		svc := NewPostService(repo, noopHooks{})

		draft := &domain.Post{ID: id, WorkspaceID: tenant.WorkspaceID, Status: domain.PostStatusDraft}
		repo.On("Get", ctx, tenant.WorkspaceID, id).Return(draft, nil)

		_, err := svc.Unpublish(ctx, tenant, id)

		var transitionErr *domain.IllegalTransitionError
		assert.ErrorAs(t, err, &transitionErr)
	})
}

func TestPostService_Delete(t *testing.T) {
	ctx := context.Background()
	tenant := testTenant()
	id := uuid.New()

	repo := new(MockPostRepository)
	svc := NewPostService(repo, noopHooks{})

	repo.On("Get", ctx, tenant.WorkspaceID, id).Return(nil, nil)

	err := svc.Delete(ctx, tenant, id)
	assert.NoError(t, err)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}
