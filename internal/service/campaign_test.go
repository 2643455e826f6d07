package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pulsecrm/backend/internal/domain"
)

func testTenant() domain.TenantContext {
	return domain.TenantContext{
		WorkspaceID: uuid.New(),
		UserID:      uuid.New(),
		Role:        domain.RoleAdmin,
	}
}

func TestCampaignService_Create(t *testing.T) {
	ctx := context.Background()
	tenant := testTenant()

	t.Run("empty status becomes draft", func(t *testing.T) {
		repo := new(MockCampaignRepository)
		svc := NewCampaignService(repo, noopHooks{})

		repo.On("Create", ctx, mock.AnythingOfType("*domain.Campaign")).Return(nil)

		campaign, err := svc.Create(ctx, tenant, domain.CampaignCreate{Name: "Spring Sale"})
		assert.NoError(t, err)
		assert.Equal(t, domain.CampaignStatusDraft, campaign.Status)
		assert.Equal(t, tenant.WorkspaceID, campaign.WorkspaceID)

		repo.AssertExpectations(t)
	})

	t.Run("unknown status becomes draft", func(t *testing.T) {
		repo := new(MockCampaignRepository)
		svc := NewCampaignService(repo, noopHooks{})

		repo.On("Create", ctx, mock.AnythingOfType("*domain.Campaign")).Return(nil)

		campaign, err := svc.Create(ctx, tenant, domain.CampaignCreate{Name: "x", Status: "bogus"})
		assert.NoError(t, err)
		assert.Equal(t, domain.CampaignStatusDraft, campaign.Status)
	})

	t.Run("valid status kept", func(t *testing.T) {
		repo := new(MockCampaignRepository)
		svc := NewCampaignService(repo, noopHooks{})

		repo.On("Create", ctx, mock.AnythingOfType("*domain.Campaign")).Return(nil)

		campaign, err := svc.Create(ctx, tenant, domain.CampaignCreate{Name: "x", Status: domain.CampaignStatusScheduled})
		assert.NoError(t, err)
		assert.Equal(t, domain.CampaignStatusScheduled, campaign.Status)
	})

	t.Run("fires activity and webhook", func(t *testing.T) {
		repo := new(MockCampaignRepository)
		hooks := new(MockHooks)
		svc := NewCampaignService(repo, hooks)

		repo.On("Create", ctx, mock.AnythingOfType("*domain.Campaign")).Return(nil)
		hooks.On("LogActivity", ctx, mock.MatchedBy(func(a *domain.Activity) bool {
			return a.ActivityType == "campaign.created" && a.WorkspaceID == tenant.WorkspaceID
		})).Return(uuid.New())
		hooks.On("FireWebhook", ctx, tenant.WorkspaceID, "campaign.created", mock.Anything).Return()

		_, err := svc.Create(ctx, tenant, domain.CampaignCreate{Name: "x"})
		assert.NoError(t, err)

		hooks.AssertExpectations(t)
	})
}

func TestCampaignService_Update(t *testing.T) {
	ctx := context.Background()
	tenant := testTenant()

	existing := func() *domain.Campaign {
		return &domain.Campaign{
			ID:          uuid.New(),
			WorkspaceID: tenant.WorkspaceID,
			Name:        "Spring Sale",
			Subject:     "Everything must go",
			Status:      domain.CampaignStatusScheduled,
		}
	}

	t.Run("empty status coerces to draft", func(t *testing.T) {
		campaign := existing()
		repo := new(MockCampaignRepository)
		svc := NewCampaignService(repo, noopHooks{})

		repo.On("Get", ctx, tenant.WorkspaceID, campaign.ID).Return(campaign, nil)
		repo.On("Update", ctx, tenant.WorkspaceID, campaign.ID, mock.MatchedBy(func(u domain.CampaignUpdate) bool {
			return u.Status != nil && *u.Status == domain.CampaignStatusDraft
		})).Return(nil)

		status := ""
		_, err := svc.Update(ctx, tenant, campaign.ID, domain.CampaignUpdate{Status: &status})
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("unknown status coerces to draft", func(t *testing.T) {
		campaign := existing()
		repo := new(MockCampaignRepository)
		svc := NewCampaignService(repo, noopHooks{})

		repo.On("Get", ctx, tenant.WorkspaceID, campaign.ID).Return(campaign, nil)
		repo.On("Update", ctx, tenant.WorkspaceID, campaign.ID, mock.MatchedBy(func(u domain.CampaignUpdate) bool {
			return u.Status != nil && *u.Status == domain.CampaignStatusDraft
		})).Return(nil)

		status := "bogus"
		_, err := svc.Update(ctx, tenant, campaign.ID, domain.CampaignUpdate{Status: &status})
		assert.NoError(t, err)
	})

	t.Run("omitted fields stay nil", func(t *testing.T) {
		campaign := existing()
		repo := new(MockCampaignRepository)
		svc := NewCampaignService(repo, noopHooks{})

		repo.On("Get", ctx, tenant.WorkspaceID, campaign.ID).Return(campaign, nil)
		repo.On("Update", ctx, tenant.WorkspaceID, campaign.ID, mock.MatchedBy(func(u domain.CampaignUpdate) bool {
			return u.Name != nil && *u.Name == "Renamed" &&
				u.Subject == nil && u.Body == nil && u.Status == nil
		})).Return(nil)

		name := "Renamed"
		_, err := svc.Update(ctx, tenant, campaign.ID, domain.CampaignUpdate{Name: &name})
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("missing campaign is not found", func(t *testing.T) {
		repo := new(MockCampaignRepository)
		svc := NewCampaignService(repo, noopHooks{})

		id := uuid.New()
		repo.On("Get", ctx, tenant.WorkspaceID, id).Return(nil, nil)

		name := "Renamed"
		_, err := svc.Update(ctx, tenant, id, domain.CampaignUpdate{Name: &name})
		assert.ErrorIs(t, err, domain.ErrNotFound)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("failed write leaves no trace", func(t *testing.T) {
		campaign := existing()
		repo := new(MockCampaignRepository)
		hooks := new(MockHooks)
		svc := NewCampaignService(repo, hooks)

		repo.On("Get", ctx, tenant.WorkspaceID, campaign.ID).Return(campaign, nil)
		repo.On("Update", ctx, tenant.WorkspaceID, campaign.ID, mock.Anything).Return(errors.New("write failed"))

		name := "Renamed"
		updated, err := svc.Update(ctx, tenant, campaign.ID, domain.CampaignUpdate{Name: &name})
		assert.Error(t, err)
		assert.Nil(t, updated)
		hooks.AssertNotCalled(t, "LogActivity", mock.Anything, mock.Anything)
		hooks.AssertNotCalled(t, "FireWebhook", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCampaignService_Get(t *testing.T) {
	ctx := context.Background()
	tenant := testTenant()
	id := uuid.New()

	t.Run("missing campaign is not found", func(t *testing.T) {
		repo := new(MockCampaignRepository)
		svc := NewCampaignService(repo, noopHooks{})

		repo.On("Get", ctx, tenant.WorkspaceID, id).Return(nil, nil)

		_, err := svc.Get(ctx, tenant, id)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestCampaignService_Send(t *testing.T) {
	ctx := context.Background()
	tenant := testTenant()
	id := uuid.New()

	t.Run("draft campaign sends", func(t *testing.T) {
		repo := new(MockCampaignRepository)
		hooks := new(MockHooks)
		svc := NewCampaignService(repo, hooks)

		draft := &domain.Campaign{ID: id, WorkspaceID: tenant.WorkspaceID, Name: "launch", Status: domain.CampaignStatusDraft}
		sending := &domain.Campaign{ID: id, WorkspaceID: tenant.WorkspaceID, Name: "launch", Status: domain.CampaignStatusSending, RecipientCount: 3}

		repo.On("Get", ctx, tenant.WorkspaceID, id).Return(draft, nil).Once()
		repo.On("MarkSending", ctx, tenant.WorkspaceID, id).Return(nil)
		repo.On("Get", ctx, tenant.WorkspaceID, id).Return(sending, nil).Once()
		hooks.On("LogActivity", ctx, mock.AnythingOfType("*domain.Activity")).Return(uuid.New())
		hooks.On("FireWebhook", ctx, tenant.WorkspaceID, "campaign.sent", mock.Anything).Return()
		hooks.On("Notify", ctx, tenant.WorkspaceID, tenant.UserID, "campaign_sent", mock.Anything).Return()

		campaign, err := svc.Send(ctx, tenant, id)
		assert.NoError(t, err)
		assert.Equal(t, domain.CampaignStatusSending, campaign.Status)

		repo.AssertExpectations(t)
		hooks.AssertExpectations(t)
	})

	t.Run("sent campaign rejects send", func(t *testing.T) {
		repo := new(MockCampaignRepository)
		svc := NewCampaignService(repo, noopHooks{})

		sent := &domain.Campaign{ID: id, WorkspaceID: tenant.WorkspaceID, Status: domain.CampaignStatusSent}
		repo.On("Get", ctx, tenant.WorkspaceID, id).Return(sent, nil)

		_, err := svc.Send(ctx, tenant, id)

		var transitionErr *domain.IllegalTransitionError
		assert.ErrorAs(t, err, &transitionErr)
		assert.Equal(t, "campaign", transitionErr.Entity)
		assert.Equal(t, domain.CampaignStatusSent, transitionErr.From)
		repo.AssertNotCalled(t, "MarkSending", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("sending campaign rejects send", func(t *testing.T) {
		repo := new(MockCampaignRepository)
		svc := NewCampaignService(repo, noopHooks{})

		sending := &domain.Campaign{ID: id, WorkspaceID: tenant.WorkspaceID, Status: domain.CampaignStatusSending}
		repo.On("Get", ctx, tenant.WorkspaceID, id).Return(sending, nil)

		_, err := svc.Send(ctx, tenant, id)

		var transitionErr *domain.IllegalTransitionError
		assert.ErrorAs(t, err, &transitionErr)
	})

	t.Run("paused campaign resumes", func(t *testing.T) {
		repo := new(MockCampaignRepository)
		hooks := new(MockHooks)
		svc := NewCampaignService(repo, hooks)

		paused := &domain.Campaign{ID: id, WorkspaceID: tenant.WorkspaceID, Status: domain.CampaignStatusPaused}
		sending := &domain.Campaign{ID: id, WorkspaceID: tenant.WorkspaceID, Status: domain.CampaignStatusSending}

		repo.On("Get", ctx, tenant.WorkspaceID, id).Return(paused, nil).Once()
		repo.On("MarkSending", ctx, tenant.WorkspaceID, id).Return(nil)
		repo.On("Get", ctx, tenant.WorkspaceID, id).Return(sending, nil).Once()
		hooks.On("LogActivity", ctx, mock.Anything).Return(uuid.New())
		hooks.On("FireWebhook", ctx, tenant.WorkspaceID, "campaign.sent", mock.Anything).Return()
		hooks.On("Notify", ctx, tenant.WorkspaceID, tenant.UserID, "campaign_sent", mock.Anything).Return()

		_, err := svc.Send(ctx, tenant, id)
		assert.NoError(t, err)
	})
}

func TestCampaignService_Pause(t *testing.T) {
	ctx := context.Background()
	tenant := testTenant()
	id := uuid.New()

	t.Run("draft campaign rejects pause", func(t *testing.T) {
		repo := new(MockCampaignRepository)
		svc := NewCampaignService(repo, noopHooks{})

		draft := &domain.Campaign{ID: id, WorkspaceID: tenant.WorkspaceID, Status: domain.CampaignStatusDraft}
		repo.On("Get", ctx, tenant.WorkspaceID, id).Return(draft, nil)

		_, err := svc.Pause(ctx, tenant, id)

		var transitionErr *domain.IllegalTransitionError
		assert.ErrorAs(t, err, &transitionErr)
		assert.Equal(t, "pause", transitionErr.Action)
	})
}

func TestCampaignService_Delete(t *testing.T) {
	ctx := context.Background()
	tenant := testTenant()
	id := uuid.New()

	t.Run("missing campaign deletes without error", func(t *testing.T) {
		repo := new(MockCampaignRepository)
		svc := NewCampaignService(repo, noopHooks{})

		repo.On("Get", ctx, tenant.WorkspaceID, id).Return(nil, nil)

		err := svc.Delete(ctx, tenant, id)
		assert.NoError(t, err)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("existing campaign deletes", func(t *testing.T) {
		repo := new(MockCampaignRepository)
		hooks := new(MockHooks)
		svc := NewCampaignService(repo, hooks)

		campaign := &domain.Campaign{ID: id, WorkspaceID: tenant.WorkspaceID, Name: "old"}
		repo.On("Get", ctx, tenant.WorkspaceID, id).Return(campaign, nil)
		repo.On("Delete", ctx, tenant.WorkspaceID, id).Return(nil)
		hooks.On("LogActivity", ctx, mock.Anything).Return(uuid.New())
		hooks.On("FireWebhook", ctx, tenant.WorkspaceID, "campaign.deleted", mock.Anything).Return()

		err := svc.Delete(ctx, tenant, id)
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestCampaignService_Duplicate(t *testing.T) {
	ctx := context.Background()
	tenant := testTenant()
	id := uuid.New()

	repo := new(MockCampaignRepository)
	svc := NewCampaignService(repo, noopHooks{})

	source := &domain.Campaign{
		ID:          id,
		WorkspaceID: tenant.WorkspaceID,
		Name:        "Launch",
		Subject:     "We launched",
		Status:      domain.CampaignStatusSent,
	}
	repo.On("Get", ctx, tenant.WorkspaceID, id).Return(source, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*domain.Campaign")).Return(nil)

	dup, err := svc.Duplicate(ctx, tenant, id)
	assert.NoError(t, err)
	assert.Equal(t, "Copy of Launch", dup.Name)
	assert.Equal(t, "We launched", dup.Subject)
	assert.Equal(t, domain.CampaignStatusDraft, dup.Status)
	assert.NotEqual(t, source.ID, dup.ID)
}

func TestCampaignService_AddRecipients(t *testing.T) {
	ctx := context.Background()
	tenant := testTenant()
	id := uuid.New()

	t.Run("missing campaign persists nothing", func(t *testing.T) {
		repo := new(MockCampaignRepository)
		svc := NewCampaignService(repo, noopHooks{})

		repo.On("Get", ctx, tenant.WorkspaceID, id).Return(nil, nil)

		_, err := svc.AddRecipients(ctx, tenant, id, []domain.RecipientCreate{{Email: "a@b.com"}})
		assert.ErrorIs(t, err, domain.ErrNotFound)
		repo.AssertNotCalled(t, "AddRecipients", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("recipients start pending", func(t *testing.T) {
		repo := new(MockCampaignRepository)
		svc := NewCampaignService(repo, noopHooks{})

		campaign := &domain.Campaign{ID: id, WorkspaceID: tenant.WorkspaceID}
		repo.On("Get", ctx, tenant.WorkspaceID, id).Return(campaign, nil)
		repo.On("AddRecipients", ctx, id, mock.AnythingOfType("[]domain.Recipient")).Return(nil)

		recipients, err := svc.AddRecipients(ctx, tenant, id, []domain.RecipientCreate{
			{Email: "a@b.com", Name: "A"},
			{Email: "c@d.com"},
		})
		assert.NoError(t, err)
		assert.Len(t, recipients, 2)
		for _, rec := range recipients {
			assert.Equal(t, domain.RecipientStatusPending, rec.Status)
			assert.Equal(t, id, rec.CampaignID)
		}
	})
}

func TestCampaignService_List(t *testing.T) {
	ctx := context.Background()
	tenant := testTenant()

	t.Run("normalizes limit before querying", func(t *testing.T) {
		repo := new(MockCampaignRepository)
		svc := NewCampaignService(repo, noopHooks{})

		repo.On("List", ctx, tenant.WorkspaceID, domain.CampaignFilter{},
			domain.ListParams{Limit: domain.MaxLimit}).Return([]domain.Campaign{}, 0, nil)

		page, err := svc.List(ctx, tenant, domain.CampaignFilter{}, domain.ListParams{Limit: 5000})
		assert.NoError(t, err)
		assert.NotNil(t, page.Data)
		assert.Equal(t, domain.MaxLimit, page.Meta.Limit)
		repo.AssertExpectations(t)
	})

	t.Run("list failure propagates", func(t *testing.T) {
		repo := new(MockCampaignRepository)
		svc := NewCampaignService(repo, noopHooks{})

		repo.On("List", ctx, tenant.WorkspaceID, mock.Anything, mock.Anything).
			Return([]domain.Campaign{}, 0, errors.New("db down"))

		_, err := svc.List(ctx, tenant, domain.CampaignFilter{}, domain.ListParams{})
		assert.Error(t, err)
	})
}
