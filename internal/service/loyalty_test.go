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

func TestTierForPoints(t *testing.T) {
	assert.Equal(t, domain.TierBronze, domain.TierForPoints(0))
	assert.Equal(t, domain.TierBronze, domain.TierForPoints(999))
	assert.Equal(t, domain.TierSilver, domain.TierForPoints(1000))
	assert.Equal(t, domain.TierSilver, domain.TierForPoints(4999))
	assert.Equal(t, domain.TierGold, domain.TierForPoints(5000))
	assert.Equal(t, domain.TierBronze, domain.TierForPoints(-50))
}

func TestLoyaltyService_Create(t *testing.T) {
	ctx := context.Background()
	tenant := testTenant()

	repo := new(MockLoyaltyRepository)
	hooks := new(MockHooks)
	svc := NewLoyaltyService(repo, hooks)

	repo.On("Create", ctx, mock.AnythingOfType("*domain.LoyaltyMember")).Return(nil)
	hooks.On("LogActivity", ctx, mock.Anything).Return(uuid.New())
	hooks.On("FireWebhook", ctx, tenant.WorkspaceID, "loyalty.created", mock.Anything).Return()
	hooks.On("Notify", ctx, tenant.WorkspaceID, tenant.UserID, "member_joined", mock.Anything).Return()

	member, err := svc.Create(ctx, tenant, domain.LoyaltyMemberCreate{Email: "m@example.com", Name: "M"})
	assert.NoError(t, err)
	assert.Equal(t, 0, member.Points)
	assert.Equal(t, domain.TierBronze, member.Tier)
	hooks.AssertExpectations(t)
}

func TestLoyaltyService_AdjustPoints(t *testing.T) {
	ctx := context.Background()
	tenant := testTenant()
	id := uuid.New()

	t.Run("zero delta rejected", func(t *testing.T) {
		repo := new(MockLoyaltyRepository)
		svc := NewLoyaltyService(repo, noopHooks{})

		_, err := svc.AdjustPoints(ctx, tenant, id, domain.PointsAdjustment{Delta: 0, Reason: "noop"})

		var validationErr *domain.ValidationError
		assert.ErrorAs(t, err, &validationErr)
		assert.Contains(t, validationErr.Fields, "delta")
		repo.AssertNotCalled(t, "AdjustPoints", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing member is not found", func(t *testing.T) {
		repo := new(MockLoyaltyRepository)
		svc := NewLoyaltyService(repo, noopHooks{})

		repo.On("AdjustPoints", ctx, tenant.WorkspaceID, id, 100, "purchase").
			Return(nil, domain.ErrNotFound)

		_, err := svc.AdjustPoints(ctx, tenant, id, domain.PointsAdjustment{Delta: 100, Reason: "purchase"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("balance and tier come from the store", func(t *testing.T) {
		repo := new(MockLoyaltyRepository)
		hooks := new(MockHooks)
		svc := NewLoyaltyService(repo, hooks)

		updated := &domain.LoyaltyMember{
			ID:          id,
			WorkspaceID: tenant.WorkspaceID,
			Email:       "m@example.com",
			Points:      1200,
			Tier:        domain.TierSilver,
		}
		repo.On("AdjustPoints", ctx, tenant.WorkspaceID, id, 1200, "bonus").Return(updated, nil)
		hooks.On("LogActivity", ctx, mock.MatchedBy(func(a *domain.Activity) bool {
			return a.ActivityType == "loyalty.points_adjusted" && a.Metadata["balance"] == 1200
		})).Return(uuid.New())
		hooks.On("FireWebhook", ctx, tenant.WorkspaceID, "loyalty.points_adjusted", mock.Anything).Return()
		hooks.On("Notify", ctx, tenant.WorkspaceID, tenant.UserID, "points_adjusted", mock.Anything).Return()

		member, err := svc.AdjustPoints(ctx, tenant, id, domain.PointsAdjustment{Delta: 1200, Reason: "bonus"})
		assert.NoError(t, err)
		assert.Equal(t, 1200, member.Points)
		assert.Equal(t, domain.TierSilver, member.Tier)
		hooks.AssertExpectations(t)
	})
}

func TestLoyaltyService_Delete(t *testing.T) {
	ctx := context.Background()
	tenant := testTenant()
	id := uuid.New()

	repo := new(MockLoyaltyRepository)
	svc := NewLoyaltyService(repo, noopHooks{})

	repo.On("Get", ctx, tenant.WorkspaceID, id).Return(nil, nil)

	err := svc.Delete(ctx, tenant, id)
	assert.NoError(t, err)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestLoyaltyService_ListTransactions(t *testing.T) {
	ctx := context.Background()
	tenant := testTenant()
	id := uuid.New()

	t.Run("missing member is not found", func(t *testing.T) {
		repo := new(MockLoyaltyRepository)
		svc := NewLoyaltyService(repo, noopHooks{})

		repo.On("Get", ctx, tenant.WorkspaceID, id).Return(nil, nil)

		_, err := svc.ListTransactions(ctx, tenant, id, domain.ListParams{})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestLoyaltyService_RecalculateTiers(t *testing.T) {
	ctx := context.Background()
	tenant := testTenant()

	t.Run("changed tiers are logged", func(t *testing.T) {
		repo := new(MockLoyaltyRepository)
		hooks := new(MockHooks)
		svc := NewLoyaltyService(repo, hooks)

		repo.On("RecalculateTiers", ctx, tenant.WorkspaceID).Return(3, nil)
		hooks.On("LogActivity", ctx, mock.MatchedBy(func(a *domain.Activity) bool {
			return a.ActivityType == "loyalty.tiers_recalculated" && a.Metadata["changed"] == 3
		})).Return(uuid.New())

		changed, err := svc.RecalculateTiers(ctx, tenant)
		assert.NoError(t, err)
		assert.Equal(t, 3, changed)
		hooks.AssertExpectations(t)
	})

	t.Run("no changes logs nothing", func(t *testing.T) {
		repo := new(MockLoyaltyRepository)
		hooks := new(MockHooks)
		svc := NewLoyaltyService(repo, hooks)

		repo.On("RecalculateTiers", ctx, tenant.WorkspaceID).Return(0, nil)

		changed, err := svc.RecalculateTiers(ctx, tenant)
		assert.NoError(t, err)
		assert.Zero(t, changed)
		hooks.AssertNotCalled(t, "LogActivity", mock.Anything, mock.Anything)
	})

	t.Run("store failure propagates", func(t *testing.T) {
		repo := new(MockLoyaltyRepository)
		svc := NewLoyaltyService(repo, noopHooks{})

		repo.On("RecalculateTiers", ctx, tenant.WorkspaceID).Return(0, errors.New("db down"))

		_, err := svc.RecalculateTiers(ctx, tenant)
		assert.Error(t, err)
	})
}
