package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pulsecrm/backend/internal/domain"
	"github.com/pulsecrm/backend/internal/hooks"
)

// LoyaltyService handles loyalty program operations
type LoyaltyService struct {
	loyaltyRepo domain.LoyaltyRepository
	hooks       Hooks
}

// NewLoyaltyService creates a new loyalty service
func NewLoyaltyService(loyaltyRepo domain.LoyaltyRepository, hooks Hooks) *LoyaltyService {
	return &LoyaltyService{loyaltyRepo: loyaltyRepo, hooks: hooks}
}

// List retrieves members for the tenant's workspace
func (s *LoyaltyService) List(ctx context.Context, tenant domain.TenantContext, filter domain.LoyaltyFilter, params domain.ListParams) (*domain.Page[domain.LoyaltyMember], error) {
	params = params.Normalize()

	members, total, err := s.loyaltyRepo.List(ctx, tenant.WorkspaceID, filter, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	return domain.NewPage(members, total, params), nil
}

// Get retrieves one member
func (s *LoyaltyService) Get(ctx context.Context, tenant domain.TenantContext, id uuid.UUID) (*domain.LoyaltyMember, error) {
	member, err := s.loyaltyRepo.Get(ctx, tenant.WorkspaceID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	if member == nil {
		return nil, domain.ErrNotFound
	}

	return member, nil
}

// Create enrolls a member at zero points in the bronze tier
func (s *LoyaltyService) Create(ctx context.Context, tenant domain.TenantContext, input domain.LoyaltyMemberCreate) (*domain.LoyaltyMember, error) {
	now := time.Now()
	member := &domain.LoyaltyMember{
		ID:          uuid.New(),
		WorkspaceID: tenant.WorkspaceID,
		Email:       input.Email,
		Name:        input.Name,
		Points:      0,
		Tier:        domain.TierBronze,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.loyaltyRepo.Create(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to create member: %w", err)
	}

	s.recordMutation(ctx, tenant, member, "created", nil)
	s.hooks.Notify(ctx, tenant.WorkspaceID, tenant.UserID, hooks.TemplateMemberJoined, map[string]any{
		"email": member.Email,
	})

	return member, nil
}

// Update applies a partial update
func (s *LoyaltyService) Update(ctx context.Context, tenant domain.TenantContext, id uuid.UUID, input domain.LoyaltyMemberUpdate) (*domain.LoyaltyMember, error) {
	if _, err := s.Get(ctx, tenant, id); err != nil {
		return nil, err
	}

	if err := s.loyaltyRepo.Update(ctx, tenant.WorkspaceID, id, input); err != nil {
		return nil, fmt.Errorf("failed to update member: %w", err)
	}

	member, err := s.Get(ctx, tenant, id)
	if err != nil {
		return nil, err
	}

	s.recordMutation(ctx, tenant, member, "updated", nil)

	return member, nil
}

// Delete removes a member. Idempotent.
func (s *LoyaltyService) Delete(ctx context.Context, tenant domain.TenantContext, id uuid.UUID) error {
	member, err := s.loyaltyRepo.Get(ctx, tenant.WorkspaceID, id)
	if err != nil {
		return fmt.Errorf("failed to get member: %w", err)
	}
	if member == nil {
		return nil
	}

	if err := s.loyaltyRepo.Delete(ctx, tenant.WorkspaceID, id); err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}

	s.recordMutation(ctx, tenant, member, "deleted", nil)

	return nil
}

// AdjustPoints applies a points delta. The transaction row and the balance
// update commit together or not at all; the tier always reflects the new
// balance.
func (s *LoyaltyService) AdjustPoints(ctx context.Context, tenant domain.TenantContext, id uuid.UUID, input domain.PointsAdjustment) (*domain.LoyaltyMember, error) {
	if input.Delta == 0 {
		return nil, domain.NewValidationError("delta", "must be non-zero")
	}

	member, err := s.loyaltyRepo.AdjustPoints(ctx, tenant.WorkspaceID, id, input.Delta, input.Reason)
	if err != nil {
		return nil, err
	}

	s.recordMutation(ctx, tenant, member, "points_adjusted", map[string]any{
		"delta":   input.Delta,
		"balance": member.Points,
		"reason":  input.Reason,
	})
	s.hooks.Notify(ctx, tenant.WorkspaceID, tenant.UserID, hooks.TemplatePointsAdjusted, map[string]any{
		"email":  member.Email,
		"points": member.Points,
		"reason": input.Reason,
	})

	return member, nil
}

// ListTransactions lists a member's points history
func (s *LoyaltyService) ListTransactions(ctx context.Context, tenant domain.TenantContext, id uuid.UUID, params domain.ListParams) (*domain.Page[domain.PointsTransaction], error) {
	if _, err := s.Get(ctx, tenant, id); err != nil {
		return nil, err
	}

	params = params.Normalize()

	txs, total, err := s.loyaltyRepo.ListTransactions(ctx, tenant.WorkspaceID, id, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return domain.NewPage(txs, total, params), nil
}

// RecalculateTiers reconciles every member's tier in the workspace with
// their balance, for when balances were changed outside adjust-points.
func (s *LoyaltyService) RecalculateTiers(ctx context.Context, tenant domain.TenantContext) (int, error) {
	changed, err := s.loyaltyRepo.RecalculateTiers(ctx, tenant.WorkspaceID)
	if err != nil {
		return 0, fmt.Errorf("failed to recalculate tiers: %w", err)
	}

	if changed > 0 {
		s.hooks.LogActivity(ctx, &domain.Activity{
			WorkspaceID:  tenant.WorkspaceID,
			UserID:       &tenant.UserID,
			EntityType:   "workspace",
			EntityID:     tenant.WorkspaceID,
			ActivityType: "loyalty.tiers_recalculated",
			Title:        fmt.Sprintf("Recalculated tiers for %d members", changed),
			Metadata:     map[string]any{"changed": changed},
		})
	}

	return changed, nil
}

func (s *LoyaltyService) recordMutation(ctx context.Context, tenant domain.TenantContext, member *domain.LoyaltyMember, action string, metadata map[string]any) {
	s.hooks.LogActivity(ctx, &domain.Activity{
		WorkspaceID:  tenant.WorkspaceID,
		UserID:       &tenant.UserID,
		EntityType:   "loyalty_member",
		EntityID:     member.ID,
		ActivityType: "loyalty." + action,
		Title:        fmt.Sprintf("Loyalty member %s %s", member.Email, action),
		Metadata:     metadata,
	})
	s.hooks.FireWebhook(ctx, tenant.WorkspaceID, "loyalty."+action, member)
}
