package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pulsecrm/backend/internal/domain"
	"github.com/pulsecrm/backend/internal/hooks"
)

// CampaignService handles email campaign operations
type CampaignService struct {
	campaignRepo domain.CampaignRepository
	hooks        Hooks
}

// NewCampaignService creates a new campaign service
func NewCampaignService(campaignRepo domain.CampaignRepository, hooks Hooks) *CampaignService {
	return &CampaignService{campaignRepo: campaignRepo, hooks: hooks}
}

// List retrieves campaigns for the tenant's workspace
func (s *CampaignService) List(ctx context.Context, tenant domain.TenantContext, filter domain.CampaignFilter, params domain.ListParams) (*domain.Page[domain.Campaign], error) {
	params = params.Normalize()

	campaigns, total, err := s.campaignRepo.List(ctx, tenant.WorkspaceID, filter, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}

	return domain.NewPage(campaigns, total, params), nil
}

// Get retrieves one campaign. A campaign in another workspace is reported
// exactly like a missing one.
func (s *CampaignService) Get(ctx context.Context, tenant domain.TenantContext, id uuid.UUID) (*domain.Campaign, error) {
	campaign, err := s.campaignRepo.Get(ctx, tenant.WorkspaceID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}
	if campaign == nil {
		return nil, domain.ErrNotFound
	}

	return campaign, nil
}

// Create creates a campaign. An empty or unknown status becomes draft.
func (s *CampaignService) Create(ctx context.Context, tenant domain.TenantContext, input domain.CampaignCreate) (*domain.Campaign, error) {
	now := time.Now()
	campaign := &domain.Campaign{
		ID:          uuid.New(),
		WorkspaceID: tenant.WorkspaceID,
		Name:        input.Name,
		Subject:     input.Subject,
		Body:        input.Body,
		Status:      domain.NormalizeCampaignStatus(input.Status),
		Settings:    input.Settings,
		ScheduledAt: input.ScheduledAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.campaignRepo.Create(ctx, campaign); err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}

	s.recordMutation(ctx, tenant, campaign, "created", nil)

	return campaign, nil
}

// Update applies a partial update. Omitted fields keep their stored values;
// an empty or unknown status in the payload coerces to draft.
func (s *CampaignService) Update(ctx context.Context, tenant domain.TenantContext, id uuid.UUID, input domain.CampaignUpdate) (*domain.Campaign, error) {
	if _, err := s.Get(ctx, tenant, id); err != nil {
		return nil, err
	}

	if input.Status != nil {
		normalized := domain.NormalizeCampaignStatus(*input.Status)
		input.Status = &normalized
	}

	if err := s.campaignRepo.Update(ctx, tenant.WorkspaceID, id, input); err != nil {
		return nil, fmt.Errorf("failed to update campaign: %w", err)
	}

	campaign, err := s.Get(ctx, tenant, id)
	if err != nil {
		return nil, err
	}

	s.recordMutation(ctx, tenant, campaign, "updated", nil)

	return campaign, nil
}

// Delete removes a campaign. Deleting an absent campaign succeeds; a second
// delete observes the same state as the first.
func (s *CampaignService) Delete(ctx context.Context, tenant domain.TenantContext, id uuid.UUID) error {
	campaign, err := s.campaignRepo.Get(ctx, tenant.WorkspaceID, id)
	if err != nil {
		return fmt.Errorf("failed to get campaign: %w", err)
	}
	if campaign == nil {
		return nil
	}

	if err := s.campaignRepo.Delete(ctx, tenant.WorkspaceID, id); err != nil {
		return fmt.Errorf("failed to delete campaign: %w", err)
	}

	s.recordMutation(ctx, tenant, campaign, "deleted", nil)

	return nil
}

// Send transitions a campaign to sending and marks its pending recipients
// queued in one transaction. Legal only from draft or paused.
func (s *CampaignService) Send(ctx context.Context, tenant domain.TenantContext, id uuid.UUID) (*domain.Campaign, error) {
	campaign, err := s.Get(ctx, tenant, id)
	if err != nil {
		return nil, err
	}

	if campaign.Status != domain.CampaignStatusDraft && campaign.Status != domain.CampaignStatusPaused {
		return nil, &domain.IllegalTransitionError{
			Entity: "campaign",
			From:   campaign.Status,
			Action: "send",
		}
	}

	if err := s.campaignRepo.MarkSending(ctx, tenant.WorkspaceID, id); err != nil {
		return nil, fmt.Errorf("failed to mark campaign sending: %w", err)
	}

	campaign, err = s.Get(ctx, tenant, id)
	if err != nil {
		return nil, err
	}

	s.recordMutation(ctx, tenant, campaign, "sent", map[string]any{
		"recipient_count": campaign.RecipientCount,
	})
	s.hooks.Notify(ctx, tenant.WorkspaceID, tenant.UserID, hooks.TemplateCampaignSent, map[string]any{
		"name":       campaign.Name,
		"recipients": campaign.RecipientCount,
	})

	return campaign, nil
}

// Pause pauses a sending or scheduled campaign.
func (s *CampaignService) Pause(ctx context.Context, tenant domain.TenantContext, id uuid.UUID) (*domain.Campaign, error) {
	campaign, err := s.Get(ctx, tenant, id)
	if err != nil {
		return nil, err
	}

	if campaign.Status != domain.CampaignStatusSending && campaign.Status != domain.CampaignStatusScheduled {
		return nil, &domain.IllegalTransitionError{
			Entity: "campaign",
			From:   campaign.Status,
			Action: "pause",
		}
	}

	paused := domain.CampaignStatusPaused
	if err := s.campaignRepo.Update(ctx, tenant.WorkspaceID, id, domain.CampaignUpdate{Status: &paused}); err != nil {
		return nil, fmt.Errorf("failed to pause campaign: %w", err)
	}

	campaign.Status = paused

	s.recordMutation(ctx, tenant, campaign, "paused", nil)
	s.hooks.Notify(ctx, tenant.WorkspaceID, tenant.UserID, hooks.TemplateCampaignPaused, map[string]any{
		"name": campaign.Name,
	})

	return campaign, nil
}

// Duplicate creates a draft copy of a campaign without its recipients.
func (s *CampaignService) Duplicate(ctx context.Context, tenant domain.TenantContext, id uuid.UUID) (*domain.Campaign, error) {
	source, err := s.Get(ctx, tenant, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	dup := &domain.Campaign{
		ID:          uuid.New(),
		WorkspaceID: tenant.WorkspaceID,
		Name:        "Copy of " + source.Name,
		Subject:     source.Subject,
		Body:        source.Body,
		Status:      domain.CampaignStatusDraft,
		Settings:    source.Settings,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.campaignRepo.Create(ctx, dup); err != nil {
		return nil, fmt.Errorf("failed to duplicate campaign: %w", err)
	}

	s.recordMutation(ctx, tenant, dup, "created", map[string]any{"duplicated_from": source.ID})

	return dup, nil
}

// AddRecipients attaches recipients to a campaign in pending status.
func (s *CampaignService) AddRecipients(ctx context.Context, tenant domain.TenantContext, id uuid.UUID, inputs []domain.RecipientCreate) ([]domain.Recipient, error) {
	if _, err := s.Get(ctx, tenant, id); err != nil {
		return nil, err
	}

	now := time.Now()
	recipients := make([]domain.Recipient, len(inputs))
	for i, in := range inputs {
		recipients[i] = domain.Recipient{
			ID:         uuid.New(),
			CampaignID: id,
			Email:      in.Email,
			Name:       in.Name,
			Status:     domain.RecipientStatusPending,
			CreatedAt:  now,
		}
	}

	if err := s.campaignRepo.AddRecipients(ctx, id, recipients); err != nil {
		return nil, fmt.Errorf("failed to add recipients: %w", err)
	}

	return recipients, nil
}

// ListRecipients lists a campaign's recipients
func (s *CampaignService) ListRecipients(ctx context.Context, tenant domain.TenantContext, id uuid.UUID, params domain.ListParams) (*domain.Page[domain.Recipient], error) {
	if _, err := s.Get(ctx, tenant, id); err != nil {
		return nil, err
	}

	params = params.Normalize()

	recipients, total, err := s.campaignRepo.ListRecipients(ctx, id, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipients: %w", err)
	}

	return domain.NewPage(recipients, total, params), nil
}

// RecipientStats aggregates recipient counts by status
func (s *CampaignService) RecipientStats(ctx context.Context, tenant domain.TenantContext, id uuid.UUID) (*domain.RecipientStats, error) {
	if _, err := s.Get(ctx, tenant, id); err != nil {
		return nil, err
	}

	stats, err := s.campaignRepo.RecipientStats(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipient stats: %w", err)
	}

	return stats, nil
}

func (s *CampaignService) recordMutation(ctx context.Context, tenant domain.TenantContext, campaign *domain.Campaign, action string, metadata map[string]any) {
	s.hooks.LogActivity(ctx, &domain.Activity{
		WorkspaceID:  tenant.WorkspaceID,
		UserID:       &tenant.UserID,
		EntityType:   "campaign",
		EntityID:     campaign.ID,
		ActivityType: "campaign." + action,
		Title:        fmt.Sprintf("Campaign %q %s", campaign.Name, action),
		Metadata:     metadata,
	})
	s.hooks.FireWebhook(ctx, tenant.WorkspaceID, "campaign."+action, campaign)
}
