package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pulsecrm/backend/internal/domain"
	"github.com/pulsecrm/backend/internal/repository/redis"
)

// NotificationService handles in-app notifications and channel preferences
type NotificationService struct {
	notificationRepo domain.NotificationRepository
	unreadCache      *redis.UnreadCache
}

// NewNotificationService creates a new notification service
func NewNotificationService(notificationRepo domain.NotificationRepository, unreadCache *redis.UnreadCache) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo, unreadCache: unreadCache}
}

// List retrieves the tenant user's notifications, optionally unread only
func (s *NotificationService) List(ctx context.Context, tenant domain.TenantContext, unreadOnly bool, params domain.ListParams) (*domain.Page[domain.Notification], error) {
	params = params.Normalize()

	notifications, total, err := s.notificationRepo.ListByUser(ctx, tenant.WorkspaceID, tenant.UserID, unreadOnly, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	return domain.NewPage(notifications, total, params), nil
}

// MarkRead marks one notification read
func (s *NotificationService) MarkRead(ctx context.Context, tenant domain.TenantContext, id uuid.UUID) error {
	if err := s.notificationRepo.MarkRead(ctx, tenant.WorkspaceID, tenant.UserID, id); err != nil {
		return err
	}

	// Best effort; a stale counter self-heals on TTL expiry.
	_ = s.unreadCache.Invalidate(ctx, tenant.WorkspaceID.String(), tenant.UserID.String())

	return nil
}

// UnreadCount returns the user's unread notification count, served from the
// cache when warm.
func (s *NotificationService) UnreadCount(ctx context.Context, tenant domain.TenantContext) (int, error) {
	if count, ok, err := s.unreadCache.Get(ctx, tenant.WorkspaceID.String(), tenant.UserID.String()); err == nil && ok {
		return count, nil
	}

	_, total, err := s.notificationRepo.ListByUser(ctx, tenant.WorkspaceID, tenant.UserID, true, domain.ListParams{Limit: 1})
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	_ = s.unreadCache.Set(ctx, tenant.WorkspaceID.String(), tenant.UserID.String(), total)

	return total, nil
}

// MarkAllRead marks every unread notification read and returns the count
func (s *NotificationService) MarkAllRead(ctx context.Context, tenant domain.TenantContext) (int, error) {
	n, err := s.notificationRepo.MarkAllRead(ctx, tenant.WorkspaceID, tenant.UserID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}

	_ = s.unreadCache.Invalidate(ctx, tenant.WorkspaceID.String(), tenant.UserID.String())

	return n, nil
}

// ListPreferences lists the tenant user's channel preferences
func (s *NotificationService) ListPreferences(ctx context.Context, tenant domain.TenantContext) ([]domain.ChannelPreference, error) {
	prefs, err := s.notificationRepo.ListPreferences(ctx, tenant.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list preferences: %w", err)
	}
	if prefs == nil {
		prefs = []domain.ChannelPreference{}
	}

	return prefs, nil
}

// UpdatePreference upserts a channel preference for one template type.
// Omitted channels keep their stored values; a new row defaults in-app and
// email on, SMS off.
func (s *NotificationService) UpdatePreference(ctx context.Context, tenant domain.TenantContext, input domain.ChannelPreferenceUpdate) (*domain.ChannelPreference, error) {
	existing, err := s.notificationRepo.GetPreference(ctx, tenant.UserID, input.TemplateType)
	if err != nil {
		return nil, fmt.Errorf("failed to get preference: %w", err)
	}

	pref := domain.ChannelPreference{
		UserID:       tenant.UserID,
		TemplateType: input.TemplateType,
		InApp:        true,
		Email:        true,
		SMS:          false,
	}
	if existing != nil {
		pref = *existing
	}

	if input.InApp != nil {
		pref.InApp = *input.InApp
	}
	if input.Email != nil {
		pref.Email = *input.Email
	}
	if input.SMS != nil {
		pref.SMS = *input.SMS
	}

	if err := s.notificationRepo.UpsertPreference(ctx, &pref); err != nil {
		return nil, fmt.Errorf("failed to save preference: %w", err)
	}

	return &pref, nil
}
