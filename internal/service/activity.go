package service

import (
	"context"
	"fmt"

	"github.com/pulsecrm/backend/internal/domain"
)

// ActivityService is the read side of the activity log
type ActivityService struct {
	activityRepo domain.ActivityRepository
}

// NewActivityService creates a new activity service
func NewActivityService(activityRepo domain.ActivityRepository) *ActivityService {
	return &ActivityService{activityRepo: activityRepo}
}

// List retrieves activity entries for the tenant's workspace
func (s *ActivityService) List(ctx context.Context, tenant domain.TenantContext, filter domain.ActivityFilter, params domain.ListParams) (*domain.Page[domain.Activity], error) {
	params = params.Normalize()

	activities, total, err := s.activityRepo.List(ctx, tenant.WorkspaceID, filter, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}

	return domain.NewPage(activities, total, params), nil
}
