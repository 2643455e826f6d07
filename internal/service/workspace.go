package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pulsecrm/backend/internal/domain"
)

type workspaceRepository interface {
	CreateWithOwner(ctx context.Context, workspace *domain.Workspace, owner *domain.WorkspaceMember) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Workspace, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Workspace, error)
	Update(ctx context.Context, id uuid.UUID, update *domain.WorkspaceUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error
	AddMember(ctx context.Context, member *domain.WorkspaceMember) error
	GetMember(ctx context.Context, workspaceID, userID uuid.UUID) (*domain.WorkspaceMember, error)
	RemoveMember(ctx context.Context, workspaceID, userID uuid.UUID) error
	GetCompany(ctx context.Context, workspaceID, companyID uuid.UUID) (*domain.Company, error)
}

// WorkspaceService handles workspace and membership operations
type WorkspaceService struct {
	workspaceRepo workspaceRepository
}

// NewWorkspaceService creates a new workspace service
func NewWorkspaceService(workspaceRepo workspaceRepository) *WorkspaceService {
	return &WorkspaceService{workspaceRepo: workspaceRepo}
}

// Resolve builds the tenant context for a user against a workspace. A user
// who is not a member gets ErrNotFound, the same answer a nonexistent
// workspace gives, so workspace IDs cannot be probed.
func (s *WorkspaceService) Resolve(ctx context.Context, userID, workspaceID uuid.UUID, companyID *uuid.UUID) (*domain.TenantContext, error) {
	member, err := s.workspaceRepo.GetMember(ctx, workspaceID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	if member == nil {
		return nil, domain.ErrNotFound
	}

	tenant := &domain.TenantContext{
		WorkspaceID: workspaceID,
		UserID:      userID,
		Role:        member.Role,
	}

	if companyID != nil {
		company, err := s.workspaceRepo.GetCompany(ctx, workspaceID, *companyID)
		if err != nil {
			return nil, fmt.Errorf("failed to get company: %w", err)
		}
		if company == nil {
			return nil, domain.ErrNotFound
		}
		tenant.CompanyID = companyID
	}

	return tenant, nil
}

// Create creates a new workspace and adds the creator as owner
func (s *WorkspaceService) Create(ctx context.Context, userID uuid.UUID, input domain.WorkspaceCreate) (*domain.Workspace, error) {
	now := time.Now()
	workspace := &domain.Workspace{
		ID:        uuid.New(),
		Name:      input.Name,
		Settings:  input.Settings,
		CreatedAt: now,
		UpdatedAt: now,
	}

	owner := &domain.WorkspaceMember{
		WorkspaceID: workspace.ID,
		UserID:      userID,
		Role:        domain.RoleOwner,
		CreatedAt:   now,
	}

	if err := s.workspaceRepo.CreateWithOwner(ctx, workspace, owner); err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}

	return workspace, nil
}

// Get retrieves the tenant's workspace
func (s *WorkspaceService) Get(ctx context.Context, tenant domain.TenantContext) (*domain.Workspace, error) {
	workspace, err := s.workspaceRepo.GetByID(ctx, tenant.WorkspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}
	if workspace == nil {
		return nil, domain.ErrNotFound
	}

	return workspace, nil
}

// ListByUser retrieves all workspaces for a user
func (s *WorkspaceService) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Workspace, error) {
	workspaces, err := s.workspaceRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	return workspaces, nil
}

// Update updates the tenant's workspace. Admin or owner only.
func (s *WorkspaceService) Update(ctx context.Context, tenant domain.TenantContext, input domain.WorkspaceUpdate) (*domain.Workspace, error) {
	if !tenant.HasRole(domain.RoleOwner, domain.RoleAdmin) {
		return nil, domain.ErrForbidden
	}

	if err := s.workspaceRepo.Update(ctx, tenant.WorkspaceID, &input); err != nil {
		return nil, fmt.Errorf("failed to update workspace: %w", err)
	}

	return s.Get(ctx, tenant)
}

// Delete deletes the tenant's workspace. Owner only.
func (s *WorkspaceService) Delete(ctx context.Context, tenant domain.TenantContext) error {
	if !tenant.HasRole(domain.RoleOwner) {
		return domain.ErrForbidden
	}

	return s.workspaceRepo.Delete(ctx, tenant.WorkspaceID)
}

// AddMember adds a member to the tenant's workspace. Admin or owner only.
func (s *WorkspaceService) AddMember(ctx context.Context, tenant domain.TenantContext, userID uuid.UUID, role string) error {
	if !tenant.HasRole(domain.RoleOwner, domain.RoleAdmin) {
		return domain.ErrForbidden
	}

	if role != domain.RoleMember && role != domain.RoleAdmin {
		return domain.NewValidationError("role", "must be member or admin")
	}

	member := &domain.WorkspaceMember{
		WorkspaceID: tenant.WorkspaceID,
		UserID:      userID,
		Role:        role,
		CreatedAt:   time.Now(),
	}

	return s.workspaceRepo.AddMember(ctx, member)
}

// RemoveMember removes a member from the tenant's workspace. Admin or owner
// only; the owner cannot be removed.
func (s *WorkspaceService) RemoveMember(ctx context.Context, tenant domain.TenantContext, userID uuid.UUID) error {
	if !tenant.HasRole(domain.RoleOwner, domain.RoleAdmin) {
		return domain.ErrForbidden
	}

	target, err := s.workspaceRepo.GetMember(ctx, tenant.WorkspaceID, userID)
	if err != nil {
		return fmt.Errorf("failed to get target member: %w", err)
	}
	if target == nil {
		return domain.ErrNotFound
	}
	if target.Role == domain.RoleOwner {
		return domain.ErrForbidden
	}

	return s.workspaceRepo.RemoveMember(ctx, tenant.WorkspaceID, userID)
}
