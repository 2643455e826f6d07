package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pulsecrm/backend/internal/domain"
)

// WorkspaceRepository handles workspace data access
type WorkspaceRepository struct {
	db *DB
}

// NewWorkspaceRepository creates a new workspace repository
func NewWorkspaceRepository(db *DB) *WorkspaceRepository {
	return &WorkspaceRepository{db: db}
}

// CreateWithOwner creates a workspace and its owner membership in one
// transaction. A workspace without a member is unreachable, so neither row
// may exist without the other.
func (r *WorkspaceRepository) CreateWithOwner(ctx context.Context, workspace *domain.Workspace, owner *domain.WorkspaceMember) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		workspaceQuery := `
			INSERT INTO workspaces (id, name, settings, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5)
		`

		if _, err := tx.Exec(ctx, workspaceQuery,
			workspace.ID,
			workspace.Name,
			encodeJSON(workspace.Settings),
			workspace.CreatedAt,
			workspace.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to create workspace: %w", err)
		}

		memberQuery := `
			INSERT INTO workspace_members (workspace_id, user_id, role, created_at)
			VALUES ($1, $2, $3, $4)
		`

		if _, err := tx.Exec(ctx, memberQuery,
			owner.WorkspaceID,
			owner.UserID,
			owner.Role,
			owner.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to add owner: %w", err)
		}

		return nil
	})
}

// GetByID retrieves a workspace by ID
func (r *WorkspaceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Workspace, error) {
	query := `
		SELECT id, name, settings, created_at, updated_at
		FROM workspaces
		WHERE id = $1
	`

	var workspace domain.Workspace
	var settingsJSON []byte

	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&workspace.ID,
		&workspace.Name,
		&settingsJSON,
		&workspace.CreatedAt,
		&workspace.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}

	workspace.Settings = decodeJSONMap(settingsJSON)

	return &workspace, nil
}

// ListByUserID retrieves all workspaces for a user
func (r *WorkspaceRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Workspace, error) {
	query := `
		SELECT w.id, w.name, w.settings, w.created_at, w.updated_at
		FROM workspaces w
		INNER JOIN workspace_members wm ON w.id = wm.workspace_id
		WHERE wm.user_id = $1
		ORDER BY w.created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	defer rows.Close()

	var workspaces []domain.Workspace
	for rows.Next() {
		var workspace domain.Workspace
		var settingsJSON []byte

		if err := rows.Scan(
			&workspace.ID,
			&workspace.Name,
			&settingsJSON,
			&workspace.CreatedAt,
			&workspace.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan workspace: %w", err)
		}

		workspace.Settings = decodeJSONMap(settingsJSON)
		workspaces = append(workspaces, workspace)
	}

	return workspaces, nil
}

// Update updates a workspace
func (r *WorkspaceRepository) Update(ctx context.Context, id uuid.UUID, update *domain.WorkspaceUpdate) error {
	var settings []byte
	if update.Settings != nil {
		settings = encodeJSON(update.Settings)
	}

	query := `
		UPDATE workspaces
		SET name = COALESCE($2, name),
		    settings = COALESCE($3, settings),
		    updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.db.Pool.Exec(ctx, query, id, update.Name, settings)
	if err != nil {
		return fmt.Errorf("failed to update workspace: %w", err)
	}

	return nil
}

// Delete deletes a workspace
func (r *WorkspaceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM workspaces WHERE id = $1`

	_, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete workspace: %w", err)
	}

	return nil
}

// AddMember adds a member to a workspace
func (r *WorkspaceRepository) AddMember(ctx context.Context, member *domain.WorkspaceMember) error {
	query := `
		INSERT INTO workspace_members (workspace_id, user_id, role, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (workspace_id, user_id) DO UPDATE SET role = $3
	`

	_, err := r.db.Pool.Exec(ctx, query,
		member.WorkspaceID,
		member.UserID,
		member.Role,
		member.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}

	return nil
}

// GetMember retrieves a workspace member
func (r *WorkspaceRepository) GetMember(ctx context.Context, workspaceID, userID uuid.UUID) (*domain.WorkspaceMember, error) {
	query := `
		SELECT workspace_id, user_id, role, created_at
		FROM workspace_members
		WHERE workspace_id = $1 AND user_id = $2
	`

	var member domain.WorkspaceMember
	err := r.db.Pool.QueryRow(ctx, query, workspaceID, userID).Scan(
		&member.WorkspaceID,
		&member.UserID,
		&member.Role,
		&member.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	return &member, nil
}

// RemoveMember removes a member from a workspace
func (r *WorkspaceRepository) RemoveMember(ctx context.Context, workspaceID, userID uuid.UUID) error {
	query := `DELETE FROM workspace_members WHERE workspace_id = $1 AND user_id = $2`

	_, err := r.db.Pool.Exec(ctx, query, workspaceID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	return nil
}

// GetCompany retrieves a company scoped by workspace
func (r *WorkspaceRepository) GetCompany(ctx context.Context, workspaceID, companyID uuid.UUID) (*domain.Company, error) {
	query := `
		SELECT id, workspace_id, name, created_at
		FROM companies
		WHERE id = $1 AND workspace_id = $2
	`

	var company domain.Company
	err := r.db.Pool.QueryRow(ctx, query, companyID, workspaceID).Scan(
		&company.ID,
		&company.WorkspaceID,
		&company.Name,
		&company.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}

	return &company, nil
}
