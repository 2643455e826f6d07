package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pulsecrm/backend/internal/domain"
)

// ActivityRepository handles activity log data access
type ActivityRepository struct {
	db *DB
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Create inserts an activity log entry
func (r *ActivityRepository) Create(ctx context.Context, activity *domain.Activity) error {
	query := `
		INSERT INTO activities (id, workspace_id, user_id, entity_type, entity_id,
			activity_type, title, changes, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		activity.ID,
		activity.WorkspaceID,
		activity.UserID,
		activity.EntityType,
		activity.EntityID,
		activity.ActivityType,
		activity.Title,
		encodeJSON(activity.Changes),
		encodeJSON(activity.Metadata),
		activity.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create activity: %w", err)
	}

	return nil
}

// List retrieves activity entries for a workspace with optional filters
func (r *ActivityRepository) List(ctx context.Context, workspaceID uuid.UUID, filter domain.ActivityFilter, params domain.ListParams) ([]domain.Activity, int, error) {
	where := ` WHERE workspace_id = $1`
	args := []any{workspaceID}
	argIdx := 2

	if filter.EntityType != "" {
		where += fmt.Sprintf(" AND entity_type = $%d", argIdx)
		args = append(args, filter.EntityType)
		argIdx++
	}
	if filter.ActivityType != "" {
		where += fmt.Sprintf(" AND activity_type = $%d", argIdx)
		args = append(args, filter.ActivityType)
		argIdx++
	}
	if filter.From != nil {
		where += fmt.Sprintf(" AND created_at >= $%d", argIdx)
		args = append(args, *filter.From)
		argIdx++
	}
	if filter.To != nil {
		where += fmt.Sprintf(" AND created_at <= $%d", argIdx)
		args = append(args, *filter.To)
		argIdx++
	}

	var total int
	if err := r.db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM activities"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count activities: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, workspace_id, user_id, entity_type, entity_id, activity_type,
		       title, changes, metadata, created_at
		FROM activities%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, argIdx, argIdx+1)
	args = append(args, params.Limit, params.Offset)

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	var activities []domain.Activity
	for rows.Next() {
		var a domain.Activity
		var changesJSON, metadataJSON []byte
		if err := rows.Scan(&a.ID, &a.WorkspaceID, &a.UserID, &a.EntityType, &a.EntityID,
			&a.ActivityType, &a.Title, &changesJSON, &metadataJSON, &a.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan activity: %w", err)
		}
		a.Changes = decodeJSONMap(changesJSON)
		a.Metadata = decodeJSONMap(metadataJSON)
		activities = append(activities, a)
	}

	return activities, total, nil
}
