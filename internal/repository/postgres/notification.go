package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pulsecrm/backend/internal/domain"
)

// NotificationRepository handles notification and preference data access
type NotificationRepository struct {
	db *DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts an in-app notification
func (r *NotificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	query := `
		INSERT INTO notifications (id, workspace_id, user_id, template_type, title, body,
			variables, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		notification.ID,
		notification.WorkspaceID,
		notification.UserID,
		notification.TemplateType,
		notification.Title,
		notification.Body,
		encodeJSON(notification.Variables),
		notification.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

// ListByUser retrieves notifications for a user in a workspace
func (r *NotificationRepository) ListByUser(ctx context.Context, workspaceID, userID uuid.UUID, unreadOnly bool, params domain.ListParams) ([]domain.Notification, int, error) {
	where := ` WHERE workspace_id = $1 AND user_id = $2`
	args := []any{workspaceID, userID}
	argIdx := 3

	if unreadOnly {
		where += " AND read_at IS NULL"
	}

	var total int
	if err := r.db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM notifications"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, workspace_id, user_id, template_type, title, body, variables, read_at, created_at
		FROM notifications%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, argIdx, argIdx+1)
	args = append(args, params.Limit, params.Offset)

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var variablesJSON []byte
		if err := rows.Scan(&n.ID, &n.WorkspaceID, &n.UserID, &n.TemplateType,
			&n.Title, &n.Body, &variablesJSON, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan notification: %w", err)
		}
		n.Variables = decodeJSONMap(variablesJSON)
		notifications = append(notifications, n)
	}

	return notifications, total, nil
}

// MarkRead marks one notification as read
func (r *NotificationRepository) MarkRead(ctx context.Context, workspaceID, userID, id uuid.UUID) error {
	query := `
		UPDATE notifications
		SET read_at = NOW()
		WHERE id = $1 AND workspace_id = $2 AND user_id = $3 AND read_at IS NULL
	`

	_, err := r.db.Pool.Exec(ctx, query, id, workspaceID, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	return nil
}

// MarkAllRead marks every unread notification for the user as read
func (r *NotificationRepository) MarkAllRead(ctx context.Context, workspaceID, userID uuid.UUID) (int, error) {
	query := `
		UPDATE notifications
		SET read_at = NOW()
		WHERE workspace_id = $1 AND user_id = $2 AND read_at IS NULL
	`

	tag, err := r.db.Pool.Exec(ctx, query, workspaceID, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

// GetPreference retrieves a user's channel preference for a template type
func (r *NotificationRepository) GetPreference(ctx context.Context, userID uuid.UUID, templateType string) (*domain.ChannelPreference, error) {
	query := `
		SELECT user_id, template_type, in_app, email, sms
		FROM notification_preferences
		WHERE user_id = $1 AND template_type = $2
	`

	var pref domain.ChannelPreference
	err := r.db.Pool.QueryRow(ctx, query, userID, templateType).Scan(
		&pref.UserID, &pref.TemplateType, &pref.InApp, &pref.Email, &pref.SMS)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get preference: %w", err)
	}

	return &pref, nil
}

// UpsertPreference stores a user's channel preference for a template type
func (r *NotificationRepository) UpsertPreference(ctx context.Context, pref *domain.ChannelPreference) error {
	query := `
		INSERT INTO notification_preferences (user_id, template_type, in_app, email, sms)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, template_type)
		DO UPDATE SET in_app = $3, email = $4, sms = $5
	`

	_, err := r.db.Pool.Exec(ctx, query,
		pref.UserID, pref.TemplateType, pref.InApp, pref.Email, pref.SMS)
	if err != nil {
		return fmt.Errorf("failed to upsert preference: %w", err)
	}

	return nil
}

// ListPreferences retrieves all channel preferences for a user
func (r *NotificationRepository) ListPreferences(ctx context.Context, userID uuid.UUID) ([]domain.ChannelPreference, error) {
	query := `
		SELECT user_id, template_type, in_app, email, sms
		FROM notification_preferences
		WHERE user_id = $1
		ORDER BY template_type
	`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list preferences: %w", err)
	}
	defer rows.Close()

	var prefs []domain.ChannelPreference
	for rows.Next() {
		var pref domain.ChannelPreference
		if err := rows.Scan(&pref.UserID, &pref.TemplateType, &pref.InApp, &pref.Email, &pref.SMS); err != nil {
			return nil, fmt.Errorf("failed to scan preference: %w", err)
		}
		prefs = append(prefs, pref)
	}

	return prefs, nil
}
