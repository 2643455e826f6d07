package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pulsecrm/backend/internal/domain"
)

// CampaignRepository handles campaign data access
type CampaignRepository struct {
	db *DB
}

// NewCampaignRepository creates a new campaign repository
func NewCampaignRepository(db *DB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

const campaignColumns = `id, workspace_id, name, subject, body, status, settings,
	recipient_count, sent_count, scheduled_at, sent_at, created_at, updated_at`

// Create creates a new campaign
func (r *CampaignRepository) Create(ctx context.Context, campaign *domain.Campaign) error {
	query := `
		INSERT INTO campaigns (id, workspace_id, name, subject, body, status, settings,
			scheduled_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		campaign.ID,
		campaign.WorkspaceID,
		campaign.Name,
		campaign.Subject,
		campaign.Body,
		campaign.Status,
		encodeJSON(campaign.Settings),
		campaign.ScheduledAt,
		campaign.CreatedAt,
		campaign.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create campaign: %w", err)
	}

	return nil
}

// Get retrieves a campaign by ID scoped to a workspace
func (r *CampaignRepository) Get(ctx context.Context, workspaceID, id uuid.UUID) (*domain.Campaign, error) {
	query := fmt.Sprintf(`SELECT %s FROM campaigns WHERE id = $1 AND workspace_id = $2`, campaignColumns)

	campaign, err := scanCampaign(r.db.Pool.QueryRow(ctx, query, id, workspaceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}

	return campaign, nil
}

// List retrieves campaigns for a workspace with optional filters
func (r *CampaignRepository) List(ctx context.Context, workspaceID uuid.UUID, filter domain.CampaignFilter, params domain.ListParams) ([]domain.Campaign, int, error) {
	where := ` WHERE workspace_id = $1`
	args := []any{workspaceID}
	argIdx := 2

	if filter.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, filter.Status)
		argIdx++
	}
	if filter.Search != "" {
		where += fmt.Sprintf(" AND (name ILIKE $%d OR subject ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+filter.Search+"%")
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
	if err := r.db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM campaigns"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count campaigns: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM campaigns%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		campaignColumns, where, argIdx, argIdx+1)
	args = append(args, params.Limit, params.Offset)

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []domain.Campaign
	for rows.Next() {
		campaign, err := scanCampaign(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan campaign: %w", err)
		}
		campaigns = append(campaigns, *campaign)
	}

	return campaigns, total, nil
}

// Update applies a partial update; nil fields keep their stored values
func (r *CampaignRepository) Update(ctx context.Context, workspaceID, id uuid.UUID, update domain.CampaignUpdate) error {
	var settings []byte
	if update.Settings != nil {
		settings = encodeJSON(update.Settings)
	}

	query := `
		UPDATE campaigns
		SET name = COALESCE($3, name),
		    subject = COALESCE($4, subject),
		    body = COALESCE($5, body),
		    status = COALESCE($6, status),
		    settings = COALESCE($7, settings),
		    scheduled_at = COALESCE($8, scheduled_at),
		    updated_at = NOW()
		WHERE id = $1 AND workspace_id = $2
	`

	_, err := r.db.Pool.Exec(ctx, query, id, workspaceID,
		update.Name, update.Subject, update.Body, update.Status, settings, update.ScheduledAt)
	if err != nil {
		return fmt.Errorf("failed to update campaign: %w", err)
	}

	return nil
}

// Delete deletes a campaign scoped to a workspace
func (r *CampaignRepository) Delete(ctx context.Context, workspaceID, id uuid.UUID) error {
	query := `DELETE FROM campaigns WHERE id = $1 AND workspace_id = $2`

	_, err := r.db.Pool.Exec(ctx, query, id, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to delete campaign: %w", err)
	}

	return nil
}

// MarkSending transitions the campaign to sending and queues its pending
// recipients in one transaction. A failure on either statement rolls both
// back.
func (r *CampaignRepository) MarkSending(ctx context.Context, workspaceID, id uuid.UUID) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE campaigns
			SET status = $3, updated_at = NOW()
			WHERE id = $1 AND workspace_id = $2
		`, id, workspaceID, domain.CampaignStatusSending)
		if err != nil {
			return fmt.Errorf("failed to mark campaign sending: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}

		_, err = tx.Exec(ctx, `
			UPDATE campaign_recipients
			SET status = $2
			WHERE campaign_id = $1 AND status = $3
		`, id, domain.RecipientStatusQueued, domain.RecipientStatusPending)
		if err != nil {
			return fmt.Errorf("failed to queue recipients: %w", err)
		}

		return nil
	})
}

// AddRecipients inserts recipients for a campaign and refreshes the count,
// atomically.
func (r *CampaignRepository) AddRecipients(ctx context.Context, campaignID uuid.UUID, recipients []domain.Recipient) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		for i := range recipients {
			_, err := tx.Exec(ctx, `
				INSERT INTO campaign_recipients (id, campaign_id, email, name, status, created_at)
				VALUES ($1, $2, $3, $4, $5, $6)
				ON CONFLICT (campaign_id, email) DO NOTHING
			`, recipients[i].ID, campaignID, recipients[i].Email, recipients[i].Name,
				recipients[i].Status, recipients[i].CreatedAt)
			if err != nil {
				return fmt.Errorf("failed to insert recipient: %w", err)
			}
		}

		_, err := tx.Exec(ctx, `
			UPDATE campaigns
			SET recipient_count = (SELECT COUNT(*) FROM campaign_recipients WHERE campaign_id = $1),
			    updated_at = NOW()
			WHERE id = $1
		`, campaignID)
		if err != nil {
			return fmt.Errorf("failed to refresh recipient count: %w", err)
		}

		return nil
	})
}

// ListRecipients lists recipients of a campaign
func (r *CampaignRepository) ListRecipients(ctx context.Context, campaignID uuid.UUID, params domain.ListParams) ([]domain.Recipient, int, error) {
	var total int
	if err := r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM campaign_recipients WHERE campaign_id = $1`, campaignID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count recipients: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, campaign_id, email, name, status, sent_at, created_at
		FROM campaign_recipients
		WHERE campaign_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, campaignID, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list recipients: %w", err)
	}
	defer rows.Close()

	var recipients []domain.Recipient
	for rows.Next() {
		var rec domain.Recipient
		if err := rows.Scan(&rec.ID, &rec.CampaignID, &rec.Email, &rec.Name,
			&rec.Status, &rec.SentAt, &rec.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan recipient: %w", err)
		}
		recipients = append(recipients, rec)
	}

	return recipients, total, nil
}

// RecipientStats aggregates recipient counts by status
func (r *CampaignRepository) RecipientStats(ctx context.Context, campaignID uuid.UUID) (*domain.RecipientStats, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'pending'),
		       COUNT(*) FILTER (WHERE status = 'queued'),
		       COUNT(*) FILTER (WHERE status = 'sent'),
		       COUNT(*) FILTER (WHERE status = 'failed')
		FROM campaign_recipients
		WHERE campaign_id = $1
	`

	var stats domain.RecipientStats
	err := r.db.Pool.QueryRow(ctx, query, campaignID).Scan(
		&stats.Total, &stats.Pending, &stats.Queued, &stats.Sent, &stats.Failed)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipient stats: %w", err)
	}

	return &stats, nil
}

// FinishSentCampaigns moves sending campaigns whose recipients are all in a
// terminal state to sent. Safe to run concurrently; the status guard makes
// repeat runs no-ops.
func (r *CampaignRepository) FinishSentCampaigns(ctx context.Context) (int, error) {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE campaigns c
		SET status = $1,
		    sent_at = NOW(),
		    sent_count = (SELECT COUNT(*) FROM campaign_recipients r
		                  WHERE r.campaign_id = c.id AND r.status = 'sent'),
		    updated_at = NOW()
		WHERE c.status = $2
		  AND NOT EXISTS (
			SELECT 1 FROM campaign_recipients r
			WHERE r.campaign_id = c.id AND r.status IN ('pending', 'queued')
		  )
	`, domain.CampaignStatusSent, domain.CampaignStatusSending)
	if err != nil {
		return 0, fmt.Errorf("failed to finish campaigns: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

func scanCampaign(row pgx.Row) (*domain.Campaign, error) {
	var c domain.Campaign
	var settingsJSON []byte
	var scheduledAt, sentAt *time.Time

	err := row.Scan(
		&c.ID,
		&c.WorkspaceID,
		&c.Name,
		&c.Subject,
		&c.Body,
		&c.Status,
		&settingsJSON,
		&c.RecipientCount,
		&c.SentCount,
		&scheduledAt,
		&sentAt,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Settings = decodeJSONMap(settingsJSON)
	c.ScheduledAt = scheduledAt
	c.SentAt = sentAt

	return &c, nil
}
