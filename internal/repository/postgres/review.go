package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pulsecrm/backend/internal/domain"
)

// ReviewRepository handles review data access
type ReviewRepository struct {
	db *DB
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db *DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

const reviewColumns = `id, workspace_id, platform, author, rating, content, status,
	reply, replied_at, sentiment_label, sentiment_score, reviewed_at, created_at`

// Create ingests a new review
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO reviews (id, workspace_id, platform, author, rating, content, status,
			reviewed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		review.ID,
		review.WorkspaceID,
		review.Platform,
		review.Author,
		review.Rating,
		review.Content,
		review.Status,
		review.ReviewedAt,
		review.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

// Get retrieves a review by ID scoped to a workspace
func (r *ReviewRepository) Get(ctx context.Context, workspaceID, id uuid.UUID) (*domain.Review, error) {
	query := fmt.Sprintf(`SELECT %s FROM reviews WHERE id = $1 AND workspace_id = $2`, reviewColumns)

	review, err := scanReview(r.db.Pool.QueryRow(ctx, query, id, workspaceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	return review, nil
}

// List retrieves reviews for a workspace with optional filters
func (r *ReviewRepository) List(ctx context.Context, workspaceID uuid.UUID, filter domain.ReviewFilter, params domain.ListParams) ([]domain.Review, int, error) {
	where := ` WHERE workspace_id = $1`
	args := []any{workspaceID}
	argIdx := 2

	if filter.Platform != "" {
		where += fmt.Sprintf(" AND platform = $%d", argIdx)
		args = append(args, filter.Platform)
		argIdx++
	}
	if filter.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, filter.Status)
		argIdx++
	}
	if filter.Rating > 0 {
		where += fmt.Sprintf(" AND rating = $%d", argIdx)
		args = append(args, filter.Rating)
		argIdx++
	}
	if filter.From != nil {
		where += fmt.Sprintf(" AND reviewed_at >= $%d", argIdx)
		args = append(args, *filter.From)
		argIdx++
	}
	if filter.To != nil {
		where += fmt.Sprintf(" AND reviewed_at <= $%d", argIdx)
		args = append(args, *filter.To)
		argIdx++
	}

	var total int
	if err := r.db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM reviews"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM reviews%s ORDER BY reviewed_at DESC LIMIT $%d OFFSET $%d",
		reviewColumns, where, argIdx, argIdx+1)
	args = append(args, params.Limit, params.Offset)

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, *review)
	}

	return reviews, total, nil
}

// SetReply stores a reply and transitions the review to replied
func (r *ReviewRepository) SetReply(ctx context.Context, workspaceID, id uuid.UUID, reply string) error {
	query := `
		UPDATE reviews
		SET reply = $3, status = $4, replied_at = NOW()
		WHERE id = $1 AND workspace_id = $2
	`

	_, err := r.db.Pool.Exec(ctx, query, id, workspaceID, reply, domain.ReviewStatusReplied)
	if err != nil {
		return fmt.Errorf("failed to set reply: %w", err)
	}

	return nil
}

// SetSentiment stores the sentiment analysis result
func (r *ReviewRepository) SetSentiment(ctx context.Context, workspaceID, id uuid.UUID, label string, score float64) error {
	query := `
		UPDATE reviews
		SET sentiment_label = $3, sentiment_score = $4
		WHERE id = $1 AND workspace_id = $2
	`

	_, err := r.db.Pool.Exec(ctx, query, id, workspaceID, label, score)
	if err != nil {
		return fmt.Errorf("failed to set sentiment: %w", err)
	}

	return nil
}

// Delete removes a review scoped to a workspace
func (r *ReviewRepository) Delete(ctx context.Context, workspaceID, id uuid.UUID) error {
	query := `DELETE FROM reviews WHERE id = $1 AND workspace_id = $2`

	_, err := r.db.Pool.Exec(ctx, query, id, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	return nil
}

func scanReview(row pgx.Row) (*domain.Review, error) {
	var rv domain.Review
	var reply, sentimentLabel *string
	var sentimentScore *float64

	err := row.Scan(
		&rv.ID,
		&rv.WorkspaceID,
		&rv.Platform,
		&rv.Author,
		&rv.Rating,
		&rv.Content,
		&rv.Status,
		&reply,
		&rv.RepliedAt,
		&sentimentLabel,
		&sentimentScore,
		&rv.ReviewedAt,
		&rv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if reply != nil {
		rv.Reply = *reply
	}
	if sentimentLabel != nil {
		rv.SentimentLabel = *sentimentLabel
	}
	if sentimentScore != nil {
		rv.SentimentScore = *sentimentScore
	}

	return &rv, nil
}
