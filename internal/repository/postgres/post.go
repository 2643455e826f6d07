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

// PostRepository handles blog post data access
type PostRepository struct {
	db *DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *DB) *PostRepository {
	return &PostRepository{db: db}
}

const postColumns = `id, workspace_id, title, slug, content, excerpt, status, tags,
	published_at, created_at, updated_at`

// Create creates a new post
func (r *PostRepository) Create(ctx context.Context, post *domain.Post) error {
	query := `
		INSERT INTO posts (id, workspace_id, title, slug, content, excerpt, status, tags,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		post.ID,
		post.WorkspaceID,
		post.Title,
		post.Slug,
		post.Content,
		post.Excerpt,
		post.Status,
		encodeJSON(post.Tags),
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}

	return nil
}

// Get retrieves a post by ID scoped to a workspace
func (r *PostRepository) Get(ctx context.Context, workspaceID, id uuid.UUID) (*domain.Post, error) {
	query := fmt.Sprintf(`SELECT %s FROM posts WHERE id = $1 AND workspace_id = $2`, postColumns)

	post, err := scanPost(r.db.Pool.QueryRow(ctx, query, id, workspaceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return post, nil
}

// List retrieves posts for a workspace with optional filters
func (r *PostRepository) List(ctx context.Context, workspaceID uuid.UUID, filter domain.PostFilter, params domain.ListParams) ([]domain.Post, int, error) {
	where := ` WHERE workspace_id = $1`
	args := []any{workspaceID}
	argIdx := 2

	if filter.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, filter.Status)
		argIdx++
	}
	if filter.Tag != "" {
		where += fmt.Sprintf(" AND tags @> $%d::jsonb", argIdx)
		args = append(args, fmt.Sprintf(`["%s"]`, filter.Tag))
		argIdx++
	}
	if filter.Search != "" {
		where += fmt.Sprintf(" AND (title ILIKE $%d OR content ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}

	var total int
	if err := r.db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM posts"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM posts%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		postColumns, where, argIdx, argIdx+1)
	args = append(args, params.Limit, params.Offset)

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, *post)
	}

	return posts, total, nil
}

// Update applies a partial update; nil fields keep their stored values
func (r *PostRepository) Update(ctx context.Context, workspaceID, id uuid.UUID, update domain.PostUpdate) error {
	var tags []byte
	if update.Tags != nil {
		tags = encodeJSON(update.Tags)
	}

	query := `
		UPDATE posts
		SET title = COALESCE($3, title),
		    slug = COALESCE($4, slug),
		    content = COALESCE($5, content),
		    excerpt = COALESCE($6, excerpt),
		    tags = COALESCE($7, tags),
		    updated_at = NOW()
		WHERE id = $1 AND workspace_id = $2
	`

	_, err := r.db.Pool.Exec(ctx, query, id, workspaceID,
		update.Title, update.Slug, update.Content, update.Excerpt, tags)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}

	return nil
}

// SetStatus updates the publication state
func (r *PostRepository) SetStatus(ctx context.Context, workspaceID, id uuid.UUID, status string, publishedAt *time.Time) error {
	query := `
		UPDATE posts
		SET status = $3, published_at = $4, updated_at = NOW()
		WHERE id = $1 AND workspace_id = $2
	`

	_, err := r.db.Pool.Exec(ctx, query, id, workspaceID, status, publishedAt)
	if err != nil {
		return fmt.Errorf("failed to set post status: %w", err)
	}

	return nil
}

// Delete deletes a post scoped to a workspace
func (r *PostRepository) Delete(ctx context.Context, workspaceID, id uuid.UUID) error {
	query := `DELETE FROM posts WHERE id = $1 AND workspace_id = $2`

	_, err := r.db.Pool.Exec(ctx, query, id, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	return nil
}

func scanPost(row pgx.Row) (*domain.Post, error) {
	var p domain.Post
	var tagsJSON []byte

	err := row.Scan(
		&p.ID,
		&p.WorkspaceID,
		&p.Title,
		&p.Slug,
		&p.Content,
		&p.Excerpt,
		&p.Status,
		&tagsJSON,
		&p.PublishedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Tags = decodeJSONStrings(tagsJSON)

	return &p, nil
}
