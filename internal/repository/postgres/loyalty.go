package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pulsecrm/backend/internal/domain"
)

// LoyaltyRepository handles loyalty member data access
type LoyaltyRepository struct {
	db *DB
}

// NewLoyaltyRepository creates a new loyalty repository
func NewLoyaltyRepository(db *DB) *LoyaltyRepository {
	return &LoyaltyRepository{db: db}
}

const loyaltyColumns = `id, workspace_id, email, name, points, tier, created_at, updated_at`

// Create enrolls a new member
func (r *LoyaltyRepository) Create(ctx context.Context, member *domain.LoyaltyMember) error {
	query := `
		INSERT INTO loyalty_members (id, workspace_id, email, name, points, tier, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		member.ID,
		member.WorkspaceID,
		member.Email,
		member.Name,
		member.Points,
		member.Tier,
		member.CreatedAt,
		member.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrConflict
		}
		return fmt.Errorf("failed to create loyalty member: %w", err)
	}

	return nil
}

// Get retrieves a member by ID scoped to a workspace
func (r *LoyaltyRepository) Get(ctx context.Context, workspaceID, id uuid.UUID) (*domain.LoyaltyMember, error) {
	query := fmt.Sprintf(`SELECT %s FROM loyalty_members WHERE id = $1 AND workspace_id = $2`, loyaltyColumns)

	var m domain.LoyaltyMember
	err := r.db.Pool.QueryRow(ctx, query, id, workspaceID).Scan(
		&m.ID, &m.WorkspaceID, &m.Email, &m.Name, &m.Points, &m.Tier, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get loyalty member: %w", err)
	}

	return &m, nil
}

// List retrieves members for a workspace with optional filters
func (r *LoyaltyRepository) List(ctx context.Context, workspaceID uuid.UUID, filter domain.LoyaltyFilter, params domain.ListParams) ([]domain.LoyaltyMember, int, error) {
	where := ` WHERE workspace_id = $1`
	args := []any{workspaceID}
	argIdx := 2

	if filter.Tier != "" {
		where += fmt.Sprintf(" AND tier = $%d", argIdx)
		args = append(args, filter.Tier)
		argIdx++
	}
	if filter.Search != "" {
		where += fmt.Sprintf(" AND (email ILIKE $%d OR name ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}

	var total int
	if err := r.db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM loyalty_members"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count loyalty members: %w", err)
	}

	// Members are ordered by balance, not recency.
	query := fmt.Sprintf("SELECT %s FROM loyalty_members%s ORDER BY points DESC, created_at DESC LIMIT $%d OFFSET $%d",
		loyaltyColumns, where, argIdx, argIdx+1)
	args = append(args, params.Limit, params.Offset)

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list loyalty members: %w", err)
	}
	defer rows.Close()

	var members []domain.LoyaltyMember
	for rows.Next() {
		var m domain.LoyaltyMember
		if err := rows.Scan(&m.ID, &m.WorkspaceID, &m.Email, &m.Name, &m.Points,
			&m.Tier, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan loyalty member: %w", err)
		}
		members = append(members, m)
	}

	return members, total, nil
}

// Update applies a partial update; nil fields keep their stored values
func (r *LoyaltyRepository) Update(ctx context.Context, workspaceID, id uuid.UUID, update domain.LoyaltyMemberUpdate) error {
	query := `
		UPDATE loyalty_members
		SET email = COALESCE($3, email),
		    name = COALESCE($4, name),
		    updated_at = NOW()
		WHERE id = $1 AND workspace_id = $2
	`

	_, err := r.db.Pool.Exec(ctx, query, id, workspaceID, update.Email, update.Name)
	if err != nil {
		return fmt.Errorf("failed to update loyalty member: %w", err)
	}

	return nil
}

// Delete removes a member scoped to a workspace
func (r *LoyaltyRepository) Delete(ctx context.Context, workspaceID, id uuid.UUID) error {
	query := `DELETE FROM loyalty_members WHERE id = $1 AND workspace_id = $2`

	_, err := r.db.Pool.Exec(ctx, query, id, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to delete loyalty member: %w", err)
	}

	return nil
}

// AdjustPoints writes the transaction row and updates the balance in one
// transaction, returning the refreshed member. The tier is recomputed from
// the new balance inside the same transaction.
func (r *LoyaltyRepository) AdjustPoints(ctx context.Context, workspaceID, id uuid.UUID, delta int, reason string) (*domain.LoyaltyMember, error) {
	var member domain.LoyaltyMember

	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		var balance int
		err := tx.QueryRow(ctx, `
			UPDATE loyalty_members
			SET points = points + $3, updated_at = NOW()
			WHERE id = $1 AND workspace_id = $2
			RETURNING points
		`, id, workspaceID, delta).Scan(&balance)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("failed to adjust points: %w", err)
		}

		tier := domain.TierForPoints(balance)
		if _, err := tx.Exec(ctx, `
			UPDATE loyalty_members SET tier = $2 WHERE id = $1
		`, id, tier); err != nil {
			return fmt.Errorf("failed to update tier: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO loyalty_transactions (id, member_id, delta, balance, reason, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, uuid.New(), id, delta, balance, reason, time.Now())
		if err != nil {
			return fmt.Errorf("failed to record transaction: %w", err)
		}

		return tx.QueryRow(ctx,
			fmt.Sprintf(`SELECT %s FROM loyalty_members WHERE id = $1`, loyaltyColumns), id,
		).Scan(&member.ID, &member.WorkspaceID, &member.Email, &member.Name,
			&member.Points, &member.Tier, &member.CreatedAt, &member.UpdatedAt)
	})
	if err != nil {
		return nil, err
	}

	return &member, nil
}

// ListTransactions lists point transactions for a member. The member is
// tenant-checked via the join.
func (r *LoyaltyRepository) ListTransactions(ctx context.Context, workspaceID, memberID uuid.UUID, params domain.ListParams) ([]domain.PointsTransaction, int, error) {
	var total int
	if err := r.db.Pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM loyalty_transactions t
		INNER JOIN loyalty_members m ON t.member_id = m.id
		WHERE t.member_id = $1 AND m.workspace_id = $2
	`, memberID, workspaceID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT t.id, t.member_id, t.delta, t.balance, t.reason, t.created_at
		FROM loyalty_transactions t
		INNER JOIN loyalty_members m ON t.member_id = m.id
		WHERE t.member_id = $1 AND m.workspace_id = $2
		ORDER BY t.created_at DESC
		LIMIT $3 OFFSET $4
	`, memberID, workspaceID, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []domain.PointsTransaction
	for rows.Next() {
		var t domain.PointsTransaction
		if err := rows.Scan(&t.ID, &t.MemberID, &t.Delta, &t.Balance, &t.Reason, &t.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, t)
	}

	return txs, total, nil
}

// RecalculateTiers brings every member's tier in line with their balance.
// Idempotent; repeated runs change nothing.
func (r *LoyaltyRepository) RecalculateTiers(ctx context.Context, workspaceID uuid.UUID) (int, error) {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE loyalty_members
		SET tier = CASE
			WHEN points >= $2 THEN 'gold'
			WHEN points >= $3 THEN 'silver'
			ELSE 'bronze'
		END,
		updated_at = NOW()
		WHERE workspace_id = $1
		  AND tier <> CASE
			WHEN points >= $2 THEN 'gold'
			WHEN points >= $3 THEN 'silver'
			ELSE 'bronze'
		  END
	`, workspaceID, domain.GoldThreshold, domain.SilverThreshold)
	if err != nil {
		return 0, fmt.Errorf("failed to recalculate tiers: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

// RecalculateAllTiers is the periodic worker variant across all workspaces.
func (r *LoyaltyRepository) RecalculateAllTiers(ctx context.Context) (int, error) {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE loyalty_members
		SET tier = CASE
			WHEN points >= $1 THEN 'gold'
			WHEN points >= $2 THEN 'silver'
			ELSE 'bronze'
		END,
		updated_at = NOW()
		WHERE tier <> CASE
			WHEN points >= $1 THEN 'gold'
			WHEN points >= $2 THEN 'silver'
			ELSE 'bronze'
		  END
	`, domain.GoldThreshold, domain.SilverThreshold)
	if err != nil {
		return 0, fmt.Errorf("failed to recalculate tiers: %w", err)
	}

	return int(tag.RowsAffected()), nil
}
