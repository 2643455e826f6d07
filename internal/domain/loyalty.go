package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Loyalty tiers, ordered by points threshold.
const (
	TierBronze = "bronze"
	TierSilver = "silver"
	TierGold   = "gold"
)

// Tier thresholds in points.
const (
	SilverThreshold = 1000
	GoldThreshold   = 5000
)

// LoyaltyMember represents a loyalty program member
type LoyaltyMember struct {
	ID          uuid.UUID `json:"id"`
	WorkspaceID uuid.UUID `json:"workspace_id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Points      int       `json:"points"`
	Tier        string    `json:"tier"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LoyaltyMemberCreate represents member enrollment data
type LoyaltyMemberCreate struct {
	Email string `json:"email" validate:"required,email,max=255"`
	Name  string `json:"name" validate:"max=255"`
}

// LoyaltyMemberUpdate represents partial member update data
type LoyaltyMemberUpdate struct {
	Email *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Name  *string `json:"name,omitempty" validate:"omitempty,max=255"`
}

// PointsAdjustment represents a points adjustment request
type PointsAdjustment struct {
	Delta  int    `json:"delta" validate:"required"`
	Reason string `json:"reason" validate:"required,max=255"`
}

// PointsTransaction is the audit record of one balance change
type PointsTransaction struct {
	ID        uuid.UUID `json:"id"`
	MemberID  uuid.UUID `json:"member_id"`
	Delta     int       `json:"delta"`
	Balance   int       `json:"balance"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

// TierForPoints returns the tier a balance qualifies for.
func TierForPoints(points int) string {
	switch {
	case points >= GoldThreshold:
		return TierGold
	case points >= SilverThreshold:
		return TierSilver
	default:
		return TierBronze
	}
}

// LoyaltyFilter represents list filters
type LoyaltyFilter struct {
	Tier   string
	Search string
}

// LoyaltyRepository defines the interface for loyalty storage
type LoyaltyRepository interface {
	Create(ctx context.Context, member *LoyaltyMember) error
	Get(ctx context.Context, workspaceID, id uuid.UUID) (*LoyaltyMember, error)
	List(ctx context.Context, workspaceID uuid.UUID, filter LoyaltyFilter, params ListParams) ([]LoyaltyMember, int, error)
	Update(ctx context.Context, workspaceID, id uuid.UUID, update LoyaltyMemberUpdate) error
	Delete(ctx context.Context, workspaceID, id uuid.UUID) error
	// AdjustPoints writes the transaction row and the new balance atomically.
	AdjustPoints(ctx context.Context, workspaceID, id uuid.UUID, delta int, reason string) (*LoyaltyMember, error)
	ListTransactions(ctx context.Context, workspaceID, memberID uuid.UUID, params ListParams) ([]PointsTransaction, int, error)
	RecalculateTiers(ctx context.Context, workspaceID uuid.UUID) (int, error)
	// RecalculateAllTiers is the worker-side variant covering every workspace.
	RecalculateAllTiers(ctx context.Context) (int, error)
}
