package service

import "github.com/pulsecrm/backend/internal/domain"

// Permission keys are dot-scoped: "<resource>.<action>".
const (
	PermCampaignsRead   = "campaigns.read"
	PermCampaignsWrite  = "campaigns.write"
	PermCampaignsSend   = "campaigns.send"
	PermPostsRead       = "posts.read"
	PermPostsWrite      = "posts.write"
	PermPostsPublish    = "posts.publish"
	PermLoyaltyRead     = "loyalty.read"
	PermLoyaltyWrite    = "loyalty.write"
	PermReviewsRead     = "reviews.read"
	PermReviewsWrite    = "reviews.write"
	PermWebhooksRead    = "webhooks.read"
	PermWebhooksManage  = "webhooks.manage"
	PermActivityRead    = "activity.read"
	PermWorkspaceManage = "workspace.manage"
)

// rolePermissions maps roles to granted permissions. The owner wildcard
// matches everything.
var rolePermissions = map[string][]string{
	domain.RoleOwner: {"*"},
	domain.RoleAdmin: {
		PermCampaignsRead, PermCampaignsWrite, PermCampaignsSend,
		PermPostsRead, PermPostsWrite, PermPostsPublish,
		PermLoyaltyRead, PermLoyaltyWrite,
		PermReviewsRead, PermReviewsWrite,
		PermWebhooksRead, PermWebhooksManage,
		PermActivityRead,
		PermWorkspaceManage,
	},
	domain.RoleMember: {
		PermCampaignsRead, PermCampaignsWrite,
		PermPostsRead, PermPostsWrite,
		PermLoyaltyRead,
		PermReviewsRead, PermReviewsWrite,
		PermWebhooksRead,
		PermActivityRead,
	},
}

// Can reports whether a role grants a permission.
func Can(role, permission string) bool {
	for _, p := range rolePermissions[role] {
		if p == "*" || p == permission {
			return true
		}
	}
	return false
}
