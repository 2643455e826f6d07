package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pulsecrm/backend/internal/domain"
)

func TestCan(t *testing.T) {
	t.Run("owner can do anything", func(t *testing.T) {
		assert.True(t, Can(domain.RoleOwner, PermCampaignsSend))
		assert.True(t, Can(domain.RoleOwner, PermWorkspaceManage))
		assert.True(t, Can(domain.RoleOwner, "some.future.permission"))
	})

	t.Run("admin has every named permission", func(t *testing.T) {
		assert.True(t, Can(domain.RoleAdmin, PermCampaignsSend))
		assert.True(t, Can(domain.RoleAdmin, PermPostsPublish))
		assert.True(t, Can(domain.RoleAdmin, PermWebhooksManage))
		assert.True(t, Can(domain.RoleAdmin, PermWorkspaceManage))
	})

	t.Run("member can read and write but not escalate", func(t *testing.T) {
		assert.True(t, Can(domain.RoleMember, PermCampaignsRead))
		assert.True(t, Can(domain.RoleMember, PermCampaignsWrite))
		assert.True(t, Can(domain.RoleMember, PermReviewsWrite))

		assert.False(t, Can(domain.RoleMember, PermCampaignsSend))
		assert.False(t, Can(domain.RoleMember, PermPostsPublish))
		assert.False(t, Can(domain.RoleMember, PermLoyaltyWrite))
		assert.False(t, Can(domain.RoleMember, PermWebhooksManage))
		assert.False(t, Can(domain.RoleMember, PermWorkspaceManage))
	})

	t.Run("unknown role has nothing", func(t *testing.T) {
		assert.False(t, Can("viewer", PermCampaignsRead))
		assert.False(t, Can("", PermCampaignsRead))
	})
}
