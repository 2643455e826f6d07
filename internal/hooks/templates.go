package hooks

import (
	"fmt"
	"strings"

	"github.com/pulsecrm/backend/internal/domain"
)

// Notification template types
const (
	TemplateCampaignSent    = "campaign_sent"
	TemplateCampaignPaused  = "campaign_paused"
	TemplatePostPublished   = "post_published"
	TemplateReviewReceived  = "review_received"
	TemplatePointsAdjusted  = "points_adjusted"
	TemplateMemberJoined    = "member_joined"
	TemplateWebhookDisabled = "webhook_disabled"
)

var templates = map[string]domain.NotificationTemplate{
	TemplateCampaignSent: {
		Type:  TemplateCampaignSent,
		Title: "Campaign sent",
		Body:  "Your campaign \"{{name}}\" has been sent to {{recipients}} recipients.",
	},
	TemplateCampaignPaused: {
		Type:  TemplateCampaignPaused,
		Title: "Campaign paused",
		Body:  "Your campaign \"{{name}}\" has been paused.",
	},
	TemplatePostPublished: {
		Type:  TemplatePostPublished,
		Title: "Post published",
		Body:  "Your post \"{{title}}\" is now live.",
	},
	TemplateReviewReceived: {
		Type:  TemplateReviewReceived,
		Title: "New review",
		Body:  "You received a {{rating}}-star review on {{platform}}.",
	},
	TemplatePointsAdjusted: {
		Type:  TemplatePointsAdjusted,
		Title: "Points adjusted",
		Body:  "{{email}} now has {{points}} points ({{reason}}).",
	},
	TemplateMemberJoined: {
		Type:  TemplateMemberJoined,
		Title: "New loyalty member",
		Body:  "{{email}} joined your loyalty program.",
	},
	TemplateWebhookDisabled: {
		Type:  TemplateWebhookDisabled,
		Title: "Webhook failing",
		Body:  "Deliveries to {{url}} keep failing. Check the endpoint.",
	},
}

// resolveTemplate renders a template type with variables substituted. Unknown
// types fall back to the raw type as title so notifications are never lost.
func resolveTemplate(templateType string, vars map[string]any) (title, body string) {
	tpl, ok := templates[templateType]
	if !ok {
		return templateType, ""
	}
	return render(tpl.Title, vars), render(tpl.Body, vars)
}

func render(s string, vars map[string]any) string {
	for k, v := range vars {
		s = strings.ReplaceAll(s, "{{"+k+"}}", fmt.Sprint(v))
	}
	return s
}
