package hooks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveTemplate(t *testing.T) {
	t.Run("substitutes variables", func(t *testing.T) {
		title, body := resolveTemplate(TemplateCampaignSent, map[string]any{
			"name":       "Spring Sale",
			"recipients": 120,
		})
		assert.Equal(t, "Campaign sent", title)
		assert.Equal(t, `Your campaign "Spring Sale" has been sent to 120 recipients.`, body)
	})

	t.Run("unknown type falls back to raw type", func(t *testing.T) {
		title, body := resolveTemplate("something_new", map[string]any{"x": 1})
		assert.Equal(t, "something_new", title)
		assert.Empty(t, body)
	})

	t.Run("missing variables leave placeholders", func(t *testing.T) {
		_, body := resolveTemplate(TemplatePostPublished, nil)
		assert.Contains(t, body, "{{title}}")
	})
}
