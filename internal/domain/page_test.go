package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListParamsNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   ListParams
		want ListParams
	}{
		{"zero gets defaults", ListParams{}, ListParams{Limit: DefaultLimit}},
		{"negative limit gets default", ListParams{Limit: -3}, ListParams{Limit: DefaultLimit}},
		{"over cap is clamped", ListParams{Limit: 5000}, ListParams{Limit: MaxLimit}},
		{"at cap is kept", ListParams{Limit: MaxLimit}, ListParams{Limit: MaxLimit}},
		{"negative offset resets", ListParams{Limit: 10, Offset: -1}, ListParams{Limit: 10}},
		{"valid values pass through", ListParams{Limit: 25, Offset: 75}, ListParams{Limit: 25, Offset: 75}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}

func TestNewPage(t *testing.T) {
	t.Run("nil items become empty slice", func(t *testing.T) {
		page := NewPage[Campaign](nil, 0, ListParams{Limit: 50})
		assert.NotNil(t, page.Data)
		assert.Empty(t, page.Data)
		assert.Equal(t, 50, page.Meta.Limit)
	})

	t.Run("meta reflects inputs", func(t *testing.T) {
		page := NewPage([]int{1, 2, 3}, 42, ListParams{Limit: 10, Offset: 30})
		assert.Len(t, page.Data, 3)
		assert.Equal(t, 42, page.Meta.Total)
		assert.Equal(t, 10, page.Meta.Limit)
		assert.Equal(t, 30, page.Meta.Offset)
	})
}
