package entity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItem_Validate(t *testing.T) {
	tests := []struct {
		name    string
		item    Item
		wantErr bool
		field   string
	}{
		{
			name: "valid item",
			item: Item{Name: "widget"},
		},
		{
			name:    "empty name",
			item:    Item{Name: ""},
			wantErr: true,
			field:   "name",
		},
		{
			name: "name at maximum length",
			item: Item{Name: strings.Repeat("a", 255)},
		},
		{
			name:    "name too long",
			item:    Item{Name: strings.Repeat("a", 256)},
			wantErr: true,
			field:   "name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}
