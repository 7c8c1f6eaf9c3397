package service_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/types"
)

func TestValidateComposition(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	tests := []struct {
		name    string
		lines   []types.IngredientAmount
		wantErr error
	}{
		{
			name:    "empty",
			lines:   nil,
			wantErr: service.ErrEmptyComposition,
		},
		{
			name:  "valid",
			lines: []types.IngredientAmount{{ID: a, Amount: 200}, {ID: b, Amount: 1}},
		},
		{
			name:    "duplicate ingredient",
			lines:   []types.IngredientAmount{{ID: a, Amount: 200}, {ID: a, Amount: 100}},
			wantErr: service.ErrDuplicateIngredient,
		},
		{
			name:    "zero amount",
			lines:   []types.IngredientAmount{{ID: a, Amount: 0}},
			wantErr: service.ErrInvalidAmount,
		},
		{
			name:    "negative amount",
			lines:   []types.IngredientAmount{{ID: a, Amount: 10}, {ID: b, Amount: -5}},
			wantErr: service.ErrInvalidAmount,
		},
		{
			// first offending line decides
			name:    "bad amount before duplicate",
			lines:   []types.IngredientAmount{{ID: a, Amount: 0}, {ID: a, Amount: 10}},
			wantErr: service.ErrInvalidAmount,
		},
		{
			name:    "duplicate before bad amount",
			lines:   []types.IngredientAmount{{ID: a, Amount: 10}, {ID: a, Amount: 10}, {ID: b, Amount: 0}},
			wantErr: service.ErrDuplicateIngredient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := service.ValidateComposition(tt.lines)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.lines, got)
		})
	}
}
