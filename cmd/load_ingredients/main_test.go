package main

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/testhelpers"
)

func TestImportIngredients(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewIngredientService(db)
	ctx := context.Background()

	input := strings.Join([]string{
		"абрикосовое варенье,г",
		"flour,g",
		"flour,g",
		"salt",
		",g",
		`"butter, unsalted",g`,
	}, "\n")

	stats, err := importIngredients(ctx, svc, strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, importStats{Created: 3, Skipped: 1, Failed: 2}, stats)
	assert.Equal(t, int64(3), testhelpers.Count(t, db, &models.Ingredient{}, ""))

	// a second run creates nothing
	stats, err = importIngredients(ctx, svc, strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Created)
	assert.Equal(t, 4, stats.Skipped)
}
