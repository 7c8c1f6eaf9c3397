package service

import (
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/types"
)

// ValidateComposition checks a recipe's ingredient lines before anything is
// written. Lines are checked in order and the first bad line decides the
// error. The lines are returned unchanged when valid.
func ValidateComposition(lines []types.IngredientAmount) ([]types.IngredientAmount, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyComposition
	}

	seen := make(map[uuid.UUID]struct{}, len(lines))
	for _, line := range lines {
		if line.Amount <= 0 {
			return nil, ErrInvalidAmount
		}
		if _, dup := seen[line.ID]; dup {
			return nil, ErrDuplicateIngredient
		}
		seen[line.ID] = struct{}{}
	}
	return lines, nil
}

// validateTags applies the same shape rules to the tag list
func validateTags(tags []uuid.UUID) error {
	if len(tags) == 0 {
		return ErrEmptyTags
	}
	seen := make(map[uuid.UUID]struct{}, len(tags))
	for _, id := range tags {
		if _, dup := seen[id]; dup {
			return ErrDuplicateTag
		}
		seen[id] = struct{}{}
	}
	return nil
}
