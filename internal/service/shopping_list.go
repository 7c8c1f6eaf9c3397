package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/metrics"
	"github.com/foodgram/backend/internal/models"
)

// ShoppingListHeader is the first line of every rendered list
const ShoppingListHeader = "Shopping list:"

// ShoppingListFilename is offered to clients downloading the list
const ShoppingListFilename = "shopping-list.txt"

// ShoppingListItem is one ingredient with its total over the cart
type ShoppingListItem struct {
	IngredientID    uuid.UUID
	Name            string
	MeasurementUnit string
	Total           int
}

type ShoppingListService struct {
	db   *gorm.DB
	cart *MembershipSet[models.ShoppingListEntry]
}

func NewShoppingListService(db *gorm.DB, cart *MembershipSet[models.ShoppingListEntry]) *ShoppingListService {
	return &ShoppingListService{db: db, cart: cart}
}

// BuildReport totals the ingredients of every recipe in the user's cart.
// Cart and lines are read in one transaction so a concurrent edit is seen
// either fully or not at all.
func (s *ShoppingListService) BuildReport(ctx context.Context, userID uuid.UUID) ([]ShoppingListItem, error) {
	var lines []models.RecipeIngredient
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipeIDs := s.cart.TargetSubquery(tx, userID)
		return tx.Preload("Ingredient").
			Where("recipe_id IN (?)", recipeIDs).
			Find(&lines).Error
	}, &sql.TxOptions{ReadOnly: s.db.Dialector.Name() == "postgres"})
	if err != nil {
		return nil, fmt.Errorf("load shopping list: %w", err)
	}

	items := AggregateLines(lines)
	metrics.ShoppingListDownloads.Inc()
	return items, nil
}

// Render builds the report and formats it as the downloadable text
func (s *ShoppingListService) Render(ctx context.Context, userID uuid.UUID) (string, error) {
	items, err := s.BuildReport(ctx, userID)
	if err != nil {
		return "", err
	}
	return RenderShoppingList(items), nil
}

// AggregateLines groups recipe lines by ingredient in one pass, summing the
// amounts. Lines need their Ingredient loaded. Output is ordered by name,
// then unit, then id.
func AggregateLines(lines []models.RecipeIngredient) []ShoppingListItem {
	byID := make(map[uuid.UUID]*ShoppingListItem, len(lines))
	for _, line := range lines {
		item, ok := byID[line.IngredientID]
		if !ok {
			item = &ShoppingListItem{
				IngredientID:    line.IngredientID,
				Name:            line.Ingredient.Name,
				MeasurementUnit: line.Ingredient.MeasurementUnit,
			}
			byID[line.IngredientID] = item
		}
		item.Total += line.Amount
	}

	items := make([]ShoppingListItem, 0, len(byID))
	for _, item := range byID {
		items = append(items, *item)
	}
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		if a.MeasurementUnit != b.MeasurementUnit {
			return a.MeasurementUnit < b.MeasurementUnit
		}
		return a.IngredientID.String() < b.IngredientID.String()
	})
	return items
}

// RenderShoppingList formats items as "{name}: {total}, {unit}" lines under
// the header. An empty list renders as the header alone.
func RenderShoppingList(items []ShoppingListItem) string {
	out := make([]string, 0, len(items)+1)
	out = append(out, ShoppingListHeader)
	for _, item := range items {
		out = append(out, fmt.Sprintf("%s: %d, %s", item.Name, item.Total, item.MeasurementUnit))
	}
	return strings.Join(out, "\n")
}
