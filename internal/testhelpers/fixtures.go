package testhelpers

import (
	"fmt"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
)

// TestPassword is the plain password of every user made by CreateUser
const TestPassword = "s3cret-pass"

// CreateUser inserts a user whose username and email derive from name
func CreateUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &models.User{
		Email:        name + "@example.com",
		Username:     name,
		FirstName:    name,
		LastName:     "Tester",
		PasswordHash: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", name, err)
	}
	return user
}

func CreateTag(t *testing.T, db *gorm.DB, slug string) *models.Tag {
	t.Helper()
	tag := &models.Tag{Name: slug, Color: "#49b64e", Slug: slug}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("failed to create tag %s: %v", slug, err)
	}
	return tag
}

func CreateIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()
	ing := &models.Ingredient{Name: name, MeasurementUnit: unit}
	if err := db.Create(ing).Error; err != nil {
		t.Fatalf("failed to create ingredient %s: %v", name, err)
	}
	return ing
}

// Line is an ingredient amount used to build recipes in tests
type Line struct {
	Ingredient *models.Ingredient
	Amount     int
}

// CreateRecipe inserts a recipe with the given lines and tags, bypassing
// validation so tests can set up any state.
func CreateRecipe(t *testing.T, db *gorm.DB, author *models.User, name string, tags []*models.Tag, lines ...Line) *models.Recipe {
	t.Helper()
	recipe := &models.Recipe{
		AuthorID:    author.ID,
		Name:        name,
		Text:        fmt.Sprintf("How to cook %s", name),
		CookingTime: 30,
	}
	for _, tag := range tags {
		recipe.Tags = append(recipe.Tags, *tag)
	}
	for _, l := range lines {
		recipe.Ingredients = append(recipe.Ingredients, models.RecipeIngredient{
			IngredientID: l.Ingredient.ID,
			Amount:       l.Amount,
		})
	}
	if err := db.Omit("Tags.*").Create(recipe).Error; err != nil {
		t.Fatalf("failed to create recipe %s: %v", name, err)
	}
	return recipe
}

// Count returns the number of rows of model matching the optional condition
func Count(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	return n
}
