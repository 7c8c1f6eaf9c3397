package types

import (
	"time"

	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/models"
)

type UserResponse struct {
	Email        string    `json:"email"`
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsSubscribed bool      `json:"is_subscribed"`
}

func NewUserResponse(u *models.User, subscribed bool) UserResponse {
	return UserResponse{
		Email:        u.Email,
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
}

// IngredientLine is an ingredient as it appears inside a recipe
type IngredientLine struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int       `json:"amount"`
}

type RecipeResponse struct {
	ID               uuid.UUID        `json:"id"`
	Tags             []models.Tag     `json:"tags"`
	Author           UserResponse     `json:"author"`
	Ingredients      []IngredientLine `json:"ingredients"`
	IsFavorited      bool             `json:"is_favorited"`
	IsInShoppingCart bool             `json:"is_in_shopping_cart"`
	Name             string           `json:"name"`
	Image            string           `json:"image"`
	Text             string           `json:"text"`
	CookingTime      int              `json:"cooking_time"`
	CreatedAt        time.Time        `json:"created_at"`
}

// RecipeFlags are the per-viewer booleans of a recipe
type RecipeFlags struct {
	IsFavorited      bool
	IsInShoppingCart bool
	AuthorFollowed   bool
}

// NewRecipeResponse expects Author, Tags and Ingredients.Ingredient preloaded
func NewRecipeResponse(r *models.Recipe, flags RecipeFlags) RecipeResponse {
	lines := make([]IngredientLine, 0, len(r.Ingredients))
	for _, ri := range r.Ingredients {
		lines = append(lines, IngredientLine{
			ID:              ri.IngredientID,
			Name:            ri.Ingredient.Name,
			MeasurementUnit: ri.Ingredient.MeasurementUnit,
			Amount:          ri.Amount,
		})
	}
	tags := r.Tags
	if tags == nil {
		tags = []models.Tag{}
	}
	return RecipeResponse{
		ID:               r.ID,
		Tags:             tags,
		Author:           NewUserResponse(&r.Author, flags.AuthorFollowed),
		Ingredients:      lines,
		IsFavorited:      flags.IsFavorited,
		IsInShoppingCart: flags.IsInShoppingCart,
		Name:             r.Name,
		Image:            r.Image,
		Text:             r.Text,
		CookingTime:      r.CookingTime,
		CreatedAt:        r.CreatedAt,
	}
}

// RecipeShort is the compact recipe shown in memberships and subscriptions
type RecipeShort struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

func NewRecipeShort(r *models.Recipe) RecipeShort {
	return RecipeShort{ID: r.ID, Name: r.Name, Image: r.Image, CookingTime: r.CookingTime}
}

type SubscriptionResponse struct {
	UserResponse
	Recipes      []RecipeShort `json:"recipes"`
	RecipesCount int64         `json:"recipes_count"`
}

// MembershipResponse is returned when a recipe or author is added to a set
type MembershipResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// Paginated is the list envelope of paginated endpoints
type Paginated[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}
