package types

import (
	"github.com/google/uuid"
)

// RegisterRequest represents the request body for creating an account
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	Username  string `json:"username" binding:"required,max=150"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required,min=8,max=150"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type SetPasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=150"`
}

// IngredientAmount is one requested recipe line. Amount is checked by the
// composition validator rather than by binding so the error stays specific.
type IngredientAmount struct {
	ID     uuid.UUID `json:"id"`
	Amount int       `json:"amount"`
}

// RecipeRequest is the body of recipe create and update. Image is a base64
// data URI; on update an empty image keeps the current one.
type RecipeRequest struct {
	Ingredients []IngredientAmount `json:"ingredients"`
	Tags        []uuid.UUID        `json:"tags"`
	Image       string             `json:"image"`
	Name        string             `json:"name" binding:"required,max=200"`
	Text        string             `json:"text" binding:"required"`
	CookingTime int                `json:"cooking_time"`
}

// RecipeFilter holds the list query of GET /recipes
type RecipeFilter struct {
	Tags             []string
	AuthorID         *uuid.UUID
	IsFavorited      *bool
	IsInShoppingCart *bool
	Page             Page
}

// Page is a 1-based page request
type Page struct {
	Number int
	Limit  int
}

// Offset of the first row of the page
func (p Page) Offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.Limit
}
