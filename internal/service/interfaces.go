package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	SetPassword(ctx context.Context, userID uuid.UUID, current, next string) error
	GenerateToken(user *models.User) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
}

// IUserService defines user lookups and subscriptions
type IUserService interface {
	Get(ctx context.Context, viewerID, userID uuid.UUID) (*types.UserResponse, error)
	List(ctx context.Context, viewerID uuid.UUID, search string, page types.Page) ([]types.UserResponse, int64, error)
	Subscribe(ctx context.Context, userID, authorID uuid.UUID, recipesLimit int) (*types.SubscriptionResponse, error)
	Unsubscribe(ctx context.Context, userID, authorID uuid.UUID) error
	Subscriptions(ctx context.Context, userID uuid.UUID, page types.Page, recipesLimit int) ([]types.SubscriptionResponse, int64, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	Create(ctx context.Context, authorID uuid.UUID, req *types.RecipeRequest) (*models.Recipe, error)
	Update(ctx context.Context, actorID, recipeID uuid.UUID, req *types.RecipeRequest) (*models.Recipe, error)
	Delete(ctx context.Context, actorID, recipeID uuid.UUID) error
	Get(ctx context.Context, recipeID uuid.UUID) (*models.Recipe, error)
	GetShort(ctx context.Context, recipeID uuid.UUID) (*models.Recipe, error)
	List(ctx context.Context, viewerID uuid.UUID, filter types.RecipeFilter) ([]models.Recipe, int64, error)
	Flags(ctx context.Context, viewerID uuid.UUID, recipes []models.Recipe) (map[uuid.UUID]types.RecipeFlags, error)
}

// IMembership is the row-type independent view of a MembershipSet
type IMembership interface {
	Name() string
	AddTarget(ctx context.Context, userID, targetID uuid.UUID) error
	Remove(ctx context.Context, userID, targetID uuid.UUID) error
	Exists(ctx context.Context, userID, targetID uuid.UUID) (bool, error)
}

// IShoppingListService renders a user's aggregated shopping list
type IShoppingListService interface {
	BuildReport(ctx context.Context, userID uuid.UUID) ([]ShoppingListItem, error)
	Render(ctx context.Context, userID uuid.UUID) (string, error)
}

type ITagService interface {
	List(ctx context.Context) ([]models.Tag, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Tag, error)
}

type IIngredientService interface {
	List(ctx context.Context, name string) ([]models.Ingredient, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Ingredient, error)
}

var (
	_ IAuthService         = (*AuthService)(nil)
	_ IUserService         = (*UserService)(nil)
	_ IRecipeService       = (*RecipeService)(nil)
	_ IShoppingListService = (*ShoppingListService)(nil)
	_ ITagService          = (*TagService)(nil)
	_ IIngredientService   = (*IngredientService)(nil)
	_ IMembership          = (*MembershipSet[models.Favorite])(nil)
	_ IMembership          = (*MembershipSet[models.ShoppingListEntry])(nil)
	_ IMembership          = (*MembershipSet[models.Follow])(nil)
)
