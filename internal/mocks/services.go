// Package mocks holds testify mocks of the service interfaces, for handler
// tests that need to force a service outcome.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/types"
)

// MockAuthService is a mock implementation of service.IAuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req *types.RegisterRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) SetPassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	return m.Called(ctx, userID, current, next).Error(0)
}

func (m *MockAuthService) GenerateToken(user *models.User) (string, error) {
	args := m.Called(user)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ValidateToken(token string) (*types.TokenClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TokenClaims), args.Error(1)
}

// MockUserService is a mock implementation of service.IUserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Get(ctx context.Context, viewerID, userID uuid.UUID) (*types.UserResponse, error) {
	args := m.Called(ctx, viewerID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserResponse), args.Error(1)
}

func (m *MockUserService) List(ctx context.Context, viewerID uuid.UUID, search string, page types.Page) ([]types.UserResponse, int64, error) {
	args := m.Called(ctx, viewerID, search, page)
	users, _ := args.Get(0).([]types.UserResponse)
	return users, args.Get(1).(int64), args.Error(2)
}

func (m *MockUserService) Subscribe(ctx context.Context, userID, authorID uuid.UUID, recipesLimit int) (*types.SubscriptionResponse, error) {
	args := m.Called(ctx, userID, authorID, recipesLimit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.SubscriptionResponse), args.Error(1)
}

func (m *MockUserService) Unsubscribe(ctx context.Context, userID, authorID uuid.UUID) error {
	return m.Called(ctx, userID, authorID).Error(0)
}

func (m *MockUserService) Subscriptions(ctx context.Context, userID uuid.UUID, page types.Page, recipesLimit int) ([]types.SubscriptionResponse, int64, error) {
	args := m.Called(ctx, userID, page, recipesLimit)
	subs, _ := args.Get(0).([]types.SubscriptionResponse)
	return subs, args.Get(1).(int64), args.Error(2)
}

// MockRecipeService is a mock implementation of service.IRecipeService
type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) Create(ctx context.Context, authorID uuid.UUID, req *types.RecipeRequest) (*models.Recipe, error) {
	args := m.Called(ctx, authorID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) Update(ctx context.Context, actorID, recipeID uuid.UUID, req *types.RecipeRequest) (*models.Recipe, error) {
	args := m.Called(ctx, actorID, recipeID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) Delete(ctx context.Context, actorID, recipeID uuid.UUID) error {
	return m.Called(ctx, actorID, recipeID).Error(0)
}

func (m *MockRecipeService) Get(ctx context.Context, recipeID uuid.UUID) (*models.Recipe, error) {
	args := m.Called(ctx, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) GetShort(ctx context.Context, recipeID uuid.UUID) (*models.Recipe, error) {
	args := m.Called(ctx, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) List(ctx context.Context, viewerID uuid.UUID, filter types.RecipeFilter) ([]models.Recipe, int64, error) {
	args := m.Called(ctx, viewerID, filter)
	recipes, _ := args.Get(0).([]models.Recipe)
	return recipes, args.Get(1).(int64), args.Error(2)
}

func (m *MockRecipeService) Flags(ctx context.Context, viewerID uuid.UUID, recipes []models.Recipe) (map[uuid.UUID]types.RecipeFlags, error) {
	args := m.Called(ctx, viewerID, recipes)
	flags, _ := args.Get(0).(map[uuid.UUID]types.RecipeFlags)
	return flags, args.Error(1)
}

// MockMembership is a mock implementation of service.IMembership
type MockMembership struct {
	mock.Mock
}

func (m *MockMembership) Name() string {
	return m.Called().String(0)
}

func (m *MockMembership) AddTarget(ctx context.Context, userID, targetID uuid.UUID) error {
	return m.Called(ctx, userID, targetID).Error(0)
}

func (m *MockMembership) Remove(ctx context.Context, userID, targetID uuid.UUID) error {
	return m.Called(ctx, userID, targetID).Error(0)
}

func (m *MockMembership) Exists(ctx context.Context, userID, targetID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, targetID)
	return args.Bool(0), args.Error(1)
}

// MockShoppingListService is a mock implementation of service.IShoppingListService
type MockShoppingListService struct {
	mock.Mock
}

func (m *MockShoppingListService) BuildReport(ctx context.Context, userID uuid.UUID) ([]service.ShoppingListItem, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]service.ShoppingListItem)
	return items, args.Error(1)
}

func (m *MockShoppingListService) Render(ctx context.Context, userID uuid.UUID) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

var (
	_ service.IAuthService         = (*MockAuthService)(nil)
	_ service.IUserService         = (*MockUserService)(nil)
	_ service.IRecipeService       = (*MockRecipeService)(nil)
	_ service.IMembership          = (*MockMembership)(nil)
	_ service.IShoppingListService = (*MockShoppingListService)(nil)
)
