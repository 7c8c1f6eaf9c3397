package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/mocks"
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/service"
)

func membershipRouter(h *RecipeHandler, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	auth := func(c *gin.Context) { c.Set(middleware.UserIDKey, userID) }
	r.POST("/recipes/:id/favorite", auth, h.AddFavorite)
	r.DELETE("/recipes/:id/favorite", auth, h.RemoveFavorite)
	return r
}

func TestAddMembershipMapsErrors(t *testing.T) {
	userID, recipeID := uuid.New(), uuid.New()

	tests := []struct {
		name       string
		addErr     error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "already exists",
			addErr:     &service.MembershipError{Kind: service.ErrAlreadyExists, Message: "recipe is already in favorites"},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"recipe is already in favorites"}`,
		},
		{
			name:       "target missing",
			addErr:     &service.MembershipError{Kind: service.ErrTargetNotFound, Message: "recipe not found"},
			wantStatus: http.StatusNotFound,
			wantBody:   `{"error":"recipe not found"}`,
		},
		{
			name:       "store failure",
			addErr:     errors.New("deadlock detected"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Internal Server Error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			favorites := new(mocks.MockMembership)
			favorites.On("AddTarget", mock.Anything, userID, recipeID).Return(tt.addErr)
			recipes := new(mocks.MockRecipeService)

			w := httptest.NewRecorder()
			r := membershipRouter(NewRecipeHandler(recipes, favorites, nil, nil), userID)
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/recipes/"+recipeID.String()+"/favorite", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
			favorites.AssertExpectations(t)
			recipes.AssertNotCalled(t, "GetShort", mock.Anything, mock.Anything)
		})
	}
}

func TestAddMembershipReturnsRecipe(t *testing.T) {
	userID := uuid.New()
	recipe := &models.Recipe{ID: uuid.New(), Name: "Bread", Image: "/media/recipes/bread.png", CookingTime: 40}

	favorites := new(mocks.MockMembership)
	favorites.On("AddTarget", mock.Anything, userID, recipe.ID).Return(nil)
	recipes := new(mocks.MockRecipeService)
	recipes.On("GetShort", mock.Anything, recipe.ID).Return(recipe, nil)

	w := httptest.NewRecorder()
	r := membershipRouter(NewRecipeHandler(recipes, favorites, nil, nil), userID)
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/recipes/"+recipe.ID.String()+"/favorite", nil))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{
		"message": "recipe added to favorites",
		"data": {"id": "`+recipe.ID.String()+`", "name": "Bread", "image": "/media/recipes/bread.png", "cooking_time": 40}
	}`, w.Body.String())
	favorites.AssertExpectations(t)
	recipes.AssertExpectations(t)
}

func TestRemoveMembership(t *testing.T) {
	userID, recipeID := uuid.New(), uuid.New()
	recipe := &models.Recipe{ID: recipeID, Name: "Bread"}

	t.Run("unknown recipe", func(t *testing.T) {
		favorites := new(mocks.MockMembership)
		recipes := new(mocks.MockRecipeService)
		recipes.On("GetShort", mock.Anything, recipeID).Return(nil, service.ErrRecipeNotFound)

		w := httptest.NewRecorder()
		membershipRouter(NewRecipeHandler(recipes, favorites, nil, nil), userID).
			ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/recipes/"+recipeID.String()+"/favorite", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		favorites.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("not a member", func(t *testing.T) {
		favorites := new(mocks.MockMembership)
		favorites.On("Remove", mock.Anything, userID, recipeID).
			Return(&service.MembershipError{Kind: service.ErrNotFound, Message: "recipe is not in favorites"})
		recipes := new(mocks.MockRecipeService)
		recipes.On("GetShort", mock.Anything, recipeID).Return(recipe, nil)

		w := httptest.NewRecorder()
		membershipRouter(NewRecipeHandler(recipes, favorites, nil, nil), userID).
			ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/recipes/"+recipeID.String()+"/favorite", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"recipe is not in favorites"}`, w.Body.String())
	})

	t.Run("removed", func(t *testing.T) {
		favorites := new(mocks.MockMembership)
		favorites.On("Remove", mock.Anything, userID, recipeID).Return(nil)
		recipes := new(mocks.MockRecipeService)
		recipes.On("GetShort", mock.Anything, recipeID).Return(recipe, nil)

		w := httptest.NewRecorder()
		membershipRouter(NewRecipeHandler(recipes, favorites, nil, nil), userID).
			ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/recipes/"+recipeID.String()+"/favorite", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		favorites.AssertExpectations(t)
	})
}

func TestMalformedIDIsNotFound(t *testing.T) {
	favorites := new(mocks.MockMembership)
	w := httptest.NewRecorder()
	membershipRouter(NewRecipeHandler(new(mocks.MockRecipeService), favorites, nil, nil), uuid.New()).
		ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/recipes/not-a-uuid/favorite", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	favorites.AssertNotCalled(t, "AddTarget", mock.Anything, mock.Anything, mock.Anything)
}
