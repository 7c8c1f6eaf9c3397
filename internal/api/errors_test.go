package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/mocks"
	"github.com/foodgram/backend/internal/service"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{service.ErrAlreadyExists, http.StatusBadRequest},
		{&service.MembershipError{Kind: service.ErrSelfReference, Message: "cannot subscribe to yourself"}, http.StatusBadRequest},
		{service.ErrDuplicateIngredient, http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", service.ErrRecipeNotFound), http.StatusNotFound},
		{&service.MembershipError{Kind: service.ErrTargetNotFound, Message: "recipe not found"}, http.StatusNotFound},
		{service.ErrInvalidToken, http.StatusUnauthorized},
		{service.ErrForbidden, http.StatusForbidden},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusOf(tt.err), tt.err.Error())
	}
}

func TestDownloadHidesInternalErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()
	shopping := new(mocks.MockShoppingListService)
	shopping.On("Render", mock.Anything, userID).Return("", errors.New("pq: relation does not exist"))

	h := NewRecipeHandler(nil, nil, nil, shopping)
	r := gin.New()
	r.GET("/download", func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
	}, h.DownloadShoppingCart)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/download", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, w.Body.String())
	shopping.AssertExpectations(t)
}
