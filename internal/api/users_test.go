package api_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/testhelpers"
	"github.com/foodgram/backend/internal/types"
)

func TestSubscribeFlow(t *testing.T) {
	s := newTestServer(t)
	alice := testhelpers.CreateUser(t, s.db, "alice")
	bob := testhelpers.CreateUser(t, s.db, "bob")
	flour := testhelpers.CreateIngredient(t, s.db, "Flour", "g")
	for _, name := range []string{"Bread", "Cake"} {
		testhelpers.CreateRecipe(t, s.db, alice, name, nil, testhelpers.Line{Ingredient: flour, Amount: 1})
	}
	path := "/api/v1/users/" + alice.ID.String() + "/subscribe"

	assertStatus(t, s.do(http.MethodPost, "/api/v1/users/"+bob.ID.String()+"/subscribe", bob, nil), http.StatusBadRequest)

	w := s.do(http.MethodPost, path+"?recipes_limit=1", bob, nil)
	assertStatus(t, w, http.StatusCreated)
	resp := decode[struct {
		Data types.SubscriptionResponse `json:"data"`
	}](t, w)
	assert.True(t, resp.Data.IsSubscribed)
	assert.Equal(t, int64(2), resp.Data.RecipesCount)
	assert.Len(t, resp.Data.Recipes, 1)

	assertStatus(t, s.do(http.MethodPost, path, bob, nil), http.StatusBadRequest)

	w = s.do(http.MethodGet, "/api/v1/users/"+alice.ID.String(), bob, nil)
	assertStatus(t, w, http.StatusOK)
	assert.True(t, decode[types.UserResponse](t, w).IsSubscribed)

	w = s.do(http.MethodGet, "/api/v1/users/subscriptions", bob, nil)
	assertStatus(t, w, http.StatusOK)
	subs := decode[types.Paginated[types.SubscriptionResponse]](t, w)
	require.Len(t, subs.Results, 1)
	assert.Equal(t, "alice", subs.Results[0].Username)
	assert.Len(t, subs.Results[0].Recipes, 2)

	assertStatus(t, s.do(http.MethodDelete, path, bob, nil), http.StatusNoContent)
	assertStatus(t, s.do(http.MethodDelete, path, bob, nil), http.StatusBadRequest)
	assertStatus(t, s.do(http.MethodDelete, "/api/v1/users/"+uuid.NewString()+"/subscribe", bob, nil), http.StatusNotFound)
}

func TestUserListAndSetPassword(t *testing.T) {
	s := newTestServer(t)
	alice := testhelpers.CreateUser(t, s.db, "alice")
	testhelpers.CreateUser(t, s.db, "bob")

	w := s.do(http.MethodGet, "/api/v1/users?search=al", nil, nil)
	assertStatus(t, w, http.StatusOK)
	users := decode[types.Paginated[types.UserResponse]](t, w)
	assert.Equal(t, int64(1), users.Count)

	w = s.do(http.MethodPost, "/api/v1/users/set_password", alice, map[string]string{
		"current_password": "wrong-one",
		"new_password":     "brand-new-pass",
	})
	assertStatus(t, w, http.StatusBadRequest)

	w = s.do(http.MethodPost, "/api/v1/users/set_password", alice, map[string]string{
		"current_password": testhelpers.TestPassword,
		"new_password":     "brand-new-pass",
	})
	assertStatus(t, w, http.StatusNoContent)

	w = s.do(http.MethodPost, "/api/v1/auth/login", nil, map[string]string{
		"email":    alice.Email,
		"password": "brand-new-pass",
	})
	assertStatus(t, w, http.StatusOK)
}

func TestDeletedUserTokenRejected(t *testing.T) {
	s := newTestServer(t)
	alice := testhelpers.CreateUser(t, s.db, "alice")
	token := s.token(alice)
	require.NoError(t, s.db.Delete(&models.User{}, "id = ?", alice.ID).Error)

	req := newRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	assertStatus(t, serve(s, req), http.StatusUnauthorized)
}

func TestCatalogEndpoints(t *testing.T) {
	s := newTestServer(t)
	tag := testhelpers.CreateTag(t, s.db, "lunch")
	testhelpers.CreateIngredient(t, s.db, "Flour", "g")
	testhelpers.CreateIngredient(t, s.db, "Sugar", "g")

	w := s.do(http.MethodGet, "/api/v1/tags", nil, nil)
	assertStatus(t, w, http.StatusOK)
	assert.Len(t, decode[[]models.Tag](t, w), 1)

	assertStatus(t, s.do(http.MethodGet, "/api/v1/tags/"+tag.ID.String(), nil, nil), http.StatusOK)
	assertStatus(t, s.do(http.MethodGet, "/api/v1/tags/"+uuid.NewString(), nil, nil), http.StatusNotFound)

	w = s.do(http.MethodGet, "/api/v1/ingredients?name=FL", nil, nil)
	assertStatus(t, w, http.StatusOK)
	found := decode[[]models.Ingredient](t, w)
	require.Len(t, found, 1)
	assert.Equal(t, "Flour", found[0].Name)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/v1/health", nil, nil)
	assertStatus(t, w, http.StatusOK)
	assert.JSONEq(t, `{"status":"ok","database":"up"}`, w.Body.String())

	w = s.do(http.MethodGet, "/metrics", nil, nil)
	assertStatus(t, w, http.StatusOK)
	assert.Contains(t, w.Body.String(), "foodgram_http_requests_total")
}
