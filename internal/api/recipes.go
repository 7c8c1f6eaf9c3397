package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/types"
)

type RecipeHandler struct {
	recipes   service.IRecipeService
	favorites service.IMembership
	cart      service.IMembership
	shopping  service.IShoppingListService
}

func NewRecipeHandler(
	recipes service.IRecipeService,
	favorites service.IMembership,
	cart service.IMembership,
	shopping service.IShoppingListService,
) *RecipeHandler {
	return &RecipeHandler{
		recipes:   recipes,
		favorites: favorites,
		cart:      cart,
		shopping:  shopping,
	}
}

// RecipeLimits are extra middlewares for the throttled endpoints
type RecipeLimits struct {
	Create   gin.HandlerFunc
	Download gin.HandlerFunc
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup, optional, required gin.HandlersChain, limits RecipeLimits) {
	createChain := required
	if limits.Create != nil {
		createChain = with(required, limits.Create)
	}
	downloadChain := required
	if limits.Download != nil {
		downloadChain = with(required, limits.Download)
	}

	recipes := router.Group("/recipes")
	{
		recipes.GET("", with(optional, h.List)...)
		recipes.POST("", with(createChain, h.Create)...)
		recipes.GET("/download_shopping_cart", with(downloadChain, h.DownloadShoppingCart)...)
		recipes.GET("/:id", with(optional, h.Get)...)
		recipes.PATCH("/:id", with(required, h.Update)...)
		recipes.DELETE("/:id", with(required, h.Delete)...)
		recipes.POST("/:id/favorite", with(required, h.AddFavorite)...)
		recipes.DELETE("/:id/favorite", with(required, h.RemoveFavorite)...)
		recipes.POST("/:id/shopping_cart", with(required, h.AddToCart)...)
		recipes.DELETE("/:id/shopping_cart", with(required, h.RemoveFromCart)...)
	}
}

// List serves GET /recipes with its tag, author and membership filters
func (h *RecipeHandler) List(c *gin.Context) {
	page, err := parsePage(c)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	filter := types.RecipeFilter{Tags: c.QueryArray("tags"), Page: page}
	if raw := c.Query("author"); raw != "" {
		author, err := uuid.Parse(raw)
		if err != nil {
			respondBadRequest(c, "invalid author")
			return
		}
		filter.AuthorID = &author
	}
	if filter.IsFavorited, err = parseFlag(c.Query("is_favorited")); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if filter.IsInShoppingCart, err = parseFlag(c.Query("is_in_shopping_cart")); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	viewerID := middleware.UserID(c)
	recipes, total, err := h.recipes.List(c.Request.Context(), viewerID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	results, err := h.present(c, viewerID, recipes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginate(c, page, total, results))
}

func (h *RecipeHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	recipe, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondRecipe(c, http.StatusOK, recipe)
}

func (h *RecipeHandler) Create(c *gin.Context) {
	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	recipe, err := h.recipes.Create(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondRecipe(c, http.StatusCreated, recipe)
}

// Update replaces the recipe wholesale; an omitted image keeps the old one
func (h *RecipeHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	recipe, err := h.recipes.Update(c.Request.Context(), middleware.UserID(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondRecipe(c, http.StatusOK, recipe)
}

func (h *RecipeHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.recipes.Delete(c.Request.Context(), middleware.UserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) AddFavorite(c *gin.Context) {
	h.addMembership(c, h.favorites, "recipe added to favorites")
}

func (h *RecipeHandler) RemoveFavorite(c *gin.Context) {
	h.removeMembership(c, h.favorites)
}

func (h *RecipeHandler) AddToCart(c *gin.Context) {
	h.addMembership(c, h.cart, "recipe added to the shopping cart")
}

func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	h.removeMembership(c, h.cart)
}

// DownloadShoppingCart sends the caller's aggregated list as a text file
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	text, err := h.shopping.Render(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+service.ShoppingListFilename)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}

func (h *RecipeHandler) addMembership(c *gin.Context, set service.IMembership, message string) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := set.AddTarget(c.Request.Context(), middleware.UserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	recipe, err := h.recipes.GetShort(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, types.MembershipResponse{
		Message: message,
		Data:    types.NewRecipeShort(recipe),
	})
}

// removeMembership answers 404 for an unknown recipe and 400 when the
// recipe exists but is not in the set
func (h *RecipeHandler) removeMembership(c *gin.Context, set service.IMembership) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if _, err := h.recipes.GetShort(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	if err := set.Remove(c.Request.Context(), middleware.UserID(c), id); err != nil {
		respondRemoveError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) respondRecipe(c *gin.Context, status int, recipe *models.Recipe) {
	results, err := h.present(c, middleware.UserID(c), []models.Recipe{*recipe})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, results[0])
}

func (h *RecipeHandler) present(c *gin.Context, viewerID uuid.UUID, recipes []models.Recipe) ([]types.RecipeResponse, error) {
	flags, err := h.recipes.Flags(c.Request.Context(), viewerID, recipes)
	if err != nil {
		return nil, err
	}
	out := make([]types.RecipeResponse, 0, len(recipes))
	for i := range recipes {
		out = append(out, types.NewRecipeResponse(&recipes[i], flags[recipes[i].ID]))
	}
	return out, nil
}
