package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/types"
)

type UserHandler struct {
	users service.IUserService
	auth  service.IAuthService
}

func NewUserHandler(users service.IUserService, auth service.IAuthService) *UserHandler {
	return &UserHandler{users: users, auth: auth}
}

// RegisterRoutes mounts /users. optional identifies callers on public reads,
// required guards writes.
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup, optional, required gin.HandlersChain) {
	users := router.Group("/users")
	{
		users.GET("", with(optional, h.List)...)
		users.GET("/me", with(required, h.Me)...)
		users.GET("/subscriptions", with(required, h.Subscriptions)...)
		users.POST("/set_password", with(required, h.SetPassword)...)
		users.GET("/:id", with(optional, h.Get)...)
		users.POST("/:id/subscribe", with(required, h.Subscribe)...)
		users.DELETE("/:id/subscribe", with(required, h.Unsubscribe)...)
	}
}

func (h *UserHandler) List(c *gin.Context) {
	page, err := parsePage(c)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	users, total, err := h.users.List(c.Request.Context(), middleware.UserID(c), c.Query("search"), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginate(c, page, total, users))
}

func (h *UserHandler) Me(c *gin.Context) {
	userID := middleware.UserID(c)
	user, err := h.users.Get(c.Request.Context(), userID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	user, err := h.users.Get(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) SetPassword(c *gin.Context) {
	var req types.SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	err := h.auth.SetPassword(c.Request.Context(), middleware.UserID(c), req.CurrentPassword, req.NewPassword)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Subscriptions lists followed authors with their newest recipes
func (h *UserHandler) Subscriptions(c *gin.Context) {
	page, err := parsePage(c)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	limit, ok := recipesLimit(c)
	if !ok {
		return
	}
	subs, total, err := h.users.Subscriptions(c.Request.Context(), middleware.UserID(c), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginate(c, page, total, subs))
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	limit, ok := recipesLimit(c)
	if !ok {
		return
	}
	card, err := h.users.Subscribe(c.Request.Context(), middleware.UserID(c), id, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, types.MembershipResponse{
		Message: "subscribed to " + card.Username,
		Data:    card,
	})
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.users.Unsubscribe(c.Request.Context(), middleware.UserID(c), id); err != nil {
		respondRemoveError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// recipesLimit reads ?recipes_limit=, -1 meaning all
func recipesLimit(c *gin.Context) (int, bool) {
	raw := c.Query("recipes_limit")
	if raw == "" {
		return -1, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		respondBadRequest(c, "invalid recipes_limit")
		return 0, false
	}
	return n, true
}
