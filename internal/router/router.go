package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/api"
	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/service"
)

// Dependencies are the external resources the routes are built on. Redis is
// optional; without it nothing is rate limited.
type Dependencies struct {
	Config *config.Config
	DB     *gorm.DB
	Redis  *redis.Client
	Images service.ImageStore
}

// SetupRouter wires services and handlers and configures the application routes
func SetupRouter(deps Dependencies) *gin.Engine {
	cfg, db := deps.Config, deps.DB

	favorites := service.NewFavorites(db)
	cart := service.NewShoppingCart(db)
	follows := service.NewFollows(db)

	authService := service.NewAuthService(db, cfg.JWTSecret, cfg.JWTTTL)
	userService := service.NewUserService(db, follows)
	recipeService := service.NewRecipeService(db, service.NewImageService(deps.Images), favorites, cart, follows)
	shoppingService := service.NewShoppingListService(db, cart)

	router := gin.New()
	router.Use(
		middleware.Recovery(),
		middleware.RequestLogger(),
		middleware.Metrics(),
		middleware.CORS(cfg.CORSOrigins),
	)

	if local, ok := deps.Images.(*service.LocalImageStore); ok {
		router.Static("/media", local.Root())
	}
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	health := api.NewHealthHandler(db)
	router.GET("/health", health.Health)

	optional := gin.HandlersChain{middleware.OptionalAuth(authService), middleware.RequireActiveUser(db)}
	required := gin.HandlersChain{middleware.AuthMiddleware(authService), middleware.RequireActiveUser(db)}

	v1 := router.Group("/api/v1")
	v1.GET("/health", health.Health)

	api.NewAuthHandler(authService).RegisterRoutes(v1)
	api.NewUserHandler(userService, authService).RegisterRoutes(v1, optional, required)
	api.NewCatalogHandler(service.NewTagService(db), service.NewIngredientService(db)).RegisterRoutes(v1)
	api.NewRecipeHandler(recipeService, favorites, cart, shoppingService).RegisterRoutes(v1, optional, required, api.RecipeLimits{
		Create:   middleware.NewRecipeCreationRateLimiter(deps.Redis, cfg.RecipeCreateLimit).RateLimitMiddleware(),
		Download: middleware.NewDownloadRateLimiter(deps.Redis, cfg.DownloadLimit).RateLimitMiddleware(),
	})

	return router
}
