package service_test

import (
	"testing"

	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/testhelpers"
)

// 1x1 transparent png
const pngDataURI = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

type services struct {
	db        *gorm.DB
	mediaRoot string
	favorites *service.MembershipSet[models.Favorite]
	cart      *service.MembershipSet[models.ShoppingListEntry]
	follows   *service.MembershipSet[models.Follow]
	recipes   *service.RecipeService
	users     *service.UserService
	shopping  *service.ShoppingListService
}

func newServices(t *testing.T) *services {
	t.Helper()
	db := testhelpers.SetupTestDatabase(t)
	root := t.TempDir()
	images := service.NewImageService(service.NewLocalImageStore(root, "/media/"))

	s := &services{
		db:        db,
		mediaRoot: root,
		favorites: service.NewFavorites(db),
		cart:      service.NewShoppingCart(db),
		follows:   service.NewFollows(db),
	}
	s.recipes = service.NewRecipeService(db, images, s.favorites, s.cart, s.follows)
	s.users = service.NewUserService(db, s.follows)
	s.shopping = service.NewShoppingListService(db, s.cart)
	return s
}
