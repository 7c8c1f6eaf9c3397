package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/log"
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
)

type RecipeService struct {
	db        *gorm.DB
	images    *ImageService
	favorites *MembershipSet[models.Favorite]
	cart      *MembershipSet[models.ShoppingListEntry]
	follows   *MembershipSet[models.Follow]
}

func NewRecipeService(
	db *gorm.DB,
	images *ImageService,
	favorites *MembershipSet[models.Favorite],
	cart *MembershipSet[models.ShoppingListEntry],
	follows *MembershipSet[models.Follow],
) *RecipeService {
	return &RecipeService{
		db:        db,
		images:    images,
		favorites: favorites,
		cart:      cart,
		follows:   follows,
	}
}

// Create stores a recipe with its tags and ingredient lines atomically.
// The request is fully validated before anything is written.
func (s *RecipeService) Create(ctx context.Context, authorID uuid.UUID, req *types.RecipeRequest) (*models.Recipe, error) {
	lines, err := validateRecipeRequest(req)
	if err != nil {
		return nil, err
	}
	if req.Image == "" {
		return nil, ErrInvalidImage
	}
	image, err := s.images.Upload(ctx, req.Image)
	if err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		AuthorID:    authorID,
		Name:        req.Name,
		Image:       image.URL,
		Text:        req.Text,
		CookingTime: req.CookingTime,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := loadTags(tx, req.Tags)
		if err != nil {
			return err
		}
		if err := ensureIngredients(tx, lines); err != nil {
			return err
		}
		recipe.Tags = tags
		recipe.Ingredients = buildLines(uuid.Nil, lines)
		return tx.Omit("Tags.*").Create(recipe).Error
	})
	if err != nil {
		s.images.Discard(ctx, image)
		return nil, translateRecipeError(err)
	}

	log.Info(ctx, "recipe created", "recipe_id", recipe.ID, "author_id", authorID)
	return s.Get(ctx, recipe.ID)
}

// Update replaces the recipe's fields, its whole ingredient-line set and its
// tags in one transaction. Only the author may update.
func (s *RecipeService) Update(ctx context.Context, actorID, recipeID uuid.UUID, req *types.RecipeRequest) (*models.Recipe, error) {
	existing, err := s.authorize(ctx, actorID, recipeID)
	if err != nil {
		return nil, err
	}
	lines, err := validateRecipeRequest(req)
	if err != nil {
		return nil, err
	}

	imageURL := existing.Image
	var image *StoredImage
	if req.Image != "" {
		if image, err = s.images.Upload(ctx, req.Image); err != nil {
			return nil, err
		}
		imageURL = image.URL
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := loadTags(tx, req.Tags)
		if err != nil {
			return err
		}
		if err := ensureIngredients(tx, lines); err != nil {
			return err
		}

		res := tx.Model(&models.Recipe{}).Where("id = ?", recipeID).Updates(map[string]interface{}{
			"name":         req.Name,
			"text":         req.Text,
			"cooking_time": req.CookingTime,
			"image":        imageURL,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRecipeNotFound
		}

		// clear then insert, never merge
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		newLines := buildLines(recipeID, lines)
		if err := tx.Create(&newLines).Error; err != nil {
			return err
		}

		return tx.Model(existing).Association("Tags").Replace(tags)
	})
	if err != nil {
		s.images.Discard(ctx, image)
		return nil, translateRecipeError(err)
	}

	log.Info(ctx, "recipe updated", "recipe_id", recipeID)
	return s.Get(ctx, recipeID)
}

// Delete removes the recipe. Lines, favorites, cart entries and tag links go
// with it. Only the author may delete.
func (s *RecipeService) Delete(ctx context.Context, actorID, recipeID uuid.UUID) error {
	recipe, err := s.authorize(ctx, actorID, recipeID)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		res := tx.Delete(&models.Recipe{}, "id = ?", recipeID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRecipeNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrRecipeNotFound) {
			return err
		}
		return fmt.Errorf("delete recipe: %w", err)
	}
	log.Info(ctx, "recipe deleted", "recipe_id", recipeID)
	return nil
}

// Get loads one recipe with author, tags and ingredient lines
func (s *RecipeService) Get(ctx context.Context, recipeID uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := withRecipeDetails(s.db.WithContext(ctx)).First(&recipe, "id = ?", recipeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecipeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	return &recipe, nil
}

// GetShort loads a recipe without its associations
func (s *RecipeService) GetShort(ctx context.Context, recipeID uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecipeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	return &recipe, nil
}

// List returns one page of recipes, newest first, and the total match count.
// viewerID is uuid.Nil for anonymous callers; membership filters then match
// nothing when true and everything when false.
func (s *RecipeService) List(ctx context.Context, viewerID uuid.UUID, filter types.RecipeFilter) ([]models.Recipe, int64, error) {
	db := s.db.WithContext(ctx)
	filtered := func() *gorm.DB {
		return s.applyFilters(db.Model(&models.Recipe{}), viewerID, filter)
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count recipes: %w", err)
	}

	var recipes []models.Recipe
	err := withRecipeDetails(filtered()).
		Order("recipes.created_at DESC").
		Order("recipes.id").
		Offset(filter.Page.Offset()).
		Limit(filter.Page.Limit).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list recipes: %w", err)
	}
	return recipes, total, nil
}

// Flags computes the viewer-specific booleans for a page of recipes
func (s *RecipeService) Flags(ctx context.Context, viewerID uuid.UUID, recipes []models.Recipe) (map[uuid.UUID]types.RecipeFlags, error) {
	flags := make(map[uuid.UUID]types.RecipeFlags, len(recipes))
	if viewerID == uuid.Nil || len(recipes) == 0 {
		return flags, nil
	}

	recipeIDs := make([]uuid.UUID, 0, len(recipes))
	authorIDs := make([]uuid.UUID, 0, len(recipes))
	for _, r := range recipes {
		recipeIDs = append(recipeIDs, r.ID)
		authorIDs = append(authorIDs, r.AuthorID)
	}

	favorited, err := s.favorites.Contains(ctx, viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	inCart, err := s.cart.Contains(ctx, viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	followed, err := s.follows.Contains(ctx, viewerID, authorIDs)
	if err != nil {
		return nil, err
	}

	for _, r := range recipes {
		flags[r.ID] = types.RecipeFlags{
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			AuthorFollowed:   followed[r.AuthorID],
		}
	}
	return flags, nil
}

func (s *RecipeService) applyFilters(q *gorm.DB, viewerID uuid.UUID, filter types.RecipeFilter) *gorm.DB {
	if len(filter.Tags) > 0 {
		tagged := q.Session(&gorm.Session{NewDB: true}).
			Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.Tags)
		q = q.Where("recipes.id IN (?)", tagged)
	}
	if filter.AuthorID != nil {
		q = q.Where("recipes.author_id = ?", *filter.AuthorID)
	}
	q = membershipFilter(q, filter.IsFavorited, viewerID, func(tx *gorm.DB) *gorm.DB {
		return s.favorites.TargetSubquery(tx, viewerID)
	})
	q = membershipFilter(q, filter.IsInShoppingCart, viewerID, func(tx *gorm.DB) *gorm.DB {
		return s.cart.TargetSubquery(tx, viewerID)
	})
	return q
}

func membershipFilter(q *gorm.DB, want *bool, viewerID uuid.UUID, subquery func(*gorm.DB) *gorm.DB) *gorm.DB {
	if want == nil {
		return q
	}
	if viewerID == uuid.Nil {
		if *want {
			return q.Where("1 = 0")
		}
		return q
	}
	if *want {
		return q.Where("recipes.id IN (?)", subquery(q))
	}
	return q.Where("recipes.id NOT IN (?)", subquery(q))
}

// authorize loads the recipe and checks the actor wrote it
func (s *RecipeService) authorize(ctx context.Context, actorID, recipeID uuid.UUID) (*models.Recipe, error) {
	recipe, err := s.GetShort(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if recipe.AuthorID != actorID {
		return nil, ErrForbidden
	}
	return recipe, nil
}

func withRecipeDetails(q *gorm.DB) *gorm.DB {
	return q.Preload("Author").
		Preload("Tags", func(tx *gorm.DB) *gorm.DB { return tx.Order("tags.name") }).
		Preload("Ingredients.Ingredient")
}

func validateRecipeRequest(req *types.RecipeRequest) ([]types.IngredientAmount, error) {
	lines, err := ValidateComposition(req.Ingredients)
	if err != nil {
		return nil, err
	}
	if err := validateTags(req.Tags); err != nil {
		return nil, err
	}
	if req.CookingTime <= 0 {
		return nil, ErrInvalidCookingTime
	}
	return lines, nil
}

func loadTags(tx *gorm.DB, ids []uuid.UUID) ([]models.Tag, error) {
	var tags []models.Tag
	if err := tx.Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	if len(tags) != len(ids) {
		return nil, ErrTagNotFound
	}
	return tags, nil
}

func ensureIngredients(tx *gorm.DB, lines []types.IngredientAmount) error {
	ids := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ID)
	}
	var n int64
	if err := tx.Model(&models.Ingredient{}).Where("id IN ?", ids).Count(&n).Error; err != nil {
		return err
	}
	if int(n) != len(ids) {
		return ErrIngredientNotFound
	}
	return nil
}

func buildLines(recipeID uuid.UUID, lines []types.IngredientAmount) []models.RecipeIngredient {
	out := make([]models.RecipeIngredient, 0, len(lines))
	for _, l := range lines {
		out = append(out, models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: l.ID,
			Amount:       l.Amount,
		})
	}
	return out
}

// translateRecipeError keeps storage constraint errors from leaking raw
func translateRecipeError(err error) error {
	switch {
	case errors.Is(err, ErrTagNotFound), errors.Is(err, ErrIngredientNotFound), errors.Is(err, ErrRecipeNotFound):
		return err
	case database.IsUniqueViolation(err):
		return ErrDuplicateIngredient
	case database.IsCheckViolation(err):
		return ErrInvalidAmount
	case database.IsForeignKeyViolation(err):
		return ErrRecipeNotFound
	default:
		return fmt.Errorf("save recipe: %w", err)
	}
}
