package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
)

var (
	slugPattern  = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
	colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

// likeEscaper escapes LIKE wildcards with '!'. A backslash would itself
// need escaping inside mysql string literals.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// prefixMatch filters column to values starting with prefix, case-insensitively
// and with prefix taken literally.
func prefixMatch(q *gorm.DB, column, prefix string) *gorm.DB {
	pattern := likeEscaper.Replace(strings.ToLower(prefix)) + "%"
	return q.Where("LOWER("+column+") LIKE ? ESCAPE '!'", pattern)
}

type TagService struct {
	db *gorm.DB
}

func NewTagService(db *gorm.DB) *TagService {
	return &TagService{db: db}
}

// List returns every tag ordered by name
func (s *TagService) List(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Order("name").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

func (s *TagService) Get(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	var tag models.Tag
	err := s.db.WithContext(ctx).First(&tag, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTagNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get tag: %w", err)
	}
	return &tag, nil
}

// Ensure creates the tag unless one with the same slug exists. Returns the
// stored tag and whether it was created.
func (s *TagService) Ensure(ctx context.Context, name, color, slug string) (*models.Tag, bool, error) {
	if !slugPattern.MatchString(slug) {
		return nil, false, ErrInvalidSlug
	}
	if color == "" {
		color = "#ffffff"
	}
	if !colorPattern.MatchString(color) {
		return nil, false, fmt.Errorf("invalid color %q", color)
	}

	var tag models.Tag
	err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&tag).Error
	if err == nil {
		return &tag, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("ensure tag %s: %w", slug, err)
	}

	tag = models.Tag{Name: name, Color: strings.ToLower(color), Slug: slug}
	if err := s.db.WithContext(ctx).Create(&tag).Error; err != nil {
		return nil, false, fmt.Errorf("ensure tag %s: %w", slug, err)
	}
	return &tag, true, nil
}

type IngredientService struct {
	db *gorm.DB
}

func NewIngredientService(db *gorm.DB) *IngredientService {
	return &IngredientService{db: db}
}

// List returns ingredients ordered by name. A non-empty name keeps only
// those starting with it, case-insensitively.
func (s *IngredientService) List(ctx context.Context, name string) ([]models.Ingredient, error) {
	q := s.db.WithContext(ctx).Order("name")
	if name = strings.TrimSpace(name); name != "" {
		q = prefixMatch(q, "name", name)
	}
	var ingredients []models.Ingredient
	if err := q.Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	return ingredients, nil
}

func (s *IngredientService) Get(ctx context.Context, id uuid.UUID) (*models.Ingredient, error) {
	var ing models.Ingredient
	err := s.db.WithContext(ctx).First(&ing, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrIngredientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get ingredient: %w", err)
	}
	return &ing, nil
}

// GetOrCreate finds the ingredient by name and unit or inserts it
func (s *IngredientService) GetOrCreate(ctx context.Context, name, unit string) (*models.Ingredient, bool, error) {
	name, unit = strings.TrimSpace(name), strings.TrimSpace(unit)
	if name == "" || unit == "" {
		return nil, false, errors.New("ingredient name and unit are required")
	}
	var ing models.Ingredient
	err := s.db.WithContext(ctx).Where("name = ? AND measurement_unit = ?", name, unit).First(&ing).Error
	if err == nil {
		return &ing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("get ingredient %s: %w", name, err)
	}

	ing = models.Ingredient{Name: name, MeasurementUnit: unit}
	if err := s.db.WithContext(ctx).Create(&ing).Error; err != nil {
		return nil, false, fmt.Errorf("create ingredient %s: %w", name, err)
	}
	return &ing, true, nil
}
