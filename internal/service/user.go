package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
)

type UserService struct {
	db      *gorm.DB
	follows *MembershipSet[models.Follow]
}

func NewUserService(db *gorm.DB, follows *MembershipSet[models.Follow]) *UserService {
	return &UserService{db: db, follows: follows}
}

// Get returns the user as seen by viewerID (uuid.Nil when anonymous)
func (s *UserService) Get(ctx context.Context, viewerID, userID uuid.UUID) (*types.UserResponse, error) {
	user, err := s.find(ctx, userID)
	if err != nil {
		return nil, err
	}
	subscribed := false
	if viewerID != uuid.Nil {
		if subscribed, err = s.follows.Exists(ctx, viewerID, userID); err != nil {
			return nil, err
		}
	}
	resp := types.NewUserResponse(user, subscribed)
	return &resp, nil
}

// List pages through users ordered by username. search filters by username
// prefix, case-insensitively.
func (s *UserService) List(ctx context.Context, viewerID uuid.UUID, search string, page types.Page) ([]types.UserResponse, int64, error) {
	q := func() *gorm.DB {
		q := s.db.WithContext(ctx).Model(&models.User{})
		if search = strings.TrimSpace(search); search != "" {
			q = prefixMatch(q, "username", search)
		}
		return q
	}

	var total int64
	if err := q().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	var users []models.User
	if err := q().Order("username").Offset(page.Offset()).Limit(page.Limit).Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	followed, err := s.follows.Contains(ctx, viewerID, ids)
	if err != nil {
		return nil, 0, err
	}

	out := make([]types.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, types.NewUserResponse(&users[i], followed[users[i].ID]))
	}
	return out, total, nil
}

// Subscribe makes userID follow authorID and returns the author card
func (s *UserService) Subscribe(ctx context.Context, userID, authorID uuid.UUID, recipesLimit int) (*types.SubscriptionResponse, error) {
	if _, err := s.follows.Add(ctx, userID, authorID); err != nil {
		return nil, err
	}
	author, err := s.find(ctx, authorID)
	if err != nil {
		return nil, err
	}
	cards, err := s.subscriptionCards(ctx, []models.User{*author}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &cards[0], nil
}

// Unsubscribe stops userID following authorID
func (s *UserService) Unsubscribe(ctx context.Context, userID, authorID uuid.UUID) error {
	if _, err := s.find(ctx, authorID); err != nil {
		return err
	}
	return s.follows.Remove(ctx, userID, authorID)
}

// Subscriptions pages through the authors userID follows, each with up to
// recipesLimit of their newest recipes (all when recipesLimit < 0).
func (s *UserService) Subscriptions(ctx context.Context, userID uuid.UUID, page types.Page, recipesLimit int) ([]types.SubscriptionResponse, int64, error) {
	q := func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&models.User{}).
			Where("id IN (?)", s.follows.TargetSubquery(s.db, userID))
	}

	var total int64
	if err := q().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count subscriptions: %w", err)
	}
	var authors []models.User
	if err := q().Order("username").Offset(page.Offset()).Limit(page.Limit).Find(&authors).Error; err != nil {
		return nil, 0, fmt.Errorf("list subscriptions: %w", err)
	}

	cards, err := s.subscriptionCards(ctx, authors, recipesLimit)
	if err != nil {
		return nil, 0, err
	}
	return cards, total, nil
}

func (s *UserService) subscriptionCards(ctx context.Context, authors []models.User, recipesLimit int) ([]types.SubscriptionResponse, error) {
	cards := make([]types.SubscriptionResponse, 0, len(authors))
	for i := range authors {
		author := &authors[i]

		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("author_id = ?", author.ID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("count recipes: %w", err)
		}

		var recipes []models.Recipe
		q := s.db.WithContext(ctx).Where("author_id = ?", author.ID).Order("created_at DESC")
		if recipesLimit >= 0 {
			q = q.Limit(recipesLimit)
		}
		if err := q.Find(&recipes).Error; err != nil {
			return nil, fmt.Errorf("list author recipes: %w", err)
		}

		short := make([]types.RecipeShort, 0, len(recipes))
		for j := range recipes {
			short = append(short, types.NewRecipeShort(&recipes[j]))
		}
		cards = append(cards, types.SubscriptionResponse{
			UserResponse: types.NewUserResponse(author, true),
			Recipes:      short,
			RecipesCount: count,
		})
	}
	return cards, nil
}

func (s *UserService) find(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}
