package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/metrics"
	"github.com/foodgram/backend/internal/models"
)

// MembershipMessages are the human-readable texts of one set's errors
type MembershipMessages struct {
	AlreadyExists  string
	NotFound       string
	SelfReference  string
	TargetNotFound string
}

// MembershipSet is a user's set of targets (recipes or other users) backed
// by a table with a unique (user_id, target) index. Rows are only ever
// inserted or deleted.
type MembershipSet[T any] struct {
	db           *gorm.DB
	name         string
	targetColumn string
	targetModel  interface{}
	newRow       func(userID, targetID uuid.UUID) *T
	allowSelf    bool
	messages     MembershipMessages
}

// NewFavorites returns the user-to-recipe favorites set
func NewFavorites(db *gorm.DB) *MembershipSet[models.Favorite] {
	return &MembershipSet[models.Favorite]{
		db:           db,
		name:         "favorites",
		targetColumn: "recipe_id",
		targetModel:  &models.Recipe{},
		newRow: func(userID, recipeID uuid.UUID) *models.Favorite {
			return &models.Favorite{UserID: userID, RecipeID: recipeID}
		},
		allowSelf: true,
		messages: MembershipMessages{
			AlreadyExists:  "recipe is already in favorites",
			NotFound:       "recipe is not in favorites",
			TargetNotFound: "recipe not found",
		},
	}
}

// NewShoppingCart returns the user-to-recipe shopping cart set
func NewShoppingCart(db *gorm.DB) *MembershipSet[models.ShoppingListEntry] {
	return &MembershipSet[models.ShoppingListEntry]{
		db:           db,
		name:         "shopping_cart",
		targetColumn: "recipe_id",
		targetModel:  &models.Recipe{},
		newRow: func(userID, recipeID uuid.UUID) *models.ShoppingListEntry {
			return &models.ShoppingListEntry{UserID: userID, RecipeID: recipeID}
		},
		allowSelf: true,
		messages: MembershipMessages{
			AlreadyExists:  "recipe is already in the shopping cart",
			NotFound:       "recipe is not in the shopping cart",
			TargetNotFound: "recipe not found",
		},
	}
}

// NewFollows returns the user-to-author subscriptions set. A user may not
// follow themselves.
func NewFollows(db *gorm.DB) *MembershipSet[models.Follow] {
	return &MembershipSet[models.Follow]{
		db:           db,
		name:         "follows",
		targetColumn: "author_id",
		targetModel:  &models.User{},
		newRow: func(userID, authorID uuid.UUID) *models.Follow {
			return &models.Follow{UserID: userID, AuthorID: authorID}
		},
		allowSelf: false,
		messages: MembershipMessages{
			AlreadyExists:  "already subscribed to this user",
			NotFound:       "not subscribed to this user",
			SelfReference:  "cannot subscribe to yourself",
			TargetNotFound: "user not found",
		},
	}
}

// Name identifies the set in logs and metrics
func (s *MembershipSet[T]) Name() string {
	return s.name
}

// Add inserts the (userID, targetID) pair. The unique index decides races:
// of two concurrent adds exactly one succeeds and the other gets
// ErrAlreadyExists.
func (s *MembershipSet[T]) Add(ctx context.Context, userID, targetID uuid.UUID) (*T, error) {
	if !s.allowSelf && userID == targetID {
		s.observe("add", ErrSelfReference)
		return nil, s.fail(ErrSelfReference)
	}

	row := s.newRow(userID, targetID)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var targets int64
		if err := tx.Model(s.targetModel).Where("id = ?", targetID).Count(&targets).Error; err != nil {
			return err
		}
		if targets == 0 {
			return s.fail(ErrTargetNotFound)
		}

		present, err := s.exists(tx, userID, targetID)
		if err != nil {
			return err
		}
		if present {
			return s.fail(ErrAlreadyExists)
		}
		return tx.Create(row).Error
	})
	if err != nil {
		err = s.translate(err)
		s.observe("add", err)
		return nil, err
	}

	s.observe("add", nil)
	return row, nil
}

// AddTarget is Add without the inserted row
func (s *MembershipSet[T]) AddTarget(ctx context.Context, userID, targetID uuid.UUID) error {
	_, err := s.Add(ctx, userID, targetID)
	return err
}

// Remove deletes the pair in a single statement, so concurrent removes
// cannot both succeed.
func (s *MembershipSet[T]) Remove(ctx context.Context, userID, targetID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND "+s.targetColumn+" = ?", userID, targetID).
		Delete(new(T))
	if res.Error != nil {
		err := fmt.Errorf("remove from %s: %w", s.name, res.Error)
		s.observe("remove", err)
		return err
	}
	if res.RowsAffected == 0 {
		s.observe("remove", ErrNotFound)
		return s.fail(ErrNotFound)
	}
	s.observe("remove", nil)
	return nil
}

// Exists reports whether the pair is in the set
func (s *MembershipSet[T]) Exists(ctx context.Context, userID, targetID uuid.UUID) (bool, error) {
	return s.exists(s.db.WithContext(ctx), userID, targetID)
}

// Contains returns which of targetIDs are in the user's set, in one query
func (s *MembershipSet[T]) Contains(ctx context.Context, userID uuid.UUID, targetIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	found := make(map[uuid.UUID]bool, len(targetIDs))
	if len(targetIDs) == 0 || userID == uuid.Nil {
		return found, nil
	}
	var ids []uuid.UUID
	err := s.db.WithContext(ctx).Model(new(T)).
		Where("user_id = ? AND "+s.targetColumn+" IN ?", userID, targetIDs).
		Pluck(s.targetColumn, &ids).Error
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", s.name, err)
	}
	for _, id := range ids {
		found[id] = true
	}
	return found, nil
}

// TargetIDs lists every target in the user's set
func (s *MembershipSet[T]) TargetIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.db.WithContext(ctx).Model(new(T)).
		Where("user_id = ?", userID).
		Order("created_at").
		Pluck(s.targetColumn, &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.name, err)
	}
	return ids, nil
}

// TargetSubquery selects the user's targets, for use in IN clauses
func (s *MembershipSet[T]) TargetSubquery(tx *gorm.DB, userID uuid.UUID) *gorm.DB {
	return tx.Session(&gorm.Session{NewDB: true}).Model(new(T)).
		Select(s.targetColumn).
		Where("user_id = ?", userID)
}

func (s *MembershipSet[T]) exists(tx *gorm.DB, userID, targetID uuid.UUID) (bool, error) {
	var n int64
	err := tx.Model(new(T)).
		Where("user_id = ? AND "+s.targetColumn+" = ?", userID, targetID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("lookup %s: %w", s.name, err)
	}
	return n > 0, nil
}

func (s *MembershipSet[T]) fail(kind error) *MembershipError {
	msg := kind.Error()
	switch kind {
	case ErrAlreadyExists:
		msg = s.messages.AlreadyExists
	case ErrNotFound:
		msg = s.messages.NotFound
	case ErrSelfReference:
		msg = s.messages.SelfReference
	case ErrTargetNotFound:
		msg = s.messages.TargetNotFound
	}
	return &MembershipError{Kind: kind, Message: msg}
}

// translate maps constraint violations that slipped past the pre-checks
// onto the membership kinds.
func (s *MembershipSet[T]) translate(err error) error {
	var me *MembershipError
	switch {
	case errors.As(err, &me):
		return me
	case database.IsUniqueViolation(err):
		return s.fail(ErrAlreadyExists)
	case database.IsCheckViolation(err):
		return s.fail(ErrSelfReference)
	case database.IsForeignKeyViolation(err):
		return s.fail(ErrTargetNotFound)
	default:
		return fmt.Errorf("add to %s: %w", s.name, err)
	}
}

func (s *MembershipSet[T]) observe(op string, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrAlreadyExists):
		outcome = "already_exists"
	case errors.Is(err, ErrNotFound):
		outcome = "not_found"
	case errors.Is(err, ErrSelfReference):
		outcome = "self_reference"
	case errors.Is(err, ErrTargetNotFound):
		outcome = "target_not_found"
	default:
		outcome = "error"
	}
	metrics.MembershipChanges.WithLabelValues(s.name, op, outcome).Inc()
}
