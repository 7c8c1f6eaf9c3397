package service

import "errors"

// Membership kinds
var (
	ErrAlreadyExists  = errors.New("already exists")
	ErrNotFound       = errors.New("not found")
	ErrSelfReference  = errors.New("self reference not allowed")
	ErrTargetNotFound = errors.New("target not found")
)

// Recipe composition
var (
	ErrEmptyComposition    = errors.New("recipe must have at least one ingredient")
	ErrDuplicateIngredient = errors.New("ingredient is listed more than once")
	ErrInvalidAmount       = errors.New("ingredient amount must be greater than 0")
	ErrInvalidCookingTime  = errors.New("cooking time must be greater than 0")
	ErrEmptyTags           = errors.New("recipe must have at least one tag")
	ErrDuplicateTag        = errors.New("tag is listed more than once")
	ErrInvalidImage        = errors.New("image must be a base64 encoded data URI")
)

// Lookups and access
var (
	ErrRecipeNotFound     = errors.New("recipe not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrTagNotFound        = errors.New("tag not found")
	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrForbidden          = errors.New("only the author can change this recipe")
)

// Accounts
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidUsername    = errors.New("username contains invalid characters")
	ErrInvalidSlug        = errors.New("slug contains invalid characters")
	ErrEmailTaken         = errors.New("a user with that email already exists")
	ErrUsernameTaken      = errors.New("a user with that username already exists")
	ErrWrongPassword      = errors.New("current password is incorrect")
)

// MembershipError carries a set-specific message for one of the membership
// kinds. errors.Is matches the kind.
type MembershipError struct {
	Kind    error
	Message string
}

func (e *MembershipError) Error() string {
	return e.Message
}

func (e *MembershipError) Unwrap() error {
	return e.Kind
}
