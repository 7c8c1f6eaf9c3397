package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foodgram/backend/internal/log"
	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/service"
)

var badRequest = []error{
	service.ErrAlreadyExists,
	service.ErrSelfReference,
	service.ErrEmptyComposition,
	service.ErrDuplicateIngredient,
	service.ErrInvalidAmount,
	service.ErrInvalidCookingTime,
	service.ErrEmptyTags,
	service.ErrDuplicateTag,
	service.ErrInvalidImage,
	service.ErrInvalidUsername,
	service.ErrInvalidSlug,
	service.ErrEmailTaken,
	service.ErrUsernameTaken,
	service.ErrWrongPassword,
}

var notFound = []error{
	service.ErrNotFound,
	service.ErrTargetNotFound,
	service.ErrRecipeNotFound,
	service.ErrUserNotFound,
	service.ErrTagNotFound,
	service.ErrIngredientNotFound,
}

// statusOf maps a service error to its HTTP status
func statusOf(err error) int {
	switch {
	case isAny(err, badRequest):
		return http.StatusBadRequest
	case isAny(err, notFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error reply. Unknown errors are logged and hidden.
func respondError(c *gin.Context, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		log.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		c.JSON(status, middleware.ErrorResponse{Error: "Internal Server Error"})
		return
	}
	c.JSON(status, middleware.ErrorResponse{Error: err.Error()})
}

// respondRemoveError is respondError for membership removal, where an
// absent pair is a client mistake rather than a missing resource
func respondRemoveError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: err.Error()})
		return
	}
	respondError(c, err)
}

func respondBadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: msg})
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
