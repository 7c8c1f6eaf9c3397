package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/log"
	"github.com/foodgram/backend/internal/models"
)

// RequireActiveUser rejects tokens whose user has been deleted since the
// token was issued. It must run after AuthMiddleware or OptionalAuth.
func RequireActiveUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := UserID(c)
		if userID == uuid.Nil {
			c.Next()
			return
		}

		var n int64
		err := db.WithContext(c.Request.Context()).Model(&models.User{}).Where("id = ?", userID).Count(&n).Error
		if err != nil {
			log.Error(c.Request.Context(), "failed to check user", "user_id", userID, "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to verify user"})
			return
		}
		if n == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "user no longer exists"})
			return
		}
		c.Next()
	}
}
