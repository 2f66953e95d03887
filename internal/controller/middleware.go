package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mcherifi/quizforge/internal/dto"
)

const userIDContextKey = "userID"

// UserScoped resolves the caller's identity from the X-User-ID header.
// Authentication itself lives at the gateway in front of this service; by
// the time a request arrives here the header is trusted.
func UserScoped() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("X-User-ID")
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "missing X-User-ID header"})
			return
		}
		userID, err := uuid.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "invalid X-User-ID header"})
			return
		}
		c.Set(userIDContextKey, userID)
		c.Next()
	}
}

func currentUserID(c *gin.Context) uuid.UUID {
	value, _ := c.Get(userIDContextKey)
	userID, _ := value.(uuid.UUID)
	return userID
}
