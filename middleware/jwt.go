package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"kotubrief/book-api/model"
	"kotubrief/book-api/security"
)

// NewJWTMiddleware authenticates requests through the Authorization
// bearer header and sets userID on the context.
//
// When jwt.dev_bypass is enabled (off by default, development only) a
// caller-supplied X-User-Id header or userId query parameter is trusted
// instead of a signed token.
func NewJWTMiddleware(d *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)

		if viper.GetBool("jwt.dev_bypass") {
			raw := c.GetHeader("X-User-Id")
			if raw == "" {
				raw = c.Query("userId")
			}

			userID, err := strconv.ParseUint(raw, 10, 64)
			if err != nil || userID == 0 {
				userID = 1
			}

			c.Set("userID", uint(userID))
			c.Next()
			return
		}

		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Missing token",
				"requestID": requestID,
			})
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))

		claims, err := security.ParseToken(tokenStr)
		if err != nil {
			if errors.Is(err, security.ErrTokenExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error":     "Token expired",
					"requestID": requestID,
				})
				return
			}

			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Invalid token",
				"requestID": requestID,
			})
			return
		}

		// Reject tokens whose account has been deleted since issuance
		var exists bool
		err = d.Model(model.User{}).
			Select("count(*) > 0").
			Where("id = ?", claims.UserID).
			First(&exists).
			Error
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to check if user exists", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		if !exists {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "User not found",
				"requestID": requestID,
			})
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("userEmail", claims.Email)
		c.Set("userPlan", claims.Plan)
		c.Next()
	}
}
