package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"kotubrief/book-api/model"
)

// Me returns the public profile of the authenticated caller
func (a *API) Me(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	var user model.User

	err := a.DB.Where("id = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "User not found",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"userId":   user.ID,
		"fullName": user.FullName,
		"email":    user.Email,
		"plan":     user.Plan,
	})
}
