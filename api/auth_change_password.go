package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"kotubrief/book-api/model"
	"kotubrief/book-api/validators"
)

type changePasswordBody struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ChangePassword replaces the password of a signed-in user after
// re-checking the old one. Outstanding session tokens stay valid
// until they expire on their own.
func (a *API) ChangePassword(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	var data changePasswordBody
	if err := c.ShouldBind(&data); err != nil || data.OldPassword == "" || data.NewPassword == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "old_password and new_password are required",
			"requestID": requestID,
		})
		return
	}

	if err := validators.PasswordValidator(data.NewPassword); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	var user model.User

	err := a.DB.Where("id = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":     "Invalid old password",
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

	ok, err := a.Argon.VerifyPasswd(data.OldPassword, user.PasswordHash)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to verify password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid old password",
			"requestID": requestID,
		})
		return
	}

	newHash, err := a.Argon.GenerateFromPassword(data.NewPassword)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to hash password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	err = a.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Model(model.User{}).
			Where("id = ?", user.ID).
			Update("password_hash", newHash).
			Error
	})
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Password changed",
		"requestID": requestID,
	})
}
