package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"kotubrief/book-api/model"
	"kotubrief/book-api/security"
	"kotubrief/book-api/validators"
)

type resetPasswordBody struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"new_password"`
}

// ResetPassword redeems a reset OTP and replaces the password. The
// same challenge slot and attempt rules as email verification apply.
func (a *API) ResetPassword(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data resetPasswordBody
	if err := c.ShouldBind(&data); err != nil || data.Email == "" || data.OTP == "" || data.NewPassword == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Email, OTP and new_password are required",
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

	err := a.DB.Where("email = ?", data.Email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":     "Invalid OTP or email",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to look up user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if user.OTPHash == nil || user.OTPExpiresAt == nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "No valid reset is pending.",
			"requestID": requestID,
		})
		return
	}

	if !time.Now().UTC().Before(*user.OTPExpiresAt) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "OTP expired. Request a new reset.",
			"requestID": requestID,
		})
		return
	}

	if user.OTPAttempts >= security.OTPMaxAttempts {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error":     "Too many attempts. Request a new reset.",
			"requestID": requestID,
		})
		return
	}

	if !security.OTPMatches(data.OTP, *user.OTPHash) {
		err := a.DB.Model(model.User{}).
			Where("id = ?", user.ID).
			Update("otp_attempts", gorm.Expr("otp_attempts + 1")).
			Error
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to record OTP attempt", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid OTP",
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
			Updates(map[string]any{
				"password_hash":  newHash,
				"otp_hash":       nil,
				"otp_expires_at": nil,
				"otp_attempts":   0,
			}).
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
		"message":   "Password updated successfully",
		"requestID": requestID,
	})
}
