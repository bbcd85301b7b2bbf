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
)

type verifyOTPBody struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// VerifyOTP redeems a signup code and flips the account to verified.
// The transition is one-way; calling it again after success is a no-op.
func (a *API) VerifyOTP(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data verifyOTPBody
	if err := c.ShouldBind(&data); err != nil || data.Email == "" || data.OTP == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Email and OTP are required",
			"requestID": requestID,
		})
		return
	}

	var user model.User

	err := a.DB.Where("email = ?", data.Email).First(&user).Error
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

		zap.L().Error("Failed to look up user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if user.EmailConfirmed {
		c.JSON(http.StatusOK, gin.H{
			"message":   "Email already verified",
			"requestID": requestID,
		})
		return
	}

	if user.OTPHash == nil || user.OTPExpiresAt == nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "No OTP set. Please sign up again.",
			"requestID": requestID,
		})
		return
	}

	if !time.Now().UTC().Before(*user.OTPExpiresAt) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "OTP expired. Please request a new one.",
			"requestID": requestID,
		})
		return
	}

	if user.OTPAttempts >= security.OTPMaxAttempts {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error":     "Too many attempts. Please request a new OTP.",
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

	err = a.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Model(model.User{}).
			Where("id = ?", user.ID).
			Updates(map[string]any{
				"email_confirmed": true,
				"otp_hash":        nil,
				"otp_expires_at":  nil,
				"otp_attempts":    0,
			}).
			Error
	})
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to confirm email", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Email verified successfully",
		"requestID": requestID,
	})
}
