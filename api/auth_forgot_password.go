package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"kotubrief/book-api/mail"
	"kotubrief/book-api/model"
	"kotubrief/book-api/security"
)

type forgotPasswordBody struct {
	Email string `json:"email"`
}

const resetSentMessage = "If this email exists, a reset code has been sent."

// ForgotPassword issues a reset OTP for a verified account. The
// response is identical whether or not the email exists so the
// endpoint can't be used to probe for accounts.
func (a *API) ForgotPassword(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data forgotPasswordBody
	if err := c.ShouldBind(&data); err != nil || data.Email == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Email is required",
			"requestID": requestID,
		})
		return
	}

	var user model.User

	err := a.DB.Where("email = ?", data.Email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, gin.H{
				"message":   resetSentMessage,
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

	if !user.EmailConfirmed {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Please verify your email first.",
			"requestID": requestID,
		})
		return
	}

	code, hash, expiresAt, err := security.NewOTP()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate OTP", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	err = a.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Model(model.User{}).
			Where("id = ?", user.ID).
			Updates(map[string]any{
				"otp_hash":       hash,
				"otp_expires_at": expiresAt,
				"otp_attempts":   0,
			}).
			Error
	})
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to store reset challenge", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	subject, body := mail.ResetMail(code)
	a.sendMail(data.Email, subject, body)

	c.JSON(http.StatusOK, gin.H{
		"message":   resetSentMessage,
		"requestID": requestID,
	})
}
