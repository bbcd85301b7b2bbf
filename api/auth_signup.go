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
	"kotubrief/book-api/validators"
)

type signupBody struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup registers a new account and mails its first OTP. Signing up
// again with an email that's still unverified refreshes the challenge
// instead of creating a duplicate row.
func (a *API) Signup(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data signupBody
	if err := c.ShouldBind(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if data.FullName == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Full name field can't be empty",
			"requestID": requestID,
		})
		return
	}

	if err := validators.EmailValidator(data.Email); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	if err := validators.PasswordValidator(data.Password); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	var user model.User

	err := a.DB.Where("email = ?", data.Email).First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to look up user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	exists := err == nil

	if exists && user.EmailConfirmed {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Email already registered.",
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

	// Re-signup for an unverified account: refresh the challenge and
	// pick up a changed password, never create a second row
	if exists {
		updates := map[string]any{
			"otp_hash":       hash,
			"otp_expires_at": expiresAt,
			"otp_attempts":   0,
		}

		if ok, _ := a.Argon.VerifyPasswd(data.Password, user.PasswordHash); !ok {
			newHash, err := a.Argon.GenerateFromPassword(data.Password)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":     "Internal server error",
					"requestID": requestID,
				})

				zap.L().Error("Failed to hash password", zap.Error(err), zap.String("requestID", requestID))
				return
			}

			updates["password_hash"] = newHash
		}

		err = a.DB.Transaction(func(tx *gorm.DB) error {
			return tx.Model(model.User{}).
				Where("id = ?", user.ID).
				Updates(updates).
				Error
		})
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to refresh OTP challenge", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		subject, body := mail.OTPMail(code)
		a.sendMail(data.Email, subject, body)

		c.JSON(http.StatusOK, gin.H{
			"message":   "OTP re-sent. Please verify your email.",
			"requestID": requestID,
		})
		return
	}

	passwordHash, err := a.Argon.GenerateFromPassword(data.Password)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to hash password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	newUser := model.User{
		FullName:       data.FullName,
		Email:          data.Email,
		PasswordHash:   passwordHash,
		Plan:           "Demo",
		EmailConfirmed: false,
		OTPHash:        &hash,
		OTPExpiresAt:   &expiresAt,
		OTPAttempts:    0,
	}

	err = a.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&newUser).Error
	})
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	subject, body := mail.OTPMail(code)
	a.sendMail(data.Email, subject, body)

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Signup successful. OTP sent to your email.",
		"requestID": requestID,
	})
}

// sendMail fires off a mail and swallows failures. A user can live
// with a delayed code but a finished signup must not be rolled back
// because the mail server hiccuped.
func (a *API) sendMail(to, subject, body string) {
	if err := a.Mail.Send(to, subject, body); err != nil {
		zap.L().Error("Failed to send mail", zap.String("to", to), zap.Error(err))
	}
}
