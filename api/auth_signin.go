package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"kotubrief/book-api/model"
	"kotubrief/book-api/security"
)

type signinBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Syntactically valid argon2id hash that matches no password. Verified
// against when the email is unknown so the response takes the same
// time either way.
const enumGuardHash = "$argon2id$v=19$m=65536,t=3,p=2$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// SignIn checks credentials and mints a session token. An unknown
// email and a wrong password produce the same response.
func (a *API) SignIn(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data signinBody
	if err := c.ShouldBind(&data); err != nil || data.Email == "" || data.Password == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Email and password are required",
			"requestID": requestID,
		})
		return
	}

	var user model.User

	err := a.DB.Where("email = ?", data.Email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			a.Argon.VerifyPasswd(data.Password, enumGuardHash)

			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Invalid credentials",
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

	ok, err := a.Argon.VerifyPasswd(data.Password, user.PasswordHash)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to verify password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error":     "Invalid credentials",
			"requestID": requestID,
		})
		return
	}

	if !user.EmailConfirmed {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":     "Please verify your email first",
			"requestID": requestID,
		})
		return
	}

	token, err := security.MakeToken(&user)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to mint session token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Login successful",
		"token":     token,
		"userId":    user.ID,
		"fullName":  user.FullName,
		"email":     user.Email,
		"plan":      user.Plan,
		"requestID": requestID,
	})
}
