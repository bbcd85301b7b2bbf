package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"kotubrief/book-api/model"
)

// BooksOfUser lists the books uploaded by the user named in the path.
// Public, returns a bare array.
func (a *API) BooksOfUser(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	books := make([]model.Book, 0)

	err := a.DB.
		Where("user_id = ?", c.Param("user_id")).
		Order("created_at DESC").
		Find(&books).Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list user books", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, books)
}

// BooksOfCaller lists the authenticated user's own uploads
func (a *API) BooksOfCaller(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	books := make([]model.Book, 0)

	err := a.DB.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&books).Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list user books", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{"books": books})
}
