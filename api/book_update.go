package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"kotubrief/book-api/model"
)

type bookUpdateBody struct {
	Description string `json:"description"`
}

// BookUpdate replaces a book's description
func (a *API) BookUpdate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data bookUpdateBody
	if err := c.ShouldBind(&data); err != nil || data.Description == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Description is required",
			"requestID": requestID,
		})
		return
	}

	var book model.Book

	err := a.DB.Where("id = ?", c.Param("book_id")).First(&book).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "Book not found",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch book", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	err = a.DB.Model(&book).Update("description", data.Description).Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update book", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Book updated successfully",
		"requestID": requestID,
	})
}
