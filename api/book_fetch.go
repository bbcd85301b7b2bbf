package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"kotubrief/book-api/model"
)

// BookFetch returns a single book including its description
func (a *API) BookFetch(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

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

	c.JSON(http.StatusOK, book)
}
