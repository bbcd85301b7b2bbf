package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"kotubrief/book-api/model"
)

// BookDelete removes a book and any library entries pointing at it
func (a *API) BookDelete(c *gin.Context) {
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

	err = a.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("book_id = ?", book.ID).Delete(&model.LibraryEntry{}).Error; err != nil {
			return err
		}

		return tx.Delete(&book).Error
	})
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete book", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Book deleted successfully",
		"requestID": requestID,
	})
}
