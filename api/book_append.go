package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"kotubrief/book-api/model"
)

type bookAppendBody struct {
	BookID uint   `json:"book_id"`
	Text   string `json:"text"`
}

// BookAppendText appends extracted text to a book's description under
// a dated separator so repeated imports stay distinguishable
func (a *API) BookAppendText(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data bookAppendBody
	if err := c.ShouldBind(&data); err != nil || data.BookID == 0 || data.Text == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "book_id and text are required",
			"requestID": requestID,
		})
		return
	}

	var book model.Book

	err := a.DB.Where("id = ?", data.BookID).First(&book).Error
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

	separator := fmt.Sprintf("\n\n--- Added from PDF (%s) ---\n\n", time.Now().UTC().Format("2006-01-02"))

	err = a.DB.Model(&book).Update("description", book.Description+separator+data.Text).Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to append text", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Text appended to book",
		"book_id":   book.ID,
		"requestID": requestID,
	})
}
