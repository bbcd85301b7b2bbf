package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"kotubrief/book-api/model"
)

type libraryBody struct {
	BookID uint `json:"book_id"`
}

func (a *API) libraryBookID(c *gin.Context, requestID string) (uint, bool) {
	var data libraryBody
	if err := c.ShouldBind(&data); err != nil || data.BookID == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "book_id is required",
			"requestID": requestID,
		})
		return 0, false
	}

	return data.BookID, true
}

// LibraryAdd saves a book into the caller's library. Adding a book that
// is already saved is a no-op.
func (a *API) LibraryAdd(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	bookID, ok := a.libraryBookID(c, requestID)
	if !ok {
		return
	}

	var book model.Book
	if err := a.DB.Where("id = ?", bookID).First(&book).Error; err != nil {
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

	var existing model.LibraryEntry

	err := a.DB.Where("user_id = ? AND book_id = ?", userID, bookID).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"ok": true, "already": true})
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to check library", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	entry := model.LibraryEntry{UserID: userID, BookID: bookID}

	if err := a.DB.Create(&entry).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to save library entry", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// LibraryRemove drops a book from the caller's library
func (a *API) LibraryRemove(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	bookID, ok := a.libraryBookID(c, requestID)
	if !ok {
		return
	}

	err := a.DB.
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Delete(&model.LibraryEntry{}).Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to remove library entry", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// LibraryCheck reports whether a book is in the caller's library
func (a *API) LibraryCheck(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	bookID := c.Query("book_id")
	if bookID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "book_id is required",
			"requestID": requestID,
		})
		return
	}

	var count int64

	err := a.DB.
		Model(&model.LibraryEntry{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Count(&count).Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to check library", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{"saved": count > 0})
}

// LibraryList returns the caller's saved books, newest save first
func (a *API) LibraryList(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	books := make([]model.Book, 0)

	err := a.DB.
		Model(&model.Book{}).
		Joins("JOIN library_entries ON library_entries.book_id = books.id").
		Where("library_entries.user_id = ?", userID).
		Order("library_entries.created_at DESC").
		Find(&books).Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list library", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": books})
}
