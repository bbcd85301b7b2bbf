package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"kotubrief/book-api/model"
)

type bookUploadBody struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	Description   string `json:"description"`
	CoverImageURL string `json:"cover_image_url"`
	MainCategory  string `json:"main_category"`
	SubCategory   string `json:"sub_category"`
}

// BookUpload creates a book owned by the authenticated caller. The
// description usually carries text extracted from an uploaded file.
func (a *API) BookUpload(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	var data bookUploadBody
	if err := c.ShouldBind(&data); err != nil || data.Title == "" || data.Author == "" ||
		data.Description == "" || data.CoverImageURL == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Missing required fields",
			"requestID": requestID,
		})
		return
	}

	book := model.Book{
		UserID:        &userID,
		Title:         data.Title,
		Author:        data.Author,
		Description:   data.Description,
		CoverImageURL: data.CoverImageURL,
		MainCategory:  data.MainCategory,
		SubCategory:   data.SubCategory,
	}

	if err := a.DB.Create(&book).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create book", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Book uploaded successfully",
		"book_id":   book.ID,
		"requestID": requestID,
	})
}
