package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"kotubrief/book-api/model"
)

// BooksAll returns a page of the catalog, newest first
func (a *API) BooksAll(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}

	var total int64
	if err := a.DB.Model(&model.Book{}).Count(&total).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to count books", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	books := make([]model.Book, 0)

	err = a.DB.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&books).Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list books", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"books": books,
		"page":  page,
		"limit": limit,
		"total": total,
	})
}

// BooksTrending returns a random Literature sample
func (a *API) BooksTrending(c *gin.Context) {
	a.randomShelf(c, "Literature")
}

// BooksFeatured returns a random History sample
func (a *API) BooksFeatured(c *gin.Context) {
	a.randomShelf(c, "History")
}

func (a *API) randomShelf(c *gin.Context, mainCategory string) {
	requestID := c.MustGet("requestID").(string)

	books := make([]model.Book, 0)

	// RANDOM() works on both sqlite and postgres
	err := a.DB.
		Where("main_category = ?", mainCategory).
		Order("RANDOM()").
		Limit(20).
		Find(&books).Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list books", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{"books": books})
}

// BooksByCategory lists books matching both category levels
func (a *API) BooksByCategory(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	mainCategory := c.Query("main_category")
	subCategory := c.Query("sub_category")
	if mainCategory == "" || subCategory == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "main_category and sub_category are required",
			"requestID": requestID,
		})
		return
	}

	books := make([]model.Book, 0)

	err := a.DB.
		Where("main_category = ? AND sub_category = ?", mainCategory, subCategory).
		Order("created_at DESC").
		Find(&books).Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list books", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{"books": books})
}

// BooksCategories returns the distinct category tree as main -> subs
func (a *API) BooksCategories(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var rows []struct {
		MainCategory string
		SubCategory  string
	}

	err := a.DB.
		Model(&model.Book{}).
		Distinct("main_category", "sub_category").
		Where("main_category <> ''").
		Order("main_category, sub_category").
		Find(&rows).Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list categories", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	categories := make(map[string][]string)
	for _, r := range rows {
		if r.SubCategory == "" {
			if _, ok := categories[r.MainCategory]; !ok {
				categories[r.MainCategory] = []string{}
			}
			continue
		}
		categories[r.MainCategory] = append(categories[r.MainCategory], r.SubCategory)
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
