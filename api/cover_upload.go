package api

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
)

var coverExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// CoverUpload stores a book cover image and returns its public URL
func (a *API) CoverUpload(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	file, err := c.FormFile("file")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "No file provided",
			"requestID": requestID,
		})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))

	contentType, ok := coverExtensions[ext]
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Unsupported image type",
			"requestID": requestID,
		})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Failed to read file",
			"requestID": requestID,
		})

		zap.L().Error("Failed to open upload", zap.Error(err), zap.String("requestID", requestID))
		return
	}
	defer src.Close()

	id, err := gonanoid.New(12)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to make file name", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	url, err := a.Store.Save(c.Request.Context(), id+ext, contentType, src)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Failed to store file",
			"requestID": requestID,
		})

		zap.L().Error("Failed to store cover", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{"file_url": url})
}
