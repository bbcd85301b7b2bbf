package api

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"

	"kotubrief/book-api/extract"
)

const extractPreviewRunes = 5000

// ExtractText pulls plain text out of an uploaded document. Only a
// preview is returned, clients append the full text via the book routes.
func (a *API) ExtractText(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	file, err := c.FormFile("file")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "No file provided",
			"requestID": requestID,
		})
		return
	}

	if !extract.Allowed(file.Filename) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Unsupported file type",
			"requestID": requestID,
		})
		return
	}

	id, err := gonanoid.New(10)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to make temp name", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	tmpPath := filepath.Join(os.TempDir(), id+filepath.Ext(file.Filename))
	defer os.Remove(tmpPath)

	if err := c.SaveUploadedFile(file, tmpPath); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Failed to save file",
			"requestID": requestID,
		})

		zap.L().Error("Failed to save upload", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	text, err := extract.FromFile(tmpPath)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
			"error":     "Failed to extract text",
			"requestID": requestID,
		})

		zap.L().Error("Extraction failed",
			zap.Error(err),
			zap.String("filename", file.Filename),
			zap.String("requestID", requestID))
		return
	}

	if runes := []rune(text); len(runes) > extractPreviewRunes {
		text = string(runes[:extractPreviewRunes])
	}

	c.JSON(http.StatusOK, gin.H{
		"filename": file.Filename,
		"text":     text,
	})
}
