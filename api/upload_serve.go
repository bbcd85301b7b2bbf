package api

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
)

// UploadServe returns a locally stored upload by file name
func (a *API) UploadServe(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	name := c.Param("filename")
	if name != filepath.Base(name) || name == "." || name == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid filename",
			"requestID": requestID,
		})
		return
	}

	path := filepath.Join(viper.GetString("storage.upload_dir"), name)
	if _, err := os.Stat(path); err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"error":     "File not found",
			"requestID": requestID,
		})
		return
	}

	c.File(path)
}
