package api

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
)

// AudioServe streams a synthesized mp3 from the audio directory
func (a *API) AudioServe(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	filename := c.Param("filename")

	// Param never contains slashes but keep the base-name guard anyway
	if filename == "" || filename != filepath.Base(filename) || strings.HasPrefix(filename, ".") {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid file name",
			"requestID": requestID,
		})
		return
	}

	c.Header("Content-Type", "audio/mpeg")
	c.File(filepath.Join(viper.GetString("tts.audio_dir"), filename))
}
