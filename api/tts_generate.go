package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type generateTTSBody struct {
	Text     string `json:"text"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Duration string `json:"duration"`
}

// GenerateTTS synthesizes summary text into an mp3 and returns the URL
// to stream it from. Identical text reuses the previously synthesized
// file.
func (a *API) GenerateTTS(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data generateTTSBody
	if err := c.ShouldBind(&data); err != nil || data.Text == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Missing text for TTS",
			"requestID": requestID,
		})
		return
	}

	if data.Title == "" {
		data.Title = "book"
	}
	if data.Author == "" {
		data.Author = "unknown"
	}
	if data.Duration == "" {
		data.Duration = "custom"
	}

	res, err := a.TTS.Synthesize(data.Text, data.Title, data.Author, data.Duration)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Failed to synthesize audio",
			"requestID": requestID,
		})

		zap.L().Error("TTS synthesis failed", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	scheme := "http"
	if viper.GetBool("host.ssl.enabled") {
		scheme = "https"
	}

	c.JSON(http.StatusOK, gin.H{
		"audio_url":            fmt.Sprintf("%s://%s/audio/%s", scheme, viper.GetString("host.domain"), res.Filename),
		"approx_audio_seconds": res.Seconds,
	})
}
