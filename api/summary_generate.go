package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"kotubrief/book-api/validators"
)

const summarizerSystem = "You are a book summarizer bot."

type generateSummaryBody struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	Duration string `json:"duration"`
}

// GenerateSummary produces a summary of a known book at one of the
// fixed lengths (1min, 10min, 30min)
func (a *API) GenerateSummary(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data generateSummaryBody
	if err := c.ShouldBind(&data); err != nil || data.Title == "" || data.Author == "" || data.Duration == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Missing required fields",
			"requestID": requestID,
		})
		return
	}

	words, err := validators.DurationWords(data.Duration)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid duration",
			"requestID": requestID,
		})
		return
	}

	prompt := fmt.Sprintf(`You are a specialized AI assistant acting as a Book Summarizer Bot.
Your role is that of a "Book Keeper" who has read and learned from a wide range of real books.
Your task is to produce faithful summaries of books based strictly on their actual content.

### Rules & Instructions:
BOOK NAME = %s
AUTHOR = %s
WORDS = %d`, data.Title, data.Author, words)

	summary, err := a.AI.Complete(c.Request.Context(), summarizerSystem, prompt, words+200)
	if err != nil || summary == "" {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Failed to generate summary",
			"requestID": requestID,
		})

		zap.L().Error("Summary completion failed", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"title":        data.Title,
		"author":       data.Author,
		"duration":     data.Duration,
		"target_words": words,
		"summary":      summary,
	})
}

type generateOwnSummaryBody struct {
	Description string `json:"description"`
	Duration    string `json:"duration"`
}

// GenerateOwnSummary summarizes a description the user supplied,
// for books that aren't in any catalog
func (a *API) GenerateOwnSummary(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data generateOwnSummaryBody
	if err := c.ShouldBind(&data); err != nil || data.Description == "" || data.Duration == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Missing required fields",
			"requestID": requestID,
		})
		return
	}

	words, err := validators.DurationWords(data.Duration)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid duration",
			"requestID": requestID,
		})
		return
	}

	prompt := fmt.Sprintf(`You are a specialized AI assistant acting as a Book Summarizer Bot.
You are given a book description written by the user.
Based strictly on this description, generate a clear and useful summary.

### Rules:
- Do NOT add any external content not hinted at in the description.
- Expand and compress the summary according to the requested time length.
- Duration: %s (target ~%d words).
- The style should be engaging, clear, and faithful to the original description.

--- Book Description ---
%s`, data.Duration, words, data.Description)

	summary, err := a.AI.Complete(c.Request.Context(), summarizerSystem, prompt, words+200)
	if err != nil || summary == "" {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Failed to generate summary",
			"requestID": requestID,
		})

		zap.L().Error("Summary completion failed", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"duration":     data.Duration,
		"target_words": words,
		"summary":      summary,
	})
}
