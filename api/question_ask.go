package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type askQuestionBody struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	Summary  string `json:"summary"`
	Question string `json:"question"`
}

// AskQuestion answers a free-form question about a book, grounded on
// the summary the client already holds
func (a *API) AskQuestion(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data askQuestionBody
	if err := c.ShouldBind(&data); err != nil || data.Title == "" || data.Author == "" || data.Question == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Missing required fields",
			"requestID": requestID,
		})
		return
	}

	prompt := fmt.Sprintf(`You are a knowledgeable assistant answering questions about books.

Book Title: %s
Author: %s

Book Summary:
%s

Question: %s

### Instructions:
- Provide a clear and accurate answer.
- Your response must be **4-5 sentences long** (not just one line).
- Base your response on the given summary, and if unclear, explain thoughtfully.
- Do not just give names - explain with context.`, data.Title, data.Author, data.Summary, data.Question)

	answer, err := a.AI.Complete(c.Request.Context(),
		"You are a helpful book assistant who always provides detailed, multi-sentence answers.",
		prompt, 500)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Failed to get answer",
			"requestID": requestID,
		})

		zap.L().Error("Question completion failed", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"answer": answer,
	})
}
