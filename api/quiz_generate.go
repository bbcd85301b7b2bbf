package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type generateMCQsBody struct {
	Title   string `json:"title"`
	Author  string `json:"author"`
	Summary string `json:"summary"`
}

type mcq struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Correct  string   `json:"correct"`
}

// GenerateMCQs builds a 5-question multiple-choice quiz for a book
func (a *API) GenerateMCQs(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data generateMCQsBody
	if err := c.ShouldBind(&data); err != nil || data.Title == "" || data.Author == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Missing required fields",
			"requestID": requestID,
		})
		return
	}

	prompt := fmt.Sprintf(`You are a book quiz generator.

Book Title: %s
Author: %s

Book Summary:
%s

### Task:
- Generate 5 multiple-choice questions about this book.
- Each question must have exactly 4 options.
- Use this JSON format exactly:

[
  {
    "question": "string",
    "options": ["string", "string", "string", "string"],
    "correct": "string"
  }
]

- The field name for the right answer MUST be "correct".
- Output JSON array only, no extra text.`, data.Title, data.Author, data.Summary)

	output, err := a.AI.Complete(c.Request.Context(), "You generate quiz questions about books.", prompt, 1000)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Failed to generate MCQs",
			"requestID": requestID,
		})

		zap.L().Error("MCQ completion failed", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	mcqs, err := parseMCQs(output)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Failed to generate MCQs",
			"requestID": requestID,
		})

		zap.L().Error("Model returned unparseable MCQ JSON", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"mcqs": mcqs,
	})
}

// parseMCQs decodes the model output, slicing out the outermost JSON
// array when the model wrapped it in prose or a code fence.
func parseMCQs(output string) ([]mcq, error) {
	var mcqs []mcq

	if err := json.Unmarshal([]byte(output), &mcqs); err == nil {
		return mcqs, nil
	}

	start := strings.Index(output, "[")
	end := strings.LastIndex(output, "]")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("no JSON array in model output")
	}

	if err := json.Unmarshal([]byte(output[start:end+1]), &mcqs); err != nil {
		return nil, err
	}

	return mcqs, nil
}
