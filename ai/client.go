// Package ai wraps the chat-completions API used for summaries,
// answers and quizzes
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Client is the narrow completion capability the handlers depend on.
// Tests substitute a canned implementation.
type Client interface {
	Complete(ctx context.Context, system, prompt string, maxTokens int) (string, error)
}

type OpenAIClient struct {
	hc *http.Client
}

func NewOpenAI() *OpenAIClient {
	return &OpenAIClient{
		hc: &http.Client{Timeout: 120 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (o *OpenAIClient) Complete(ctx context.Context, system, prompt string, maxTokens int) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: viper.GetString("openai.model"),
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", err
	}

	url := strings.TrimSuffix(viper.GetString("openai.base_url"), "/") + "/chat/completions"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+viper.GetString("openai.api_key"))

	resp, err := o.hc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var res chatResponse
	if err := json.Unmarshal(respBody, &res); err != nil {
		return "", fmt.Errorf("failed to decode completion response, %w", err)
	}

	if res.Error != nil {
		return "", fmt.Errorf("completion request failed: %s", res.Error.Message)
	}

	if len(res.Choices) == 0 {
		return "", errors.New("completion response contained no choices")
	}

	return strings.TrimSpace(res.Choices[0].Message.Content), nil
}
