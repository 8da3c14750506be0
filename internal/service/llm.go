package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pageza/whatsfordinner/backend/config"
)

// LLMService is a chat-completion client for an OpenAI-compatible API.
// One call in, one completion or one error out; retry policy belongs to
// the caller.
type LLMService struct {
	apiKey      string
	apiURL      string
	model       string
	maxTokens   int
	temperature float64
	client      *http.Client
}

// NewLLMService creates a new LLMService instance
func NewLLMService(cfg *config.Config) (*LLMService, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY or OPENAI_API_KEY_FILE must be set")
	}

	return &LLMService{
		apiKey:      cfg.OpenAIAPIKey,
		apiURL:      cfg.OpenAIBaseURL + "/chat/completions",
		model:       cfg.ChatModel,
		maxTokens:   cfg.RAGMaxTokens,
		temperature: cfg.RAGTemperature,
		client:      &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// Message represents a message in the chat
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete performs a single chat completion. Failures and empty
// completions surface as ErrGeneration.
func (s *LLMService) Complete(ctx context.Context, system, user string) (string, error) {
	reqBody := chatRequest{
		Model: s.model,
		Messages: []Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
	}

	content, err := s.chat(ctx, reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	return content, nil
}

// chat sends a completion request and extracts the first choice
func (s *LLMService) chat(ctx context.Context, reqBody chatRequest) (string, error) {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %v", err)
	}

	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("no completion returned")
	}

	return result.Choices[0].Message.Content, nil
}
