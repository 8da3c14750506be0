package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pageza/whatsfordinner/backend/config"
)

// supportedImageMIMETypes is the allowlist checked before any provider call
var supportedImageMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

const bulletChars = "•-*1234567890. "

// VisionClient is an image-understanding client using the chat
// completions API with an image_url content part
type VisionClient struct {
	apiKey      string
	apiURL      string
	model       string
	maxTokens   int
	temperature float64
	client      *http.Client
}

// NewVisionClient creates a new VisionClient instance
func NewVisionClient(cfg *config.Config) (*VisionClient, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY or OPENAI_API_KEY_FILE must be set")
	}

	return &VisionClient{
		apiKey:      cfg.OpenAIAPIKey,
		apiURL:      cfg.OpenAIBaseURL + "/chat/completions",
		model:       cfg.ChatModel,
		maxTokens:   cfg.VisionMaxTokens,
		temperature: cfg.VisionTemperature,
		client:      &http.Client{Timeout: 60 * time.Second},
	}, nil
}

type visionImageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

type visionContentPart struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *visionImageURL `json:"image_url,omitempty"`
}

type visionMessage struct {
	Role    string              `json:"role"`
	Content []visionContentPart `json:"content"`
}

type visionRequest struct {
	Model       string          `json:"model"`
	Messages    []visionMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature float64         `json:"temperature"`
}

// DescribeImage sends the image with the given instruction and returns
// the raw text reply. Failures surface as ErrVision.
func (c *VisionClient) DescribeImage(ctx context.Context, image []byte, mimeType string, prompt string) (string, error) {
	encoded := base64.StdEncoding.EncodeToString(image)
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, encoded)

	reqBody := visionRequest{
		Model: c.model,
		Messages: []visionMessage{
			{
				Role: "user",
				Content: []visionContentPart{
					{Type: "text", Text: prompt},
					{Type: "image_url", ImageURL: &visionImageURL{URL: dataURL, Detail: "high"}},
				},
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: failed to marshal request: %v", ErrVision, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", ErrVision, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrVision, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: API request failed with status %d: %s", ErrVision, resp.StatusCode, string(body))
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrVision, err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("%w: no response from API", ErrVision)
	}

	return result.Choices[0].Message.Content, nil
}

// VisionService extracts ingredient lists from food images
type VisionService struct {
	provider VisionProvider
}

// NewVisionService creates a new VisionService instance
func NewVisionService(provider VisionProvider) *VisionService {
	return &VisionService{provider: provider}
}

// ExtractIngredients returns the ordered list of food ingredients
// visible in the image. An unsupported MIME type is rejected before any
// provider call. A reply with no recognizable ingredients yields an
// empty list, not an error.
func (s *VisionService) ExtractIngredients(ctx context.Context, image []byte, mimeType string) ([]string, error) {
	if !supportedImageMIMETypes[strings.ToLower(mimeType)] {
		return nil, fmt.Errorf("%w: %q (supported: JPEG, PNG, WEBP, GIF)", ErrUnsupportedImageFormat, mimeType)
	}

	reply, err := s.provider.DescribeImage(ctx, image, mimeType, visionIngredientPrompt)
	if err != nil {
		return nil, err
	}

	var ingredients []string
	for _, line := range strings.Split(strings.TrimSpace(reply), "\n") {
		ingredient := strings.TrimLeft(strings.TrimSpace(line), bulletChars)
		if len(ingredient) > 1 {
			ingredients = append(ingredients, ingredient)
		}
	}

	return ingredients, nil
}
