package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/foodfriend/backend/config"
)

// ErrEmptyCompletion is returned when the provider answers without content.
var ErrEmptyCompletion = errors.New("model returned no content")

// Prompt is a single request to the language model. Image is optional.
type Prompt struct {
	System      string
	Instruction string
	Image       []byte
	ContentType string
	Temperature float64
}

// ProviderError reports a failed or rejected call to the model provider.
type ProviderError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("model provider: %v", e.Err)
	}
	return fmt.Sprintf("model provider returned status %d: %s", e.StatusCode, e.Body)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// OpenAIProvider talks to an OpenAI compatible chat completions endpoint.
type OpenAIProvider struct {
	client    *resty.Client
	model     string
	maxTokens int
	logger    *zap.Logger
}

// NewOpenAIProvider creates a provider from the LLM configuration.
func NewOpenAIProvider(cfg config.LLMConfig, logger *zap.Logger) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY or OPENAI_API_KEY_FILE must be set")
	}

	client := resty.New().
		SetBaseURL(cfg.APIURL).
		SetAuthToken(cfg.APIKey).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")

	return &OpenAIProvider{
		client:    client,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		logger:    logger,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends one prompt and returns the raw text of the first choice.
func (p *OpenAIProvider) Complete(ctx context.Context, prompt Prompt) (string, error) {
	req := chatRequest{
		Model:       p.model,
		Temperature: prompt.Temperature,
		MaxTokens:   p.maxTokens,
	}
	if prompt.System != "" {
		req.Messages = append(req.Messages, chatMessage{Role: "system", Content: prompt.System})
	}
	req.Messages = append(req.Messages, chatMessage{Role: "user", Content: userContent(prompt)})

	start := time.Now()
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/chat/completions")
	if err != nil {
		return "", &ProviderError{Err: err}
	}

	p.logger.Debug("model call finished",
		zap.String("model", p.model),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("latency", time.Since(start)),
		zap.Bool("image", len(prompt.Image) > 0))

	if resp.StatusCode() != http.StatusOK {
		return "", &ProviderError{StatusCode: resp.StatusCode(), Body: truncate(resp.String(), 512)}
	}

	var result chatResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", &ProviderError{StatusCode: resp.StatusCode(), Err: fmt.Errorf("decode completion: %w", err)}
	}
	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		return "", &ProviderError{StatusCode: resp.StatusCode(), Err: ErrEmptyCompletion}
	}
	return result.Choices[0].Message.Content, nil
}

func userContent(prompt Prompt) any {
	if len(prompt.Image) == 0 {
		return prompt.Instruction
	}
	contentType := prompt.ContentType
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return []contentPart{
		{Type: "text", Text: prompt.Instruction},
		{Type: "image_url", ImageURL: &imageURL{
			URL: "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(prompt.Image),
		}},
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
