package phonetic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"codeberg.org/snonux/phonemask/internal/phonemizer"
)

// OpenAIConfig holds settings for the OpenAI backend
type OpenAIConfig struct {
	APIKey            string
	Model             string        // chat model, default gpt-4o
	BaseURL           string        // optional API endpoint override
	Timeout           time.Duration // per request, default 60s
	RequestsPerSecond float64       // 0 disables rate limiting
}

// OpenAIBackend phonemizes text with an OpenAI chat model
type OpenAIBackend struct {
	apiKey  string
	model   string
	timeout time.Duration
	opts    phonemizer.Options
	client  *openai.Client
	limiter *rate.Limiter
}

// NewOpenAIBackend creates a new OpenAI phonemizer backend
func NewOpenAIBackend(config *OpenAIConfig, opts phonemizer.Options) *OpenAIBackend {
	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	model := config.Model
	if model == "" {
		model = openai.GPT4o
	}
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	return &OpenAIBackend{
		apiKey:  config.APIKey,
		model:   model,
		timeout: timeout,
		opts:    opts,
		client:  openai.NewClientWithConfig(clientConfig),
		limiter: newLimiter(config.RequestsPerSecond),
	}
}

// Name returns the backend name
func (b *OpenAIBackend) Name() string {
	return "openai:" + b.model
}

// IsAvailable checks if an API key is configured
func (b *OpenAIBackend) IsAvailable() error {
	if b.apiKey == "" {
		return fmt.Errorf("OpenAI API key not configured")
	}
	return nil
}

// Phonemize sends the whole batch in one chat completion
func (b *OpenAIBackend) Phonemize(ctx context.Context, texts []string) ([]string, error) {
	if err := b.IsAvailable(); err != nil {
		return nil, err
	}
	if len(texts) == 0 {
		return []string{}, nil
	}
	if err := b.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: b.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt(b.opts),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: userPrompt(texts),
			},
		},
		Temperature: 0.1,
	}

	resp, err := b.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	return parseNumbered(strings.TrimSpace(resp.Choices[0].Message.Content), len(texts))
}

func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}
