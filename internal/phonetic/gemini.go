package phonetic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"codeberg.org/snonux/phonemask/internal/phonemizer"
)

// DefaultGeminiModel is used when GeminiConfig.Model is empty.
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiConfig holds settings for the Gemini backend
type GeminiConfig struct {
	APIKey            string
	Model             string
	Timeout           time.Duration
	RequestsPerSecond float64
}

// GeminiBackend phonemizes text with a Gemini model
type GeminiBackend struct {
	model   string
	timeout time.Duration
	opts    phonemizer.Options
	client  *genai.Client
	limiter *rate.Limiter
}

// NewGeminiBackend creates a new Gemini phonemizer backend
func NewGeminiBackend(ctx context.Context, config *GeminiConfig, opts phonemizer.Options) (*GeminiBackend, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key not configured")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := config.Model
	if model == "" {
		model = DefaultGeminiModel
	}
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	return &GeminiBackend{
		model:   model,
		timeout: timeout,
		opts:    opts,
		client:  client,
		limiter: newLimiter(config.RequestsPerSecond),
	}, nil
}

// Name returns the backend name
func (b *GeminiBackend) Name() string {
	return "gemini:" + b.model
}

// IsAvailable always succeeds once the client exists
func (b *GeminiBackend) IsAvailable() error {
	return nil
}

// Phonemize sends the whole batch in one generation request
func (b *GeminiBackend) Phonemize(ctx context.Context, texts []string) ([]string, error) {
	if len(texts) == 0 {
		return []string{}, nil
	}
	if err := b.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt(b.opts), genai.RoleUser),
		Temperature:       genai.Ptr[float32](0),
	}

	resp, err := b.client.Models.GenerateContent(ctx, b.model, genai.Text(userPrompt(texts)), config)
	if err != nil {
		return nil, fmt.Errorf("Gemini API error: %w", err)
	}

	content := strings.TrimSpace(resp.Text())
	if content == "" {
		return nil, fmt.Errorf("no response from Gemini")
	}

	return parseNumbered(content, len(texts))
}
