package infrastructure

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"
)

// OpenAIClient wraps the chat completions API. Credentials are passed per
// call because the API key lives in the store and may change at any time.
type OpenAIClient struct {
	baseURL string // overridden in tests
	logger  *zap.Logger
}

func NewOpenAIClient(logger *zap.Logger) *OpenAIClient {
	return &OpenAIClient{logger: logger}
}

// Complete runs a single system+user chat completion and returns the
// generated text. No retries: a failed completion means no reply.
func (c *OpenAIClient) Complete(ctx context.Context, apiKey, systemPrompt, userMessage, model string, temperature float64) (string, error) {
	client := openai.NewClient(c.options(apiKey)...)
	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(model),
		Temperature: openai.Float(temperature),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userMessage),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// TestKey verifies an API key by listing models. Used by the dashboard's
// connection test.
func (c *OpenAIClient) TestKey(ctx context.Context, apiKey string) error {
	client := openai.NewClient(c.options(apiKey)...)
	if _, err := client.Models.List(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

func (c *OpenAIClient) options(apiKey string) []option.RequestOption {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if c.baseURL != "" {
		opts = append(opts, option.WithBaseURL(c.baseURL))
	}
	return opts
}
