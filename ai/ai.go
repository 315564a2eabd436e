package ai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/vincenteouswilliam/azure-ai-day-demo/config"
	"github.com/vincenteouswilliam/azure-ai-day-demo/models"
)

// Client wraps the OpenAI API for chat completions and text embeddings.
// Deployment names are fixed at construction and read-only afterwards.
type Client struct {
	client         openai.Client
	chatModel      string
	embeddingModel string
}

func New(cfg config.OpenAIConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is not configured")
	}
	if cfg.ChatDeployment == "" {
		return nil, fmt.Errorf("OpenAI chat deployment is not configured")
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Client{
		client:         openai.NewClient(opts...),
		chatModel:      cfg.ChatDeployment,
		embeddingModel: cfg.EmbeddingDeployment,
	}, nil
}

// CompleteChat sends role-tagged messages and returns the single generated
// message content. Messages carrying image URLs are sent as mixed
// text+image content parts.
func (c *Client) CompleteChat(ctx context.Context, messages []models.PromptMessage, settings models.ChatSettings) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.chatModel),
		Messages: toCompletionMessages(messages),
	}
	if settings.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(settings.MaxTokens))
	}
	if settings.Temperature > 0 {
		params.Temperature = openai.Float(settings.Temperature)
	}
	if len(settings.StopSequences) > 0 {
		params.Stop = openai.ChatCompletionNewParamsStopUnion{OfStringArray: settings.StopSequences}
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from chat completion")
	}
	return completion.Choices[0].Message.Content, nil
}

// GenerateEmbedding converts text into a fixed-length vector using the
// configured embedding deployment.
func (c *Client) GenerateEmbedding(ctx context.Context, text string) ([]float64, error) {
	if c.embeddingModel == "" {
		return nil, fmt.Errorf("embedding deployment is not configured")
	}

	embedding, err := c.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: []string{text}},
		Model: openai.EmbeddingModel(c.embeddingModel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding: %w", err)
	}
	if len(embedding.Data) == 0 {
		return nil, fmt.Errorf("no embedding data returned")
	}
	return embedding.Data[0].Embedding, nil
}

func toCompletionMessages(messages []models.PromptMessage) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch {
		case m.Role == models.RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case m.Role == models.RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		case len(m.ImageURLs) > 0:
			parts := make([]openai.ChatCompletionContentPartUnionParam, 0, len(m.ImageURLs)+1)
			parts = append(parts, openai.TextContentPart(m.Content))
			for _, url := range m.ImageURLs {
				parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: url}))
			}
			out = append(out, openai.UserMessage(parts))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}
