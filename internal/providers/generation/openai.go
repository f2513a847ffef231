// internal/providers/generation/openai.go
package generation

import (
	"context"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"seasonal-story-workers/internal/story"
)

const DefaultOpenAIModel = "gpt-4o-mini"

type OpenAIBackend struct {
	client *openai.Client
	model  openai.ChatModel
}

// NewOpenAIBackend builds a chat completion backend. baseURL is optional.
func NewOpenAIBackend(apiKey, model, baseURL string, httpClient *http.Client) *OpenAIBackend {
	if model == "" {
		model = DefaultOpenAIModel
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	client := openai.NewClient(opts...)
	return &OpenAIBackend{client: &client, model: openai.ChatModel(model)}
}

func (b *OpenAIBackend) Name() string { return ProviderOpenAI }

func (b *OpenAIBackend) Complete(ctx context.Context, req story.GenerationRequest) (string, error) {
	resp, err := b.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: b.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.Prompt),
		},
		Temperature: openai.Float(req.Temperature),
		MaxTokens:   openai.Int(int64(req.MaxTokens)),
	})
	if err != nil {
		return "", wrapSDKError(ctx, "openai", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no response from openai", story.ErrGenerationFailed)
	}
	return resp.Choices[0].Message.Content, nil
}
