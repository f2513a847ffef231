// internal/providers/generation/anthropic.go
package generation

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"seasonal-story-workers/internal/story"
)

const DefaultAnthropicModel = "claude-haiku-4-5"

type AnthropicBackend struct {
	client *anthropic.Client
	model  anthropic.Model
}

func NewAnthropicBackend(apiKey, model, baseURL string, httpClient *http.Client) *AnthropicBackend {
	if model == "" {
		model = DefaultAnthropicModel
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
	client := anthropic.NewClient(opts...)
	return &AnthropicBackend{client: &client, model: anthropic.Model(model)}
}

func (b *AnthropicBackend) Name() string { return ProviderAnthropic }

func (b *AnthropicBackend) Complete(ctx context.Context, req story.GenerationRequest) (string, error) {
	resp, err := b.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     b.model,
		MaxTokens: int64(req.MaxTokens),
		System: []anthropic.TextBlockParam{
			{Text: req.System},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
		Temperature: anthropic.Float(req.Temperature),
	})
	if err != nil {
		return "", wrapSDKError(ctx, "anthropic", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("%w: no response from anthropic", story.ErrGenerationFailed)
	}
	return sb.String(), nil
}
