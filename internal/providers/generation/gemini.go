// internal/providers/generation/gemini.go
package generation

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"seasonal-story-workers/internal/story"
)

const DefaultGeminiModel = "gemini-1.5-flash"

type GeminiBackend struct {
	client    *genai.Client
	modelName string
}

func NewGeminiBackend(ctx context.Context, apiKey, model string) (*GeminiBackend, error) {
	if model == "" {
		model = DefaultGeminiModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiBackend{client: client, modelName: model}, nil
}

func (b *GeminiBackend) Name() string { return ProviderGemini }

func (b *GeminiBackend) Close() error {
	return b.client.Close()
}

func (b *GeminiBackend) Complete(ctx context.Context, req story.GenerationRequest) (string, error) {
	// GenerativeModel carries per-call settings, so each variant gets its own.
	model := b.client.GenerativeModel(b.modelName)
	model.SetTemperature(float32(req.Temperature))
	model.SetMaxOutputTokens(int32(req.MaxTokens))
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", wrapSDKError(ctx, "gemini", err)
	}
	text := geminiText(resp)
	if text == "" {
		return "", fmt.Errorf("%w: no content received from gemini", story.ErrGenerationFailed)
	}
	return text, nil
}

func geminiText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text += string(txt)
		}
	}
	return text
}
