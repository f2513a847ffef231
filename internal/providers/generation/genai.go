// internal/providers/generation/genai.go
package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	httpclient "seasonal-story-workers/internal/common/http"
	"seasonal-story-workers/internal/story"
)

// GenAIBackend calls the in-house GenAI gateway: POST {base}/api/ai/generate.
type GenAIBackend struct {
	baseURL string
	apiKey  string
	client  *httpclient.Client
}

func NewGenAIBackend(baseURL, apiKey string, timeout time.Duration) *GenAIBackend {
	return &GenAIBackend{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		// Generation is never retried; a failed variant is reported as failed.
		client: httpclient.NewClient(httpclient.Options{Name: "genai", Timeout: timeout, MaxRetries: 0}),
	}
}

func (b *GenAIBackend) Name() string { return ProviderGenAI }

func (b *GenAIBackend) Complete(ctx context.Context, req story.GenerationRequest) (string, error) {
	body, err := json.Marshal(map[string]interface{}{
		"system":      req.System,
		"prompt":      req.Prompt,
		"max_tokens":  req.MaxTokens,
		"temperature": req.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %v", story.ErrGenerationFailed, err)
	}

	build := func() (*http.Request, error) {
		r, err := http.NewRequest(http.MethodPost, b.baseURL+"/api/ai/generate", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		r.Header.Set("Content-Type", "application/json")
		if b.apiKey != "" {
			r.Header.Set("Authorization", "Bearer "+b.apiKey)
		}
		return r, nil
	}

	resp, err := b.client.Do(ctx, build)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: genai: %v", story.ErrGenerationTimeout, err)
		}
		return "", fmt.Errorf("%w: genai: %v", story.ErrGenerationFailed, err)
	}
	defer resp.Body.Close()

	var apiResponse struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return "", fmt.Errorf("%w: genai: decode error: %v", story.ErrGenerationFailed, err)
	}
	if strings.TrimSpace(apiResponse.Text) == "" {
		return "", fmt.Errorf("%w: genai: empty text", story.ErrGenerationFailed)
	}
	return apiResponse.Text, nil
}
