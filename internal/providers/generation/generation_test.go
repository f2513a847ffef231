// internal/providers/generation/generation_test.go
package generation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seasonal-story-workers/internal/common/config"
	"seasonal-story-workers/internal/common/logger"
	"seasonal-story-workers/internal/story"
)

func sampleRequest() story.GenerationRequest {
	return story.GenerationRequest{
		System:      "system prompt",
		Prompt:      "user prompt",
		Temperature: 0.85,
		MaxTokens:   150,
		Hints: story.PromptHints{
			StoreName:   "Maple Cafe",
			StoreType:   story.StoreTypeCafe,
			Season:      "가을",
			Period:      "저녁",
			Weather:     "구름 조금",
			Temperature: 13,
			Keywords:    []string{"붕어빵"},
			Variant:     1,
		},
	}
}

// ==========================================
// GenAI gateway
// ==========================================

func TestGenAIBackend_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/ai/generate", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "user prompt", body["prompt"])
		assert.Equal(t, 0.85, body["temperature"])
		assert.Equal(t, float64(150), body["max_tokens"])

		_ = json.NewEncoder(w).Encode(map[string]string{"text": "가을 저녁, 라떼 한 잔"})
	}))
	defer srv.Close()

	text, err := NewGenAIBackend(srv.URL+"/", "k", time.Second).Complete(context.Background(), sampleRequest())

	require.NoError(t, err)
	assert.Equal(t, "가을 저녁, 라떼 한 잔", text)
}

func TestGenAIBackend_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusBadGateway) }},
		{"empty text", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`{"text":"  "}`)) }},
		{"bad json", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`<html>`)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewGenAIBackend(srv.URL, "", time.Second).Complete(context.Background(), sampleRequest())

			assert.True(t, errors.Is(err, story.ErrGenerationFailed))
		})
	}
}

func TestGenAIBackend_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := NewGenAIBackend(srv.URL, "", 5*time.Second).Complete(ctx, sampleRequest())

	assert.True(t, errors.Is(err, story.ErrGenerationTimeout))
}

// ==========================================
// OpenAI
// ==========================================

func TestOpenAIBackend_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4o-mini", body["model"])
		assert.Equal(t, 0.85, body["temperature"])
		assert.Len(t, body["messages"], 2)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1731660000,
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "finish_reason": "stop",
				"message": {"role": "assistant", "content": "쌀쌀한 가을 저녁엔 바닐라라떼"}}]
		}`))
	}))
	defer srv.Close()

	backend := NewOpenAIBackend("sk-test", "", srv.URL, srv.Client())
	text, err := backend.Complete(context.Background(), sampleRequest())

	require.NoError(t, err)
	assert.Equal(t, "쌀쌀한 가을 저녁엔 바닐라라떼", text)
}

func TestOpenAIBackend_ErrorIsGenerationFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"bad","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	_, err := NewOpenAIBackend("sk-test", "", srv.URL, srv.Client()).Complete(context.Background(), sampleRequest())

	assert.True(t, errors.Is(err, story.ErrGenerationFailed))
}

// ==========================================
// Anthropic
// ==========================================

func TestAnthropicBackend_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "ak-test", r.Header.Get("X-Api-Key"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, DefaultAnthropicModel, body["model"])
		assert.Equal(t, float64(150), body["max_tokens"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_1", "type": "message", "role": "assistant", "model": "claude-haiku-4-5",
			"content": [{"type": "text", "text": "주말 저녁, 따뜻한 라떼로 쉬어가세요."}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 10, "output_tokens": 12}
		}`))
	}))
	defer srv.Close()

	text, err := NewAnthropicBackend("ak-test", "", srv.URL, srv.Client()).Complete(context.Background(), sampleRequest())

	require.NoError(t, err)
	assert.Equal(t, "주말 저녁, 따뜻한 라떼로 쉬어가세요.", text)
}

// ==========================================
// Gemini / template / factory
// ==========================================

func TestGeminiText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text("가을 "), genai.Text("저녁")}},
		}},
	}
	assert.Equal(t, "가을 저녁", geminiText(resp))
	assert.Equal(t, "", geminiText(nil))
	assert.Equal(t, "", geminiText(&genai.GenerateContentResponse{}))
}

func TestTemplateBackend_IsDeterministicPerVariant(t *testing.T) {
	b := NewTemplateBackend()
	req := sampleRequest()

	seen := make(map[string]bool)
	for v := 1; v <= 3; v++ {
		req.Hints.Variant = v
		first, err := b.Complete(context.Background(), req)
		require.NoError(t, err)
		second, _ := b.Complete(context.Background(), req)
		assert.Equal(t, first, second)
		seen[first] = true
	}
	assert.Len(t, seen, 3)

	req.Hints.Variant = 1
	text, _ := b.Complete(context.Background(), req)
	assert.Equal(t, "구름 조금 가을 저녁, 따뜻한 음료 한 잔 어떠세요?", text)

	req.Hints.Variant = 3
	text, _ = b.Complete(context.Background(), req)
	assert.Contains(t, text, "붕어빵")
}

func TestTemplateBackend_WelcomeAndMenuStory(t *testing.T) {
	b := NewTemplateBackend()

	req := sampleRequest()
	req.Hints.Kind = story.KindWelcome
	text, err := b.Complete(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "가을 저녁, 붕어빵 소식과 함께 Maple Cafe에 오신 것을 환영해요.", text)

	req.Hints.Keywords = nil
	text, _ = b.Complete(context.Background(), req)
	assert.Equal(t, "구름 조금인 가을 저녁, Maple Cafe에 오신 것을 환영해요.", text)

	menu := story.GenerationRequest{Hints: story.PromptHints{
		Kind:         story.KindMenuStory,
		FeaturedMenu: "뱅쇼",
		Origin:       "프랑스",
		Ingredients:  []string{"레드와인", "오렌지", "시나몬"},
	}}
	text, err = b.Complete(context.Background(), menu)
	require.NoError(t, err)
	assert.Equal(t, "프랑스에서 건너온 뱅쇼. 엄선한 레드와인와 오렌지가 어우러져 특별한 맛을 냅니다.", text)

	menu.Hints.Origin = ""
	menu.Hints.Ingredients = nil
	text, _ = b.Complete(context.Background(), menu)
	assert.Equal(t, "오래도록 사랑받아 온 뱅쇼. 한 입에 그 이야기를 담았습니다.", text)
}

func TestNew(t *testing.T) {
	log := logger.NewTestLogger(t)

	tests := []struct {
		name     string
		cfg      config.GenerationAPIConfig
		wantName string
		wantErr  bool
	}{
		{"template", config.GenerationAPIConfig{Provider: "template"}, ProviderTemplate, false},
		{"openai without key degrades", config.GenerationAPIConfig{Provider: "openai"}, ProviderTemplate, false},
		{"openai", config.GenerationAPIConfig{Provider: "openai", APIKey: "sk"}, ProviderOpenAI, false},
		{"anthropic", config.GenerationAPIConfig{Provider: "anthropic", APIKey: "ak"}, ProviderAnthropic, false},
		{"genai", config.GenerationAPIConfig{Provider: "genai", BaseURL: "http://genai:8080"}, ProviderGenAI, false},
		{"unknown", config.GenerationAPIConfig{Provider: "llama", APIKey: "x"}, "", true},
		{"unknown without key", config.GenerationAPIConfig{Provider: "llama"}, "", true},
		{"gemini without key degrades", config.GenerationAPIConfig{Provider: "gemini"}, ProviderTemplate, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend, closer, err := New(context.Background(), tt.cfg, log)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, backend.Name())
			assert.NoError(t, closer.Close())
		})
	}
}
