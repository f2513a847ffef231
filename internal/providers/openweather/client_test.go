// internal/providers/openweather/client_test.go
package openweather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpclient "seasonal-story-workers/internal/common/http"
	"seasonal-story-workers/internal/story"
)

func testClient() *httpclient.Client {
	return httpclient.NewClient(httpclient.Options{Name: "openweather-test", Timeout: time.Second, InitialInterval: time.Millisecond})
}

func TestProvider_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "Seoul", q.Get("q"))
		assert.Equal(t, "test-key", q.Get("appid"))
		assert.Equal(t, "metric", q.Get("units"))
		assert.Equal(t, "kr", q.Get("lang"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"weather": [{"main": "Rain", "description": "실 비"}],
			"main": {"temp": 11.4, "feels_like": 9.8, "humidity": 88},
			"wind": {"speed": 4.1}
		}`))
	}))
	defer srv.Close()

	snap, err := New("test-key", srv.URL, testClient()).Fetch(context.Background(), "Seoul")

	require.NoError(t, err)
	assert.Equal(t, story.ConditionRain, snap.Condition)
	assert.Equal(t, "실 비", snap.Description)
	assert.Equal(t, 11.4, snap.Temperature)
	assert.Equal(t, 9.8, snap.FeelsLike)
	assert.Equal(t, 88.0, snap.Humidity)
	assert.Equal(t, 4.1, snap.WindSpeed)
}

func TestProvider_MissingKey(t *testing.T) {
	_, err := New("", "", nil).Fetch(context.Background(), "Seoul")

	assert.True(t, errors.Is(err, story.ErrMissingCredentials))
	assert.True(t, errors.Is(err, story.ErrUpstreamUnavailable))
}

func TestProvider_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"cod":"404","message":"city not found"}`))
	}))
	defer srv.Close()

	_, err := New("test-key", srv.URL, testClient()).Fetch(context.Background(), "Atlantis")

	assert.True(t, errors.Is(err, httpclient.ErrUnexpectedStatus))
}

func TestMapCondition(t *testing.T) {
	assert.Equal(t, story.ConditionClouds, MapCondition("Clouds"))
	assert.Equal(t, story.ConditionMist, MapCondition("Haze"))
	assert.Equal(t, story.ConditionUnknown, MapCondition("Tornado"))
}
