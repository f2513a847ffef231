// internal/providers/openweather/client.go
package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	httpclient "seasonal-story-workers/internal/common/http"
	"seasonal-story-workers/internal/story"
)

const DefaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"

// Provider reads current conditions from OpenWeatherMap.
type Provider struct {
	apiKey  string
	baseURL string
	client  *httpclient.Client
}

func New(apiKey, baseURL string, client *httpclient.Client) *Provider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = httpclient.NewClient(httpclient.Options{Name: "openweather", Timeout: 5 * time.Second, MaxRetries: 1})
	}
	return &Provider{apiKey: apiKey, baseURL: baseURL, client: client}
}

type payload struct {
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

func (p *Provider) Fetch(ctx context.Context, location string) (story.WeatherSnapshot, error) {
	if p.apiKey == "" {
		return story.WeatherSnapshot{}, fmt.Errorf("openweather: %w", story.ErrMissingCredentials)
	}

	build := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("q", location)
		values.Set("appid", p.apiKey)
		values.Set("units", "metric")
		values.Set("lang", "kr")
		return http.NewRequest(http.MethodGet, p.baseURL+"?"+values.Encode(), nil)
	}

	resp, err := p.client.Do(ctx, build)
	if err != nil {
		return story.WeatherSnapshot{}, fmt.Errorf("openweather: %w", err)
	}
	defer resp.Body.Close()

	var body payload
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return story.WeatherSnapshot{}, fmt.Errorf("openweather: decode: %w", err)
	}

	snap := story.WeatherSnapshot{
		Condition:   story.ConditionUnknown,
		Temperature: body.Main.Temp,
		FeelsLike:   body.Main.FeelsLike,
		Humidity:    body.Main.Humidity,
		WindSpeed:   body.Wind.Speed,
	}
	if len(body.Weather) > 0 {
		snap.Condition = MapCondition(body.Weather[0].Main)
		snap.Description = strings.TrimSpace(body.Weather[0].Description)
	}
	return snap, nil
}

// MapCondition folds OpenWeatherMap's "main" group onto story conditions.
func MapCondition(main string) story.Condition {
	switch main {
	case "Clear":
		return story.ConditionClear
	case "Clouds":
		return story.ConditionClouds
	case "Rain":
		return story.ConditionRain
	case "Drizzle":
		return story.ConditionDrizzle
	case "Thunderstorm":
		return story.ConditionThunderstorm
	case "Snow":
		return story.ConditionSnow
	case "Mist", "Haze", "Smoke":
		return story.ConditionMist
	case "Fog":
		return story.ConditionFog
	default:
		return story.ConditionUnknown
	}
}
