// internal/workers/story/generate-seasonal-story/models.go
package generateseasonalstory

import (
	"time"

	"seasonal-story-workers/internal/story"
)

type Input struct {
	StoreID        string   `json:"storeId,omitempty"`
	StoreName      string   `json:"storeName"`
	StoreType      string   `json:"storeType"`
	Location       string   `json:"location"`
	MenuCategories []string `json:"menuCategories,omitempty"`
	FeaturedMenu   string   `json:"featuredMenu,omitempty"`
	SelectedTrends []string `json:"selectedTrends,omitempty"`
	VariantCount   int      `json:"variantCount,omitempty"`
}

func (in *Input) ToRequest() story.NarrativeRequest {
	return story.NarrativeRequest{
		StoreID: in.StoreID,
		Store: story.StoreProfile{
			Name:           in.StoreName,
			Type:           story.ParseStoreType(in.StoreType),
			MenuCategories: in.MenuCategories,
			FeaturedMenu:   in.FeaturedMenu,
		},
		Location:     in.Location,
		Trends:       in.SelectedTrends,
		VariantCount: in.VariantCount,
	}
}

type Output struct {
	RequestID   string         `json:"requestId"`
	Status      string         `json:"status"`
	Stories     []Story        `json:"stories"`
	Failures    []Failure      `json:"failures"`
	Context     *story.Context `json:"context"`
	GeneratedAt time.Time      `json:"generatedAt"`
}

type Story struct {
	Variant       string   `json:"variant"`
	Story         string   `json:"story"`
	Temperature   float64  `json:"temperature"`
	TrendKeywords []string `json:"trendKeywords,omitempty"`
	Truncated     bool     `json:"truncated,omitempty"`
}

type Failure struct {
	Variant   string `json:"variant"`
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
}
