// internal/workers/story/collect-store-context/models.go
package collectstorecontext

import (
	"time"

	"seasonal-story-workers/internal/story"
)

type Input struct {
	Location       string   `json:"location"`
	MenuCategories []string `json:"menuCategories,omitempty"`
	StoreID        string   `json:"storeId,omitempty"`
	RecentLimit    int      `json:"recentLimit,omitempty"`
}

type Output struct {
	Context       *story.Context `json:"context"`
	RecentStories []RecentStory  `json:"recentStories,omitempty"`
}

type RecentStory struct {
	Variant   string    `json:"variant"`
	Story     string    `json:"story"`
	Season    string    `json:"season"`
	Period    string    `json:"period"`
	Weather   string    `json:"weather"`
	CreatedAt time.Time `json:"createdAt"`
}
