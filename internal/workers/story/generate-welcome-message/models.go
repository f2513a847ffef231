// internal/workers/story/generate-welcome-message/models.go
package generatewelcomemessage

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
}

func (in *Input) ToRequest() story.WelcomeRequest {
	return story.WelcomeRequest{
		StoreID: in.StoreID,
		Store: story.StoreProfile{
			Name:           in.StoreName,
			Type:           story.ParseStoreType(in.StoreType),
			MenuCategories: in.MenuCategories,
		},
		Location: in.Location,
	}
}

// Output is what the menu board header renders.
type Output struct {
	Message     string         `json:"message"`
	StoreID     string         `json:"storeId,omitempty"`
	StoreName   string         `json:"storeName"`
	Fallback    bool           `json:"fallback"`
	Context     WelcomeContext `json:"context"`
	GeneratedAt time.Time      `json:"generatedAt"`
}

// WelcomeContext is the short summary of the situation the greeting was written for.
type WelcomeContext struct {
	Weather string   `json:"weather"`
	Season  string   `json:"season"`
	Time    string   `json:"time"`
	Trends  []string `json:"trends"`
}
