// internal/workers/story/generate-menu-story/models.go
package generatemenustory

import "seasonal-story-workers/internal/story"

type Input struct {
	MenuID      string   `json:"menuId,omitempty"`
	MenuName    string   `json:"menuName"`
	Ingredients []string `json:"ingredients,omitempty"`
	Origin      string   `json:"origin,omitempty"`
	History     string   `json:"history,omitempty"`
	StoreType   string   `json:"storeType,omitempty"`
}

func (in *Input) ToRequest() story.MenuStoryRequest {
	return story.MenuStoryRequest{
		MenuID: in.MenuID,
		Menu: story.MenuItem{
			Name:        in.MenuName,
			Ingredients: in.Ingredients,
			Origin:      in.Origin,
			History:     in.History,
		},
		StoreType: story.ParseStoreType(in.StoreType),
	}
}

type Output struct {
	MenuID    string `json:"menuId,omitempty"`
	MenuName  string `json:"menuName"`
	Story     string `json:"story"`
	Fallback  bool   `json:"fallback"`
	Truncated bool   `json:"truncated,omitempty"`
}
