// internal/workers/story/generate-menu-story/activity.go
package generatemenustory

import (
	"encoding/json"

	"seasonal-story-workers/internal/common/errors"
	"seasonal-story-workers/pkg/registry"
)

func Activity(cfg *Config) registry.Activity {
	var input map[string]interface{}
	_ = json.Unmarshal([]byte(inputSchemaJSON), &input)

	return registry.Activity{
		ID:                   TaskType,
		DisplayName:          "Generate Menu Story",
		Description:          "Tells the short story behind a menu item from its name, ingredients, origin and history",
		Category:             "story",
		Version:              "1.0.0",
		TaskType:             TaskType,
		ImplementationStatus: "completed",
		InputSchema:          input,
		OutputSchema: map[string]interface{}{
			"type":     "object",
			"required": []interface{}{"menuName", "story", "fallback"},
			"properties": map[string]interface{}{
				"menuId":   map[string]interface{}{"type": "string"},
				"menuName": map[string]interface{}{"type": "string"},
				"story":    map[string]interface{}{"type": "string", "maxLength": 100},
				"fallback": map[string]interface{}{"type": "boolean"},
			},
		},
		ErrorCodes: []string{errors.BPMNErrorMapping[errors.ErrCodeInvalidRequest]},
		Timeout:    cfg.Timeout.String(),
		Retries:    errors.GetRetryCount(errors.ErrCodeRequestCancelled),
		Tags:       []string{"story", "generation", "menu"},
	}
}
