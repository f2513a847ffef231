// internal/workers/story/generate-welcome-message/activity.go
package generatewelcomemessage

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
		DisplayName:          "Generate Welcome Message",
		Description:          "Writes the menu board greeting for a store from the current weather, season, time of day and trends",
		Category:             "story",
		Version:              "1.0.0",
		TaskType:             TaskType,
		ImplementationStatus: "completed",
		InputSchema:          input,
		OutputSchema: map[string]interface{}{
			"type":     "object",
			"required": []interface{}{"message", "storeName", "context", "generatedAt"},
			"properties": map[string]interface{}{
				"message":     map[string]interface{}{"type": "string", "maxLength": 60},
				"storeName":   map[string]interface{}{"type": "string"},
				"fallback":    map[string]interface{}{"type": "boolean"},
				"context":     map[string]interface{}{"type": "object"},
				"generatedAt": map[string]interface{}{"type": "string", "format": "date-time"},
			},
		},
		ErrorCodes: []string{errors.BPMNErrorMapping[errors.ErrCodeInvalidRequest]},
		Timeout:    cfg.Timeout.String(),
		Retries:    errors.GetRetryCount(errors.ErrCodeRequestCancelled),
		Tags:       []string{"story", "generation", "menu-board"},
	}
}
