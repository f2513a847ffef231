// internal/workers/story/collect-store-context/activity.go
package collectstorecontext

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
		DisplayName:          "Collect Store Context",
		Description:          "Resolves weather, season, time of day and trending keywords for a location",
		Category:             "story",
		Version:              "1.0.0",
		TaskType:             TaskType,
		ImplementationStatus: "completed",
		InputSchema:          input,
		OutputSchema: map[string]interface{}{
			"type":     "object",
			"required": []interface{}{"context"},
			"properties": map[string]interface{}{
				"context":       map[string]interface{}{"type": "object"},
				"recentStories": map[string]interface{}{"type": "array"},
			},
		},
		ErrorCodes: []string{errors.BPMNErrorMapping[errors.ErrCodeInvalidRequest]},
		Timeout:    cfg.Timeout.String(),
		Retries:    errors.GetRetryCount(errors.ErrCodeRequestCancelled),
		Tags:       []string{"story", "context"},
	}
}
