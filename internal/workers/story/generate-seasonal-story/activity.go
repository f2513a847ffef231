// internal/workers/story/generate-seasonal-story/activity.go
package generateseasonalstory

import (
	"encoding/json"

	"seasonal-story-workers/internal/common/errors"
	"seasonal-story-workers/pkg/registry"
)

const outputSchemaJSON = `{
  "type": "object",
  "required": ["requestId", "status", "stories", "failures", "context", "generatedAt"],
  "properties": {
    "requestId": {"type": "string"},
    "status":    {"type": "string", "enum": ["completed", "partially_failed"]},
    "stories": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["variant", "story"],
        "properties": {
          "variant": {"type": "string"},
          "story":   {"type": "string", "maxLength": 60}
        }
      }
    },
    "failures": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "variant":   {"type": "string"},
          "errorCode": {"type": "string"},
          "message":   {"type": "string"}
        }
      }
    },
    "context":     {"type": "object"},
    "generatedAt": {"type": "string", "format": "date-time"}
  }
}`

// Activity describes this worker for the activity registry.
func Activity(cfg *Config) registry.Activity {
	return registry.Activity{
		ID:                   TaskType,
		DisplayName:          "Generate Seasonal Story",
		Description:          "Writes short promotional narratives for a store from weather, season, time of day and trends",
		Category:             "story",
		Version:              "1.0.0",
		TaskType:             TaskType,
		ImplementationStatus: "completed",
		InputSchema:          mustDecode(inputSchemaJSON),
		OutputSchema:         mustDecode(outputSchemaJSON),
		ErrorCodes: []string{
			errors.BPMNErrorMapping[errors.ErrCodeInvalidRequest],
			errors.BPMNErrorMapping[errors.ErrCodeGenerationFailed],
		},
		Timeout: cfg.Timeout.String(),
		Retries: errors.GetRetryCount(errors.ErrCodeRequestCancelled),
		Tags:    []string{"story", "generation", "marketing"},
	}
}

func mustDecode(schema string) map[string]interface{} {
	var out map[string]interface{}
	if err := json.Unmarshal([]byte(schema), &out); err != nil {
		panic(err)
	}
	return out
}
