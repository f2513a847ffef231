// internal/workers/story/collect-store-context/schema.go
package collectstorecontext

import "seasonal-story-workers/internal/common/validation"

const inputSchemaJSON = `{
  "type": "object",
  "required": ["location"],
  "properties": {
    "location": {"type": "string", "minLength": 1, "maxLength": 100},
    "menuCategories": {
      "type": "array",
      "maxItems": 20,
      "items": {"type": "string", "maxLength": 40}
    },
    "storeId":     {"type": "string", "maxLength": 64},
    "recentLimit": {"type": "integer", "minimum": 0, "maximum": 20}
  }
}`

var inputSchema = validation.MustCompile(TaskType, inputSchemaJSON)
