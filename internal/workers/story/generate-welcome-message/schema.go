// internal/workers/story/generate-welcome-message/schema.go
package generatewelcomemessage

import "seasonal-story-workers/internal/common/validation"

const inputSchemaJSON = `{
  "type": "object",
  "required": ["storeName", "storeType", "location"],
  "properties": {
    "storeId":   {"type": "string", "maxLength": 64},
    "storeName": {"type": "string", "minLength": 1, "maxLength": 100},
    "storeType": {"type": "string", "minLength": 1, "maxLength": 30},
    "location":  {"type": "string", "minLength": 1, "maxLength": 100},
    "menuCategories": {
      "type": "array",
      "maxItems": 20,
      "items": {"type": "string", "maxLength": 40}
    }
  }
}`

var inputSchema = validation.MustCompile(TaskType, inputSchemaJSON)
