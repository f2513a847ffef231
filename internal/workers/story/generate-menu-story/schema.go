// internal/workers/story/generate-menu-story/schema.go
package generatemenustory

import "seasonal-story-workers/internal/common/validation"

const inputSchemaJSON = `{
  "type": "object",
  "required": ["menuName"],
  "properties": {
    "menuId":   {"type": "string", "maxLength": 64},
    "menuName": {"type": "string", "minLength": 1, "maxLength": 60},
    "ingredients": {
      "type": "array",
      "maxItems": 20,
      "items": {"type": "string", "maxLength": 40}
    },
    "origin":    {"type": "string", "maxLength": 100},
    "history":   {"type": "string", "maxLength": 500},
    "storeType": {"type": "string", "maxLength": 30}
  }
}`

var inputSchema = validation.MustCompile(TaskType, inputSchemaJSON)
