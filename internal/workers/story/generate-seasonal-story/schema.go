// internal/workers/story/generate-seasonal-story/schema.go
package generateseasonalstory

import "seasonal-story-workers/internal/common/validation"

// Upper bounds on variantCount and location content are checked by the story service.
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
    },
    "featuredMenu": {"type": "string", "maxLength": 60},
    "selectedTrends": {
      "type": "array",
      "maxItems": 10,
      "items": {"type": "string", "maxLength": 40}
    },
    "variantCount": {"type": "integer", "minimum": 0}
  }
}`

var inputSchema = validation.MustCompile(TaskType, inputSchemaJSON)
