// internal/common/validation/schema_test.go
package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
	"type": "object",
	"required": ["location"],
	"properties": {
		"location": {"type": "string", "minLength": 1},
		"variantCount": {"type": "integer", "minimum": 1, "maximum": 3}
	}
}`

func TestSchema_Validate(t *testing.T) {
	s, err := Compile("test", testSchema)
	require.NoError(t, err)

	tests := []struct {
		name      string
		doc       string
		wantValid bool
		wantField string
		wantCode  string
	}{
		{"valid", `{"location":"Seoul","variantCount":2}`, true, "", ""},
		{"missing required", `{"variantCount":2}`, false, "", "REQUIRED"},
		{"out of range", `{"location":"Seoul","variantCount":4}`, false, "variantCount", "NUMBER_LTE"},
		{"wrong type", `{"location":42}`, false, "location", "INVALID_TYPE"},
		{"not json", `{location`, false, "(root)", "PARSE_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := s.Validate([]byte(tt.doc))
			assert.Equal(t, tt.wantValid, res.Valid)
			if !tt.wantValid {
				require.NotEmpty(t, res.Errors)
				if tt.wantField != "" {
					assert.True(t, res.HasErrors(tt.wantField), res.Error())
				}
				assert.Equal(t, tt.wantCode, res.Errors[0].Code)
			}
		})
	}

	assert.Contains(t, s.Validate([]byte(`{}`)).Error(), "location")
}

func TestCompile_InvalidSchema(t *testing.T) {
	_, err := Compile("broken", `{"type": 12}`)
	assert.Error(t, err)
	assert.Panics(t, func() { MustCompile("broken", `{`) })
}
