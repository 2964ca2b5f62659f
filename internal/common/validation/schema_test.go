package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
  "type": "object",
  "required": ["userId", "marks"],
  "properties": {
    "userId": {"type": "string", "minLength": 1},
    "marks": {"type": "integer", "minimum": 30, "maximum": 100},
    "skills": {"type": "array", "maxItems": 2, "uniqueItems": true}
  }
}`

func TestSchema_Validate(t *testing.T) {
	s := MustCompile(testSchema)

	tests := []struct {
		name       string
		doc        map[string]interface{}
		valid      bool
		errorField string
	}{
		{
			name:  "valid",
			doc:   map[string]interface{}{"userId": "u-1", "marks": 75, "skills": []string{"Design"}},
			valid: true,
		},
		{
			name:       "marks below range",
			doc:        map[string]interface{}{"userId": "u-1", "marks": 12},
			errorField: "marks",
		},
		{
			name:       "too many skills",
			doc:        map[string]interface{}{"userId": "u-1", "marks": 50, "skills": []string{"a", "b", "c"}},
			errorField: "skills",
		},
		{
			name: "missing user",
			doc:  map[string]interface{}{"marks": 50},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := s.Validate(tt.doc)
			require.NoError(t, err)
			assert.Equal(t, tt.valid, result.Valid)
			if !tt.valid {
				require.NotEmpty(t, result.Errors)
				if tt.errorField != "" {
					assert.Equal(t, tt.errorField, result.Errors[0].Field)
				}
				assert.NotEmpty(t, result.Summary())
			}
		})
	}
}

func TestCompile_InvalidSchema(t *testing.T) {
	_, err := Compile(`{"type": 12}`)
	assert.Error(t, err)
}
