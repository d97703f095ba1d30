package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
	"type": "object",
	"required": ["to", "message"],
	"properties": {
		"to": {"type": "string"},
		"message": {"type": "string"}
	}
}`

func TestSchema_Validate(t *testing.T) {
	s := MustCompile(testSchema)

	tests := []struct {
		name      string
		body      string
		wantValid bool
		wantCode  string
		wantField string
	}{
		{
			name:      "valid body",
			body:      `{"to":"+18095551234","message":"hola"}`,
			wantValid: true,
		},
		{
			name:      "missing field",
			body:      `{"to":"+18095551234"}`,
			wantCode:  CodeRequired,
			wantField: "message",
		},
		{
			name:     "wrong type",
			body:     `{"to":12,"message":"hola"}`,
			wantCode: CodeInvalidType,
		},
		{
			name:     "array instead of object",
			body:     `[1,2]`,
			wantCode: CodeInvalidType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := s.Validate([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, result.Valid)
			if tt.wantCode != "" {
				assert.True(t, result.HasCode(tt.wantCode), result.String())
			}
			if tt.wantField != "" {
				require.NotEmpty(t, result.Errors)
				assert.Equal(t, tt.wantField, result.Errors[0].Field)
			}
		})
	}
}

func TestSchema_ValidateMalformedJSON(t *testing.T) {
	s := MustCompile(testSchema)

	_, err := s.Validate([]byte(`{"to":`))
	assert.Error(t, err)
}

func TestCompile_InvalidSchema(t *testing.T) {
	_, err := Compile(`{"type": 12}`)
	assert.Error(t, err)
}

func TestIsEmail(t *testing.T) {
	valid := []string{"a@b.com", "a.b+c@sub.domain.org"}
	invalid := []string{
		"nota@nope", "no-at-sign.com", "has space@x.com", "a@b@c.com", "a@b.c@d.com", "",
		"has\u00a0space@x.com",
		"a\vb@x.com",
		"a@b\u2028.com",
		"a@b.c\u3000om",
		"\ufeffa@b.com",
	}

	for _, e := range valid {
		assert.True(t, IsEmail(e), e)
	}
	for _, e := range invalid {
		assert.False(t, IsEmail(e), e)
	}
}
