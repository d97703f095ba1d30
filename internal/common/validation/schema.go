package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Error codes reported by gojsonschema that callers branch on.
const (
	CodeRequired    = "required"
	CodeInvalidType = "invalid_type"
)

// Schema is a compiled JSON schema for request bodies.
type Schema struct {
	schema *gojsonschema.Schema
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Compile parses a JSON schema document.
func Compile(schemaJSON string) (*Schema, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Schema{schema: s}, nil
}

// MustCompile is Compile for package-level schemas.
func MustCompile(schemaJSON string) *Schema {
	s, err := Compile(schemaJSON)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate checks body against the schema. An error is returned only when
// body is not JSON at all.
func (s *Schema) Validate(body []byte) (*ValidationResult, error) {
	result, err := s.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, toValidationError(desc))
	}
	return out, nil
}

func toValidationError(desc gojsonschema.ResultError) ValidationError {
	field := desc.Field()
	if desc.Type() == CodeRequired {
		if prop, ok := desc.Details()["property"].(string); ok {
			field = prop
		}
	}
	return ValidationError{
		Field:   field,
		Message: desc.Description(),
		Code:    desc.Type(),
	}
}

// HasCode reports whether any error carries code.
func (r *ValidationResult) HasCode(code string) bool {
	for _, e := range r.Errors {
		if e.Code == code {
			return true
		}
	}
	return false
}

// String joins all errors for logging.
func (r *ValidationResult) String() string {
	parts := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return strings.Join(parts, "; ")
}

// emailChar excludes @ and every whitespace rune: ASCII, vertical tab,
// Unicode separators (NBSP, U+2028, ...) and the BOM.
const emailChar = `[^\s\v\p{Z}\x{FEFF}@]`

// emailPattern requires exactly one @, a dot after it and no whitespace.
var emailPattern = regexp.MustCompile(`^` + emailChar + `+@` + emailChar + `+\.` + emailChar + `+$`)

func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}
