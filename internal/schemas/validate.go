// Package schemas provides JSON Schema validation for the structured
// documents the service stores: job weight configurations and extracted
// candidate profiles. Validation is advisory; callers log failures and
// store the document anyway so scoring can fall back tier by tier.
package schemas

import (
	"fmt"
	"strings"

	_ "embed"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed weight_config.schema.json
var weightConfigSchema string

//go:embed extracted_profile.schema.json
var extractedProfileSchema string

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// ValidateWeightConfig validates a job's weight configuration document.
func ValidateWeightConfig(jsonContent string) error {
	return validateString(weightConfigSchema, jsonContent)
}

// ValidateExtractedProfile validates the structured fields returned by the
// extraction service.
func ValidateExtractedProfile(jsonContent string) error {
	return validateString(extractedProfileSchema, jsonContent)
}

func validateString(schemaContent, jsonContent string) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaContent)
	documentLoader := gojsonschema.NewStringLoader(jsonContent)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation failed during load: %w", err)
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}

	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}

	return validationErr
}
