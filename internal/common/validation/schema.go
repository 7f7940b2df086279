// Package validation checks raw applications against the input bounds before
// they reach the encoder.
package validation

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"loan-predictor/internal/models"
)

//go:embed application.schema.json
var applicationSchemaJSON []byte

var applicationSchema = mustCompile(applicationSchemaJSON)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Error codes reported in ValidationError.Code.
const (
	CodeRequired     = "REQUIRED_FIELD_MISSING"
	CodeExtraField   = "EXTRA_FIELD"
	CodeInvalidType  = "INVALID_TYPE"
	CodeMinViolation = "MIN_VALUE_VIOLATION"
	CodeMaxViolation = "MAX_VALUE_VIOLATION"
	CodeEnum         = "INVALID_ENUM_VALUE"
	CodeInvalid      = "INVALID_VALUE"
)

// SchemaDocument returns the embedded JSON schema for applications.
func SchemaDocument() []byte {
	out := make([]byte, len(applicationSchemaJSON))
	copy(out, applicationSchemaJSON)
	return out
}

// ValidateApplication validates a Go value (an ApplicationRequest or a decoded
// JSON map) against the application schema.
func ValidateApplication(doc interface{}) *ValidationResult {
	result, err := validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return invalidDocument(err)
	}
	return result
}

// ValidateApplicationJSON validates raw JSON. The error is non-nil only when
// data is not a JSON document at all.
func ValidateApplicationJSON(data []byte) (*ValidationResult, error) {
	return validate(gojsonschema.NewBytesLoader(data))
}

// ValidateRequest runs the schema and then resolves the categorical fields,
// so unrecognized categories are reported per field alongside bound errors.
func ValidateRequest(req models.ApplicationRequest) *ValidationResult {
	result := ValidateApplication(req)

	checks := []struct {
		field string
		parse func(string) error
		value string
	}{
		{"gender", func(s string) error { _, err := models.ParseGender(s); return err }, req.Gender},
		{"maritalStatus", func(s string) error { _, err := models.ParseMaritalStatus(s); return err }, req.MaritalStatus},
		{"educationLevel", func(s string) error { _, err := models.ParseEducationLevel(s); return err }, req.EducationLevel},
		{"employmentStatus", func(s string) error { _, err := models.ParseEmploymentStatus(s); return err }, req.EmploymentStatus},
		{"purposeOfLoan", func(s string) error { _, err := models.ParsePurposeOfLoan(s); return err }, req.PurposeOfLoan},
	}

	for _, c := range checks {
		if c.value == "" || hasFieldError(result, c.field) {
			continue
		}
		if err := c.parse(c.value); errors.Is(err, models.ErrUnrecognizedCategory) {
			result.Errors = append(result.Errors, ValidationError{
				Field:   c.field,
				Message: fmt.Sprintf("value %q must be one of %s", c.value, strings.Join(categoryOptions(c.field), ", ")),
				Code:    CodeEnum,
			})
		}
	}

	result.Valid = len(result.Errors) == 0
	return result
}

// GetErrorMessages returns a list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// FieldErrors groups messages by field for form rendering.
func (vr *ValidationResult) FieldErrors() map[string]string {
	out := make(map[string]string, len(vr.Errors))
	for _, err := range vr.Errors {
		if _, seen := out[err.Field]; !seen {
			out[err.Field] = err.Message
		}
	}
	return out
}

// Error joins all messages, for use as error details.
func (vr *ValidationResult) Error() string {
	return strings.Join(vr.GetErrorMessages(), "; ")
}

func validate(doc gojsonschema.JSONLoader) (*ValidationResult, error) {
	result, err := applicationSchema.Validate(doc)
	if err != nil {
		return nil, fmt.Errorf("validate application: %w", err)
	}

	errs := make([]ValidationError, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		errs = append(errs, toValidationError(re))
	}
	sort.SliceStable(errs, func(i, j int) bool { return errs[i].Field < errs[j].Field })

	return &ValidationResult{Valid: result.Valid(), Errors: errs}, nil
}

func toValidationError(re gojsonschema.ResultError) ValidationError {
	field := re.Field()
	details := re.Details()

	switch re.Type() {
	case "required":
		return ValidationError{Field: detailString(details, "property", field), Message: "required field missing", Code: CodeRequired}
	case "additional_property_not_allowed":
		return ValidationError{Field: detailString(details, "property", field), Message: "field not allowed in schema", Code: CodeExtraField}
	case "invalid_type":
		return ValidationError{Field: field, Message: fmt.Sprintf("expected %v, got %v", details["expected"], details["given"]), Code: CodeInvalidType}
	case "number_gte", "number_gt", "string_gte":
		return ValidationError{Field: field, Message: re.Description(), Code: CodeMinViolation}
	case "number_lte", "number_lt", "string_lte":
		return ValidationError{Field: field, Message: re.Description(), Code: CodeMaxViolation}
	case "enum":
		return ValidationError{Field: field, Message: re.Description(), Code: CodeEnum}
	default:
		return ValidationError{Field: field, Message: re.Description(), Code: CodeInvalid}
	}
}

func detailString(details gojsonschema.ErrorDetails, key, fallback string) string {
	if v, ok := details[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func hasFieldError(vr *ValidationResult, field string) bool {
	for _, e := range vr.Errors {
		if e.Field == field {
			return true
		}
	}
	return false
}

func categoryOptions(field string) []string {
	switch field {
	case "gender":
		return toStrings(models.Genders)
	case "maritalStatus":
		return toStrings(models.MaritalStatuses)
	case "educationLevel":
		return toStrings(models.EducationLevels)
	case "employmentStatus":
		return toStrings(models.EmploymentStatuses)
	case "purposeOfLoan":
		return toStrings(models.PurposesOfLoan)
	}
	return nil
}

func toStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

func invalidDocument(err error) *ValidationResult {
	return &ValidationResult{
		Valid: false,
		Errors: []ValidationError{{
			Field:   "(root)",
			Message: err.Error(),
			Code:    CodeInvalid,
		}},
	}
}

func mustCompile(schema []byte) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schema))
	if err != nil {
		panic(fmt.Sprintf("compile application schema: %v", err))
	}
	return s
}
