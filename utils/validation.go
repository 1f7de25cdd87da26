package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorTypeValue is the failure type reported for rule violations.
const ErrorTypeValue = "value_error"

var (
	// validate is the singleton validator instance
	validate *validator.Validate

	// localeRegex matches BCP-47 language-region codes such as es-ES
	localeRegex = regexp.MustCompile(`^[a-z]{2}-[A-Z]{2}$`)
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report JSON field names instead of Go field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	_ = validate.RegisterValidation("locale", func(fl validator.FieldLevel) bool {
		return localeRegex.MatchString(fl.Field().String())
	})
}

// FieldError describes a single rejected field. Loc is the path to the field,
// starting with the request part ("body" or "query").
type FieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// ValidationError wraps validation errors with structured details
type ValidationError struct {
	Message string
	Fields  []FieldError
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", strings.Join(f.Loc, "."), f.Msg))
	}
	return e.Message + ": " + strings.Join(parts, "; ")
}

// NewFieldError creates a ValidationError for one field of the request body
func NewFieldError(field, msg string) *ValidationError {
	loc := []string{"body"}
	if field != "" {
		loc = append(loc, field)
	}
	return &ValidationError{
		Message: "Validation failed",
		Fields:  []FieldError{{Loc: loc, Msg: msg, Type: ErrorTypeValue}},
	}
}

// NewQueryError creates a ValidationError for a query or form parameter
func NewQueryError(part, field, msg string) *ValidationError {
	return &ValidationError{
		Message: "Validation failed",
		Fields:  []FieldError{{Loc: []string{part, field}, Msg: msg, Type: "missing"}},
	}
}

// ValidateStruct validates a struct using go-playground/validator and reports
// only the first failing field.
func ValidateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			return NewValidationError(validationErrors[:1])
		}
		return err
	}
	return nil
}

// ValidateVar checks a single value against a validator tag and reports msg
// against field when it fails.
func ValidateVar(field string, value interface{}, tag, msg string) error {
	if err := validate.Var(value, tag); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return NewFieldError(field, msg)
		}
		return err
	}
	return nil
}

// NewValidationError creates a ValidationError from validator.ValidationErrors
func NewValidationError(errs validator.ValidationErrors) *ValidationError {
	fields := make([]FieldError, 0, len(errs))
	for _, err := range errs {
		fields = append(fields, FieldError{
			Loc:  namespaceLoc(err.Namespace()),
			Msg:  tagMessage(err),
			Type: ErrorTypeValue,
		})
	}

	return &ValidationError{
		Message: "Validation failed",
		Fields:  fields,
	}
}

func tagMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "Field required"
	case "oneof":
		return "Input should be " + quoteOptions(strings.Fields(err.Param()))
	case "min":
		return fmt.Sprintf("Input should have at least %s items", err.Param())
	case "max":
		return fmt.Sprintf("Input should have at most %s items", err.Param())
	case "gt":
		return fmt.Sprintf("Input should be greater than %s", err.Param())
	case "gte":
		return fmt.Sprintf("Input should be greater than or equal to %s", err.Param())
	case "lt":
		return fmt.Sprintf("Input should be less than %s", err.Param())
	case "lte":
		return fmt.Sprintf("Input should be less than or equal to %s", err.Param())
	case "locale":
		return "Input should match the format xx-XX"
	default:
		return fmt.Sprintf("validation failed on '%s' tag", err.Tag())
	}
}

// namespaceLoc turns "ChatRequest.messages[0].role" into [body messages 0 role].
func namespaceLoc(ns string) []string {
	loc := []string{"body"}
	parts := strings.Split(ns, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for _, part := range parts {
		for {
			open := strings.IndexByte(part, '[')
			if open < 0 {
				if part != "" {
					loc = append(loc, part)
				}
				break
			}
			if open > 0 {
				loc = append(loc, part[:open])
			}
			end := strings.IndexByte(part, ']')
			if end < open {
				break
			}
			loc = append(loc, part[open+1:end])
			part = part[end+1:]
		}
	}
	return loc
}

// quoteOptions renders options as 'a', 'b' or 'c'.
func quoteOptions(options []string) string {
	quoted := make([]string, len(options))
	for i, o := range options {
		quoted[i] = "'" + o + "'"
	}
	switch len(quoted) {
	case 0:
		return ""
	case 1:
		return quoted[0]
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + " or " + quoted[len(quoted)-1]
}

// IsValidationError checks if an error is a ValidationError
func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// GetValidationFields extracts field errors from a ValidationError
func GetValidationFields(err error) []FieldError {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Fields
	}
	return nil
}

// ValidateOneOf validates that a value is one of the allowed values.
// The failure message enumerates every allowed value.
func ValidateOneOf(value string, fieldName string, allowed []string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return NewFieldError(fieldName, "Input should be "+quoteOptions(allowed))
}

// ValidateNumericRange validates an inclusive numeric range
func ValidateNumericRange(value float64, fieldName string, min, max float64) error {
	tag := "gte=" + strconv.FormatFloat(min, 'f', -1, 64) + ",lte=" + strconv.FormatFloat(max, 'f', -1, 64)
	msg := fmt.Sprintf("%s must be between %v and %v", fieldName, min, max)
	return ValidateVar(fieldName, value, tag, msg)
}

// DecodeJSON decodes a request body into v and converts decoding failures
// into a ValidationError located at the offending field.
func DecodeJSON(r io.Reader, v interface{}) error {
	err := json.NewDecoder(r).Decode(v)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &typeErr):
		loc := []string{"body"}
		if typeErr.Field != "" {
			loc = append(loc, strings.Split(typeErr.Field, ".")...)
		}
		return &ValidationError{
			Message: "Validation failed",
			Fields: []FieldError{{
				Loc:  loc,
				Msg:  "Input should be a valid " + jsonTypeName(typeErr.Type),
				Type: "type_error",
			}},
		}
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return &ValidationError{
			Message: "Validation failed",
			Fields:  []FieldError{{Loc: []string{"body"}, Msg: "JSON decode error", Type: "json_invalid"}},
		}
	case errors.Is(err, io.EOF):
		return &ValidationError{
			Message: "Validation failed",
			Fields:  []FieldError{{Loc: []string{"body"}, Msg: "Field required", Type: "missing"}},
		}
	}
	return NewFieldError("", err.Error())
}

func jsonTypeName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "list"
	case reflect.Pointer:
		return jsonTypeName(t.Elem())
	default:
		return "object"
	}
}
