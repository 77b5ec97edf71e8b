// Package validation validates inbound request bodies and configuration
// structs using struct tags, and offers a small fluent checker for values
// that do not live in a taggable struct.
package validation

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FieldError describes one failed check on one field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error aggregates all failed checks of a single validation pass.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	messages := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		messages[i] = f.Field + ": " + f.Message
	}
	return strings.Join(messages, "; ")
}

var (
	validate *validator.Validate
	once     sync.Once
)

func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Report fields under their json (or mapstructure) names so the
		// message matches what the caller actually sent.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "mapstructure"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return toSnakeCase(fld.Name)
		})
	})
	return validate
}

// Validate checks a struct against its `validate:"..."` tags. The returned
// error, if non-nil, is always an *Error.
func Validate(s any) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return &Error{Fields: []FieldError{{Field: "", Message: "validation failed"}}}
	}

	fields := make([]FieldError, 0, len(validationErrors))
	for _, e := range validationErrors {
		fields = append(fields, FieldError{
			Field:   e.Field(),
			Message: describe(e),
		})
	}
	return &Error{Fields: fields}
}

func describe(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "url":
		return "must be a valid URL"
	case "min":
		return "must be at least " + e.Param()
	case "max":
		return "must be at most " + e.Param()
	case "oneof":
		return "must be one of: " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "lt":
		return "must be less than " + e.Param()
	default:
		return "is invalid"
	}
}

func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune('_')
		}
		if r >= 'A' && r <= 'Z' {
			result.WriteRune(r + 32)
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// Checker collects failed checks on loose values.
type Checker struct {
	fields []FieldError
}

// NewChecker creates an empty Checker.
func NewChecker() *Checker {
	return &Checker{}
}

// Required fails the check when value is blank.
func (c *Checker) Required(field, value string) *Checker {
	if strings.TrimSpace(value) == "" {
		c.fields = append(c.fields, FieldError{Field: field, Message: "is required"})
	}
	return c
}

// OneOf fails the check when a non-empty value is not in the allowed set.
func (c *Checker) OneOf(field, value string, allowed ...string) *Checker {
	if value == "" {
		return c
	}
	for _, a := range allowed {
		if value == a {
			return c
		}
	}
	c.fields = append(c.fields, FieldError{
		Field:   field,
		Message: "must be one of: " + strings.Join(allowed, ", "),
	})
	return c
}

// Positive fails the check when value is not strictly positive.
func (c *Checker) Positive(field string, value int64) *Checker {
	if value <= 0 {
		c.fields = append(c.fields, FieldError{Field: field, Message: "must be positive"})
	}
	return c
}

// Custom fails the check with the given message when condition is false.
func (c *Checker) Custom(condition bool, field, message string) *Checker {
	if !condition {
		c.fields = append(c.fields, FieldError{Field: field, Message: message})
	}
	return c
}

// Err returns the accumulated failures as an *Error, or nil when every
// check passed.
func (c *Checker) Err() error {
	if len(c.fields) == 0 {
		return nil
	}
	return &Error{Fields: c.fields}
}

// RequiredField validates a single required value.
func RequiredField(field, value string) error {
	return NewChecker().Required(field, value).Err()
}
