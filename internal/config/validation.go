package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// HasErrors returns true if there are any validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Add adds a new validation error
func (ve *ValidationErrors) Add(field, message string, value ...interface{}) {
	var val interface{}
	if len(value) > 0 {
		val = value[0]
	}
	*ve = append(*ve, ValidationError{
		Field:   field,
		Value:   val,
		Message: message,
	})
}

// addErr appends err when it is a ValidationError.
func (ve *ValidationErrors) addErr(err error) {
	if v, ok := err.(ValidationError); ok {
		*ve = append(*ve, v)
	}
}

// ValidateRequired checks if a required string field is not empty
func ValidateRequired(field, value, purpose string) error {
	if strings.TrimSpace(value) == "" {
		return ValidationError{
			Field:   field,
			Value:   value,
			Message: fmt.Sprintf("is required for %s", purpose),
		}
	}
	return nil
}

// ValidateOneOf checks if a value is in a list of allowed values
func ValidateOneOf(field, value string, allowed []string) error {
	for _, allowedValue := range allowed {
		if value == allowedValue {
			return nil
		}
	}
	return ValidationError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")),
	}
}

// ValidateHTTPURL checks that value is an absolute http or https URL.
func ValidateHTTPURL(field, value string) error {
	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ValidationError{
			Field:   field,
			Value:   value,
			Message: "must be an absolute http or https URL",
		}
	}
	return nil
}

// ValidateRecordName validates the name used for the record directory.
func ValidateRecordName(name string) error {
	if err := ValidateRequired("name", name, "the authorization record"); err != nil {
		return err
	}
	if strings.ContainsAny(name, `/\ `) || name == "." || name == ".." {
		return ValidationError{
			Field:   "name",
			Value:   name,
			Message: "cannot contain spaces or path separators",
		}
	}
	return nil
}

// LogLevels lists the accepted log_level values.
var LogLevels = []string{"debug", "info", "warn", "error"}

// Validate checks the fields every command relies on.
func (c AppConfig) Validate() error {
	var errs ValidationErrors

	errs.addErr(ValidateRecordName(c.Name))
	if c.LogLevel != "" {
		errs.addErr(ValidateOneOf("log_level", strings.ToLower(c.LogLevel), LogLevels))
	}
	if c.TokenURL != "" {
		errs.addErr(ValidateHTTPURL("token_url", c.TokenURL))
	}
	if c.RevokeURL != "" {
		errs.addErr(ValidateHTTPURL("revoke_url", c.RevokeURL))
	}
	if len(c.Prompt) > 0 {
		if err := c.Prompt.Validate(); err != nil {
			errs.Add("prompt", err.Error())
		}
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// ValidateBackend checks the fields needed to talk to the authorization server.
func (c AppConfig) ValidateBackend() error {
	if err := ValidateRequired("token_url", c.TokenURL, "login"); err != nil {
		return err
	}
	return ValidateHTTPURL("token_url", c.TokenURL)
}
