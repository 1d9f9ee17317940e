package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	var errors ValidationErrors

	if err := c.validateInspect(); err != nil {
		errors = append(errors, err...)
	}

	if err := c.validateRepair(); err != nil {
		errors = append(errors, err...)
	}

	if err := c.validateLogging(); err != nil {
		errors = append(errors, err...)
	}

	if len(errors) > 0 {
		return errors
	}
	return nil
}

func (c *Config) validateInspect() ValidationErrors {
	var errors ValidationErrors

	if c.Inspect.QuaternionTolerance <= 0 || c.Inspect.QuaternionTolerance >= 1 {
		errors = append(errors, ValidationError{
			Field:   "inspect.quaternion_tolerance",
			Message: "quaternion_tolerance must be between 0 and 1 (exclusive)",
		})
	}

	counts := []struct {
		field string
		value int
	}{
		{"inspect.preview_rows", c.Inspect.PreviewRows},
		{"inspect.small_array_rows", c.Inspect.SmallArrayRows},
		{"inspect.list_preview", c.Inspect.ListPreview},
		{"inspect.bare_preview", c.Inspect.BarePreview},
	}
	for _, count := range counts {
		if count.value <= 0 {
			errors = append(errors, ValidationError{
				Field:   count.field,
				Message: "must be positive",
			})
		}
	}

	return errors
}

func (c *Config) validateRepair() ValidationErrors {
	var errors ValidationErrors

	if c.Repair.FixedSuffix == "" {
		errors = append(errors, ValidationError{
			Field:   "repair.fixed_suffix",
			Message: "fixed_suffix is required",
		})
	}

	if c.Repair.FullSuffix == "" {
		errors = append(errors, ValidationError{
			Field:   "repair.full_suffix",
			Message: "full_suffix is required",
		})
	}

	if c.Repair.FixedSuffix != "" && c.Repair.FixedSuffix == c.Repair.FullSuffix {
		errors = append(errors, ValidationError{
			Field:   "repair.full_suffix",
			Message: "full_suffix must differ from fixed_suffix",
		})
	}

	for field, suffix := range map[string]string{
		"repair.fixed_suffix": c.Repair.FixedSuffix,
		"repair.full_suffix":  c.Repair.FullSuffix,
	} {
		if strings.ContainsAny(suffix, `/\`) {
			errors = append(errors, ValidationError{
				Field:   field,
				Message: "suffix cannot contain path separators",
			})
		}
	}

	if c.Repair.PlaceholderLink == "" {
		errors = append(errors, ValidationError{
			Field:   "repair.placeholder_link",
			Message: "placeholder_link is required",
		})
	}

	return errors
}

func (c *Config) validateLogging() ValidationErrors {
	var errors ValidationErrors

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "": true}
	if !validLevels[c.Logging.Level] {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Message: "level must be 'debug', 'info', 'warn', or 'error'",
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "": true}
	if !validFormats[c.Logging.Format] {
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Message: "format must be 'json' or 'text'",
		})
	}

	return errors
}
