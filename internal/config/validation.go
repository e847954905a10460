package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	// Register custom validation functions
	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("staketype", validateStakeType)
	_ = v.RegisterValidation("dateformat", validateDateFormat)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	// Additional cross-field validations
	if err := validateCrossField(cfg); err != nil {
		return err
	}

	return nil
}

// validateEnvironment validates the environment field
func validateEnvironment(fl validator.FieldLevel) bool {
	env := fl.Field().String()
	switch env {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

// validateLogLevel validates the log level field
func validateLogLevel(fl validator.FieldLevel) bool {
	level := fl.Field().String()
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// validateStakeType validates the staking mode field
func validateStakeType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "flat", "percentage", "kelly":
		return true
	default:
		return false
	}
}

// validateDateFormat validates date strings
func validateDateFormat(fl validator.FieldLevel) bool {
	dateStr := fl.Field().String()
	_, err := time.Parse("2006-01-02", dateStr)
	return err == nil
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	// Validate an explicit simulation date range when both ends are set
	if cfg.Simulation.StartDate != "" && cfg.Simulation.EndDate != "" {
		startDate, err := time.Parse("2006-01-02", cfg.Simulation.StartDate)
		if err != nil {
			return fmt.Errorf("invalid simulation start_date format: %w", err)
		}

		endDate, err := time.Parse("2006-01-02", cfg.Simulation.EndDate)
		if err != nil {
			return fmt.Errorf("invalid simulation end_date format: %w", err)
		}

		if !startDate.Before(endDate) {
			return fmt.Errorf("simulation start_date must be before end_date")
		}
	}

	// Validate production environment requirements
	if cfg.IsProduction() {
		if cfg.Database.SSLMode == "disable" {
			return fmt.Errorf("production environment requires SSL mode to be 'require' or 'verify-full'")
		}
	}

	// Validate optimizer sweep bounds
	if cfg.Optimizer.ConfidenceMin > cfg.Optimizer.ConfidenceMax {
		return fmt.Errorf("optimizer confidence_min cannot exceed confidence_max")
	}

	// Validate feed requirements when enabled
	if cfg.Feed.Enabled && cfg.Feed.BaseURL == "" {
		return fmt.Errorf("feed base_url is required when the feed is enabled")
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var errMsg string
	for _, fieldError := range validationErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required":
			errMsg += fmt.Sprintf("- Field '%s' is required\n", field)
		case "url":
			errMsg += fmt.Sprintf("- Field '%s' must be a valid URL, got '%v'\n", field, value)
		case "min", "max":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "staketype":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: flat, percentage, kelly\n", field)
		case "dateformat":
			errMsg += fmt.Sprintf("- Field '%s' must be a date in YYYY-MM-DD format, got '%v'\n", field, value)
		case "oneof":
			errMsg += fmt.Sprintf("- Field '%s' has invalid value '%v'\n", field, value)
		default:
			errMsg += fmt.Sprintf("- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", errMsg)
}
