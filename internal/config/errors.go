package config

import (
	"fmt"
	"strings"
)

// ConfigurationError describes an invalid configuration value and where it
// came from.
type ConfigurationError struct {
	Field       string
	Source      string
	Message     string
	Suggestions []string
}

// Error implements the error interface.
func (ce ConfigurationError) Error() string {
	if ce.Source != "" {
		return fmt.Sprintf("invalid %s (from %s): %s", ce.Field, ce.Source, ce.Message)
	}
	return fmt.Sprintf("invalid %s: %s", ce.Field, ce.Message)
}

// DetailedError returns the error followed by its suggestions.
func (ce ConfigurationError) DetailedError() string {
	parts := []string{ce.Error()}
	if len(ce.Suggestions) > 0 {
		parts = append(parts, "  Suggestions:")
		for _, suggestion := range ce.Suggestions {
			parts = append(parts, fmt.Sprintf("    - %s", suggestion))
		}
	}
	return strings.Join(parts, "\n")
}

// ConfigurationErrorCollection holds every validation failure.
type ConfigurationErrorCollection struct {
	Errors []ConfigurationError
}

// Add appends an error.
func (c *ConfigurationErrorCollection) Add(err ConfigurationError) {
	c.Errors = append(c.Errors, err)
}

// HasErrors reports whether any error was collected.
func (c *ConfigurationErrorCollection) HasErrors() bool {
	return len(c.Errors) > 0
}

// Error implements the error interface.
func (c *ConfigurationErrorCollection) Error() string {
	if len(c.Errors) == 1 {
		return c.Errors[0].Error()
	}
	msgs := make([]string, 0, len(c.Errors))
	for _, err := range c.Errors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%d configuration errors: %s", len(c.Errors), strings.Join(msgs, "; "))
}
