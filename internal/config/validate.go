package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/charliek/errboard/internal/constants"
	"github.com/charliek/errboard/internal/domain"
)

// Validate checks the configuration for errors
func Validate(config *Config) error {
	var errs []string

	if config.API.Port < 0 || config.API.Port > 65535 {
		errs = append(errs, fmt.Sprintf("api.port: must be between 0 and 65535, got %d", config.API.Port))
	}

	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		errs = append(errs, fmt.Sprintf("log.level: unknown level %q", config.Log.Level))
	}

	switch strings.ToLower(config.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("log.format: must be text or json, got %q", config.Log.Format))
	}

	if config.Table.TemplateRows < 0 {
		errs = append(errs, fmt.Sprintf("table.template_rows: must be non-negative, got %d", config.Table.TemplateRows))
	}

	switch strings.ToLower(config.Filter.Mode) {
	case constants.FilterModePattern, constants.FilterModeSubstring:
	default:
		errs = append(errs, fmt.Sprintf("filter.mode: must be %s or %s, got %q",
			constants.FilterModePattern, constants.FilterModeSubstring, config.Filter.Mode))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidConfig, strings.Join(errs, "; "))
	}

	return nil
}
