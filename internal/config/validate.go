package config

import (
	"errors"
	"fmt"
	"net"
	"path/filepath"
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

// Validate checks the configuration for errors and inconsistencies.
// Returns nil if valid, or an error describing every problem found.
func Validate(cfg *Config) error {
	var errs []error

	// Sidecar settings only matter when the launch is attempted at all.
	if !cfg.SidecarDisabled {
		if cfg.SidecarBin == "" {
			errs = append(errs, ValidationError{
				Field:   "sidecar_bin",
				Message: "sidecar binary is required (or set sidecar_disabled)",
			})
		}
		if cfg.SidecarConfig == "" {
			errs = append(errs, ValidationError{
				Field:   "sidecar_config",
				Message: "sidecar config path is required",
			})
		}
		if cfg.SidecarLog == "" {
			errs = append(errs, ValidationError{
				Field:   "sidecar_log",
				Message: "sidecar log path is required",
			})
		} else if !filepath.IsAbs(cfg.SidecarLog) {
			errs = append(errs, ValidationError{
				Field:   "sidecar_log",
				Message: "must be an absolute path",
			})
		}
	}

	if cfg.DelegateDir == "" {
		errs = append(errs, ValidationError{
			Field:   "delegate_dir",
			Message: "delegate directory is required",
		})
	} else if !filepath.IsAbs(cfg.DelegateDir) {
		errs = append(errs, ValidationError{
			Field:   "delegate_dir",
			Message: "must be an absolute path",
		})
	}

	if cfg.DelegateName == "" {
		errs = append(errs, ValidationError{
			Field:   "delegate_name",
			Message: "delegate program name is required",
		})
	} else if strings.ContainsRune(cfg.DelegateName, filepath.Separator) {
		errs = append(errs, ValidationError{
			Field:   "delegate_name",
			Message: "must be a bare program name, not a path",
		})
	}

	switch strings.ToLower(cfg.LogFormat) {
	case "json", "text", "":
	default:
		errs = append(errs, ValidationError{
			Field:   "log_format",
			Message: `must be "json" or "text"`,
		})
	}

	// The metrics listener only exists in no-exec mode; an unparseable
	// address is still a config bug worth rejecting up front.
	if cfg.MetricsAddr != "" {
		if _, _, err := net.SplitHostPort(cfg.MetricsAddr); err != nil {
			errs = append(errs, ValidationError{
				Field:   "metrics_addr",
				Message: fmt.Sprintf("invalid listen address: %v", err),
			})
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}
