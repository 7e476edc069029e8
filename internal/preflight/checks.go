// Package preflight provides startup validation checks.
//
// Checks are advisory: the supervisor reports their outcome and proceeds
// regardless, because the delegate dispatch must always be attempted and
// produces the authoritative failure diagnostic. A failed delegate check
// here is an early, clearer hint of what is about to go wrong.
package preflight

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/randomizedcoder/go-sidecar-entrypoint/internal/config"
	"github.com/randomizedcoder/go-sidecar-entrypoint/internal/delegate"
)

// Check represents the result of a single preflight check.
type Check struct {
	Name    string // Name of the check
	Passed  bool   // Whether the check passed
	Warning bool   // True if a failure is only advisory
	Message string // Additional context
}

// Result holds the results of all preflight checks.
type Result struct {
	Checks []Check
	Passed bool
}

// String returns a human-readable summary of the check.
func (c Check) String() string {
	status := "✓"
	if !c.Passed {
		status = "✗"
		if c.Warning {
			status = "⚠"
		}
	}
	return fmt.Sprintf("  %s %s: %s", status, c.Name, c.Message)
}

// RunAll executes all preflight checks.
func RunAll(cfg *config.Config) *Result {
	result := &Result{
		Checks: make([]Check, 0, 4),
		Passed: true,
	}

	checks := []Check{checkDelegate(cfg)}
	if !cfg.SidecarDisabled {
		checks = append(checks,
			checkSidecarBinary(cfg),
			checkLogDir(cfg),
			checkSidecarConfig(cfg),
		)
	}

	for _, c := range checks {
		result.Checks = append(result.Checks, c)
		if !c.Passed && !c.Warning {
			result.Passed = false
		}
	}

	return result
}

// checkDelegate verifies the delegate target exists and is executable.
// This is the only non-warning check: without the delegate the startup
// sequence is guaranteed to end in a fatal error.
func checkDelegate(cfg *config.Config) Check {
	target, err := delegate.Resolve(cfg.DelegateDir, cfg.DelegateName)
	if err != nil {
		return Check{
			Name:    "delegate",
			Passed:  false,
			Message: err.Error(),
		}
	}
	return Check{
		Name:    "delegate",
		Passed:  true,
		Message: target,
	}
}

// checkSidecarBinary verifies the sidecar binary can be found. Warning
// only: a missing sidecar is a non-fatal launch failure by contract.
func checkSidecarBinary(cfg *config.Config) Check {
	path := cfg.SidecarBin
	if !filepath.IsAbs(path) {
		resolved, err := exec.LookPath(path)
		if err != nil {
			return Check{
				Name:    "sidecar_binary",
				Passed:  false,
				Warning: true,
				Message: fmt.Sprintf("%s not found in PATH", path),
			}
		}
		path = resolved
	} else if _, err := os.Stat(path); err != nil {
		return Check{
			Name:    "sidecar_binary",
			Passed:  false,
			Warning: true,
			Message: err.Error(),
		}
	}

	return Check{
		Name:    "sidecar_binary",
		Passed:  true,
		Message: path,
	}
}

// checkLogDir verifies the directory holding the sidecar log exists.
func checkLogDir(cfg *config.Config) Check {
	dir := filepath.Dir(cfg.SidecarLog)

	fi, err := os.Stat(dir)
	switch {
	case err != nil:
		return Check{
			Name:    "sidecar_log_dir",
			Passed:  false,
			Warning: true,
			Message: err.Error(),
		}
	case !fi.IsDir():
		return Check{
			Name:    "sidecar_log_dir",
			Passed:  false,
			Warning: true,
			Message: fmt.Sprintf("%s is not a directory", dir),
		}
	}

	return Check{
		Name:    "sidecar_log_dir",
		Passed:  true,
		Message: dir,
	}
}

// checkSidecarConfig verifies the sidecar's config file exists. Existence
// only: the contents belong to the sidecar and are never read here.
func checkSidecarConfig(cfg *config.Config) Check {
	if _, err := os.Stat(cfg.SidecarConfig); err != nil {
		return Check{
			Name:    "sidecar_config",
			Passed:  false,
			Warning: true,
			Message: err.Error(),
		}
	}
	return Check{
		Name:    "sidecar_config",
		Passed:  true,
		Message: cfg.SidecarConfig,
	}
}
