// Package config provides configuration management for go-sidecar-entrypoint.
//
// The supervisor forwards its entire command line to the delegate entrypoint
// verbatim, so it cannot claim any argv of its own. All of its configuration
// is injected from the environment (ENTRYPOINT_* variables), optionally
// seeded from a YAML file named by ENTRYPOINT_CONFIG_FILE. Precedence is
// env > file > defaults.
package config

import "path/filepath"

// Config holds all configuration options for the entrypoint supervisor.
type Config struct {
	// Sidecar (auxiliary background service)
	SidecarBin      string `yaml:"sidecar_bin"`      // Binary to launch in the background
	SidecarConfig   string `yaml:"sidecar_config"`   // Passed as --config; never read by us
	SidecarLog      string `yaml:"sidecar_log"`      // Combined stdout+stderr capture file
	SidecarLock     string `yaml:"sidecar_lock"`     // Launch lock file ("" = derived from SidecarLog)
	SidecarDisabled bool   `yaml:"sidecar_disabled"` // Skip the background launch entirely

	// Delegate (the program that becomes the container's main process)
	DelegateDir  string `yaml:"delegate_dir"`  // Directory holding the delegate entrypoint
	DelegateName string `yaml:"delegate_name"` // Program name inside DelegateDir

	// Dispatch mode
	NoExec bool `yaml:"no_exec"` // Spawn+wait+forward-signals instead of image replacement

	// Observability
	MetricsAddr string `yaml:"metrics_addr"` // Prometheus address; served in no-exec mode only
	LogFormat   string `yaml:"log_format"`   // json, text
	Verbose     bool   `yaml:"verbose"`

	// Diagnostic modes
	PrintCmd      bool `yaml:"print_cmd"` // Print commands and exit without launching anything
	SkipPreflight bool `yaml:"skip_preflight"`
}

// DefaultConfig returns a Config with sensible defaults for a container
// image that follows the /etc/app + /opt/app convention.
func DefaultConfig() *Config {
	return &Config{
		// Sidecar
		SidecarBin:    "sidecar-agent",
		SidecarConfig: "/etc/app/config.yaml",
		SidecarLog:    "/var/log/app/sidecar.log",
		SidecarLock:   "", // Derived from SidecarLog, see LockPath

		// Delegate
		DelegateDir:  "/opt/app",
		DelegateName: "run.sh",

		// Observability
		MetricsAddr: "0.0.0.0:17092",
		LogFormat:   "json",
		Verbose:     false,
	}
}

// LockPath returns the effective lock file path: SidecarLock when set,
// otherwise the log file path with a ".lock" suffix.
func (c *Config) LockPath() string {
	if c.SidecarLock != "" {
		return c.SidecarLock
	}
	return c.SidecarLog + ".lock"
}

// DelegatePath returns the unresolved delegate target path.
func (c *Config) DelegatePath() string {
	return filepath.Join(c.DelegateDir, c.DelegateName)
}
