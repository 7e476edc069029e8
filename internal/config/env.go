package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variable names understood by the supervisor. Everything is
// prefixed so none of it can collide with variables meant for the sidecar
// or the delegate.
const (
	EnvConfigFile = "ENTRYPOINT_CONFIG_FILE"

	EnvSidecarBin      = "ENTRYPOINT_SIDECAR_BIN"
	EnvSidecarConfig   = "ENTRYPOINT_SIDECAR_CONFIG"
	EnvSidecarLog      = "ENTRYPOINT_SIDECAR_LOG"
	EnvSidecarLock     = "ENTRYPOINT_SIDECAR_LOCK"
	EnvSidecarDisabled = "ENTRYPOINT_SIDECAR_DISABLED"

	EnvDelegateDir  = "ENTRYPOINT_DELEGATE_DIR"
	EnvDelegateName = "ENTRYPOINT_DELEGATE_NAME"

	EnvNoExec        = "ENTRYPOINT_NO_EXEC"
	EnvMetricsAddr   = "ENTRYPOINT_METRICS_ADDR"
	EnvLogFormat     = "ENTRYPOINT_LOG_FORMAT"
	EnvVerbose       = "ENTRYPOINT_VERBOSE"
	EnvPrintCmd      = "ENTRYPOINT_PRINT_CMD"
	EnvSkipPreflight = "ENTRYPOINT_SKIP_PREFLIGHT"
)

// LookupFunc reports the value of an environment variable and whether it is
// set. os.LookupEnv satisfies it; tests substitute a map-backed lookup.
type LookupFunc func(key string) (string, bool)

// FromEnv builds the configuration from the process environment.
func FromEnv() (*Config, error) {
	return Load(os.LookupEnv)
}

// Load builds the configuration from the given lookup function: defaults
// first, then the optional YAML file, then individual variables on top.
func Load(lookup LookupFunc) (*Config, error) {
	cfg := DefaultConfig()

	if path, ok := lookup(EnvConfigFile); ok && path != "" {
		if err := applyFile(cfg, path); err != nil {
			return nil, fmt.Errorf("%s: %w", EnvConfigFile, err)
		}
	}

	applyString(lookup, EnvSidecarBin, &cfg.SidecarBin)
	applyString(lookup, EnvSidecarConfig, &cfg.SidecarConfig)
	applyString(lookup, EnvSidecarLog, &cfg.SidecarLog)
	applyString(lookup, EnvSidecarLock, &cfg.SidecarLock)
	applyString(lookup, EnvDelegateDir, &cfg.DelegateDir)
	applyString(lookup, EnvDelegateName, &cfg.DelegateName)
	applyString(lookup, EnvMetricsAddr, &cfg.MetricsAddr)
	applyString(lookup, EnvLogFormat, &cfg.LogFormat)

	for _, b := range []struct {
		key string
		dst *bool
	}{
		{EnvSidecarDisabled, &cfg.SidecarDisabled},
		{EnvNoExec, &cfg.NoExec},
		{EnvVerbose, &cfg.Verbose},
		{EnvPrintCmd, &cfg.PrintCmd},
		{EnvSkipPreflight, &cfg.SkipPreflight},
	} {
		if err := applyBool(lookup, b.key, b.dst); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// applyString overwrites dst when the variable is set and non-empty.
func applyString(lookup LookupFunc, key string, dst *string) {
	if v, ok := lookup(key); ok && v != "" {
		*dst = v
	}
}

// applyBool overwrites dst when the variable is set. Accepts the
// strconv.ParseBool forms (1/0, t/f, true/false, ...).
func applyBool(lookup LookupFunc, key string, dst *bool) error {
	v, ok := lookup(key)
	if !ok || v == "" {
		return nil
	}

	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: invalid boolean %q", key, v)
	}

	*dst = parsed
	return nil
}
