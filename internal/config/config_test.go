package config

import (
	"strings"
	"testing"
)

// =============================================================================
// Table-Driven Tests: DefaultConfig
// =============================================================================

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{"SidecarBin", cfg.SidecarBin, "sidecar-agent"},
		{"SidecarConfig", cfg.SidecarConfig, "/etc/app/config.yaml"},
		{"SidecarLog", cfg.SidecarLog, "/var/log/app/sidecar.log"},
		{"SidecarLock", cfg.SidecarLock, ""},
		{"SidecarDisabled", cfg.SidecarDisabled, false},
		{"DelegateDir", cfg.DelegateDir, "/opt/app"},
		{"DelegateName", cfg.DelegateName, "run.sh"},
		{"NoExec", cfg.NoExec, false},
		{"LogFormat", cfg.LogFormat, "json"},
		{"Verbose", cfg.Verbose, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestLockPath(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "derived from log path",
			cfg:  Config{SidecarLog: "/var/log/app/sidecar.log"},
			want: "/var/log/app/sidecar.log.lock",
		},
		{
			name: "explicit lock path wins",
			cfg:  Config{SidecarLog: "/var/log/app/sidecar.log", SidecarLock: "/run/launch.lock"},
			want: "/run/launch.lock",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.LockPath(); got != tt.want {
				t.Errorf("LockPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDelegatePath(t *testing.T) {
	cfg := Config{DelegateDir: "/opt/app", DelegateName: "run.sh"}
	if got := cfg.DelegatePath(); got != "/opt/app/run.sh" {
		t.Errorf("DelegatePath() = %q, want %q", got, "/opt/app/run.sh")
	}
}

// =============================================================================
// Table-Driven Tests: Load (environment)
// =============================================================================

// mapLookup returns a LookupFunc backed by a map.
func mapLookup(env map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(mapLookup(nil))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("Load() with empty env = %+v, want defaults", cfg)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	env := map[string]string{
		EnvSidecarBin:      "/usr/local/bin/agent",
		EnvSidecarConfig:   "/etc/other/agent.yaml",
		EnvSidecarLog:      "/tmp/agent.log",
		EnvSidecarLock:     "/tmp/agent.lock",
		EnvSidecarDisabled: "true",
		EnvDelegateDir:     "/srv/app",
		EnvDelegateName:    "serve",
		EnvNoExec:          "1",
		EnvLogFormat:       "text",
		EnvVerbose:         "t",
	}

	cfg, err := Load(mapLookup(env))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{"SidecarBin", cfg.SidecarBin, "/usr/local/bin/agent"},
		{"SidecarConfig", cfg.SidecarConfig, "/etc/other/agent.yaml"},
		{"SidecarLog", cfg.SidecarLog, "/tmp/agent.log"},
		{"SidecarLock", cfg.SidecarLock, "/tmp/agent.lock"},
		{"SidecarDisabled", cfg.SidecarDisabled, true},
		{"DelegateDir", cfg.DelegateDir, "/srv/app"},
		{"DelegateName", cfg.DelegateName, "serve"},
		{"NoExec", cfg.NoExec, true},
		{"LogFormat", cfg.LogFormat, "text"},
		{"Verbose", cfg.Verbose, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestLoad_EmptyValueKeepsDefault(t *testing.T) {
	cfg, err := Load(mapLookup(map[string]string{EnvSidecarBin: ""}))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.SidecarBin != DefaultConfig().SidecarBin {
		t.Errorf("SidecarBin = %q, want default %q", cfg.SidecarBin, DefaultConfig().SidecarBin)
	}
}

func TestLoad_InvalidBool(t *testing.T) {
	_, err := Load(mapLookup(map[string]string{EnvNoExec: "maybe"}))
	if err == nil {
		t.Fatal("Load() expected error for invalid boolean, got nil")
	}
	if !strings.Contains(err.Error(), EnvNoExec) {
		t.Errorf("error %q should name the offending variable %s", err, EnvNoExec)
	}
}
