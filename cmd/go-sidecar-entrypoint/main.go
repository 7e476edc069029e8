// Package main provides the go-sidecar-entrypoint CLI entry point.
//
// go-sidecar-entrypoint is a container entrypoint supervisor: it announces
// startup, launches an auxiliary sidecar service in the background with its
// output captured to a log file, and then replaces itself with the real
// entrypoint program, forwarding every argument it received unchanged.
//
// Because the whole command line belongs to the delegate, the supervisor is
// configured exclusively through ENTRYPOINT_* environment variables (see
// internal/config).
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/randomizedcoder/go-sidecar-entrypoint/internal/banner"
	"github.com/randomizedcoder/go-sidecar-entrypoint/internal/config"
	"github.com/randomizedcoder/go-sidecar-entrypoint/internal/delegate"
	"github.com/randomizedcoder/go-sidecar-entrypoint/internal/logging"
	"github.com/randomizedcoder/go-sidecar-entrypoint/internal/metrics"
	"github.com/randomizedcoder/go-sidecar-entrypoint/internal/preflight"
	"github.com/randomizedcoder/go-sidecar-entrypoint/internal/sidecar"
	"github.com/randomizedcoder/go-sidecar-entrypoint/internal/supervisor"
)

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=1.0.0" ./cmd/go-sidecar-entrypoint
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return 1
	}

	logger := logging.New(cfg.LogFormat, cfg.Verbose)
	logging.SetDefault(logger)

	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return 1
	}

	launcher := &sidecar.Launcher{
		BinaryPath: cfg.SidecarBin,
		ConfigPath: cfg.SidecarConfig,
		LogPath:    cfg.SidecarLog,
		LockPath:   cfg.LockPath(),
		Logger:     logger,
	}

	dispatcher := &delegate.Dispatcher{
		Dir:    cfg.DelegateDir,
		Name:   cfg.DelegateName,
		NoExec: cfg.NoExec,
		Logger: logger,
	}

	// Diagnostic mode: show what would run, launch nothing.
	if cfg.PrintCmd {
		fmt.Printf("# sidecar command:\n%s\n", launcher.CommandString())
		fmt.Printf("# delegate target:\n%s\n", cfg.DelegatePath())
		return 0
	}

	logger.Info("starting",
		"version", version,
		"sidecar_bin", cfg.SidecarBin,
		"sidecar_config", cfg.SidecarConfig,
		"sidecar_log", cfg.SidecarLog,
		"delegate", cfg.DelegatePath(),
		"no_exec", cfg.NoExec,
	)

	if !cfg.SkipPreflight {
		result := preflight.RunAll(cfg)
		for _, check := range result.Checks {
			if check.Passed {
				logger.Debug("preflight_check", "summary", check.String())
			} else {
				// Advisory only: the dispatch below is always attempted
				// and produces the authoritative failure.
				logger.Warn("preflight_check_failed", "summary", check.String())
			}
		}
	}

	sup := supervisor.New(supervisor.Config{
		Announcer:       announcer{cfg: cfg},
		Launcher:        launcher,
		Dispatcher:      dispatcher,
		Logger:          logger,
		Callbacks:       buildCallbacks(cfg, logger),
		Args:            os.Args[1:],
		SidecarDisabled: cfg.SidecarDisabled,
	})

	code, err := sup.Run(context.Background())
	if err != nil {
		logger.Error("entrypoint_failed", "error", err)
		return 1
	}

	// Only reachable in supervise (no-exec) mode: propagate the delegate's
	// exit code as our own.
	return code
}

// buildCallbacks wires the supervisor's hooks to Prometheus in supervise
// mode. In exec mode nothing outlives the hand-off, so no metrics exist.
func buildCallbacks(cfg *config.Config, logger *slog.Logger) supervisor.Callbacks {
	if !cfg.NoExec || cfg.MetricsAddr == "" {
		return supervisor.Callbacks{}
	}

	collector := metrics.NewCollector()
	collector.SetInfo(version, cfg.DelegatePath(), cfg.SidecarBin)

	srv := metrics.NewServer(cfg.MetricsAddr, logger)
	srv.Start()

	return supervisor.Callbacks{
		OnStateChange: func(_, newState supervisor.State) {
			collector.SetState(newState)
		},
		OnSidecarLaunched: func(err error) {
			collector.RecordSidecarLaunch(err)
		},
		OnDelegating: func(target string, args []string) {
			collector.RecordDelegateStart()
		},
	}
}

// announcer adapts the banner package to the supervisor's Announcer
// interface.
type announcer struct {
	cfg *config.Config
}

func (a announcer) Announce(w io.Writer) {
	banner.Print(w, banner.Info{
		Version:         version,
		SidecarBin:      a.cfg.SidecarBin,
		SidecarConfig:   a.cfg.SidecarConfig,
		SidecarLog:      a.cfg.SidecarLog,
		SidecarDisabled: a.cfg.SidecarDisabled,
		DelegateTarget:  a.cfg.DelegatePath(),
		NoExec:          a.cfg.NoExec,
	})
}
