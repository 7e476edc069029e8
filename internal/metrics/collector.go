// Package metrics provides Prometheus metrics for go-sidecar-entrypoint.
//
// Metrics only exist in supervise (no-exec) dispatch mode: in exec mode the
// supervisor's process image is replaced by the delegate and nothing remains
// to be scraped.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/randomizedcoder/go-sidecar-entrypoint/internal/supervisor"
)

var (
	entrypointInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "entrypoint_info",
			Help: "Information about the entrypoint supervisor (value always 1)",
		},
		[]string{"version", "delegate", "sidecar_bin"},
	)

	entrypointState = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "entrypoint_state",
			Help: "Supervisor state (0=created 1=announced 2=sidecar_attempted 3=delegated 4=failed)",
		},
	)

	sidecarLaunchTimestamp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "entrypoint_sidecar_launch_timestamp_seconds",
			Help: "Unix time of the sidecar launch attempt",
		},
	)

	sidecarLaunchFailed = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "entrypoint_sidecar_launch_failed",
			Help: "1 when the sidecar launch attempt failed",
		},
	)

	delegateStartTimestamp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "entrypoint_delegate_start_timestamp_seconds",
			Help: "Unix time the delegate child was started",
		},
	)
)

// Collector records the supervisor's progress for Prometheus.
type Collector struct{}

// NewCollector registers the metrics with the default registerer.
func NewCollector() *Collector {
	return NewCollectorWithRegistry(prometheus.DefaultRegisterer)
}

// NewCollectorWithRegistry registers with a custom registry. Useful for
// testing.
func NewCollectorWithRegistry(registry prometheus.Registerer) *Collector {
	registry.MustRegister(
		entrypointInfo,
		entrypointState,
		sidecarLaunchTimestamp,
		sidecarLaunchFailed,
		delegateStartTimestamp,
	)
	return &Collector{}
}

// SetInfo records the static info labels.
func (c *Collector) SetInfo(version, delegateTarget, sidecarBin string) {
	entrypointInfo.WithLabelValues(version, delegateTarget, sidecarBin).Set(1)
}

// SetState records a state transition.
func (c *Collector) SetState(s supervisor.State) {
	entrypointState.Set(float64(s))
}

// RecordSidecarLaunch records the launch attempt and its outcome.
func (c *Collector) RecordSidecarLaunch(err error) {
	sidecarLaunchTimestamp.Set(float64(time.Now().Unix()))
	if err != nil {
		sidecarLaunchFailed.Set(1)
	} else {
		sidecarLaunchFailed.Set(0)
	}
}

// RecordDelegateStart records the hand-off to the delegate child.
func (c *Collector) RecordDelegateStart() {
	delegateStartTimestamp.Set(float64(time.Now().Unix()))
}
