// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package metrics counts device invocations and verdicts for export to a
// Prometheus textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds driver metrics. All methods are no-ops on a nil *Metrics.
type Metrics struct {
	registry *prometheus.Registry

	Invocations     *prometheus.CounterVec
	Unresponsive    *prometheus.CounterVec
	Verdicts        *prometheus.CounterVec
	BudgetRemaining *prometheus.GaugeVec
	ModuleSeconds   *prometheus.GaugeVec
}

// New creates Metrics registered to a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		Invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ohdriver_invocations_total",
			Help: "Number of device invocations issued, by tier",
		}, []string{"module", "tier"}),

		Unresponsive: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ohdriver_unresponsive_invocations_total",
			Help: "Number of invocations that timed out or lost the device",
		}, []string{"module", "tier"}),

		Verdicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ohdriver_verdicts_total",
			Help: "Number of final test verdicts, by verdict",
		}, []string{"module", "verdict"}),

		BudgetRemaining: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ohdriver_rerun_budget_remaining",
			Help: "Serial rerun budget left when the module finished",
		}, []string{"module"}),

		ModuleSeconds: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ohdriver_module_duration_seconds",
			Help: "Wall time spent running a module",
		}, []string{"module"}),
	}
	m.registry.MustRegister(m.Invocations, m.Unresponsive, m.Verdicts, m.BudgetRemaining, m.ModuleSeconds)
	return m
}

// Registry returns the registry holding all metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveInvocation records an invocation of module in tier.
func (m *Metrics) ObserveInvocation(module, tier string, unresponsive bool) {
	if m == nil {
		return
	}
	m.Invocations.WithLabelValues(module, tier).Inc()
	if unresponsive {
		m.Unresponsive.WithLabelValues(module, tier).Inc()
	}
}

// ObserveVerdict records a final verdict of a test in module.
func (m *Metrics) ObserveVerdict(module, verdict string) {
	if m == nil {
		return
	}
	m.Verdicts.WithLabelValues(module, verdict).Inc()
}

// ObserveModule records the remaining rerun budget and duration of module.
func (m *Metrics) ObserveModule(module string, budget int, d time.Duration) {
	if m == nil {
		return
	}
	m.BudgetRemaining.WithLabelValues(module).Set(float64(budget))
	m.ModuleSeconds.WithLabelValues(module).Set(d.Seconds())
}

// WriteTextfile writes all metrics to path in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
