// Package metrics exposes Prometheus collectors for the processing
// template: an invocation counter and a phase-duration histogram (labeled
// by algorithm and mode), a counter for termination trips, and a
// histogram of WCC component counts.
// These complement (not replace) the per-call progress tracker in
// pkg/progress — metrics answer "how has this engine behaved over its
// lifetime", progress answers "how far along is this one call".
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collectors bundles every metric the processing template and a handful
// of algorithms report to. Constructed once per process and threaded
// through pkg/core's template.
type Collectors struct {
	Invocations        *prometheus.CounterVec
	InvocationDuration *prometheus.HistogramVec
	Terminations       *prometheus.CounterVec
	ComponentsFound    *prometheus.HistogramVec
}

// NewCollectors builds and registers every collector against registry.
// Pass prometheus.NewRegistry() in tests to avoid collisions with the
// default global registry across parallel test packages.
func NewCollectors(registry prometheus.Registerer) *Collectors {
	c := &Collectors{
		Invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gds",
			Name:      "algorithm_invocations_total",
			Help:      "Count of algorithm mode invocations.",
		}, []string{"algorithm", "mode"}),
		InvocationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gds",
			Name:      "algorithm_invocation_duration_seconds",
			Help:      "Wall-clock duration of an algorithm mode invocation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"algorithm", "mode", "phase"}),
		Terminations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gds",
			Name:      "algorithm_terminations_total",
			Help:      "Count of algorithm invocations that tripped the termination flag.",
		}, []string{"algorithm"}),
		ComponentsFound: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gds",
			Name:      "wcc_components_found",
			Help:      "Number of components found by WCC invocations.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}, []string{}),
	}
	registry.MustRegister(c.Invocations, c.InvocationDuration, c.Terminations, c.ComponentsFound)
	return c
}

// ObservePhase records the duration of one processing-template phase
// (pre-processing/compute/side-effect) in seconds.
func (c *Collectors) ObservePhase(algorithm, mode, phase string, seconds float64) {
	c.InvocationDuration.WithLabelValues(algorithm, mode, phase).Observe(seconds)
}

func (c *Collectors) RecordInvocation(algorithm, mode string) {
	c.Invocations.WithLabelValues(algorithm, mode).Inc()
}

func (c *Collectors) RecordTermination(algorithm string) {
	c.Terminations.WithLabelValues(algorithm).Inc()
}

// RecordComponentsFound observes one WCC invocation's component count.
func (c *Collectors) RecordComponentsFound(count int64) {
	c.ComponentsFound.WithLabelValues().Observe(float64(count))
}
