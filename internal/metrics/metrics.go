// Package metrics exposes Prometheus instrumentation of the runtime's
// scheduling core: queue depth, active workers, task completions and
// panics. Instruments are registered against the default Prometheus
// registry and served over /metrics via promhttp.
package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector collects Prometheus metrics for a Runtime. A nil *Collector
// is valid and every method on it is a no-op, so instrumentation can be
// wired in optionally (see asyncrt.WithMetrics) without forcing every
// caller to register collectors.
type Collector struct {
	tasksSpawned   prometheus.Counter
	tasksCompleted prometheus.Counter
	tasksPanicked  prometheus.Counter
	queueDepth     prometheus.Gauge
	activeWorkers  prometheus.Gauge
}

// NewCollector builds and registers a Collector against the default
// Prometheus registry.
func NewCollector() *Collector {
	c := &Collector{
		tasksSpawned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "asyncrt_tasks_spawned_total",
			Help: "Total number of computations submitted to the runtime.",
		}),
		tasksCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "asyncrt_tasks_completed_total",
			Help: "Total number of computations that reached Ready.",
		}),
		tasksPanicked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "asyncrt_tasks_panicked_total",
			Help: "Total number of poll steps that recovered a panic.",
		}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "asyncrt_queue_depth",
			Help: "Current number of Tasks waiting in the submission queue.",
		}),
		activeWorkers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "asyncrt_active_workers",
			Help: "Current number of running worker goroutines.",
		}),
	}

	prometheus.MustRegister(
		c.tasksSpawned,
		c.tasksCompleted,
		c.tasksPanicked,
		c.queueDepth,
		c.activeWorkers,
	)

	return c
}

// RecordSpawn records a computation having been submitted.
func (c *Collector) RecordSpawn() {
	if c == nil {
		return
	}
	c.tasksSpawned.Inc()
}

// RecordCompleted records a computation reaching Ready.
func (c *Collector) RecordCompleted() {
	if c == nil {
		return
	}
	c.tasksCompleted.Inc()
}

// RecordPanicked records a poll step that recovered a panic.
func (c *Collector) RecordPanicked() {
	if c == nil {
		return
	}
	c.tasksPanicked.Inc()
}

// SetQueueDepth reports the current submission queue length.
func (c *Collector) SetQueueDepth(n int) {
	if c == nil {
		return
	}
	c.queueDepth.Set(float64(n))
}

// SetActiveWorkers reports the current worker goroutine count.
func (c *Collector) SetActiveWorkers(n int) {
	if c == nil {
		return
	}
	c.activeWorkers.Set(float64(n))
}

// StartServer serves /metrics on addr via promhttp.Handler, blocking
// until the HTTP server returns an error. Intended for the CLI driver's
// --metrics-addr flag, not for use inside the scheduling core itself.
func (c *Collector) StartServer(addr string) error {
	if addr == "" {
		return fmt.Errorf("metrics: empty listen address")
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}
