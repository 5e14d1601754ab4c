// Package metrics holds Prometheus instruments used internally across the
// service. They are registered with the global registry for process
// introspection (e.g. via an operator's own scrape of a debug endpoint the
// host binary chooses to wire); no HTTP /metrics exposition is built here —
// that surface is explicitly out of scope.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	DagDocumentsLoaded = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "dag_documents_loaded",
			Help: "Number of documents present in the current DAG snapshot.",
		})

	DagReloadsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dag_reloads_total",
			Help: "Cumulative number of completed DAG reloads.",
		})

	DagRendersTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dag_renders_total",
			Help: "Cumulative number of documents successfully rendered.",
		})

	DagRenderErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dag_render_errors_total",
			Help: "Cumulative number of render failures (cycles, import errors).",
		})

	DagEntryCacheSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "dagentry_cache_size",
			Help: "Number of commit-pinned DagEntry instances currently cached.",
		})

	DagEntryLoadTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dagentry_load_total",
			Help: "Cumulative number of DagEntry instances constructed for a commit.",
		})

	DagEntryLoadErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dagentry_load_errors_total",
			Help: "Cumulative number of DagEntry construction failures.",
		})

	DagEntryEvictTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dagentry_evict_total",
			Help: "Cumulative number of DagEntry instances evicted from the cache.",
		})
)

func init() {
	prometheus.MustRegister(
		DagDocumentsLoaded,
		DagReloadsTotal,
		DagRendersTotal,
		DagRenderErrorsTotal,
		DagEntryCacheSize,
		DagEntryLoadTotal,
		DagEntryLoadErrorsTotal,
		DagEntryEvictTotal,
	)
}
