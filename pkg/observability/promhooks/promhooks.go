// Package promhooks implements the observability hooks with Prometheus
// collectors.
//
// Register the hooks once at startup:
//
//	reg := prometheus.NewRegistry()
//	h := promhooks.New(reg)
//	observability.SetGraphHooks(h)
//	observability.SetQueryHooks(h)
package promhooks

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/pkggraph/pkg/buildinfo"
	"github.com/matzehuels/pkggraph/pkg/observability"
)

const namespace = "pkggraph"

// Hooks records graph and query events as Prometheus metrics.
// It is safe for concurrent use.
type Hooks struct {
	builds         *prometheus.CounterVec
	buildDuration  prometheus.Histogram
	packages       prometheus.Gauge
	edges          prometheus.Gauge
	featureGraphs  prometheus.Counter
	featureNodes   prometheus.Gauge
	closures       *prometheus.CounterVec
	closureReached prometheus.Histogram
	queryDuration  *prometheus.HistogramVec
	cyclesFound    prometheus.Gauge
	activations    *prometheus.CounterVec
	info           prometheus.Gauge
}

var (
	_ observability.GraphHooks = (*Hooks)(nil)
	_ observability.QueryHooks = (*Hooks)(nil)
)

// New creates the collectors and registers them with reg. It panics if a
// collector with the same name is already registered on reg.
func New(reg prometheus.Registerer) *Hooks {
	h := &Hooks{
		builds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "builds_total",
				Help:      "Number of package graph builds by result.",
			},
			[]string{"result"},
		),
		buildDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "build_duration_seconds",
				Help:      "Time taken to build a package graph.",
				Buckets:   prometheus.DefBuckets,
			},
		),
		packages: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "packages",
				Help:      "Number of packages in the last successfully built graph.",
			},
		),
		edges: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "edges",
				Help:      "Number of dependency edges in the last successfully built graph.",
			},
		),
		featureGraphs: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "feature_graphs_total",
				Help:      "Number of feature graphs derived.",
			},
		),
		featureNodes: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "feature_graph_nodes",
				Help:      "Number of nodes in the last derived feature graph.",
			},
		),
		closures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "closures_total",
				Help:      "Number of closure queries by direction.",
			},
			[]string{"direction"},
		),
		closureReached: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "closure_reached_packages",
				Help:      "Number of packages reached by closure queries.",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
			},
		),
		queryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "query_duration_seconds",
				Help:      "Time taken by queries.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"query"},
		),
		cyclesFound: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "cycles_found",
				Help:      "Number of cycles reported by the last cycle scan.",
			},
		),
		activations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "activations_total",
				Help:      "Number of feature activation queries by result.",
			},
			[]string{"result"},
		),
		info: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace:   namespace,
				Name:        "build_info",
				Help:        "Always 1; labelled with the pkggraph version and commit.",
				ConstLabels: buildinfo.Labels(),
			},
		),
	}
	h.info.Set(1)

	reg.MustRegister(
		h.builds,
		h.buildDuration,
		h.packages,
		h.edges,
		h.featureGraphs,
		h.featureNodes,
		h.closures,
		h.closureReached,
		h.queryDuration,
		h.cyclesFound,
		h.activations,
		h.info,
	)
	return h
}

// OnBuild implements observability.GraphHooks.
func (h *Hooks) OnBuild(packages, edges int, d time.Duration, err error) {
	h.builds.WithLabelValues(result(err)).Inc()
	h.buildDuration.Observe(d.Seconds())
	if err == nil {
		h.packages.Set(float64(packages))
		h.edges.Set(float64(edges))
	}
}

// OnFeatureGraph implements observability.GraphHooks.
func (h *Hooks) OnFeatureGraph(nodes, _ int, d time.Duration) {
	h.featureGraphs.Inc()
	h.featureNodes.Set(float64(nodes))
	h.queryDuration.WithLabelValues("feature_graph").Observe(d.Seconds())
}

// OnClosure implements observability.QueryHooks.
func (h *Hooks) OnClosure(direction string, _, reached int, d time.Duration) {
	h.closures.WithLabelValues(direction).Inc()
	h.closureReached.Observe(float64(reached))
	h.queryDuration.WithLabelValues("closure").Observe(d.Seconds())
}

// OnCycles implements observability.QueryHooks.
func (h *Hooks) OnCycles(found int, d time.Duration) {
	h.cyclesFound.Set(float64(found))
	h.queryDuration.WithLabelValues("cycles").Observe(d.Seconds())
}

// OnActivate implements observability.QueryHooks.
func (h *Hooks) OnActivate(_, _ int, d time.Duration, err error) {
	h.activations.WithLabelValues(result(err)).Inc()
	h.queryDuration.WithLabelValues("activate").Observe(d.Seconds())
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
