package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics implements every hook interface by recording Prometheus metrics
// in its own registry.
type Metrics struct {
	registry *prometheus.Registry

	stageDuration  *prometheus.GaugeVec
	stageErrors    *prometheus.CounterVec
	ingestItems    *prometheus.GaugeVec
	ingestFailed   *prometheus.GaugeVec
	graphNodes     prometheus.Gauge
	graphEdges     prometheus.Gauge
	problems       *prometheus.GaugeVec
	passDuration   *prometheus.GaugeVec
	artifactBytes  *prometheus.GaugeVec
	artifactErrors *prometheus.CounterVec
	lastRun        prometheus.Gauge
}

// NewMetrics creates a Metrics with a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		stageDuration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pkgcheck_stage_duration_seconds",
			Help: "Wall time of each pipeline stage in the last run.",
		}, []string{"stage"}),
		stageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pkgcheck_stage_errors_total",
			Help: "Number of failed pipeline stages.",
		}, []string{"stage"}),
		ingestItems: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pkgcheck_ingested_items",
			Help: "Number of records ingested per source in the last run.",
		}, []string{"source"}),
		ingestFailed: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pkgcheck_ingest_skipped_items",
			Help: "Number of skipped malformed records per source in the last run.",
		}, []string{"source"}),
		graphNodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pkgcheck_graph_nodes",
			Help: "Number of package names in the dependency graph.",
		}),
		graphEdges: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pkgcheck_graph_edges",
			Help: "Number of dependency edges in the dependency graph.",
		}),
		problems: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pkgcheck_problems",
			Help: "Number of problems found per kind in the last run.",
		}, []string{"kind"}),
		passDuration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pkgcheck_detector_duration_seconds",
			Help: "Wall time of each detector pass in the last run.",
		}, []string{"kind"}),
		artifactBytes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pkgcheck_artifact_bytes",
			Help: "Size of each persisted artifact.",
		}, []string{"kind"}),
		artifactErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pkgcheck_artifact_read_errors_total",
			Help: "Number of artifacts that could not be read.",
		}, []string{"kind"}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pkgcheck_last_run_timestamp_seconds",
			Help: "Unix time the last pipeline stage completed.",
		}),
	}
	m.registry.MustRegister(
		m.stageDuration,
		m.stageErrors,
		m.ingestItems,
		m.ingestFailed,
		m.graphNodes,
		m.graphEdges,
		m.problems,
		m.passDuration,
		m.artifactBytes,
		m.artifactErrors,
		m.lastRun,
	)
	return m
}

// Registry returns the registry the metrics are recorded in.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// WriteTextfile writes every metric to path in the Prometheus text format,
// replacing the file atomically.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

func (m *Metrics) OnStageStart(context.Context, string) {}

func (m *Metrics) OnStageComplete(_ context.Context, stage string, d time.Duration, err error) {
	m.stageDuration.WithLabelValues(stage).Set(d.Seconds())
	if err != nil {
		m.stageErrors.WithLabelValues(stage).Inc()
	}
	m.lastRun.SetToCurrentTime()
}

func (m *Metrics) OnIngest(_ context.Context, source string, items, failed int) {
	m.ingestItems.WithLabelValues(source).Set(float64(items))
	m.ingestFailed.WithLabelValues(source).Set(float64(failed))
}

func (m *Metrics) OnGraphBuilt(_ context.Context, nodes, edges int) {
	m.graphNodes.Set(float64(nodes))
	m.graphEdges.Set(float64(edges))
}

func (m *Metrics) OnPassComplete(_ context.Context, kind string, problems int, d time.Duration) {
	m.problems.WithLabelValues(kind).Set(float64(problems))
	m.passDuration.WithLabelValues(kind).Set(d.Seconds())
}

func (m *Metrics) OnArtifactWrite(_ context.Context, kind string, size int) {
	m.artifactBytes.WithLabelValues(kind).Set(float64(size))
}

func (m *Metrics) OnArtifactRead(_ context.Context, kind string, size int, err error) {
	if err != nil {
		m.artifactErrors.WithLabelValues(kind).Inc()
		return
	}
	m.artifactBytes.WithLabelValues(kind).Set(float64(size))
}
