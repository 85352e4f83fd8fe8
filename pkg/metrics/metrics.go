package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ReasonGeometry  = "geometry"
	ReasonTimestamp = "timestamp"
	ReasonOther     = "other"
)

// Metrics records the outcome of corridor scans.
type Metrics struct {
	TracesRendered prometheus.Counter
	TracesSkipped  *prometheus.CounterVec
	RingVertices   prometheus.Histogram
	ScanDuration   prometheus.Histogram
	LastScanDrives prometheus.Gauge
}

// New registers the scan metrics on reg. Pass prometheus.NewRegistry() in
// tests to keep them isolated.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		TracesRendered: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "edit_area_age",
			Subsystem: "pipeline",
			Name:      "traces_rendered_total",
			Help:      "Traces turned into a corridor polygon",
		}),
		TracesSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "edit_area_age",
			Subsystem: "pipeline",
			Name:      "traces_skipped_total",
			Help:      "Traces skipped because they could not be rendered",
		}, []string{"reason"}),
		RingVertices: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "edit_area_age",
			Subsystem: "corridor",
			Name:      "ring_vertices",
			Help:      "Number of vertices in a corridor ring",
			Buckets:   prometheus.ExponentialBuckets(64, 2, 8),
		}),
		ScanDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "edit_area_age",
			Subsystem: "pipeline",
			Name:      "scan_duration_seconds",
			Help:      "Duration of a full corridor scan",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		LastScanDrives: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "edit_area_age",
			Subsystem: "pipeline",
			Name:      "last_scan_drives",
			Help:      "Drives rendered by the most recent scan",
		}),
	}
}

// WriteTextfile dumps everything gathered by g in the node_exporter textfile
// format.
func WriteTextfile(filename string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(filename, g)
}
